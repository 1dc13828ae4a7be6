// Package entity defines the domain models for the symboldictionary feature.
package entity

// Entry is a proposed mapping from a symbol at an external market-data source
// to a canonical ticker. Validity is decided at registration time against the
// source's live symbol list and is never stored on the entry itself.
type Entry struct {
	Source         string // Source identifier (e.g. "twelvedata", "banks")
	ExternalSymbol string // Symbol as spelled by the source (e.g. "ITUB3.SAO")
	Ticker         string // Canonical internal ticker (e.g. "ITUB3")
}

// PersistedEntry is a registered dictionary entry.
// ID is assigned by the source worker that stored it and is opaque to callers.
type PersistedEntry struct {
	ID             string
	Source         string
	ExternalSymbol string
	Ticker         string
}

// Entry returns the proposed mapping this record was created from.
func (p PersistedEntry) Entry() Entry {
	return Entry{Source: p.Source, ExternalSymbol: p.ExternalSymbol, Ticker: p.Ticker}
}
