// Package dto defines data transfer objects for the symboldictionary HTTP API.
package dto

import "invest_backend/internal/feature/symboldictionary/domain/entity"

// RegisterTickerRequest is the body of POST /dictionary/tickers/:ticker.
// Keys are source identifiers and values are the symbols those sources use
// for the ticker in the route, e.g. {"twelvedata": "7203", "alphavantage": "TM"}.
type RegisterTickerRequest map[string]string

// EntryInput is one proposed mapping in a batch or single registration.
type EntryInput struct {
	Source string `json:"source" binding:"required"`
	Symbol string `json:"symbol" binding:"required"`
	Ticker string `json:"ticker" binding:"required"`
}

// ToEntity converts the input into a domain entry.
func (in EntryInput) ToEntity() entity.Entry {
	return entity.Entry{Source: in.Source, ExternalSymbol: in.Symbol, Ticker: in.Ticker}
}

// RegisterEntriesRequest is the body of POST /dictionary/entries.
type RegisterEntriesRequest struct {
	Entries []EntryInput `json:"entries" binding:"required,dive"`
}

// EntryResponse is a registered dictionary entry.
type EntryResponse struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Symbol string `json:"symbol"`
	Ticker string `json:"ticker"`
}

// SourcesResponse lists the known source identifiers.
type SourcesResponse struct {
	Sources []string `json:"sources"`
}

// FromEntity converts a persisted entry into its response form.
func FromEntity(p entity.PersistedEntry) EntryResponse {
	return EntryResponse{ID: p.ID, Source: p.Source, Symbol: p.ExternalSymbol, Ticker: p.Ticker}
}

// FromEntities converts persisted entries, never returning nil.
func FromEntities(ps []entity.PersistedEntry) []EntryResponse {
	out := make([]EntryResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromEntity(p))
	}
	return out
}
