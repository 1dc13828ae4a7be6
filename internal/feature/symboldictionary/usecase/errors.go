// Package usecase implements the business logic for the symboldictionary feature.
package usecase

import "errors"

var (
	// ErrUnknownSource is returned by a SourceLocator asked for a source it does not know.
	ErrUnknownSource = errors.New("unknown source")

	// ErrInvalidSymbolDictionaryEntry is returned when an entry names an unknown source
	// or a symbol that is not currently valid at its source.
	ErrInvalidSymbolDictionaryEntry = errors.New("invalid symbol dictionary entry")

	// ErrEntryNotFound is returned when no dictionary entry matches a lookup.
	ErrEntryNotFound = errors.New("dictionary entry not found")
)
