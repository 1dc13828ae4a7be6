// Package usecase implements the business logic for the internal ticker list.
package usecase

import (
	"context"
	"strings"

	"invest_backend/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for internal tickers.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context, market string) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns active symbols, optionally restricted to one market.
// The market name is matched case-insensitively after trimming.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context, market string) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx, strings.ToUpper(strings.TrimSpace(market)))
}

// ListSymbols returns the codes of all active symbols.
// It lets the internal ticker list act as a dictionary source.
func (u *SymbolUsecase) ListSymbols(ctx context.Context) ([]string, error) {
	codes, err := u.repo.ListActiveCodes(ctx)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}
