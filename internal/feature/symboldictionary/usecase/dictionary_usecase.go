package usecase

import (
	"context"
	"fmt"
	"strings"

	"invest_backend/internal/feature/symboldictionary/domain/entity"
)

// DictionaryReader は登録済み辞書エントリの読み取りレイヤーを抽象化します。
type DictionaryReader interface {
	// FindBySourceSymbol はソースと外部シンボルに一致するエントリを返します。
	// 見つからない場合は ErrEntryNotFound を返します。
	FindBySourceSymbol(ctx context.Context, source, externalSymbol string) (entity.PersistedEntry, error)
	// FindByTicker は正規ティッカーに対応するすべてのエントリを返します。
	FindByTicker(ctx context.Context, ticker string) ([]entity.PersistedEntry, error)
}

// DictionaryUsecase は登録済み辞書エントリの参照を提供します。
type DictionaryUsecase struct {
	reader DictionaryReader
}

// NewDictionaryUsecase は新しい DictionaryUsecase を作成します。
func NewDictionaryUsecase(reader DictionaryReader) *DictionaryUsecase {
	return &DictionaryUsecase{reader: reader}
}

// Resolve は外部シンボルを正規ティッカーのエントリに解決します。
func (u *DictionaryUsecase) Resolve(ctx context.Context, source, externalSymbol string) (entity.PersistedEntry, error) {
	source = strings.TrimSpace(source)
	externalSymbol = strings.TrimSpace(externalSymbol)
	if source == "" || externalSymbol == "" {
		return entity.PersistedEntry{}, fmt.Errorf("%w: source and symbol are required", ErrInvalidSymbolDictionaryEntry)
	}
	return u.reader.FindBySourceSymbol(ctx, source, externalSymbol)
}

// ListByTicker は正規ティッカーに対応するエントリを返します。
// 1つのティッカーが複数のソースから参照されることがあります。
func (u *DictionaryUsecase) ListByTicker(ctx context.Context, ticker string) ([]entity.PersistedEntry, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", ErrInvalidSymbolDictionaryEntry)
	}
	return u.reader.FindByTicker(ctx, ticker)
}
