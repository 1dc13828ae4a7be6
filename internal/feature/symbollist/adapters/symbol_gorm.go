// Package adapters はsymbollistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"invest_backend/internal/feature/symbollist/domain/entity"
	"invest_backend/internal/feature/symbollist/usecase"
)

// symbolGorm はSymbolRepositoryインターフェースのGORM実装です。
type symbolGorm struct {
	db *gorm.DB
}

var _ usecase.SymbolRepository = (*symbolGorm)(nil)

// NewSymbolRepository は指定されたDB接続でsymbolGormリポジトリの新しいインスタンスを生成します。
func NewSymbolRepository(db *gorm.DB) *symbolGorm {
	return &symbolGorm{db: db}
}

// activeScope は有効な銘柄をsort_key順に絞り込みます。market が空の場合は全市場が対象です。
func activeScope(market string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_active = ?", true)
		if market != "" {
			db = db.Where("market = ?", market)
		}
		return db.Order("sort_key ASC").Order("code ASC")
	}
}

// ListActive は有効な銘柄を返します。
func (r *symbolGorm) ListActive(ctx context.Context, market string) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	if err := r.db.WithContext(ctx).
		Scopes(activeScope(market)).
		Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// ListActiveCodes は有効な銘柄のコードのみを返します。
func (r *symbolGorm) ListActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Symbol{}).
		Scopes(activeScope("")).
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}
