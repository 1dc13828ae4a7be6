// Package adapters はsymboldictionaryフィーチャーのリポジトリ実装とソースワーカーを提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invest_backend/internal/feature/symboldictionary/domain/entity"
	"invest_backend/internal/feature/symboldictionary/usecase"
)

// DictionaryEntryModel は symbol_dictionary テーブルのGORMモデルです。
// (source, external_symbol) の組は一意で、同じ組の再登録はティッカーを更新します。
type DictionaryEntryModel struct {
	ID             string    `gorm:"primaryKey;size:36"`
	Source         string    `gorm:"size:32;not null;uniqueIndex:dict_src_sym,priority:1"`
	ExternalSymbol string    `gorm:"size:32;not null;uniqueIndex:dict_src_sym,priority:2"`
	Ticker         string    `gorm:"size:20;not null;index"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// TableName はGORMが使用するテーブル名を返します。
func (DictionaryEntryModel) TableName() string {
	return "symbol_dictionary"
}

func (m DictionaryEntryModel) toEntity() entity.PersistedEntry {
	return entity.PersistedEntry{
		ID:             m.ID,
		Source:         m.Source,
		ExternalSymbol: m.ExternalSymbol,
		Ticker:         m.Ticker,
	}
}

// dictionaryGorm は辞書エントリのGORM実装です。
type dictionaryGorm struct {
	db *gorm.DB
}

var _ usecase.DictionaryReader = (*dictionaryGorm)(nil)
var _ DictionaryStore = (*dictionaryGorm)(nil)

// NewDictionaryRepository は指定されたDB接続で辞書リポジトリを生成します。
func NewDictionaryRepository(db *gorm.DB) *dictionaryGorm {
	return &dictionaryGorm{db: db}
}

// Save はエントリを upsert し、保存後のレコードを返します。
// 既に同じ (source, external_symbol) が存在する場合は既存のIDを維持します。
func (r *dictionaryGorm) Save(ctx context.Context, e entity.PersistedEntry) (entity.PersistedEntry, error) {
	var saved DictionaryEntryModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := DictionaryEntryModel{
			ID:             e.ID,
			Source:         e.Source,
			ExternalSymbol: e.ExternalSymbol,
			Ticker:         e.Ticker,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source"}, {Name: "external_symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{"ticker", "updated_at"}),
		}).Create(&m).Error; err != nil {
			return err
		}
		return tx.Where("source = ? AND external_symbol = ?", e.Source, e.ExternalSymbol).
			First(&saved).Error
	})
	if err != nil {
		return entity.PersistedEntry{}, err
	}
	return saved.toEntity(), nil
}

// FindBySourceSymbol はソースと外部シンボルでエントリを取得します。
// 見つからない場合は usecase.ErrEntryNotFound を返します。
func (r *dictionaryGorm) FindBySourceSymbol(ctx context.Context, source, externalSymbol string) (entity.PersistedEntry, error) {
	var m DictionaryEntryModel
	if err := r.db.WithContext(ctx).
		Where("source = ? AND external_symbol = ?", source, externalSymbol).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.PersistedEntry{}, usecase.ErrEntryNotFound
		}
		return entity.PersistedEntry{}, err
	}
	return m.toEntity(), nil
}

// FindByTicker は正規ティッカーに対応するエントリをソース順に返します。
func (r *dictionaryGorm) FindByTicker(ctx context.Context, ticker string) ([]entity.PersistedEntry, error) {
	var rows []DictionaryEntryModel
	if err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("source ASC").
		Order("external_symbol ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.PersistedEntry, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}
