package adapters

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ソースの種類。Kind ごとに有効シンボルの取得元が異なります。
const (
	KindTwelveData   = "twelvedata"   // Twelve Data /stocks
	KindAlphaVantage = "alphavantage" // Alpha Vantage LISTING_STATUS
	KindSymbolList   = "symbollist"   // ローカルの銘柄テーブル（有効な銘柄コード）
	KindStatic       = "static"       // 設定ファイルに書かれた固定リスト
)

// MaxCacheTTL は有効シンボル一覧をキャッシュできる最長期間です。
// キャッシュ中は上場廃止や新規上場が登録判定に反映されないため、短く制限します。
const MaxCacheTTL = 15 * time.Minute

// SourceConfig は1つのソースの設定です。
type SourceConfig struct {
	Name     string        `yaml:"name"`
	Kind     string        `yaml:"kind"`
	Exchange string        `yaml:"exchange,omitempty"`  // 外部APIの取引所フィルタ
	Suffix   string        `yaml:"suffix,omitempty"`    // シンボルに付与する接尾辞（例: ".SAO"）
	Symbols  []string      `yaml:"symbols,omitempty"`   // static のみ
	CacheTTL time.Duration `yaml:"cache_ttl,omitempty"` // 0 はキャッシュしない（既定）。最大 MaxCacheTTL
}

// Catalog はソースの一覧です。並び順が KnownSources の順序になります。
type Catalog struct {
	Sources []SourceConfig `yaml:"sources"`
}

// DefaultCatalog は設定ファイルが指定されていない場合のカタログを返します。
func DefaultCatalog() Catalog {
	return Catalog{Sources: []SourceConfig{
		{Name: "twelvedata", Kind: KindTwelveData, Exchange: "JPX", Suffix: ".T"},
		{Name: "alphavantage", Kind: KindAlphaVantage},
		{Name: "catalog", Kind: KindSymbolList},
	}}
}

// LoadCatalog はYAMLファイルからカタログを読み込みます。path が空の場合は DefaultCatalog を返します。
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read source catalog: %w", err)
	}
	return ParseCatalog(b)
}

// ParseCatalog はYAMLを解析し、カタログを検証します。
func ParseCatalog(b []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse source catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// Validate はソース名の一意性と種類ごとの必須項目を検証します。
func (c Catalog) Validate() error {
	if len(c.Sources) == 0 {
		return errors.New("source catalog is empty")
	}
	seen := make(map[string]struct{}, len(c.Sources))
	for i, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("source #%d: name is required", i+1)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("source %q: duplicate name", s.Name)
		}
		seen[s.Name] = struct{}{}

		if s.CacheTTL < 0 || s.CacheTTL > MaxCacheTTL {
			return fmt.Errorf("source %q: cache_ttl must be between 0 and %s", s.Name, MaxCacheTTL)
		}

		switch s.Kind {
		case KindTwelveData, KindAlphaVantage, KindSymbolList:
		case KindStatic:
			if len(s.Symbols) == 0 {
				return fmt.Errorf("source %q: static source needs symbols", s.Name)
			}
		default:
			return fmt.Errorf("source %q: unknown kind %q", s.Name, s.Kind)
		}
	}
	return nil
}
