// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"invest_backend/internal/feature/symboldictionary/adapters"
	"invest_backend/internal/platform/cache"
	"invest_backend/internal/platform/externalapi/alphavantage"
	"invest_backend/internal/platform/externalapi/twelvedata"
	infrahttp "invest_backend/internal/platform/http"
	"invest_backend/internal/shared/ratelimiter"
)

// 外部APIの無料プランに合わせた呼び出し上限
const (
	twelveDataCallsPerMinute   = 8
	alphaVantageCallsPerMinute = 5
)

// CodeLister はローカル銘柄テーブルの有効コードを返します（symbollist usecase）。
type CodeLister interface {
	ListSymbols(ctx context.Context) ([]string, error)
}

// DictionaryDeps は辞書ソースの組み立てに必要な依存です。
type DictionaryDeps struct {
	DB      *gorm.DB
	Redis   *redis.Client // nil の場合はキャッシュなし
	Metrics adapters.WorkerMetrics
	Codes   CodeLister
}

// NewSourceLocator はカタログの各ソースについてワーカーを組み立て、ロケーターを作成します。
// すべてのワーカーは同じ辞書テーブルに書き込みます。
func NewSourceLocator(catalog adapters.Catalog, deps DictionaryDeps) (*adapters.SourceLocator, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	store := adapters.NewDictionaryRepository(deps.DB)

	workers := make([]adapters.NamedWorker, 0, len(catalog.Sources))
	for _, src := range catalog.Sources {
		lister, err := NewSymbolLister(src, deps)
		if err != nil {
			return nil, err
		}
		workers = append(workers, adapters.NamedWorker{
			Source: src.Name,
			Worker: adapters.NewSourceWorker(src.Name, lister, store, deps.Metrics),
		})
		slog.Info("dictionary source configured", "source", src.Name, "kind", src.Kind, "cache_ttl", cacheTTL(src, deps))
	}
	return adapters.NewSourceLocator(workers...)
}

// NewSymbolLister はソース設定から有効シンボルの取得元を作成します。
// 外部APIはレートリミッターでラップします。
// CacheTTL 指定時のみ、その期間だけRedisで一覧を共有します（既定では毎回最新の一覧で判定）。
func NewSymbolLister(src adapters.SourceConfig, deps DictionaryDeps) (adapters.SymbolLister, error) {
	var lister adapters.SymbolLister
	switch src.Kind {
	case adapters.KindTwelveData:
		cfg := twelvedata.LoadConfig()
		client := twelvedata.NewSymbolClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout),
			twelvedata.ListOptions{Exchange: src.Exchange, Suffix: src.Suffix})
		lister = adapters.NewRateLimitedLister(client, ratelimiter.NewRateLimiter(twelveDataCallsPerMinute, time.Minute))
	case adapters.KindAlphaVantage:
		cfg := alphavantage.LoadConfig()
		client := alphavantage.NewListingClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout),
			alphavantage.ListOptions{Exchange: src.Exchange, Suffix: src.Suffix})
		lister = adapters.NewRateLimitedLister(client, ratelimiter.NewRateLimiter(alphaVantageCallsPerMinute, time.Minute))
	case adapters.KindSymbolList:
		if deps.Codes == nil {
			return nil, fmt.Errorf("source %q: symbol list is not available", src.Name)
		}
		lister = adapters.ListerFunc(deps.Codes.ListSymbols)
	case adapters.KindStatic:
		lister = adapters.StaticLister(src.Symbols)
	default:
		return nil, fmt.Errorf("source %q: unknown kind %q", src.Name, src.Kind)
	}

	if ttl := cacheTTL(src, deps); ttl > 0 {
		lister = cache.NewCachingSymbolLister(deps.Redis, ttl, lister, cache.DefaultNamespace, src.Name)
	}
	return lister, nil
}

func cacheTTL(src adapters.SourceConfig, deps DictionaryDeps) time.Duration {
	if deps.Redis == nil {
		return 0
	}
	return src.CacheTTL
}
