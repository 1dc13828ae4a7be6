package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"invest_backend/internal/feature/symboldictionary/domain/entity"
	"invest_backend/internal/feature/symboldictionary/usecase"
)

// SymbolLister はソースで現在有効な外部シンボルの一覧を返します。
// 外部API、ローカルの銘柄テーブル、設定ファイルの固定リストなどが実装します。
type SymbolLister interface {
	ListSymbols(ctx context.Context) ([]string, error)
}

// ListerFunc は関数を SymbolLister として扱うためのアダプターです。
type ListerFunc func(ctx context.Context) ([]string, error)

// ListSymbols は f(ctx) を呼び出します。
func (f ListerFunc) ListSymbols(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// StaticLister は固定のシンボル一覧を返す SymbolLister です。
type StaticLister []string

// ListSymbols は固定リストのコピーを返します。
func (s StaticLister) ListSymbols(ctx context.Context) ([]string, error) {
	out := make([]string, len(s))
	copy(out, s)
	return out, nil
}

// DictionaryStore は辞書エントリの書き込みレイヤーを抽象化します。
type DictionaryStore interface {
	Save(ctx context.Context, e entity.PersistedEntry) (entity.PersistedEntry, error)
}

// WorkerMetrics はワーカーの呼び出し結果を記録します。
type WorkerMetrics interface {
	ObserveFetch(source string, symbols int, elapsed time.Duration, err error)
	ObserveRegister(source string, err error)
}

type noopMetrics struct{}

func (noopMetrics) ObserveFetch(string, int, time.Duration, error) {}
func (noopMetrics) ObserveRegister(string, error)                  {}

// sourceWorker は1つのソースに対する usecase.SourceWorker 実装です。
// 有効シンボルは lister から取得し、エントリは store に保存します。
type sourceWorker struct {
	source  string
	lister  SymbolLister
	store   DictionaryStore
	metrics WorkerMetrics
	newID   func() string
}

var _ usecase.SourceWorker = (*sourceWorker)(nil)

// NewSourceWorker は指定ソースのワーカーを生成します。metrics が nil の場合は記録しません。
func NewSourceWorker(source string, lister SymbolLister, store DictionaryStore, metrics WorkerMetrics) *sourceWorker {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &sourceWorker{
		source:  source,
		lister:  lister,
		store:   store,
		metrics: metrics,
		newID:   uuid.NewString,
	}
}

// ValidSymbols はソースで現在有効な外部シンボルを返します。
func (w *sourceWorker) ValidSymbols(ctx context.Context) ([]string, error) {
	start := time.Now()
	symbols, err := w.lister.ListSymbols(ctx)
	w.metrics.ObserveFetch(w.source, len(symbols), time.Since(start), err)
	if err != nil {
		slog.Error("failed to list source symbols", "source", w.source, "error", err)
		return nil, fmt.Errorf("list %s symbols: %w", w.source, err)
	}
	return symbols, nil
}

// Register はエントリにIDを割り当てて保存します。
// 別ソース宛てのエントリは受け付けません。
func (w *sourceWorker) Register(ctx context.Context, e entity.Entry) (entity.PersistedEntry, error) {
	if e.Source != w.source {
		err := fmt.Errorf("worker %q cannot register entry for source %q", w.source, e.Source)
		w.metrics.ObserveRegister(w.source, err)
		return entity.PersistedEntry{}, err
	}
	saved, err := w.store.Save(ctx, entity.PersistedEntry{
		ID:             w.newID(),
		Source:         e.Source,
		ExternalSymbol: e.ExternalSymbol,
		Ticker:         e.Ticker,
	})
	w.metrics.ObserveRegister(w.source, err)
	if err != nil {
		return entity.PersistedEntry{}, fmt.Errorf("save %s entry %q: %w", w.source, e.ExternalSymbol, err)
	}
	slog.Info("dictionary entry registered", "source", saved.Source, "symbol", saved.ExternalSymbol, "ticker", saved.Ticker, "id", saved.ID)
	return saved, nil
}
