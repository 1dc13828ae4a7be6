package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"invest_backend/internal/feature/symboldictionary/domain/entity"
)

// registerConcurrency は RegisterAll で同時に実行する永続化呼び出しの上限です。
const registerConcurrency = 4

// SourceWorker は1つの外部ソースに対する有効シンボルの取得と辞書エントリの永続化を担います。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SourceWorker interface {
	// ValidSymbols はソースで現在有効な外部シンボルの一覧を返します。
	ValidSymbols(ctx context.Context) ([]string, error)
	// Register はエントリを永続化し、IDが割り当てられたレコードを返します。
	Register(ctx context.Context, entry entity.Entry) (entity.PersistedEntry, error)
}

// SourceLocator はソース識別子から SourceWorker を解決します。
type SourceLocator interface {
	// KnownSources は既知のソース識別子を安定した順序で返します。
	KnownSources() []string
	// Worker は指定ソースの SourceWorker を返します。
	// 未知のソースの場合は ErrUnknownSource を返します。
	Worker(source string) (SourceWorker, error)
}

// SymbolRegister は外部シンボル辞書エントリを検証して登録するユースケースです。
// 呼び出し間で状態を保持しません。
type SymbolRegister struct {
	locator SourceLocator
}

// NewSymbolRegister は新しい SymbolRegister を作成します。
func NewSymbolRegister(locator SourceLocator) *SymbolRegister {
	return &SymbolRegister{locator: locator}
}

// KnownSources は既知のソース識別子をそのまま返します。
func (u *SymbolRegister) KnownSources() []string {
	return u.locator.KnownSources()
}

// Register は1件のエントリを検証し、有効であればソースのワーカーに永続化させます。
// 未知のソースやソースに存在しないシンボルは ErrInvalidSymbolDictionaryEntry になります。
// 有効シンボルの取得失敗はインフラ障害としてそのまま返します。
func (u *SymbolRegister) Register(ctx context.Context, entry entity.Entry) (entity.PersistedEntry, error) {
	worker, err := u.locator.Worker(entry.Source)
	if err != nil {
		if errors.Is(err, ErrUnknownSource) {
			return entity.PersistedEntry{}, fmt.Errorf("%w: unknown source %q", ErrInvalidSymbolDictionaryEntry, entry.Source)
		}
		return entity.PersistedEntry{}, err
	}

	symbols, err := worker.ValidSymbols(ctx)
	if err != nil {
		return entity.PersistedEntry{}, err
	}
	if _, ok := newSymbolSet(symbols)[entry.ExternalSymbol]; !ok {
		return entity.PersistedEntry{}, fmt.Errorf("%w: %q is not a valid %s symbol",
			ErrInvalidSymbolDictionaryEntry, entry.ExternalSymbol, entry.Source)
	}

	return worker.Register(ctx, entry)
}

// accepted は検証を通過したエントリと、その永続化を担当するワーカーの組です。
type accepted struct {
	worker SourceWorker
	entry  entity.Entry
}

// RegisterAll は複数のエントリを検証し、有効なものだけを永続化します。
//
//   - 未知のソースや無効なシンボルを持つエントリはエラーにせず除外します
//   - 有効シンボルの一覧はソースごとに1回だけ取得し、この呼び出しの中で再利用します
//   - 有効シンボルの取得や永続化に失敗した場合はバッチ全体を中断してエラーを返します
//   - 戻り値は有効だったエントリの永続化結果で、入力と同じ相対順序を保ちます
func (u *SymbolRegister) RegisterAll(ctx context.Context, entries []entity.Entry) ([]entity.PersistedEntry, error) {
	workers := make(map[string]SourceWorker)
	symbols := make(map[string]symbolSet)

	valid := make([]accepted, 0, len(entries))
	for _, e := range entries {
		worker, set, err := u.resolve(ctx, e.Source, workers, symbols)
		if err != nil {
			return nil, err
		}
		if worker == nil {
			slog.Debug("dropping dictionary entry", "source", e.Source, "symbol", e.ExternalSymbol, "reason", "unknown source")
			continue
		}
		if _, ok := set[e.ExternalSymbol]; !ok {
			slog.Debug("dropping dictionary entry", "source", e.Source, "symbol", e.ExternalSymbol, "reason", "symbol not listed")
			continue
		}
		valid = append(valid, accepted{worker: worker, entry: e})
	}

	out := make([]entity.PersistedEntry, len(valid))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(registerConcurrency)
	for i, a := range valid {
		g.Go(func() error {
			p, err := a.worker.Register(gctx, a.entry)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("dictionary batch registered", "received", len(entries), "registered", len(out))
	return out, nil
}

// resolve はソースのワーカーと有効シンボル集合を返します。
// 結果は呼び出し元のマップに保存され、同じバッチ内では再取得しません。
// 未知のソースの場合は nil ワーカーを返します。
func (u *SymbolRegister) resolve(ctx context.Context, source string,
	workers map[string]SourceWorker, symbols map[string]symbolSet) (SourceWorker, symbolSet, error) {
	if w, ok := workers[source]; ok {
		return w, symbols[source], nil
	}

	w, err := u.locator.Worker(source)
	if err != nil {
		if errors.Is(err, ErrUnknownSource) {
			workers[source] = nil
			return nil, nil, nil
		}
		return nil, nil, err
	}

	list, err := w.ValidSymbols(ctx)
	if err != nil {
		return nil, nil, err
	}
	set := newSymbolSet(list)
	workers[source] = w
	symbols[source] = set
	return w, set, nil
}

// symbolSet は外部シンボルの集合です。
type symbolSet map[string]struct{}

func newSymbolSet(symbols []string) symbolSet {
	s := make(symbolSet, len(symbols))
	for _, sym := range symbols {
		s[sym] = struct{}{}
	}
	return s
}
