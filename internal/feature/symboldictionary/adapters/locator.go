package adapters

import (
	"errors"
	"fmt"
	"slices"

	"invest_backend/internal/feature/symboldictionary/usecase"
)

// NamedWorker はソース識別子とそのワーカーの組です。
type NamedWorker struct {
	Source string
	Worker usecase.SourceWorker
}

// SourceLocator は登録順を保持する usecase.SourceLocator 実装です。
// 生成後は変更されないため、複数のゴルーチンから安全に参照できます。
type SourceLocator struct {
	order   []string
	workers map[string]usecase.SourceWorker
}

var _ usecase.SourceLocator = (*SourceLocator)(nil)

// NewSourceLocator は与えられた順序でソースを登録したロケーターを生成します。
// ソース名が空、または重複している場合はエラーを返します。
func NewSourceLocator(workers ...NamedWorker) (*SourceLocator, error) {
	l := &SourceLocator{
		order:   make([]string, 0, len(workers)),
		workers: make(map[string]usecase.SourceWorker, len(workers)),
	}
	for _, nw := range workers {
		if nw.Source == "" {
			return nil, errors.New("source name is required")
		}
		if nw.Worker == nil {
			return nil, fmt.Errorf("source %q has no worker", nw.Source)
		}
		if _, dup := l.workers[nw.Source]; dup {
			return nil, fmt.Errorf("source %q registered twice", nw.Source)
		}
		l.order = append(l.order, nw.Source)
		l.workers[nw.Source] = nw.Worker
	}
	return l, nil
}

// KnownSources は登録順のソース識別子を返します。
func (l *SourceLocator) KnownSources() []string {
	return slices.Clone(l.order)
}

// Worker は指定ソースのワーカーを返します。
// 未知のソースの場合は usecase.ErrUnknownSource を返します。
func (l *SourceLocator) Worker(source string) (usecase.SourceWorker, error) {
	w, ok := l.workers[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", usecase.ErrUnknownSource, source)
	}
	return w, nil
}
