package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"

	"invest_backend/internal/feature/symboldictionary/adapters"
)

// countingLister はテスト用のSymbolListerで、呼び出し回数を記録します。
type countingLister struct {
	symbols []string
	err     error
	calls   int
}

func (l *countingLister) ListSymbols(ctx context.Context) ([]string, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.symbols, nil
}

var _ adapters.SymbolLister = (*countingLister)(nil)

// TestNewCachingSymbolLister_Defaults はデフォルト値（namespace）とTTLが正しく設定されることを検証します。
func TestNewCachingSymbolLister_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedNamespace string
	}{
		{name: "default namespace when empty", ttl: time.Minute, namespace: "", expectedNamespace: DefaultNamespace},
		{name: "custom values preserved", ttl: 10 * time.Minute, namespace: "custom", expectedNamespace: "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := NewCachingSymbolLister(nil, tt.ttl, &countingLister{}, tt.namespace, "banks")

			if l.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, l.namespace)
			}
			if l.ttl != tt.ttl {
				t.Errorf("expected TTL %v, got %v", tt.ttl, l.ttl)
			}
		})
	}
}

// TestCachingSymbolLister_ZeroTTL はTTLが0の場合にRedisを使わず、毎回最新の一覧を返すことを検証します。
func TestCachingSymbolLister_ZeroTTL(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	inner := &countingLister{symbols: []string{"ITUB3.SAO"}}
	l := NewCachingSymbolLister(rdb, 0, inner, "", "banks")

	if _, err := l.ListSymbols(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inner.symbols = []string{"BBAS3.SAO"}
	got, err := l.ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "BBAS3.SAO" {
		t.Errorf("expected updated list, got %v", got)
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Errorf("expected no cached keys, got %v", keys)
	}
}

// TestCachingSymbolLister_ExpiresAfterTTL はTTL経過後に更新された一覧を取得することを検証します。
func TestCachingSymbolLister_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	inner := &countingLister{symbols: []string{"ITUB3.SAO"}}
	l := NewCachingSymbolLister(rdb, time.Minute, inner, "", "banks")

	if _, err := l.ListSymbols(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inner.symbols = []string{"BBAS3.SAO"}
	mr.FastForward(time.Minute + time.Second)

	got, err := l.ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "BBAS3.SAO" || inner.calls != 2 {
		t.Errorf("expected a fresh fetch after expiry, got %v (%d calls)", got, inner.calls)
	}
}

// TestCachingSymbolLister_EmptyCachedListIsMiss は空の一覧がキャッシュされていても取得し直すことを検証します。
func TestCachingSymbolLister_EmptyCachedListIsMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	symbols := []string{"ITUB3.SAO"}
	expectedJSON, _ := json.Marshal(symbols)

	mock.ExpectGet("source_symbols:banks").SetVal("[]")
	mock.ExpectDel("source_symbols:banks").SetVal(1)
	mock.ExpectSet("source_symbols:banks", expectedJSON, time.Minute).SetVal("OK")

	inner := &countingLister{symbols: symbols}
	l := NewCachingSymbolLister(rdb, time.Minute, inner, "", "banks")

	got, err := l.ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || inner.calls != 1 {
		t.Errorf("expected a live fetch, got %v (%d calls)", got, inner.calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSymbolLister_EmptyListNotStored は空の一覧をキャッシュに保存しないことを検証します。
func TestCachingSymbolLister_EmptyListNotStored(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	inner := &countingLister{symbols: []string{}}
	l := NewCachingSymbolLister(rdb, time.Minute, inner, "", "banks")

	for range 2 {
		if _, err := l.ListSymbols(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if mr.Exists("source_symbols:banks") {
		t.Error("empty list must not be cached")
	}
	if inner.calls != 2 {
		t.Errorf("expected inner to be called twice, got %d", inner.calls)
	}
}

// TestCachingSymbolLister_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingSymbolLister_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &countingLister{symbols: []string{"ITUB3.SAO"}}
	l := NewCachingSymbolLister(nil, time.Minute, inner, "", "banks")

	for range 2 {
		got, err := l.ListSymbols(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("expected 1 symbol, got %d", len(got))
		}
	}
	if inner.calls != 2 {
		t.Errorf("expected inner to be called twice, got %d", inner.calls)
	}
}

// TestCachingSymbolLister_CacheHit はキャッシュヒット時に内部のListerを呼ばないことを検証します。
func TestCachingSymbolLister_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := json.Marshal([]string{"ITUB3.SAO", "BBAS3.SAO"})
	mock.ExpectGet("source_symbols:banks").SetVal(string(cached))

	inner := &countingLister{}
	l := NewCachingSymbolLister(rdb, 5*time.Minute, inner, "", "banks")

	got, err := l.ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 0 {
		t.Error("inner lister should not be called on cache hit")
	}
	if len(got) != 2 {
		t.Errorf("expected 2 symbols, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSymbolLister_CacheMiss はキャッシュミス時に取得した一覧をキャッシュに保存することを検証します。
func TestCachingSymbolLister_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	symbols := []string{"ITUB3.SAO"}
	expectedJSON, _ := json.Marshal(symbols)

	mock.ExpectGet("source_symbols:banks").RedisNil()
	mock.ExpectSet("source_symbols:banks", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &countingLister{symbols: symbols}
	l := NewCachingSymbolLister(rdb, 5*time.Minute, inner, "", "banks")

	got, err := l.ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || inner.calls != 1 {
		t.Errorf("expected 1 symbol from 1 inner call, got %v (%d calls)", got, inner.calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSymbolLister_InnerError は内部のListerのエラーが伝播され、キャッシュされないことを検証します。
func TestCachingSymbolLister_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("upstream error")
	mock.ExpectGet("source_symbols:banks").RedisNil()

	l := NewCachingSymbolLister(rdb, 5*time.Minute, &countingLister{err: expectedErr}, "", "banks")

	_, err := l.ListSymbols(context.Background())
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingSymbolLister_CorruptedCache は破損したキャッシュを削除して取得し直すことを検証します。
func TestCachingSymbolLister_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	symbols := []string{"PETR4.SAO"}
	expectedJSON, _ := json.Marshal(symbols)

	mock.ExpectGet("source_symbols:commodity_x").SetVal("invalid json")
	mock.ExpectDel("source_symbols:commodity_x").SetVal(1)
	mock.ExpectSet("source_symbols:commodity_x", expectedJSON, 5*time.Minute).SetVal("OK")

	l := NewCachingSymbolLister(rdb, 5*time.Minute, &countingLister{symbols: symbols}, "", "commodity x")

	got, err := l.ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 symbol, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestFlush は名前空間配下のキーがSCANとDELで削除されることを検証します。
func TestFlush(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "source_symbols:*", 200).SetVal([]string{"source_symbols:banks", "source_symbols:twelvedata"}, 0)
	mock.ExpectDel("source_symbols:banks", "source_symbols:twelvedata").SetVal(2)

	n, err := Flush(context.Background(), rdb, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted keys, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"banks", "banks"},
		{"commodity x", "commodity_x"},
		{"key:value", "key_value"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := safe(tt.input); got != tt.expected {
				t.Errorf("safe(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
