package adapters

import (
	"context"

	"invest_backend/internal/shared/ratelimiter"
)

// rateLimitedLister は外部APIのレートリミットを守るために、
// 一覧取得の前にレートリミッターで待機する SymbolLister です。
type rateLimitedLister struct {
	inner   SymbolLister
	limiter ratelimiter.RateLimiterInterface
}

// NewRateLimitedLister は inner をレートリミッターでラップします。
func NewRateLimitedLister(inner SymbolLister, limiter ratelimiter.RateLimiterInterface) SymbolLister {
	return &rateLimitedLister{inner: inner, limiter: limiter}
}

// ListSymbols は必要に応じて待機してから inner を呼び出します。
func (l *rateLimitedLister) ListSymbols(ctx context.Context) ([]string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.inner.ListSymbols(ctx)
}
