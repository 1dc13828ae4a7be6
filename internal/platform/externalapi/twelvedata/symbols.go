package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"invest_backend/internal/platform/externalapi/twelvedata/dto"
)

// ListOptions は /stocks の絞り込み条件です。
type ListOptions struct {
	Exchange string // 取引所コード（例: "JPX"）。空の場合は全取引所
	Suffix   string // 返却シンボルに付与する接尾辞（例: ".T"）
}

// SymbolClient はTwelve Dataの銘柄一覧から有効シンボルを取得するクライアントです。
type SymbolClient struct {
	cfg    Config
	client *http.Client
	opts   ListOptions
}

// NewSymbolClient は指定された設定とHTTPクライアントでSymbolClientの新しいインスタンスを生成します。
func NewSymbolClient(cfg Config, client *http.Client, opts ListOptions) *SymbolClient {
	return &SymbolClient{cfg: cfg, client: client, opts: opts}
}

// ListSymbols はTwelve Data APIの /stocks から現在取引可能なシンボル一覧を取得します。
// 重複したシンボルは1件にまとめられます。
func (c *SymbolClient) ListSymbols(ctx context.Context) ([]string, error) {
	q := url.Values{}
	if c.opts.Exchange != "" {
		q.Set("exchange", c.opts.Exchange)
	}
	q.Set("apikey", c.cfg.TwelveDataAPIKey)

	u := fmt.Sprintf("%s/stocks?%s", c.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	var body dto.StocksResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	seen := make(map[string]struct{}, len(body.Data))
	symbols := make([]string, 0, len(body.Data))
	for _, s := range body.Data {
		if s.Symbol == "" {
			continue
		}
		sym := s.Symbol + c.opts.Suffix
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}
