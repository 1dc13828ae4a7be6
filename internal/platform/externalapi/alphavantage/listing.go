package alphavantage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// ListOptions は LISTING_STATUS の絞り込み条件です。
type ListOptions struct {
	Exchange string // 取引所名（例: "NYSE"）。空の場合は全取引所
	Suffix   string // 返却シンボルに付与する接尾辞
}

// ListingClient はAlpha VantageのLISTING_STATUSから上場中のシンボルを取得するクライアントです。
type ListingClient struct {
	cfg    Config
	client *http.Client
	opts   ListOptions
}

// NewListingClient は指定された設定とHTTPクライアントでListingClientの新しいインスタンスを生成します。
func NewListingClient(cfg Config, client *http.Client, opts ListOptions) *ListingClient {
	return &ListingClient{cfg: cfg, client: client, opts: opts}
}

// ListSymbols は上場中（status=Active）の銘柄シンボルを返します。
func (c *ListingClient) ListSymbols(ctx context.Context) ([]string, error) {
	q := url.Values{}
	q.Set("function", "LISTING_STATUS")
	q.Set("apikey", c.cfg.APIKey)

	u := fmt.Sprintf("%s/query?%s", c.cfg.BaseURL, q.Encode())

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
		return nil, fmt.Errorf("alphavantage http %d", res.StatusCode)
	}

	br := bufio.NewReader(res.Body)
	// レート超過やキー不正の場合、CSVではなくJSONが返る
	if head, _ := br.Peek(1); bytes.Equal(head, []byte("{")) {
		return nil, decodeAPIError(br)
	}
	return c.parseListing(br)
}

// parseListing はLISTING_STATUSのCSVを解析します。
func (c *ListingClient) parseListing(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("alphavantage: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	symIdx, ok := col["symbol"]
	if !ok {
		return nil, errors.New("alphavantage: symbol column missing")
	}
	exIdx, hasExchange := col["exchange"]
	stIdx, hasStatus := col["status"]

	var symbols []string
	seen := make(map[string]struct{})
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("alphavantage: read row: %w", err)
		}
		if hasStatus && !strings.EqualFold(rec[stIdx], "Active") {
			continue
		}
		if c.opts.Exchange != "" && hasExchange && !strings.EqualFold(rec[exIdx], c.opts.Exchange) {
			continue
		}
		sym := strings.TrimSpace(rec[symIdx])
		if sym == "" {
			continue
		}
		sym += c.opts.Suffix
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		symbols = append(symbols, sym)
	}
	if symbols == nil {
		symbols = []string{}
	}
	return symbols, nil
}

func decodeAPIError(r io.Reader) error {
	var body map[string]string
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return fmt.Errorf("alphavantage: unexpected response: %w", err)
	}
	for _, k := range []string{"Error Message", "Information", "Note"} {
		if msg, ok := body[k]; ok {
			return fmt.Errorf("alphavantage: %s", msg)
		}
	}
	return errors.New("alphavantage: unexpected json response")
}
