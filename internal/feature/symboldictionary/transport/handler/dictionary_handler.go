// Package handler はsymboldictionaryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"invest_backend/internal/api"
	"invest_backend/internal/feature/symboldictionary/domain/entity"
	"invest_backend/internal/feature/symboldictionary/transport/http/dto"
	"invest_backend/internal/feature/symboldictionary/usecase"
)

// エラーメッセージ
const (
	msgNoTicker      = "Can not find ticker at route"
	msgNoValidSymbol = "Your request has no valid symbol."
	msgInvalidBody   = "invalid request"
	msgRegisterFail  = "failed to register symbols"
	msgLookupFail    = "failed to look up dictionary"
)

// SymbolRegister は辞書エントリ登録のユースケースです。
// Goの慣例に従い、インターフェースはコンシューマー（handler）が定義します。
type SymbolRegister interface {
	KnownSources() []string
	Register(ctx context.Context, entry entity.Entry) (entity.PersistedEntry, error)
	RegisterAll(ctx context.Context, entries []entity.Entry) ([]entity.PersistedEntry, error)
}

// DictionaryQuery は登録済みエントリの参照ユースケースです。
type DictionaryQuery interface {
	Resolve(ctx context.Context, source, externalSymbol string) (entity.PersistedEntry, error)
	ListByTicker(ctx context.Context, ticker string) ([]entity.PersistedEntry, error)
}

// DictionaryHandler は外部シンボル辞書のHTTPリクエストを処理します。
type DictionaryHandler struct {
	register SymbolRegister
	query    DictionaryQuery
}

// NewDictionaryHandler は新しい DictionaryHandler を作成します。
func NewDictionaryHandler(register SymbolRegister, query DictionaryQuery) *DictionaryHandler {
	return &DictionaryHandler{register: register, query: query}
}

// Sources は既知のソース一覧を返します。
func (h *DictionaryHandler) Sources(c *gin.Context) {
	sources := h.register.KnownSources()
	if sources == nil {
		sources = []string{}
	}
	c.JSON(http.StatusOK, dto.SourcesResponse{Sources: sources})
}

// RegisterTicker はルートのティッカーに対して、ソースごとの外部シンボルを一括登録します。
//   - ティッカーが空の場合は400
//   - 有効なエントリが1件もない場合は400
//   - 有効シンボルの取得や保存に失敗した場合は500
//   - 成功時は登録したエントリを201で返却
func (h *DictionaryHandler) RegisterTicker(c *gin.Context) {
	ticker, ok := bindTicker(c)
	if !ok {
		return
	}

	var req dto.RegisterTickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("dictionary request validation failed", "error", err, "ticker", ticker)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgInvalidBody})
		return
	}

	// マップの順序は不定のため、ソース名順に並べて結果を安定させる
	sources := make([]string, 0, len(req))
	for source := range req {
		sources = append(sources, source)
	}
	slices.Sort(sources)

	entries := make([]entity.Entry, 0, len(sources))
	for _, source := range sources {
		entries = append(entries, entity.Entry{Source: source, ExternalSymbol: req[source], Ticker: ticker})
	}

	h.registerAll(c, entries)
}

// RegisterEntries は任意のティッカーを含むエントリを一括登録します。
func (h *DictionaryHandler) RegisterEntries(c *gin.Context) {
	var req dto.RegisterEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("dictionary batch validation failed", "error", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgInvalidBody})
		return
	}

	entries := make([]entity.Entry, 0, len(req.Entries))
	for _, in := range req.Entries {
		entries = append(entries, in.ToEntity())
	}
	h.registerAll(c, entries)
}

func (h *DictionaryHandler) registerAll(c *gin.Context, entries []entity.Entry) {
	saved, err := h.register.RegisterAll(c.Request.Context(), entries)
	if err != nil {
		slog.Error("dictionary registration failed", "error", err, "entries", len(entries))
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgRegisterFail})
		return
	}
	if len(saved) == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgNoValidSymbol})
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntities(saved))
}

// RegisterEntry は1件のエントリを登録します。
// 無効なエントリは理由付きで400、インフラ障害は500を返します。
func (h *DictionaryHandler) RegisterEntry(c *gin.Context) {
	var in dto.EntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		slog.Warn("dictionary entry validation failed", "error", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgInvalidBody})
		return
	}

	saved, err := h.register.Register(c.Request.Context(), in.ToEntity())
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSymbolDictionaryEntry) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("dictionary entry registration failed", "error", err, "source", in.Source, "symbol", in.Symbol)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgRegisterFail})
		return
	}
	c.JSON(http.StatusCreated, dto.FromEntity(saved))
}

// ListByTicker はティッカーに対応する登録済みエントリを返します。
func (h *DictionaryHandler) ListByTicker(c *gin.Context) {
	ticker, ok := bindTicker(c)
	if !ok {
		return
	}
	entries, err := h.query.ListByTicker(c.Request.Context(), ticker)
	if err != nil {
		slog.Error("dictionary lookup failed", "error", err, "ticker", ticker)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgLookupFail})
		return
	}
	c.JSON(http.StatusOK, dto.FromEntities(entries))
}

// Resolve はクエリの source と symbol に対応するエントリを返します。
func (h *DictionaryHandler) Resolve(c *gin.Context) {
	entry, err := h.query.Resolve(c.Request.Context(), c.Query("source"), c.Query("symbol"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.FromEntity(entry))
	case errors.Is(err, usecase.ErrInvalidSymbolDictionaryEntry):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("dictionary resolve failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgLookupFail})
	}
}

// bindTicker はパスパラメータ ticker を取り出します。空の場合は400を返して false を返します。
func bindTicker(c *gin.Context) (string, bool) {
	var ticker string
	err := runtime.BindStyledParameterWithOptions("simple", "ticker", c.Param("ticker"), &ticker,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	ticker = strings.TrimSpace(ticker)
	if err != nil || ticker == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgNoTicker})
		return "", false
	}
	return ticker, true
}
