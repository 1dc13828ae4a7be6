// Package router はHTTPルーティングを定義します。
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "invest_backend/internal/feature/auth/transport/handler"
	dicthandler "invest_backend/internal/feature/symboldictionary/transport/handler"
	symbollisthandler "invest_backend/internal/feature/symbollist/transport/handler"
	"invest_backend/internal/platform/http/handler"
	jwtmw "invest_backend/internal/platform/jwt"
)

// NewRouter はすべてのエンドポイントを登録したGinエンジンを返します。
// allowedOrigins が空の場合、CORSミドルウェアは追加しません。
func NewRouter(authHandler *authhandler.AuthHandler, symbol *symbollisthandler.SymbolHandler,
	dictionary *dicthandler.DictionaryHandler, ready gin.HandlerFunc, metrics http.Handler,
	allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	if len(allowedOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = allowedOrigins
		cfg.AddAllowHeaders("Authorization")
		r.Use(cors.New(cfg))
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.GET("/readyz", ready)
	r.GET("/metrics", gin.WrapH(metrics))
	// 新規ユーザー登録
	r.POST("/signup", authHandler.Signup)
	// ログイン（JWT 発行）
	r.POST("/login", authHandler.Login)

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired())
	{
		auth.GET("/symbols", symbol.List)
		auth.GET("/dictionary/sources", dictionary.Sources)
		auth.GET("/dictionary/resolve", dictionary.Resolve)
		auth.GET("/dictionary/tickers/:ticker", dictionary.ListByTicker)
	}

	// 辞書の書き込みは管理者のみ
	admin := r.Group("/dictionary")
	admin.Use(jwtmw.AuthRequired(), jwtmw.AdminRequired())
	{
		admin.POST("/tickers/:ticker", dictionary.RegisterTicker)
		admin.POST("/entries", dictionary.RegisterEntries)
		admin.PUT("/entry", dictionary.RegisterEntry)
	}

	return r
}
