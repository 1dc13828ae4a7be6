package di

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "invest_backend/internal/feature/auth/adapters"
	authhandler "invest_backend/internal/feature/auth/transport/handler"
	authusecase "invest_backend/internal/feature/auth/usecase"
	dictadapters "invest_backend/internal/feature/symboldictionary/adapters"
	dicthandler "invest_backend/internal/feature/symboldictionary/transport/handler"
	dictusecase "invest_backend/internal/feature/symboldictionary/usecase"
	symbollistadapters "invest_backend/internal/feature/symbollist/adapters"
	symbollisthandler "invest_backend/internal/feature/symbollist/transport/handler"
	symbollistusecase "invest_backend/internal/feature/symbollist/usecase"
	jwtmw "invest_backend/internal/platform/jwt"
	"invest_backend/internal/platform/metrics"
)

// tokenTTL はログイン時に発行するJWTの有効期間です。
const tokenTTL = 24 * time.Hour

// AdminGranter はユーザーに管理者ロールを付与します。
type AdminGranter interface {
	GrantAdmin(ctx context.Context, email string) error
}

// App はHTTPサーバーとCLIが共有するアプリケーションの構成要素です。
type App struct {
	Auth       *authhandler.AuthHandler
	Symbols    *symbollisthandler.SymbolHandler
	Dictionary *dicthandler.DictionaryHandler

	Register *dictusecase.SymbolRegister
	Admins   AdminGranter
	Metrics  *metrics.SourceMetrics
}

// NewApp はリポジトリ、ユースケース、ハンドラーを組み立てます。
// rdb が nil の場合、有効シンボルはキャッシュされません。
func NewApp(db *gorm.DB, rdb *redis.Client, catalog dictadapters.Catalog, jwtSecret string) (*App, error) {
	m := metrics.NewSourceMetrics()

	// Repository
	userRepo := authadapters.NewUserRepository(db)
	symbolRepo := symbollistadapters.NewSymbolRepository(db)
	dictRepo := dictadapters.NewDictionaryRepository(db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(jwtSecret, tokenTTL))
	symbolUC := symbollistusecase.NewSymbolUsecase(symbolRepo)

	locator, err := NewSourceLocator(catalog, DictionaryDeps{DB: db, Redis: rdb, Metrics: m, Codes: symbolUC})
	if err != nil {
		return nil, err
	}
	register := dictusecase.NewSymbolRegister(locator)
	dictUC := dictusecase.NewDictionaryUsecase(dictRepo)

	return &App{
		Auth:       authhandler.NewAuthHandler(authUC),
		Symbols:    symbollisthandler.NewSymbolHandler(symbolUC),
		Dictionary: dicthandler.NewDictionaryHandler(register, dictUC),
		Register:   register,
		Admins:     authUC,
		Metrics:    m,
	}, nil
}
