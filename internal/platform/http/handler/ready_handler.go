package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Check は依存先1つの疎通確認です。
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// DBCheck はデータベースへのPingを行うCheckを返します。
func DBCheck(db *gorm.DB) Check {
	return Check{Name: "db", Fn: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

// RedisCheck はRedisへのPingを行うCheckを返します。rdb が nil の場合は nil を返します。
func RedisCheck(rdb *redis.Client) *Check {
	if rdb == nil {
		return nil
	}
	return &Check{Name: "redis", Fn: func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}}
}

// Ready は /readyz エンドポイントのハンドラーを返します。
// すべての Check が成功した場合は200、1つでも失敗した場合は503を返します。
func Ready(timeout time.Duration, checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for _, chk := range checks {
			if err := chk.Fn(ctx); err != nil {
				slog.Warn("readiness check failed", "check", chk.Name, "error", err)
				results[chk.Name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			results[chk.Name] = "ok"
		}
		c.JSON(status, gin.H{"checks": results})
	}
}
