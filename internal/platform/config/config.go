// Package config はプロセス共通の設定読み込みを提供します。
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv は .env を読み込みます。ファイルがない場合はシステムの環境変数のみを使います。
func LoadEnv() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
}

// SetupLogger は LOG_LEVEL と LOG_FORMAT に従ってデフォルトのロガーを設定します。
//   - LOG_LEVEL: debug / info / warn / error（デフォルト info）
//   - LOG_FORMAT: json の場合はJSON、それ以外はテキスト
func SetupLogger() {
	opts := &slog.HandlerOptions{Level: ParseLevel(os.Getenv("LOG_LEVEL"))}
	var h slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

// ParseLevel はログレベル文字列を slog.Level に変換します。不明な値は Info です。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SourcesConfigPath はソースカタログのYAMLパスです。空の場合は既定のカタログを使います。
func SourcesConfigPath() string {
	return os.Getenv("SOURCES_CONFIG")
}

// AllowedOrigins は CORS_ALLOWED_ORIGINS（カンマ区切り）を返します。
func AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ServerAddr は待ち受けアドレスです。PORT 未設定時は :8080 を使います。
func ServerAddr() string {
	if p := os.Getenv("PORT"); p != "" {
		return ":" + p
	}
	return ":8080"
}
