package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com")
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, AllowedOrigins())

	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	assert.Empty(t, AllowedOrigins())
}

func TestServerAddr(t *testing.T) {
	t.Setenv("PORT", "")
	assert.Equal(t, ":8080", ServerAddr())

	t.Setenv("PORT", "9090")
	assert.Equal(t, ":9090", ServerAddr())
}
