package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "ws://localhost:8000/rpc", cfg.SurrealDBURL)
	assert.Equal(t, ProviderOllama, cfg.LLMProvider)
	assert.Equal(t, 384, cfg.EmbedDimension)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FREIGHT_LLM_PROVIDER", "anthropic")
	t.Setenv("FREIGHT_EMBED_DIMENSION", "1536")
	t.Setenv("FREIGHT_LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, ProviderAnthropic, cfg.LLMProvider)
	assert.Equal(t, 1536, cfg.EmbedDimension)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"Warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), "input %q", tt.in)
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("FREIGHT_EMBED_DIMENSION", "not-a-number")
	cfg := Load()
	assert.Equal(t, 384, cfg.EmbedDimension)
}
