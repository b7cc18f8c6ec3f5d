package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "")
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("AI_MODEL", "")
	t.Setenv("CORS_ORIGIN", "")
	t.Setenv("GATEWAY_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, ":7582", cfg.HTTPAddr)
	assert.Equal(t, ProviderGemini, cfg.AIProvider)
	assert.Equal(t, "gemini-1.5-flash", cfg.AIModel)
	assert.Equal(t, "http://localhost:5173", cfg.CORSOrigin)
	assert.Equal(t, time.Duration(0), cfg.GatewayTimeout)
	assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9000")
	assert.Equal(t, ":9000", Load().HTTPAddr)

	t.Setenv("HTTP_ADDR", "127.0.0.1:8081")
	assert.Equal(t, "127.0.0.1:8081", Load().HTTPAddr)
}

func TestLoad_OpenAIDefaultModel(t *testing.T) {
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("AI_MODEL", "")

	cfg := Load()
	assert.Equal(t, ProviderOpenAI, cfg.AIProvider)
	assert.Equal(t, "gpt-4o", cfg.AIModel)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "lots")
	t.Setenv("QUESTION_FILTER", "maybe")
	t.Setenv("CACHE_TTL", "soon")

	cfg := Load()
	assert.Equal(t, 60, cfg.RateLimitPerMin)
	assert.False(t, cfg.QuestionFilter)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
}

func validConfig() Config {
	return Config{
		HTTPAddr:        ":7582",
		LogLevel:        "info",
		LogFormat:       "text",
		AIProvider:      ProviderGemini,
		AIModel:         "gemini-1.5-flash",
		GeminiAPIKey:    "key",
		CORSOrigin:      "http://localhost:5173",
		MaxUploadBytes:  1 << 20,
		StorageMode:     "local",
		LocalStorageDir: "./uploads",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	missingKey := validConfig()
	missingKey.GeminiAPIKey = ""
	assert.Error(t, missingKey.Validate())

	openAI := validConfig()
	openAI.AIProvider = ProviderOpenAI
	openAI.GeminiAPIKey = ""
	assert.Error(t, openAI.Validate())
	openAI.OpenAIAPIKey = "sk-test"
	assert.NoError(t, openAI.Validate())

	badStorage := validConfig()
	badStorage.StorageMode = "ftp"
	assert.Error(t, badStorage.Validate())
}

func TestSlogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "debug"
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	cfg.LogLevel = "whatever"
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
