package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	HTTPAddr         string        `validate:"required"`
	LogLevel         string        `validate:"oneof=debug info warn error"`
	LogFormat        string        `validate:"oneof=text json"`
	AIProvider       string        `validate:"oneof=gemini openai"`
	AIModel          string        `validate:"required"`
	GeminiAPIKey     string        `validate:"required_if=AIProvider gemini"`
	OpenAIAPIKey     string        `validate:"required_if=AIProvider openai"`
	GatewayTimeout   time.Duration `validate:"gte=0"`
	CORSOrigin       string        `validate:"required"`
	QuestionFilter   bool
	PromptDir        string
	MaxUploadBytes   int64  `validate:"gt=0"`
	RateLimitPerMin  int    `validate:"gte=0"`
	StorageMode      string `validate:"oneof=local filesystem s3 aws localstack"`
	LocalStorageDir  string `validate:"required"`
	S3Bucket         string
	S3Endpoint       string
	S3Region         string
	AWSAccessKey     string
	AWSSecretKey     string
	S3ForcePathStyle bool
	RedisURL         string
	CacheTTL         time.Duration `validate:"gte=0"`
	DatabaseURL      string
	JWTSecret        string
	JWTIssuer        string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
		slog.Warn("bad int env, using default", "key", key, "value", v)
	}
	return def
}

func mustInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
		slog.Warn("bad int env, using default", "key", key, "value", v)
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "true" || v == "1" {
			return true
		}
		if v == "false" || v == "0" {
			return false
		}
		slog.Warn("bad bool env, using default", "key", key, "value", v)
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
		slog.Warn("bad duration env, using default", "key", key, "value", v)
	}
	return def
}

func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	currentDir, err := os.Getwd()
	if err != nil {
		slog.Debug("failed to get current directory", "error", err)
		return
	}

	// look in current directory and up to 3 parent directories
	searchDirs := []string{currentDir}
	for i := 0; i < 3; i++ {
		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}
		searchDirs = append(searchDirs, parent)
		currentDir = parent
	}

	loadedAny := false
	for _, dir := range searchDirs {
		for _, envFile := range envFiles {
			envPath := filepath.Join(dir, envFile)
			if _, err := os.Stat(envPath); err == nil {
				if err := godotenv.Load(envPath); err == nil {
					slog.Debug("loaded environment file", "path", envPath)
					loadedAny = true
				} else {
					slog.Debug("failed to load environment file", "path", envPath, "error", err)
				}
			}
		}
		if loadedAny {
			break
		}
	}

	if !loadedAny {
		slog.Debug("no .env files found, using system environment variables only")
	}
}

// httpAddr honours HTTP_ADDR first, then a bare PORT.
func httpAddr() string {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		return v
	}
	return ":" + getenv("PORT", "7582")
}

func defaultModel(provider string) string {
	if provider == ProviderOpenAI {
		return "gpt-4o"
	}
	return "gemini-1.5-flash"
}

func Load() Config {
	loadEnvFiles()
	provider := strings.ToLower(getenv("AI_PROVIDER", ProviderGemini))
	return Config{
		HTTPAddr:         httpAddr(),
		LogLevel:         strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:        strings.ToLower(getenv("LOG_FORMAT", "text")),
		AIProvider:       provider,
		AIModel:          getenv("AI_MODEL", defaultModel(provider)),
		GeminiAPIKey:     getenv("API_KEY", os.Getenv("GEMINI_API_KEY")),
		OpenAIAPIKey:     getenv("OPENAI_API_KEY", ""),
		GatewayTimeout:   mustDuration("GATEWAY_TIMEOUT", 0),
		CORSOrigin:       getenv("CORS_ORIGIN", "http://localhost:5173"),
		QuestionFilter:   getBool("QUESTION_FILTER", false),
		PromptDir:        getenv("PROMPT_DIR", ""),
		MaxUploadBytes:   mustInt64("MAX_UPLOAD_BYTES", 20<<20),
		RateLimitPerMin:  mustInt("RATE_LIMIT_PER_MIN", 60),
		StorageMode:      getenv("STORAGE_MODE", "local"),
		LocalStorageDir:  getenv("LOCAL_STORAGE_DIR", "./uploads"),
		S3Bucket:         getenv("S3_BUCKET", "medlens-uploads"),
		S3Endpoint:       getenv("S3_ENDPOINT", ""),
		S3Region:         getenv("S3_REGION", "us-east-1"),
		AWSAccessKey:     getenv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:     getenv("AWS_SECRET_ACCESS_KEY", ""),
		S3ForcePathStyle: getBool("S3_FORCE_PATH_STYLE", true),
		RedisURL:         getenv("REDIS_URL", ""),
		CacheTTL:         mustDuration("CACHE_TTL", 10*time.Minute),
		DatabaseURL:      getenv("DATABASE_URL", ""),
		JWTSecret:        getenv("JWT_SECRET", ""),
		JWTIssuer:        getenv("JWT_ISSUER", "medlens"),
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
