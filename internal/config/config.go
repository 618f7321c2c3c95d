// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// Chat + embeddings (OpenAI-compatible API)
	OpenAIAPIKey      string  `env:"OPENAI_API_KEY"`
	OpenAIBaseURL     string  `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	ChatModel         string  `env:"CHAT_MODEL" envDefault:"gpt-4.1-nano"`
	ChatTemperature   float64 `env:"CHAT_TEMPERATURE" envDefault:"0.7"`
	ChatMaxTokens     int     `env:"CHAT_MAX_TOKENS" envDefault:"512"`
	ChatContextTokens int     `env:"CHAT_CONTEXT_TOKENS" envDefault:"8000"`
	EmbeddingsModel   string  `env:"EMBEDDINGS_MODEL" envDefault:"text-embedding-3-small"`

	// Zero-shot tone classification (Hugging Face inference API)
	HFAPIKey      string `env:"HF_API_KEY"`
	HFBaseURL     string `env:"HF_BASE_URL" envDefault:"https://api-inference.huggingface.co"`
	ZeroShotModel string `env:"ZERO_SHOT_MODEL" envDefault:"facebook/bart-large-mnli"`

	// Grammar checking (LanguageTool HTTP API)
	LanguageToolURL string `env:"LANGUAGETOOL_URL" envDefault:"https://api.languagetool.org"`
	GrammarLanguage string `env:"GRAMMAR_LANGUAGE" envDefault:"en-US"`

	// Persistence. When DBURL is empty transcripts go to TranscriptDir as
	// JSON files; when RedisAddr is empty sessions stay in process memory.
	DBURL         string        `env:"DB_URL"`
	TranscriptDir string        `env:"TRANSCRIPT_DIR" envDefault:"interviews"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	// RoleCatalogPath points at a YAML role catalog; empty uses the
	// compiled-in default roles.
	RoleCatalogPath string `env:"ROLE_CATALOG_PATH"`

	// Observability
	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"ai-interviewer"`

	// HTTP server
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	MaxAnswerChars        int           `env:"MAX_ANSWER_CHARS" envDefault:"4000"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	// AI Backoff Configuration
	AIBackoffMaxElapsedTime  time.Duration `env:"AI_BACKOFF_MAX_ELAPSED_TIME" envDefault:"90s"`
	AIBackoffInitialInterval time.Duration `env:"AI_BACKOFF_INITIAL_INTERVAL" envDefault:"2s"`
	AIBackoffMaxInterval     time.Duration `env:"AI_BACKOFF_MAX_INTERVAL" envDefault:"20s"`
	AIBackoffMultiplier      float64       `env:"AI_BACKOFF_MULTIPLIER" envDefault:"1.5"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that must be present before the process can
// serve interviews. Missing credentials are fatal at startup, not retried.
func (c Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("op=config.Validate: OPENAI_API_KEY missing")
	}
	if c.ChatModel == "" {
		return fmt.Errorf("op=config.Validate: CHAT_MODEL missing")
	}
	return nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// GetAIBackoffConfig returns backoff configuration appropriate for the
// current environment. Test environments use much shorter timeouts.
func (c Config) GetAIBackoffConfig() (maxElapsedTime, initialInterval, maxInterval time.Duration, multiplier float64) {
	if c.IsTest() {
		return 5 * time.Second, 100 * time.Millisecond, 1 * time.Second, 2.0
	}
	return c.AIBackoffMaxElapsedTime, c.AIBackoffInitialInterval, c.AIBackoffMaxInterval, c.AIBackoffMultiplier
}
