package config

import (
	"log/slog"
	"path/filepath"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration for the chatbot gateway.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Sessions
	SessionTTL int `env:"SESSION_TTL" envDefault:"1800"` // idle seconds before a session is dropped

	// Model completion endpoint
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"http://localhost:11434/v1"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"llama3.2"`
	LLMAPIKey  string `env:"LLM_API_KEY"`
	OllamaKey  string `env:"OLLAMA_API_KEY"`
	LLMTimeout int    `env:"LLM_TIMEOUT" envDefault:"0"` // seconds, 0 disables the deadline

	// Keyword sources
	KeywordsDir         string `env:"KEYWORDS_DIR" envDefault:"keywords"`
	GreetingKeywords    string `env:"GREETING_KEYWORDS"`
	RescheduleKeywords  string `env:"RESCHEDULE_KEYWORDS"`
	AppointmentKeywords string `env:"APPOINTMENT_KEYWORDS"`
	StemKeywords        string `env:"STEM_KEYWORDS"`
	ExitKeywords        string `env:"EXIT_KEYWORDS"`

	// Summary cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"none"` // "none" or "redis"
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"3600"` // seconds

	// Turn events
	EventsProvider string `env:"EVENTS_PROVIDER" envDefault:"none"` // "none" or "nats"
	NATSURL        string `env:"NATS_URL"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// APIKey returns the bearer token for the model endpoint. OLLAMA_API_KEY is
// honored when LLM_API_KEY is unset.
func (c Config) APIKey() string {
	if c.LLMAPIKey != "" {
		return c.LLMAPIKey
	}
	return c.OllamaKey
}

// KeywordPaths resolves the keyword-list source for each category. Explicit
// per-category paths win over KEYWORDS_DIR/<category>_keywords.txt.
func (c Config) KeywordPaths() map[string]string {
	pick := func(override, category string) string {
		if override != "" {
			return override
		}
		return filepath.Join(c.KeywordsDir, category+"_keywords.txt")
	}
	return map[string]string{
		"greeting":    pick(c.GreetingKeywords, "greeting"),
		"reschedule":  pick(c.RescheduleKeywords, "reschedule"),
		"appointment": pick(c.AppointmentKeywords, "appointment"),
		"stem":        pick(c.StemKeywords, "stem"),
		"exit":        pick(c.ExitKeywords, "exit"),
	}
}
