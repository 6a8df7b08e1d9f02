package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration shared by the gateway, the link worker
// and the link tool.
type Config struct {
	// Server
	Port               int      `env:"PORT" envDefault:"8080"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string   `env:"LOG_FORMAT" envDefault:"json"` // "json" or "text"
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:8501"`

	// Store
	StoreProvider string `env:"STORE_PROVIDER" envDefault:"postgres"` // "postgres"
	DBURL         string `env:"DB_URL"`

	// Cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"redis"` // "redis" or "none"
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"3600"` // seconds

	// Queue
	QueueProvider string `env:"QUEUE_PROVIDER" envDefault:"nats"` // "nats"
	QueueURL      string `env:"QUEUE_URL"`

	// LLM & Embeddings
	LLMProvider    string `env:"LLM_PROVIDER" envDefault:"openai"` // "openai"
	OpenAIKey      string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string `env:"OPENAI_BASE_URL"`
	LLMModel       string `env:"LLM_MODEL" envDefault:"gpt-4.1-mini"`
	EmbeddingModel string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`

	// EmbeddingDimensions overrides the width derived from EmbeddingModel;
	// required for models the client does not know.
	EmbeddingDimensions int `env:"EMBEDDING_DIMENSIONS"`

	// Contextualization workflow
	ContextualizerURL     string `env:"CONTEXTUALIZER_URL" envDefault:"https://api.dify.ai/v1/workflows/run"`
	ContextualizerAPIKey  string `env:"CONTEXTUALIZER_API_KEY"`
	ContextualizerUser    string `env:"CONTEXTUALIZER_USER" envDefault:"ai-tools"`
	ContextualizerTimeout int    `env:"CONTEXTUALIZER_TIMEOUT" envDefault:"120"` // seconds

	// Social posts (Apify sync and classification jobs in the link worker)
	ApifyAPIKey            string   `env:"APIFY_API_KEY"`
	ApifyBaseURL           string   `env:"APIFY_BASE_URL" envDefault:"https://api.apify.com/v2"`
	SocialSyncInterval     int      `env:"SOCIAL_SYNC_INTERVAL" envDefault:"3600"`     // seconds
	SocialClassifyInterval int      `env:"SOCIAL_CLASSIFY_INTERVAL" envDefault:"3600"` // seconds
	SocialClassifyBatch    int      `env:"SOCIAL_CLASSIFY_BATCH" envDefault:"100"`
	SocialPostLabels       []string `env:"SOCIAL_POST_LABELS" envSeparator:"," envDefault:"question,recommendation,promotion,job,event,other"`

	// Link tool
	BackendAPIURL string `env:"BACKEND_API_URL" envDefault:"http://localhost:8080"`
	APITimeout    int    `env:"API_TIMEOUT" envDefault:"30"` // seconds
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
