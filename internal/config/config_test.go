package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Save original env and restore after test
	originalEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range originalEnv {
			for i, c := range env {
				if c == '=' {
					os.Setenv(env[:i], env[i+1:])
					break
				}
			}
		}
	}()

	os.Clearenv()

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFormat", cfg.LogFormat, "json"},
		{"LLMProvider", cfg.LLMProvider, "openai"},
		{"StoreProvider", cfg.StoreProvider, "postgres"},
		{"CacheProvider", cfg.CacheProvider, "redis"},
		{"QueueProvider", cfg.QueueProvider, "nats"},
		{"LLMModel", cfg.LLMModel, "gpt-4.1-mini"},
		{"EmbeddingModel", cfg.EmbeddingModel, "text-embedding-3-small"},
		{"CacheTTL", cfg.CacheTTL, 3600},
		{"ContextualizerUser", cfg.ContextualizerUser, "ai-tools"},
		{"ContextualizerTimeout", cfg.ContextualizerTimeout, 120},
		{"BackendAPIURL", cfg.BackendAPIURL, "http://localhost:8080"},
		{"APITimeout", cfg.APITimeout, 30},
		{"CORSOrigins", len(cfg.CORSAllowedOrigins), 2},
		{"EmbeddingDimensions", cfg.EmbeddingDimensions, 0},
		{"ApifyBaseURL", cfg.ApifyBaseURL, "https://api.apify.com/v2"},
		{"SocialSyncInterval", cfg.SocialSyncInterval, 3600},
		{"SocialClassifyInterval", cfg.SocialClassifyInterval, 3600},
		{"SocialClassifyBatch", cfg.SocialClassifyBatch, 100},
		{"SocialPostLabels", len(cfg.SocialPostLabels), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:4000/v1/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://tools.example.com")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.OpenAIBaseURL != "http://localhost:4000/v1/" {
		t.Errorf("unexpected base url %q", cfg.OpenAIBaseURL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://tools.example.com" {
		t.Errorf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadProviderOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "stub")
	t.Setenv("CACHE_PROVIDER", "none")

	cfg := Load()

	if cfg.LLMProvider != "stub" {
		t.Errorf("expected LLM provider 'stub', got %s", cfg.LLMProvider)
	}
	if cfg.CacheProvider != "none" {
		t.Errorf("expected cache provider 'none', got %s", cfg.CacheProvider)
	}
}
