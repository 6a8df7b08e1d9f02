package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"ai-tools/internal/apify"
	"ai-tools/internal/cache"
	"ai-tools/internal/config"
	"ai-tools/internal/contextualizer"
	"ai-tools/internal/links"
	"ai-tools/internal/llm"
	"ai-tools/internal/logger"
	"ai-tools/internal/queue"
	"ai-tools/internal/socialposts"
	"ai-tools/internal/store"
)

const apifyTimeout = 60 * time.Second

// Deps bundles common runtime dependencies for services.
type Deps struct {
	Config config.Config
	Log    *slog.Logger
	Store  store.Store
	Cache  cache.Cache
	Queue  queue.Queue
	LLM    llm.Client
	Links  *links.Service

	// Worker only. Syncer is nil when APIFY_API_KEY is unset.
	SocialPosts store.SocialPostStore
	Syncer      *socialposts.Syncer
	Classifier  *socialposts.Classifier
}

// LoadConfig reads .env when present and parses the environment.
func LoadConfig() (config.Config, *slog.Logger) {
	envErr := godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Debug("no .env file loaded", "err", envErr)
	}
	return cfg, log
}

// Build loads env, config, and every component the gateway serves.
func Build() (Deps, error) {
	cfg, log := LoadConfig()

	st, err := buildStore(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	c := buildCache(cfg, log)
	q, err := buildQueue(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize queue: %w", err)
	}
	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	ctxClient, err := buildContextualizer(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize contextualizer: %w", err)
	}

	return Deps{
		Config: cfg,
		Log:    log,
		Store:  st,
		Cache:  c,
		Queue:  q,
		LLM:    llmClient,
		Links: links.NewService(links.Options{
			Contextualizer: ctxClient,
			Store:          st,
			Cache:          c,
			Queue:          q,
			LLM:            llmClient,
			Log:            log,
			CacheTTL:       time.Duration(cfg.CacheTTL) * time.Second,
			EmbeddingModel: cfg.EmbeddingModel,
		}),
	}, nil
}

// BuildWorker wires the link worker: store, queue, embeddings and the social
// post jobs.
func BuildWorker() (Deps, error) {
	cfg, log := LoadConfig()

	st, err := buildStore(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	q, err := buildQueue(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize queue: %w", err)
	}
	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	syncer, err := buildSyncer(cfg, st, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize dataset sync: %w", err)
	}

	return Deps{
		Config: cfg,
		Log:    log,
		Store:  st,
		Queue:  q,
		LLM:    llmClient,
		Links: links.NewService(links.Options{
			Store:          st,
			LLM:            llmClient,
			Log:            log,
			EmbeddingModel: cfg.EmbeddingModel,
		}),
		SocialPosts: st,
		Syncer:      syncer,
		Classifier: socialposts.NewClassifier(socialposts.ClassifierOptions{
			Store:  st,
			LLM:    llmClient,
			Labels: cfg.SocialPostLabels,
			Batch:  cfg.SocialClassifyBatch,
			Model:  cfg.LLMModel,
			Log:    log.With("job", "social_classify"),
		}),
	}, nil
}

func buildStore(cfg config.Config, log *slog.Logger) (*store.PostgresStore, error) {
	switch cfg.StoreProvider {
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		dims, err := embeddingDimensions(cfg)
		if err != nil {
			return nil, err
		}
		db, err := store.NewPostgres(cfg.DBURL, dims)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres store", "embedding_dimensions", dims)
		return db, nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid option: postgres)", cfg.StoreProvider)
	}
}

// embeddingDimensions prefers EMBEDDING_DIMENSIONS and otherwise derives the
// width from the embedding model.
func embeddingDimensions(cfg config.Config) (int, error) {
	if cfg.EmbeddingDimensions > 0 {
		return cfg.EmbeddingDimensions, nil
	}
	if cfg.EmbeddingDimensions < 0 {
		return 0, fmt.Errorf("invalid EMBEDDING_DIMENSIONS: %d", cfg.EmbeddingDimensions)
	}
	dims, ok := llm.EmbeddingDimensions(cfg.EmbeddingModel)
	if !ok {
		return 0, fmt.Errorf("EMBEDDING_DIMENSIONS is required for embedding model %q", cfg.EmbeddingModel)
	}
	return dims, nil
}

// buildSyncer returns nil without an Apify token: the sync job is optional.
func buildSyncer(cfg config.Config, st store.SocialPostStore, log *slog.Logger) (*socialposts.Syncer, error) {
	if cfg.ApifyAPIKey == "" {
		log.Info("APIFY_API_KEY not set, dataset sync disabled")
		return nil, nil
	}
	client, err := apify.New(cfg.ApifyAPIKey, cfg.ApifyBaseURL, apifyTimeout)
	if err != nil {
		return nil, err
	}
	log.Info("using Apify dataset sync", "base_url", cfg.ApifyBaseURL)
	return socialposts.NewSyncer(client, st, log.With("job", "social_sync")), nil
}

// buildCache never fails: an unreachable Redis degrades to the no-op cache.
func buildCache(cfg config.Config, log *slog.Logger) cache.Cache {
	switch cfg.CacheProvider {
	case "redis":
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable, caching disabled", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNoOpCache()
		}
		log.Info("using Redis cache", "addr", cfg.RedisAddr)
		return c
	case "none", "":
		log.Info("caching disabled")
		return cache.NewNoOpCache()
	default:
		log.Warn("unknown CACHE_PROVIDER, caching disabled", "provider", cfg.CacheProvider)
		return cache.NewNoOpCache()
	}
}

func buildQueue(cfg config.Config, log *slog.Logger) (queue.Queue, error) {
	switch cfg.QueueProvider {
	case "nats":
		if cfg.QueueURL == "" {
			return nil, fmt.Errorf("QUEUE_URL is required when QUEUE_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.QueueURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS queue")
		return queue.NewNATS(log, nc, queue.NATSOptions{}), nil
	default:
		return nil, fmt.Errorf("invalid QUEUE_PROVIDER: %s (valid option: nats)", cfg.QueueProvider)
	}
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		client, err := llm.NewOpenAIClient(llm.OpenAIOptions{
			APIKey:         cfg.OpenAIKey,
			BaseURL:        cfg.OpenAIBaseURL,
			ChatModel:      cfg.LLMModel,
			EmbeddingModel: cfg.EmbeddingModel,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI LLM client", "model", cfg.LLMModel, "embedding_model", cfg.EmbeddingModel)
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid option: openai)", cfg.LLMProvider)
	}
}

func buildContextualizer(cfg config.Config, log *slog.Logger) (contextualizer.Contextualizer, error) {
	if cfg.ContextualizerAPIKey == "" {
		return nil, fmt.Errorf("CONTEXTUALIZER_API_KEY is required")
	}
	client, err := contextualizer.NewWorkflowClient(
		cfg.ContextualizerURL,
		cfg.ContextualizerAPIKey,
		cfg.ContextualizerUser,
		time.Duration(cfg.ContextualizerTimeout)*time.Second,
	)
	if err != nil {
		return nil, err
	}
	log.Info("using workflow contextualizer", "endpoint", cfg.ContextualizerURL)
	return client, nil
}
