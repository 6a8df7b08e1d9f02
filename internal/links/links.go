package links

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ai-tools/internal/cache"
	"ai-tools/internal/contextualizer"
	"ai-tools/internal/llm"
	"ai-tools/internal/queue"
	"ai-tools/internal/store"
)

const (
	DefaultSimilarK = 5
	MaxSimilarK     = 20

	enqueueAttempts = 3
)

var (
	ErrLinkRequired        = errors.New("link query parameter is required")
	ErrInvalidLink         = errors.New("link must be an http or https URL")
	ErrEmptyContextualLink = errors.New("contextualized link is empty")
	ErrQueryRequired       = errors.New("query is required")
)

// Options wires a Service. Queue may be nil, which disables link embedding.
type Options struct {
	Contextualizer contextualizer.Contextualizer
	Store          store.Store
	Cache          cache.Cache
	Queue          queue.Queue
	LLM            llm.Client
	Log            *slog.Logger
	CacheTTL       time.Duration
	EmbeddingModel string
}

// Service contextualizes links, resolves them back, and indexes them for
// similarity search.
type Service struct {
	contextualizer contextualizer.Contextualizer
	store          store.Store
	cache          cache.Cache
	queue          queue.Queue
	llm            llm.Client
	log            *slog.Logger
	cacheTTL       time.Duration
	embeddingModel string
	enqueueBackoff time.Duration
}

func NewService(opts Options) *Service {
	c := opts.Cache
	if c == nil {
		c = cache.NewNoOpCache()
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		contextualizer: opts.Contextualizer,
		store:          opts.Store,
		cache:          c,
		queue:          opts.Queue,
		llm:            opts.LLM,
		log:            log,
		cacheTTL:       opts.CacheTTL,
		embeddingModel: opts.EmbeddingModel,
		enqueueBackoff: 200 * time.Millisecond,
	}
}

// Contextualize runs the workflow for link, persists the normalized result
// and schedules it for embedding.
func (s *Service) Contextualize(ctx context.Context, link string) (store.ContextualLink, error) {
	if err := ValidateLink(link); err != nil {
		return store.ContextualLink{}, err
	}

	raw, err := s.contextualizer.Contextualize(ctx, link)
	if err != nil {
		return store.ContextualLink{}, fmt.Errorf("contextualize %s: %w", link, err)
	}
	contextualized := Normalize(raw)
	if contextualized == "" {
		return store.ContextualLink{}, ErrEmptyContextualLink
	}

	record, err := s.store.UpsertLink(ctx, link, contextualized)
	if err != nil {
		return store.ContextualLink{}, err
	}
	log := s.log.With("link", link, "contextualized_link", contextualized)

	if err := s.cache.SetLink(ctx, contextualized, link, s.cacheTTL); err != nil {
		log.Warn("failed to cache contextualized link", "err", err)
	}
	s.scheduleEmbedding(ctx, record, log)
	return record, nil
}

// scheduleEmbedding is best effort: the link is already stored, so enqueue
// failures are only logged.
func (s *Service) scheduleEmbedding(ctx context.Context, record store.ContextualLink, log *slog.Logger) {
	if s.queue == nil {
		return
	}
	task, err := queue.NewEmbedLinkTask(queue.EmbedLinkPayload{
		LinkID:             record.ID,
		Link:               record.Link,
		ContextualizedLink: record.ContextualizedLink,
	})
	if err != nil {
		log.Warn("failed to build embed task", "err", err)
		return
	}
	if err := queue.EnqueueWithRetry(ctx, s.queue, task, enqueueAttempts, s.enqueueBackoff); err != nil {
		log.Warn("failed to enqueue embed task", "err", err)
	}
}

// Lookup returns the stored record for an original link without running the
// workflow.
func (s *Service) Lookup(ctx context.Context, link string) (store.ContextualLink, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return store.ContextualLink{}, ErrLinkRequired
	}
	return s.store.FindByLink(ctx, link)
}

// Resolve returns the original link behind a contextualized link.
func (s *Service) Resolve(ctx context.Context, contextualizedLink string) (string, error) {
	key := Normalize(contextualizedLink)
	if key == "" {
		return "", ErrLinkRequired
	}

	if link, ok, err := s.cache.GetLink(ctx, key); err != nil {
		s.log.Warn("cache lookup failed", "contextualized_link", key, "err", err)
	} else if ok {
		return link, nil
	}

	record, err := s.store.FindByContextualizedLink(ctx, key)
	if err != nil {
		return "", err
	}
	if err := s.cache.SetLink(ctx, key, record.Link, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache contextualized link", "contextualized_link", key, "err", err)
	}
	return record.Link, nil
}

// Similar embeds query and returns the k closest stored links.
func (s *Service) Similar(ctx context.Context, query string, k int) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrQueryRequired
	}
	if k <= 0 {
		k = DefaultSimilarK
	}
	if k > MaxSimilarK {
		k = MaxSimilarK
	}
	vectors, err := s.llm.Embed(ctx, []string{query}, s.embeddingModel)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return s.store.SimilarLinks(ctx, vectors[0], k)
}

// EmbedLink computes and stores the embedding of a contextualized link.
func (s *Service) EmbedLink(ctx context.Context, payload queue.EmbedLinkPayload) error {
	vectors, err := s.llm.Embed(ctx, []string{embeddingText(payload)}, s.embeddingModel)
	if err != nil {
		return fmt.Errorf("failed to embed link %s: %w", payload.LinkID, err)
	}
	return s.store.SaveLinkEmbedding(ctx, store.LinkEmbedding{
		LinkID: payload.LinkID,
		Vector: vectors[0],
		Model:  s.embeddingModel,
	})
}

func embeddingText(p queue.EmbedLinkPayload) string {
	return p.ContextualizedLink + "\n" + p.Link
}
