package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ai-tools/internal/embeddings"
)

var (
	ErrLinkNotFound      = errors.New("contextual link not found")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// ContextualLink pairs an original URL with its normalized contextualized form.
type ContextualLink struct {
	ID                 uuid.UUID `json:"id"`
	Link               string    `json:"link"`
	ContextualizedLink string    `json:"contextualized_link"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type LinkEmbedding struct {
	LinkID uuid.UUID
	Vector embeddings.Vector
	Model  string
}

type SearchResult struct {
	Link  ContextualLink `json:"link"`
	Score float64        `json:"score"`
}

// Store defines the persistence contract for contextual links.
type Store interface {
	UpsertLink(ctx context.Context, link, contextualizedLink string) (ContextualLink, error)
	FindByLink(ctx context.Context, link string) (ContextualLink, error)
	FindByContextualizedLink(ctx context.Context, contextualizedLink string) (ContextualLink, error)
	SaveLinkEmbedding(ctx context.Context, emb LinkEmbedding) error
	SimilarLinks(ctx context.Context, vector embeddings.Vector, k int) ([]SearchResult, error)
}
