package llm

import (
	"context"

	"ai-tools/internal/embeddings"
)

const (
	DefaultChatModel      = "gpt-4.1-mini"
	DefaultEmbeddingModel = "text-embedding-3-small"
)

var embeddingDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// EmbeddingDimensions reports the vector width of a known embedding model.
func EmbeddingDimensions(model string) (int, bool) {
	d, ok := embeddingDimensions[model]
	return d, ok
}

// Client is a minimal LLM interface to allow pluggable providers.
// An empty model selects the client's default.
type Client interface {
	Complete(ctx context.Context, messages []Message, model string) (string, error)
	Embed(ctx context.Context, texts []string, model string) ([]embeddings.Vector, error)
}
