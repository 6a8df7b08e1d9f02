package llm

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ai-tools/internal/embeddings"
)

// MockClient is a mock implementation of Client using testify/mock.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Complete(ctx context.Context, messages []Message, model string) (string, error) {
	args := m.Called(ctx, messages, model)
	return args.String(0), args.Error(1)
}

func (m *MockClient) Embed(ctx context.Context, texts []string, model string) ([]embeddings.Vector, error) {
	args := m.Called(ctx, texts, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]embeddings.Vector), args.Error(1)
}
