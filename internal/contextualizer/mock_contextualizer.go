package contextualizer

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockContextualizer is a mock implementation of Contextualizer using testify/mock.
type MockContextualizer struct {
	mock.Mock
}

func (m *MockContextualizer) Contextualize(ctx context.Context, link string) (string, error) {
	args := m.Called(ctx, link)
	return args.String(0), args.Error(1)
}
