package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCache is a mock implementation of the Cache interface for testing
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetLink(ctx context.Context, contextualizedLink string) (string, bool, error) {
	args := m.Called(ctx, contextualizedLink)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCache) SetLink(ctx context.Context, contextualizedLink, link string, ttl time.Duration) error {
	args := m.Called(ctx, contextualizedLink, link, ttl)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
