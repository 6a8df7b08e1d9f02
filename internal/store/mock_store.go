package store

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ai-tools/internal/embeddings"
)

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) UpsertLink(ctx context.Context, link, contextualizedLink string) (ContextualLink, error) {
	args := m.Called(ctx, link, contextualizedLink)
	return args.Get(0).(ContextualLink), args.Error(1)
}

func (m *MockStore) FindByLink(ctx context.Context, link string) (ContextualLink, error) {
	args := m.Called(ctx, link)
	return args.Get(0).(ContextualLink), args.Error(1)
}

func (m *MockStore) FindByContextualizedLink(ctx context.Context, contextualizedLink string) (ContextualLink, error) {
	args := m.Called(ctx, contextualizedLink)
	return args.Get(0).(ContextualLink), args.Error(1)
}

func (m *MockStore) SaveLinkEmbedding(ctx context.Context, emb LinkEmbedding) error {
	args := m.Called(ctx, emb)
	return args.Error(0)
}

func (m *MockStore) SimilarLinks(ctx context.Context, vector embeddings.Vector, k int) ([]SearchResult, error) {
	args := m.Called(ctx, vector, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SearchResult), args.Error(1)
}

// MockSocialPostStore is a mock implementation of SocialPostStore using testify/mock.
type MockSocialPostStore struct {
	mock.Mock
}

func (m *MockSocialPostStore) InsertSocialPost(ctx context.Context, channel string, raw json.RawMessage, hash string) (bool, error) {
	args := m.Called(ctx, channel, raw, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockSocialPostStore) ListUnclassifiedSocialPosts(ctx context.Context, limit int) ([]SocialPost, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SocialPost), args.Error(1)
}

func (m *MockSocialPostStore) SaveClassification(ctx context.Context, id uuid.UUID, label string) error {
	return m.Called(ctx, id, label).Error(0)
}
