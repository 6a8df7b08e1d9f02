package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheGetLinkHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheFromClient(client)

	mock.ExpectGet("link:example.com/test").SetVal("https://example.com/test")

	link, ok, err := c.GetLink(context.Background(), "example.com/test")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/test", link)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheGetLinkMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheFromClient(client)

	mock.ExpectGet("link:missing").RedisNil()

	link, ok, err := c.GetLink(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, link)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheGetLinkError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheFromClient(client)

	mock.ExpectGet("link:x").SetErr(errors.New("connection refused"))

	_, ok, err := c.GetLink(context.Background(), "x")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCacheSetLink(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheFromClient(client)

	mock.ExpectSet("link:example.com/test", "https://example.com/test", time.Hour).SetVal("OK")

	err := c.SetLink(context.Background(), "example.com/test", "https://example.com/test", time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
