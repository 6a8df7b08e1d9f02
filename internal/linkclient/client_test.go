package linkclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 0)
}

func TestContextualize(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contextualize-link", r.URL.Path)
		assert.Equal(t, "https://example.com/a?b=c", r.URL.Query().Get("link"))
		_, _ = w.Write([]byte(`{"code":200,"error_msg":"","result":{"link":"https://example.com/a?b=c","contextualized_link":"example.com/a-ctx"},"request_id":"req-1"}`))
	})

	res, err := c.Contextualize(context.Background(), "https://example.com/a?b=c")
	require.NoError(t, err)
	assert.Equal(t, "example.com/a-ctx", res.ContextualizedLink)
	assert.Equal(t, "https://example.com/a?b=c", res.Link)
	assert.Equal(t, "req-1", res.RequestID)
}

func TestContextualizeEmptyLink(t *testing.T) {
	c := New("http://unused.invalid", 0)
	_, err := c.Contextualize(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyLink)
}

func TestContextualizeMissingResult(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200}`))
	})

	_, err := c.Contextualize(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestContextualizeErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"bad request", http.StatusBadRequest, `{}`, "bad request, please check your input"},
		{"not found", http.StatusNotFound, ``, "resource not found"},
		{"server error with message", http.StatusInternalServerError, `{"code":500,"error_msg":"contextualized link is empty"}`, "contextualized link is empty"},
		{"server error without message", http.StatusInternalServerError, `oops`, "internal server error"},
		{"other", http.StatusBadGateway, ``, "http error occurred: 502 Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Contextualize(context.Background(), "https://example.com")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Error())
		})
	}
}

func TestContextualizeInvalidJSON(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := c.Contextualize(context.Background(), "https://example.com")
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestRedirectURL(t *testing.T) {
	c := New("http://localhost:8080/", 0)
	assert.Equal(t, "http://localhost:8080/redirect/tho/example.com%2Fa-ctx", c.RedirectURL("tho", "example.com/a-ctx"))
}

func TestHealth(t *testing.T) {
	healthy := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		_, _ = w.Write([]byte(`{"message":"OK"}`))
	})
	assert.True(t, healthy.Health(context.Background()))

	broken := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.False(t, broken.Health(context.Background()))

	assert.False(t, New("http://127.0.0.1:1", 0).Health(context.Background()))
}
