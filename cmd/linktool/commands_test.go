package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ai-tools/internal/linkclient"
	"ai-tools/internal/links"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) Contextualize(ctx context.Context, link string) (linkclient.Result, error) {
	args := m.Called(ctx, link)
	return args.Get(0).(linkclient.Result), args.Error(1)
}

func (m *mockAPI) RedirectURL(client, contextualizedLink string) string {
	return m.Called(client, contextualizedLink).String(0)
}

func (m *mockAPI) Health(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

func run(api linkAPI, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root := newRootCmd(api)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestContextualizeCmd(t *testing.T) {
	api := new(mockAPI)
	api.On("Contextualize", mock.Anything, "https://example.com/a").
		Return(linkclient.Result{Link: "https://example.com/a", ContextualizedLink: "example.com/a-ctx"}, nil).Once()
	api.On("RedirectURL", "tho", "example.com/a-ctx").Return("http://localhost:8080/redirect/tho/example.com%2Fa-ctx").Once()

	out, err := run(api, "contextualize", "https://example.com/a", "--client", "tho")
	require.NoError(t, err)
	assert.Contains(t, out, "example.com/a-ctx")
	assert.Contains(t, out, "http://localhost:8080/redirect/tho/example.com%2Fa-ctx")
	api.AssertExpectations(t)
}

func TestContextualizeCmdJSON(t *testing.T) {
	api := new(mockAPI)
	api.On("Contextualize", mock.Anything, "https://example.com/a").
		Return(linkclient.Result{Link: "https://example.com/a", ContextualizedLink: "example.com/a-ctx", RequestID: "req-1"}, nil).Once()
	api.On("RedirectURL", defaultClient, "example.com/a-ctx").Return("http://gw/redirect/cli/example.com%2Fa-ctx").Once()

	out, err := run(api, "contextualize", "https://example.com/a", "--json")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "example.com/a-ctx", got["contextualized_link"])
	assert.Equal(t, "http://gw/redirect/cli/example.com%2Fa-ctx", got["redirect_url"])
	assert.Equal(t, "req-1", got["request_id"])
	api.AssertExpectations(t)
}

func TestContextualizeCmdRejectsInvalidLink(t *testing.T) {
	api := new(mockAPI)
	_, err := run(api, "contextualize", "not a url")
	assert.ErrorIs(t, err, links.ErrInvalidLink)
	api.AssertNotCalled(t, "Contextualize", mock.Anything, mock.Anything)
}

func TestContextualizeCmdRequiresArg(t *testing.T) {
	_, err := run(new(mockAPI), "contextualize")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestContextualizeCmdAPIError(t *testing.T) {
	api := new(mockAPI)
	apiErr := &linkclient.APIError{StatusCode: 500, Message: "contextualized link is empty"}
	api.On("Contextualize", mock.Anything, "https://example.com").Return(linkclient.Result{}, apiErr).Once()

	_, err := run(api, "contextualize", "https://example.com")
	var got *linkclient.APIError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, 500, got.StatusCode)
}

func TestContextualizeCmdClientFlag(t *testing.T) {
	cmd := newContextualizeCmd(new(mockAPI))
	flag := cmd.Flags().Lookup("client")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
	assert.Equal(t, defaultClient, flag.DefValue)
}

func TestHealthCmd(t *testing.T) {
	healthy := new(mockAPI)
	healthy.On("Health", mock.Anything).Return(true).Once()
	out, err := run(healthy, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "healthy")

	down := new(mockAPI)
	down.On("Health", mock.Anything).Return(false).Once()
	_, err = run(down, "health")
	assert.EqualError(t, err, "backend API is unavailable")
}
