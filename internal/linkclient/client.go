package linkclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	contextualizePath = "/contextualize-link"
	healthPath        = "/healthz"
)

var (
	ErrEmptyLink       = errors.New("link cannot be empty")
	ErrInvalidResponse = errors.New("invalid response format from server")
)

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Result is the contextualization result returned by the gateway.
type Result struct {
	Link               string `json:"link"`
	ContextualizedLink string `json:"contextualized_link"`
	RequestID          string `json:"-"`
}

type envelope struct {
	Code      int              `json:"code"`
	ErrorMsg  string           `json:"error_msg"`
	Result    *json.RawMessage `json:"result"`
	RequestID string           `json:"request_id"`
}

// Client talks to the gateway's link endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Contextualize asks the gateway to contextualize link.
func (c *Client) Contextualize(ctx context.Context, link string) (Result, error) {
	if strings.TrimSpace(link) == "" {
		return Result{}, ErrEmptyLink
	}
	q := url.Values{"link": {link}}
	var env envelope
	if err := c.get(ctx, contextualizePath+"?"+q.Encode(), &env); err != nil {
		return Result{}, err
	}
	if env.Result == nil {
		return Result{}, ErrInvalidResponse
	}
	var res Result
	if err := json.Unmarshal(*env.Result, &res); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	res.RequestID = env.RequestID
	return res, nil
}

// RedirectURL builds the public redirect URL for a contextualized link.
func (c *Client) RedirectURL(client, contextualizedLink string) string {
	return fmt.Sprintf("%s/redirect/%s/%s", c.baseURL, url.PathEscape(client), url.PathEscape(contextualizedLink))
}

// Health reports whether the gateway answers its health check.
func (c *Client) Health(ctx context.Context) bool {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.get(ctx, healthPath, &body); err != nil {
		return false
	}
	return body.Message == "OK"
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return fmt.Errorf("request timed out, please try again: %w", err)
		}
		return fmt.Errorf("cannot connect to backend API at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid JSON response from server: %w", err)
	}
	return nil
}

func statusError(status int, body []byte) *APIError {
	switch status {
	case http.StatusBadRequest:
		return &APIError{StatusCode: status, Message: "bad request, please check your input"}
	case http.StatusNotFound:
		return &APIError{StatusCode: status, Message: "resource not found"}
	case http.StatusInternalServerError:
		msg := "internal server error"
		var env envelope
		if json.Unmarshal(body, &env) == nil && env.ErrorMsg != "" {
			msg = env.ErrorMsg
		}
		return &APIError{StatusCode: status, Message: msg}
	default:
		return &APIError{StatusCode: status, Message: fmt.Sprintf("http error occurred: %d %s", status, http.StatusText(status))}
	}
}
