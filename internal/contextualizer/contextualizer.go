package contextualizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 120 * time.Second
	maxErrorBody   = 512
)

var ErrWorkflowFailed = errors.New("contextualizer: workflow failed")

// Contextualizer turns a URL into its contextualized form.
type Contextualizer interface {
	Contextualize(ctx context.Context, link string) (string, error)
}

// WorkflowClient runs a blocking contextualization workflow over HTTP.
type WorkflowClient struct {
	endpoint string
	apiKey   string
	user     string
	http     *http.Client
}

type workflowRequest struct {
	Inputs       map[string]string `json:"inputs"`
	ResponseMode string            `json:"response_mode"`
	User         string            `json:"user"`
}

type workflowData struct {
	ID          string          `json:"id"`
	WorkflowID  string          `json:"workflow_id"`
	Status      string          `json:"status"`
	Outputs     json.RawMessage `json:"outputs"`
	Error       string          `json:"error"`
	ElapsedTime float64         `json:"elapsed_time"`
}

type workflowResponse struct {
	TaskID        string       `json:"task_id"`
	WorkflowRunID string       `json:"workflow_run_id"`
	Data          workflowData `json:"data"`
}

type linkOutputs struct {
	Link string `json:"link"`
}

// NewWorkflowClient builds a client for endpoint. A zero timeout uses 120s.
func NewWorkflowClient(endpoint, apiKey, user string, timeout time.Duration) (*WorkflowClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("workflow endpoint required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("workflow api key required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &WorkflowClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		user:     user,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

func (c *WorkflowClient) Contextualize(ctx context.Context, link string) (string, error) {
	body, err := json.Marshal(workflowRequest{
		Inputs:       map[string]string{"link": link},
		ResponseMode: "blocking",
		User:         c.user,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create workflow request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("workflow request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read workflow response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return "", fmt.Errorf("%w: status %d: %s", ErrWorkflowFailed, resp.StatusCode, bytes.TrimSpace(raw))
	}

	var wr workflowResponse
	if err := json.Unmarshal(raw, &wr); err != nil {
		return "", fmt.Errorf("failed to decode workflow response: %w", err)
	}
	if wr.Data.Error != "" || wr.Data.Status == "failed" {
		return "", fmt.Errorf("%w: run %s: %s", ErrWorkflowFailed, wr.WorkflowRunID, wr.Data.Error)
	}

	var out linkOutputs
	if len(wr.Data.Outputs) > 0 && string(wr.Data.Outputs) != "null" {
		if err := json.Unmarshal(wr.Data.Outputs, &out); err != nil {
			return "", fmt.Errorf("failed to decode workflow outputs: %w", err)
		}
	}
	return out.Link, nil
}
