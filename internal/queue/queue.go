package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-tools/internal/retry"
)

// TaskType enumerates supported task categories.
type TaskType string

const (
	TaskTypeEmbedLink TaskType = "embed_link"
)

// Task is one unit of work published by the gateway and consumed by workers.
type Task struct {
	ID          uuid.UUID       `json:"id"`
	Type        TaskType        `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts,omitempty"`
	NotBefore   time.Time       `json:"not_before,omitempty"`
}

// EmbedLinkPayload is the payload of a TaskTypeEmbedLink task.
type EmbedLinkPayload struct {
	LinkID             uuid.UUID `json:"link_id"`
	Link               string    `json:"link"`
	ContextualizedLink string    `json:"contextualized_link"`
}

// NewEmbedLinkTask encodes p into an embed_link task.
func NewEmbedLinkTask(p EmbedLinkPayload) (Task, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return Task{}, fmt.Errorf("encode embed_link payload: %w", err)
	}
	return Task{Type: TaskTypeEmbedLink, Payload: body}, nil
}

// DecodeEmbedLink reads the payload of an embed_link task. Malformed payloads
// are permanent failures.
func DecodeEmbedLink(task Task) (EmbedLinkPayload, error) {
	var p EmbedLinkPayload
	if task.Type != TaskTypeEmbedLink {
		return p, Permanent(fmt.Errorf("unexpected task type %q", task.Type))
	}
	if err := json.Unmarshal(task.Payload, &p); err != nil {
		return p, Permanent(fmt.Errorf("decode embed_link payload: %w", err))
	}
	return p, nil
}

// ErrPermanent marks handler errors that must not be retried.
var ErrPermanent = errors.New("permanent task failure")

type permanentError struct{ err error }

func (e permanentError) Error() string   { return e.err.Error() }
func (e permanentError) Unwrap() []error { return []error{e.err, ErrPermanent} }

// Permanent wraps err so the worker drops the task instead of re-enqueueing it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

type Handler func(context.Context, Task) error

// Queue exposes a minimal contract to enqueue and consume tasks.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Worker(ctx context.Context, taskType TaskType, handler Handler) error
}

// EnqueueWithRetry attempts to enqueue with retries and exponential backoff.
func EnqueueWithRetry(ctx context.Context, q Queue, task Task, attempts int, base time.Duration) error {
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = q.Enqueue(ctx, task); err == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.ExponentialBackoff(attempt, base)):
		}
	}
	return err
}
