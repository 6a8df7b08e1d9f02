package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"ai-tools/internal/retry"
)

// NATSOptions tunes retry behavior. Zero values use the defaults.
type NATSOptions struct {
	SubjectPrefix string        // default "tasks"
	MaxAttempts   int           // default 5
	RetryBase     time.Duration // default 1s
}

func (o NATSOptions) withDefaults() NATSOptions {
	if o.SubjectPrefix == "" {
		o.SubjectPrefix = "tasks"
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 5
	}
	if o.RetryBase <= 0 {
		o.RetryBase = time.Second
	}
	return o
}

// NATSQueue publishes tasks as JSON on "<prefix>.<type>" and consumes them
// through a queue group per task type.
type NATSQueue struct {
	log     *slog.Logger
	nc      *nats.Conn
	opts    NATSOptions
	publish func(subject string, data []byte) error
}

func NewNATS(log *slog.Logger, nc *nats.Conn, opts NATSOptions) *NATSQueue {
	return &NATSQueue{
		log:     log,
		nc:      nc,
		opts:    opts.withDefaults(),
		publish: nc.Publish,
	}
}

func (q *NATSQueue) subject(taskType TaskType) string {
	return q.opts.SubjectPrefix + "." + string(taskType)
}

func (q *NATSQueue) Enqueue(_ context.Context, task Task) error {
	if task.Type == "" {
		return errors.New("task type required")
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.MaxAttempts == 0 {
		task.MaxAttempts = q.opts.MaxAttempts
	}
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	return q.publish(q.subject(task.Type), body)
}

// Worker consumes taskType until ctx is done, then drains the subscription.
func (q *NATSQueue) Worker(ctx context.Context, taskType TaskType, handler Handler) error {
	group := "workers-" + string(taskType)
	sub, err := q.nc.QueueSubscribe(q.subject(taskType), group, func(msg *nats.Msg) {
		q.handle(ctx, msg.Data, handler)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", q.subject(taskType), err)
	}
	q.log.Info("queue worker subscribed", "subject", q.subject(taskType), "group", group)
	<-ctx.Done()
	return sub.Drain()
}

func (q *NATSQueue) handle(ctx context.Context, data []byte, handler Handler) {
	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		q.log.Error("failed to decode task", "err", err)
		return
	}
	log := q.log.With("task_id", task.ID, "type", task.Type, "attempt", task.Attempts+1)

	if wait := time.Until(task.NotBefore); wait > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}

	err := handler(ctx, task)
	switch {
	case err == nil:
		log.Debug("task done")
	case errors.Is(err, ErrPermanent):
		log.Error("task dropped", "err", err)
	default:
		q.retry(ctx, task, err, log)
	}
}

func (q *NATSQueue) retry(ctx context.Context, task Task, handlerErr error, log *slog.Logger) {
	task.Attempts++
	if task.MaxAttempts == 0 {
		task.MaxAttempts = q.opts.MaxAttempts
	}
	if task.Attempts >= task.MaxAttempts {
		log.Error("task permanently failed", "err", handlerErr)
		return
	}

	delay := retry.ExponentialBackoff(task.Attempts, q.opts.RetryBase)
	task.NotBefore = time.Now().Add(delay)
	if err := q.Enqueue(ctx, task); err != nil {
		log.Error("failed to re-enqueue task", "handler_err", handlerErr, "enqueue_err", err)
		return
	}
	log.Warn("task failed, retry scheduled", "err", handlerErr, "delay", delay)
}
