package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"ai-tools/internal/app"
	"ai-tools/internal/httputil"
	"ai-tools/internal/queue"
	"ai-tools/internal/socialposts"
)

func main() {
	deps, err := app.BuildWorker()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("link worker starting")

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		return deps.Queue.Worker(ctx, queue.TaskTypeEmbedLink, func(ctx context.Context, task queue.Task) error {
			return handleEmbedLink(ctx, deps, task)
		})
	})

	for _, job := range socialJobs(deps) {
		g.Go(func() error {
			return socialposts.RunEvery(ctx, deps.Log, job.name, job.interval, job.immediate, job.run)
		})
	}

	g.Go(func() error {
		return httputil.ServeHealth(deps.Log, deps.Config.Port, "linkworker")
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("link worker stopped", "err", err)
	}
}

func handleEmbedLink(ctx context.Context, deps app.Deps, task queue.Task) error {
	payload, err := queue.DecodeEmbedLink(task)
	if err != nil {
		return err
	}
	if payload.ContextualizedLink == "" {
		return queue.Permanent(fmt.Errorf("embed_link task %s has no contextualized link", task.ID))
	}
	if err := deps.Links.EmbedLink(ctx, payload); err != nil {
		return err
	}
	deps.Log.Info("link embedded", "link_id", payload.LinkID, "attempt", task.Attempts)
	return nil
}

type periodicJob struct {
	name      string
	interval  time.Duration
	immediate bool
	run       func(context.Context) error
}

// socialJobs lists the enabled social post jobs. Sync waits one interval
// before its first run; classification starts at once.
func socialJobs(deps app.Deps) []periodicJob {
	var jobs []periodicJob
	if deps.Syncer != nil {
		jobs = append(jobs, periodicJob{
			name:     "social_sync",
			interval: time.Duration(deps.Config.SocialSyncInterval) * time.Second,
			run: func(ctx context.Context) error {
				_, err := deps.Syncer.Sync(ctx)
				return err
			},
		})
	}
	if deps.Classifier != nil {
		jobs = append(jobs, periodicJob{
			name:      "social_classify",
			interval:  time.Duration(deps.Config.SocialClassifyInterval) * time.Second,
			immediate: true,
			run: func(ctx context.Context) error {
				_, err := deps.Classifier.Classify(ctx)
				return err
			},
		})
	}
	return jobs
}
