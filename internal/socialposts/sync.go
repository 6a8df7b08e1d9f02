package socialposts

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	"ai-tools/internal/apify"
	"ai-tools/internal/store"
)

// ChannelApifyDataset tags posts imported from Apify datasets.
const ChannelApifyDataset = "apify_dataset"

// DatasetSource lists datasets and their raw items.
type DatasetSource interface {
	DatasetIDs(ctx context.Context) ([]string, error)
	AllDatasetItems(ctx context.Context, datasetID string) ([]apify.Item, error)
}

// SyncResult counts what one Sync run did.
type SyncResult struct {
	Datasets int
	Items    int
	Inserted int
	Failed   int
}

// Syncer copies every dataset item into the social post store. Items are
// deduplicated by content hash, so re-running is safe.
type Syncer struct {
	source DatasetSource
	store  store.SocialPostStore
	log    *slog.Logger
}

func NewSyncer(source DatasetSource, st store.SocialPostStore, log *slog.Logger) *Syncer {
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{source: source, store: st, log: log}
}

// Sync fails only when the dataset list cannot be read; per-dataset and
// per-item failures are logged and counted.
func (s *Syncer) Sync(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	ids, err := s.source.DatasetIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to list datasets: %w", err)
	}
	s.log.Info("syncing datasets", "count", len(ids))

	for _, id := range ids {
		log := s.log.With("dataset_id", id)
		items, err := s.source.AllDatasetItems(ctx, id)
		if err != nil {
			log.Error("failed to read dataset", "err", err)
			res.Failed++
			continue
		}
		res.Datasets++
		res.Items += len(items)

		for _, item := range items {
			inserted, err := s.store.InsertSocialPost(ctx, ChannelApifyDataset, item, ContentHash(item))
			if err != nil {
				log.Error("failed to store social post", "err", err)
				res.Failed++
				continue
			}
			if inserted {
				res.Inserted++
			}
		}
	}

	s.log.Info("dataset sync completed",
		"datasets", res.Datasets, "items", res.Items, "inserted", res.Inserted, "failed", res.Failed)
	return res, nil
}

// ContentHash is the md5 of the item's compacted JSON, so formatting
// differences do not defeat deduplication.
func ContentHash(item json.RawMessage) string {
	var buf bytes.Buffer
	data := []byte(item)
	if err := json.Compact(&buf, item); err == nil {
		data = buf.Bytes()
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}
