package socialposts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ai-tools/internal/llm"
	"ai-tools/internal/store"
)

const (
	// LabelUnclassifiable marks posts with no text to classify.
	LabelUnclassifiable = "unclassifiable"
	defaultBatch        = 100
)

// DefaultLabels is used when no labels are configured. The last label is the
// fallback for replies that match none.
var DefaultLabels = []string{"question", "recommendation", "promotion", "job", "event", "other"}

// FacebookGroupPost is the subset of the Facebook groups scraper output the
// classifier reads.
type FacebookGroupPost struct {
	GroupURL string `json:"inputUrl"`
	Text     string `json:"text"`
	URL      string `json:"url"`
}

type ClassifierOptions struct {
	Store  store.SocialPostStore
	LLM    llm.Client
	Labels []string
	Batch  int
	Model  string
	Log    *slog.Logger
}

// ClassifyResult counts what one Classify run did.
type ClassifyResult struct {
	Classified     int
	Unclassifiable int
}

// Classifier labels unclassified social posts with the chat model.
type Classifier struct {
	store  store.SocialPostStore
	llm    llm.Client
	labels []string
	batch  int
	model  string
	log    *slog.Logger
}

func NewClassifier(opts ClassifierOptions) *Classifier {
	labels := make([]string, 0, len(opts.Labels))
	for _, l := range opts.Labels {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	batch := opts.Batch
	if batch <= 0 {
		batch = defaultBatch
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{
		store:  opts.Store,
		llm:    opts.LLM,
		labels: labels,
		batch:  batch,
		model:  opts.Model,
		log:    log,
	}
}

// Classify labels one batch of pending posts. A provider error stops the run
// so the remaining posts are retried next time.
func (c *Classifier) Classify(ctx context.Context) (ClassifyResult, error) {
	var res ClassifyResult
	posts, err := c.store.ListUnclassifiedSocialPosts(ctx, c.batch)
	if err != nil {
		return res, err
	}
	c.log.Info("classifying social posts", "count", len(posts))

	for _, p := range posts {
		log := c.log.With("post_id", p.ID)
		text, err := postText(p.RawContent)
		if err != nil {
			log.Warn("post has no classifiable text", "err", err)
			if err := c.store.SaveClassification(ctx, p.ID, LabelUnclassifiable); err != nil {
				return res, err
			}
			res.Unclassifiable++
			continue
		}

		reply, err := c.llm.Complete(ctx, []llm.Message{
			llm.SystemMessage(c.prompt()),
			llm.UserMessage(text),
		}, c.model)
		if err != nil {
			return res, fmt.Errorf("failed to classify post %s: %w", p.ID, err)
		}
		label := c.parseLabel(reply)
		if err := c.store.SaveClassification(ctx, p.ID, label); err != nil {
			return res, err
		}
		log.Debug("classified social post", "label", label)
		res.Classified++
	}
	return res, nil
}

func (c *Classifier) prompt() string {
	return "Classify the social media post into exactly one of these categories: " +
		strings.Join(c.labels, ", ") + ". Reply with the category name only."
}

// parseLabel maps a model reply onto the configured labels, falling back to
// the last label.
func (c *Classifier) parseLabel(reply string) string {
	r := strings.ToLower(strings.Trim(strings.TrimSpace(reply), ".\"'`*"))
	for _, l := range c.labels {
		if r == l {
			return l
		}
	}
	for _, word := range strings.FieldsFunc(r, func(ch rune) bool {
		return !(ch >= 'a' && ch <= 'z' || ch == '_' || ch == '-')
	}) {
		for _, l := range c.labels {
			if word == l {
				return l
			}
		}
	}
	return c.labels[len(c.labels)-1]
}

func postText(raw json.RawMessage) (string, error) {
	var post FacebookGroupPost
	if err := json.Unmarshal(raw, &post); err != nil {
		return "", fmt.Errorf("decode post: %w", err)
	}
	text := strings.TrimSpace(post.Text)
	if text == "" {
		return "", errors.New("empty post text")
	}
	return text, nil
}
