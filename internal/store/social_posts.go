package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrSocialPostNotFound = errors.New("social post not found")

// SocialPost is one scraped post kept as the raw JSON of the scraper.
type SocialPost struct {
	ID             uuid.UUID
	Channel        string
	RawContent     json.RawMessage
	HashContent    string
	Classification string
	CreatedAt      time.Time
}

// SocialPostStore persists raw social posts and their classification.
type SocialPostStore interface {
	// InsertSocialPost stores a post unless one with the same hash exists.
	InsertSocialPost(ctx context.Context, channel string, raw json.RawMessage, hash string) (bool, error)
	ListUnclassifiedSocialPosts(ctx context.Context, limit int) ([]SocialPost, error)
	SaveClassification(ctx context.Context, id uuid.UUID, label string) error
}

func (s *PostgresStore) InsertSocialPost(ctx context.Context, channel string, raw json.RawMessage, hash string) (bool, error) {
	if channel == "" {
		return false, errors.New("channel cannot be empty")
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO social_post_raw(id, channel, raw_content, hash_content)
		VALUES($1,$2,$3,$4)
		ON CONFLICT (hash_content) DO NOTHING`,
		uuid.New(), channel, string(raw), hash)
	if err != nil {
		return false, fmt.Errorf("failed to insert social post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *PostgresStore) ListUnclassifiedSocialPosts(ctx context.Context, limit int) ([]SocialPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, channel, raw_content, hash_content, created_at
		FROM social_post_raw
		WHERE classification IS NULL
		ORDER BY created_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list social posts: %w", err)
	}
	defer rows.Close()

	var posts []SocialPost
	for rows.Next() {
		var (
			p   SocialPost
			raw []byte
		)
		if err := rows.Scan(&p.ID, &p.Channel, &raw, &p.HashContent, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.RawContent = json.RawMessage(raw)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *PostgresStore) SaveClassification(ctx context.Context, id uuid.UUID, label string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE social_post_raw
		SET classification=$2, classified_at=now(), updated_at=now()
		WHERE id=$1`, id, label)
	if err != nil {
		return fmt.Errorf("failed to save classification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSocialPostNotFound
	}
	return nil
}
