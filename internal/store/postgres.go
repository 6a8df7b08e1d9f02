package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"

	"ai-tools/internal/embeddings"
)

const linkColumns = `id, link, contextualized_link, created_at, updated_at`

type PostgresStore struct {
	db   *sql.DB
	dims int
}

// NewPostgres opens dsn and migrates the schema. dims is the width of the
// link_embeddings vector column and must match the embedding model.
func NewPostgres(dsn string, dims int) (*PostgresStore, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("embedding dimensions must be positive, got %d", dims)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	s := NewPostgresFromDB(db, dims)
	ctx := context.Background()
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	if err := s.checkEmbeddingDimensions(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewPostgresFromDB wraps an open handle without running migrations.
func NewPostgresFromDB(db *sql.DB, dims int) *PostgresStore {
	return &PostgresStore{db: db, dims: dims}
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	// Advisory lock keeps the gateway and worker from migrating concurrently.
	const lockID = 424242001

	var acquired bool
	err := s.db.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, lockID).Scan(&acquired)
	if err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	if !acquired {
		// Another service is running migrations; wait briefly and skip
		time.Sleep(2 * time.Second)
		return nil
	}
	defer func() {
		_, _ = s.db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID)
	}()

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS contextual_links (
			id UUID PRIMARY KEY,
			link TEXT NOT NULL UNIQUE,
			contextualized_link TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS contextual_links_contextualized_idx
			ON contextual_links (contextualized_link);`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS link_embeddings (
			link_id UUID PRIMARY KEY REFERENCES contextual_links(id) ON DELETE CASCADE,
			vector vector(%d),
			model TEXT
		);`, s.dims),
		`CREATE TABLE IF NOT EXISTS social_post_raw (
			id UUID PRIMARY KEY,
			channel TEXT NOT NULL,
			raw_content JSONB NOT NULL,
			hash_content TEXT NOT NULL UNIQUE,
			classification TEXT,
			classified_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS social_post_raw_unclassified_idx
			ON social_post_raw (created_at) WHERE classification IS NULL;`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// checkEmbeddingDimensions fails when an existing link_embeddings table was
// created for a model of a different width.
func (s *PostgresStore) checkEmbeddingDimensions(ctx context.Context) error {
	var width int
	err := s.db.QueryRowContext(ctx, `
		SELECT atttypmod FROM pg_attribute
		WHERE attrelid = to_regclass('link_embeddings') AND attname = 'vector'`).Scan(&width)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read embedding column width: %w", err)
	}
	if width != s.dims {
		return fmt.Errorf("%w: link_embeddings.vector is vector(%d), embedding model produces %d",
			ErrDimensionMismatch, width, s.dims)
	}
	return nil
}

func (s *PostgresStore) checkVector(v embeddings.Vector) error {
	if s.dims > 0 && len(v) != s.dims {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), s.dims)
	}
	return nil
}

// UpsertLink inserts a new record or updates contextualized_link when the
// original link already exists.
func (s *PostgresStore) UpsertLink(ctx context.Context, link, contextualizedLink string) (ContextualLink, error) {
	if link == "" {
		return ContextualLink{}, errors.New("link cannot be empty")
	}
	if contextualizedLink == "" {
		return ContextualLink{}, errors.New("contextualized link cannot be empty")
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO contextual_links(id, link, contextualized_link)
		VALUES($1,$2,$3)
		ON CONFLICT (link) DO UPDATE SET contextualized_link=excluded.contextualized_link, updated_at=now()
		RETURNING `+linkColumns,
		uuid.New(), link, contextualizedLink)
	out, err := scanLink(row)
	if err != nil {
		return ContextualLink{}, fmt.Errorf("failed to upsert link: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindByLink(ctx context.Context, link string) (ContextualLink, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM contextual_links WHERE link=$1`, link)
	return findOne(row, "link")
}

func (s *PostgresStore) FindByContextualizedLink(ctx context.Context, contextualizedLink string) (ContextualLink, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+linkColumns+` FROM contextual_links
		WHERE contextualized_link=$1
		ORDER BY updated_at DESC
		LIMIT 1`, contextualizedLink)
	return findOne(row, "contextualized link")
}

func (s *PostgresStore) SaveLinkEmbedding(ctx context.Context, emb LinkEmbedding) error {
	if err := s.checkVector(emb.Vector); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO link_embeddings(link_id, vector, model)
		VALUES($1,$2,$3)
		ON CONFLICT (link_id) DO UPDATE SET vector=excluded.vector, model=excluded.model`,
		emb.LinkID, pgvector.NewVector(emb.Vector.Float32()), emb.Model)
	return err
}

func (s *PostgresStore) SimilarLinks(ctx context.Context, vector embeddings.Vector, k int) ([]SearchResult, error) {
	if err := s.checkVector(vector); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			l.id,
			l.link,
			l.contextualized_link,
			l.created_at,
			l.updated_at,
			1 - (e.vector <=> $1) AS similarity
		FROM link_embeddings e
		JOIN contextual_links l ON l.id = e.link_id
		ORDER BY e.vector <=> $1
		LIMIT $2
	`, pgvector.NewVector(vector.Float32()), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var res SearchResult
		if err := rows.Scan(&res.Link.ID, &res.Link.Link, &res.Link.ContextualizedLink,
			&res.Link.CreatedAt, &res.Link.UpdatedAt, &res.Score); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (ContextualLink, error) {
	var l ContextualLink
	if err := row.Scan(&l.ID, &l.Link, &l.ContextualizedLink, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return ContextualLink{}, err
	}
	return l, nil
}

func findOne(row rowScanner, what string) (ContextualLink, error) {
	l, err := scanLink(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ContextualLink{}, ErrLinkNotFound
		}
		return ContextualLink{}, fmt.Errorf("failed to query %s: %w", what, err)
	}
	return l, nil
}
