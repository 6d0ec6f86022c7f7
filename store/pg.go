package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"

	"github.com/pressindex/pressindex/core"
)

// PgStore is a PostgreSQL-backed store using the pgvector extension for
// cosine similarity search.
type PgStore struct {
	db        *sql.DB
	dimension int
}

const articleColumns = `id, url, title, author, published_date, content, summary, keywords, category, media_source, image_url, created_at, updated_at`

// NewPgStore opens a PostgreSQL connection and ensures the articles table,
// vector index, and metadata indexes exist.
func NewPgStore(dsn string, dimension int) (*PgStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &PgStore{db: db, dimension: dimension}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *PgStore) migrate() error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS articles (
			id UUID PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			published_date DATE,
			content TEXT NOT NULL,
			summary TEXT NOT NULL,
			keywords JSONB NOT NULL DEFAULT '[]',
			category TEXT NOT NULL DEFAULT '',
			media_source TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			embedding vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, s.dimension),
		`CREATE INDEX IF NOT EXISTS idx_articles_embedding ON articles USING hnsw (embedding vector_cosine_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_category ON articles (category)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_media_source ON articles (media_source)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles (created_at DESC)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}
	return nil
}

// Upsert writes the article and its embedding as a single row, so record and
// vector are atomic by construction. A conflicting url keeps its original id
// and created_at.
func (s *PgStore) Upsert(ctx context.Context, a Article, embedding []float32) (string, error) {
	if len(embedding) != s.dimension {
		return "", &core.DimensionMismatchError{Want: s.dimension, Got: len(embedding)}
	}

	keywords, err := json.Marshal(keywordsOrEmpty(a.Keywords))
	if err != nil {
		return "", fmt.Errorf("marshal keywords: %w", err)
	}

	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO articles (id, url, title, author, published_date, content, summary, keywords, category, media_source, image_url, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			author = EXCLUDED.author,
			published_date = EXCLUDED.published_date,
			content = EXCLUDED.content,
			summary = EXCLUDED.summary,
			keywords = EXCLUDED.keywords,
			category = EXCLUDED.category,
			media_source = EXCLUDED.media_source,
			image_url = EXCLUDED.image_url,
			embedding = EXCLUDED.embedding,
			updated_at = NOW()
		RETURNING id
	`, uuid.NewString(), a.URL, a.Title, a.Author, nullableDate(a.PublishedDate), a.Content, a.Summary,
		keywords, a.Category, a.MediaSource, a.ImageURL, pgvector.NewVector(embedding)).Scan(&id)
	if err != nil {
		return "", storageErr("upsert article", err)
	}
	return id, nil
}

func (s *PgStore) Get(ctx context.Context, id string) (Article, error) {
	// The id column is UUID; a malformed id would fail the text->uuid cast
	// with a database error instead of matching zero rows.
	if _, err := uuid.Parse(id); err != nil {
		return Article{}, core.ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, core.ErrNotFound
	}
	if err != nil {
		return Article{}, storageErr("get article", err)
	}
	return a, nil
}

func (s *PgStore) List(ctx context.Context, f Filters, limit, offset int) ([]Article, error) {
	if offset < 0 {
		offset = 0
	}

	q := sq.Select(articleColumns).
		From("articles").
		OrderBy("created_at DESC", "id ASC").
		Limit(uint64(clampListLimit(limit))).
		Offset(uint64(offset)).
		PlaceholderFormat(sq.Dollar)
	q = applyFilters(q, f)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list articles", err)
	}
	defer rows.Close()

	articles := []Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Query ranks by the clamped similarity expression rather than raw distance,
// so rows clamped to zero tie and fall back to recency like every other
// backend.
func (s *PgStore) Query(ctx context.Context, embedding []float32, k int, threshold float64, f Filters) ([]SearchResult, error) {
	if len(embedding) != s.dimension {
		return nil, &core.DimensionMismatchError{Want: s.dimension, Got: len(embedding)}
	}
	if k <= 0 {
		return []SearchResult{}, nil
	}

	vec := pgvector.NewVector(embedding)
	q := sq.Select(articleColumns).
		Column(sq.Expr("GREATEST(1 - (embedding <=> ?), 0) AS similarity", vec)).
		From("articles").
		Where(sq.Expr("GREATEST(1 - (embedding <=> ?), 0) >= ?", vec, threshold)).
		OrderByClause("GREATEST(1 - (embedding <=> ?), 0) DESC, created_at DESC, id ASC", vec).
		Limit(uint64(k)).
		PlaceholderFormat(sq.Dollar)
	q = applyFilters(q, f)

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query articles", err)
	}
	defer rows.Close()

	results := []SearchResult{}
	for rows.Next() {
		var r searchRow
		a, err := scanSearchRow(rows, &r)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		results = append(results, SearchResult{Article: a, Similarity: r.similarity})
	}
	return results, rows.Err()
}

func (s *PgStore) Dimension() int {
	return s.dimension
}

func (s *PgStore) Close() error {
	return s.db.Close()
}

func applyFilters(q sq.SelectBuilder, f Filters) sq.SelectBuilder {
	if f.Category != "" {
		q = q.Where(sq.Eq{"category": f.Category})
	}
	if f.MediaSource != "" {
		q = q.Where(sq.Eq{"media_source": f.MediaSource})
	}
	if f.Author != "" {
		q = q.Where(sq.Eq{"author": f.Author})
	}
	return q
}

type rowScanner interface {
	Scan(dest ...any) error
}

type searchRow struct {
	similarity float64
}

func scanArticle(row rowScanner) (Article, error) {
	var a Article
	var published sql.NullTime
	var keywords []byte

	err := row.Scan(&a.ID, &a.URL, &a.Title, &a.Author, &published, &a.Content, &a.Summary,
		&keywords, &a.Category, &a.MediaSource, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Article{}, err
	}

	if published.Valid {
		d := published.Time
		a.PublishedDate = &d
	}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &a.Keywords); err != nil {
			return Article{}, fmt.Errorf("unmarshal keywords: %w", err)
		}
	}
	return a, nil
}

func scanSearchRow(row rowScanner, r *searchRow) (Article, error) {
	var a Article
	var published sql.NullTime
	var keywords []byte

	err := row.Scan(&a.ID, &a.URL, &a.Title, &a.Author, &published, &a.Content, &a.Summary,
		&keywords, &a.Category, &a.MediaSource, &a.ImageURL, &a.CreatedAt, &a.UpdatedAt, &r.similarity)
	if err != nil {
		return Article{}, err
	}

	if published.Valid {
		d := published.Time
		a.PublishedDate = &d
	}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &a.Keywords); err != nil {
			return Article{}, fmt.Errorf("unmarshal keywords: %w", err)
		}
	}
	return a, nil
}

func keywordsOrEmpty(kw []string) []string {
	if kw == nil {
		return []string{}
	}
	return kw
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func storageErr(op string, err error) error {
	retryable := errors.Is(err, context.DeadlineExceeded)
	return &core.ProviderError{Op: op, Err: err, Retryable: retryable}
}
