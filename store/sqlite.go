package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pressindex/pressindex/core"
	"github.com/pressindex/pressindex/store/migrations"
)

// SQLiteStore is an embedded single-file store. Embeddings are stored as JSON
// and ranked client-side with brute-force cosine similarity, so it carries no
// external dependencies beyond the file itself. Suitable for single-node
// deployments and local development.
type SQLiteStore struct {
	db        *sql.DB
	dimension int
}

const dateLayout = "2006-01-02"

// NewSQLiteStore opens (or creates) the database file at path.
func NewSQLiteStore(path string, dimension int) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	data, err := migrations.SQLite.ReadFile("sqlite/001_init.sql")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("read migration: %w", err)
	}
	if _, err := db.Exec(string(data)); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, dimension: dimension}, nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, a Article, embedding []float32) (string, error) {
	if len(embedding) != s.dimension {
		return "", &core.DimensionMismatchError{Want: s.dimension, Got: len(embedding)}
	}

	keywords, err := json.Marshal(keywordsOrEmpty(a.Keywords))
	if err != nil {
		return "", fmt.Errorf("marshal keywords: %w", err)
	}
	vec, err := json.Marshal(embedding)
	if err != nil {
		return "", fmt.Errorf("marshal embedding: %w", err)
	}

	var published any
	if a.PublishedDate != nil {
		published = a.PublishedDate.Format(dateLayout)
	}

	now := time.Now().UnixNano()
	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO articles (id, url, title, author, published_date, content, summary, keywords, category, media_source, image_url, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			published_date = excluded.published_date,
			content = excluded.content,
			summary = excluded.summary,
			keywords = excluded.keywords,
			category = excluded.category,
			media_source = excluded.media_source,
			image_url = excluded.image_url,
			embedding = excluded.embedding,
			updated_at = excluded.updated_at
		RETURNING id
	`, uuid.NewString(), a.URL, a.Title, a.Author, published, a.Content, a.Summary,
		string(keywords), a.Category, a.MediaSource, a.ImageURL, string(vec), now, now).Scan(&id)
	if err != nil {
		return "", storageErr("upsert article", err)
	}
	return id, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	a, err := scanSQLiteArticle(row, nil)
	if errors.Is(err, sql.ErrNoRows) {
		return Article{}, core.ErrNotFound
	}
	if err != nil {
		return Article{}, storageErr("get article", err)
	}
	return a, nil
}

func (s *SQLiteStore) List(ctx context.Context, f Filters, limit, offset int) ([]Article, error) {
	if offset < 0 {
		offset = 0
	}

	q := sq.Select(articleColumns).
		From("articles").
		OrderBy("created_at DESC", "id ASC").
		Limit(uint64(clampListLimit(limit))).
		Offset(uint64(offset))
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
		a, err := scanSQLiteArticle(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Query filters in SQL, then ranks the surviving rows in process. The result
// contract is identical to the pgvector backend.
func (s *SQLiteStore) Query(ctx context.Context, embedding []float32, k int, threshold float64, f Filters) ([]SearchResult, error) {
	if len(embedding) != s.dimension {
		return nil, &core.DimensionMismatchError{Want: s.dimension, Got: len(embedding)}
	}
	if k <= 0 {
		return []SearchResult{}, nil
	}

	q := sq.Select(articleColumns + ", embedding").From("articles")
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
		var vec []float32
		a, err := scanSQLiteArticle(rows, &vec)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		sim := clamp01(CosineSimilarity(embedding, vec))
		if sim < threshold {
			continue
		}
		results = append(results, SearchResult{Article: a, Similarity: sim})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortResults(results)
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *SQLiteStore) Dimension() int {
	return s.dimension
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanSQLiteArticle scans one row. When vec is non-nil the query selected the
// embedding column last and it is decoded into *vec.
func scanSQLiteArticle(row rowScanner, vec *[]float32) (Article, error) {
	var a Article
	var published sql.NullString
	var keywords string
	var createdAt, updatedAt int64
	var embedding string

	dest := []any{&a.ID, &a.URL, &a.Title, &a.Author, &published, &a.Content, &a.Summary,
		&keywords, &a.Category, &a.MediaSource, &a.ImageURL, &createdAt, &updatedAt}
	if vec != nil {
		dest = append(dest, &embedding)
	}
	if err := row.Scan(dest...); err != nil {
		return Article{}, err
	}

	if published.Valid && published.String != "" {
		if d, err := time.Parse(dateLayout, published.String); err == nil {
			a.PublishedDate = &d
		}
	}
	if keywords != "" {
		if err := json.Unmarshal([]byte(keywords), &a.Keywords); err != nil {
			return Article{}, fmt.Errorf("unmarshal keywords: %w", err)
		}
	}
	a.CreatedAt = time.Unix(0, createdAt)
	a.UpdatedAt = time.Unix(0, updatedAt)

	if vec != nil {
		if err := json.Unmarshal([]byte(embedding), vec); err != nil {
			return Article{}, fmt.Errorf("unmarshal embedding: %w", err)
		}
	}
	return a, nil
}
