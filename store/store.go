// Package store provides durable storage of articles with their embeddings
// and cosine-similarity search over them.
package store

import (
	"context"
	"time"
)

// Article is a stored article record. The embedding vector lives alongside it
// in the same row and is never exposed through this struct.
type Article struct {
	ID            string     `json:"id"`
	URL           string     `json:"url"`
	Title         string     `json:"title"`
	Author        string     `json:"author,omitempty"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	Content       string     `json:"content"`
	Summary       string     `json:"summary"`
	Keywords      []string   `json:"keywords"`
	Category      string     `json:"category,omitempty"`
	MediaSource   string     `json:"media_source,omitempty"`
	ImageURL      string     `json:"image_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SearchResult pairs an article with its similarity score for one query.
type SearchResult struct {
	Article    Article `json:"article"`
	Similarity float64 `json:"similarity"` // cosine similarity clamped to [0,1]
}

// Filters restricts List and Query to exact metadata matches. Zero-value
// fields are not applied. Unknown filter keys cannot be expressed here; the
// tool and HTTP boundaries reject them before they reach the store.
type Filters struct {
	Category    string
	MediaSource string
	Author      string
}

func (f Filters) IsZero() bool {
	return f.Category == "" && f.MediaSource == "" && f.Author == ""
}

func (f Filters) matches(a Article) bool {
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	if f.MediaSource != "" && a.MediaSource != f.MediaSource {
		return false
	}
	if f.Author != "" && a.Author != f.Author {
		return false
	}
	return true
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Store persists article/embedding pairs keyed by id, with a uniqueness
// constraint on url.
//
// All implementations share one ranking contract: filters apply before
// ranking, similarity is cosine similarity clamped to [0,1], the threshold is
// inclusive, and results order by similarity descending with ties broken by
// created_at descending.
type Store interface {
	// Upsert inserts the article with its embedding, or replaces the pair
	// sharing the same url. The original id and created_at survive a
	// replacement. Record and vector are written as one atomic unit.
	Upsert(ctx context.Context, a Article, embedding []float32) (string, error)

	// Get returns the article with the given id, or core.ErrNotFound.
	Get(ctx context.Context, id string) (Article, error)

	// List returns articles matching the filters, ordered by created_at
	// descending. A non-positive limit means DefaultListLimit; limits above
	// MaxListLimit are capped.
	List(ctx context.Context, f Filters, limit, offset int) ([]Article, error)

	// Query returns up to k nearest neighbours of the embedding with
	// similarity >= threshold, after applying the filters.
	Query(ctx context.Context, embedding []float32, k int, threshold float64, f Filters) ([]SearchResult, error)

	// Dimension returns the configured embedding dimension.
	Dimension() int

	// Close releases resources.
	Close() error
}

func clampListLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
