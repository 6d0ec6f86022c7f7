package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pressindex/pressindex/core"
)

// MemoryStore is an in-memory store for development and testing. It uses
// brute-force cosine similarity and implements the same ranking contract as
// the database-backed stores.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	articles  map[string]memoryRecord // keyed by id
	byURL     map[string]string       // url -> id
	now       func() time.Time
}

type memoryRecord struct {
	article   Article
	embedding []float32
}

// NewMemoryStore creates an in-memory store configured for the given
// embedding dimension.
func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{
		dimension: dimension,
		articles:  make(map[string]memoryRecord),
		byURL:     make(map[string]string),
		now:       time.Now,
	}
}

func (s *MemoryStore) Upsert(ctx context.Context, a Article, embedding []float32) (string, error) {
	if len(embedding) != s.dimension {
		return "", &core.DimensionMismatchError{Want: s.dimension, Got: len(embedding)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if id, ok := s.byURL[a.URL]; ok {
		existing := s.articles[id]
		a.ID = id
		a.CreatedAt = existing.article.CreatedAt
	} else {
		a.ID = uuid.NewString()
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	s.articles[a.ID] = memoryRecord{article: a, embedding: vec}
	s.byURL[a.URL] = a.ID
	return a.ID, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.articles[id]
	if !ok {
		return Article{}, core.ErrNotFound
	}
	return rec.article, nil
}

func (s *MemoryStore) List(ctx context.Context, f Filters, limit, offset int) ([]Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Article, 0, len(s.articles))
	for _, rec := range s.articles {
		if f.matches(rec.article) {
			matched = append(matched, rec.article)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	limit = clampListLimit(limit)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []Article{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *MemoryStore) Query(ctx context.Context, embedding []float32, k int, threshold float64, f Filters) ([]SearchResult, error) {
	if len(embedding) != s.dimension {
		return nil, &core.DimensionMismatchError{Want: s.dimension, Got: len(embedding)}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]SearchResult, 0, len(s.articles))
	for _, rec := range s.articles {
		if !f.matches(rec.article) {
			continue
		}
		sim := clamp01(CosineSimilarity(embedding, rec.embedding))
		if sim < threshold {
			continue
		}
		results = append(results, SearchResult{Article: rec.article, Similarity: sim})
	}

	sortResults(results)

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// sortResults orders by similarity descending, ties broken by created_at
// descending (most recent first) for determinism.
func sortResults(results []SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		if !results[i].Article.CreatedAt.Equal(results[j].Article.CreatedAt) {
			return results[i].Article.CreatedAt.After(results[j].Article.CreatedAt)
		}
		return results[i].Article.ID < results[j].Article.ID
	})
}

func (s *MemoryStore) Dimension() int {
	return s.dimension
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Count returns the number of stored articles.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles)
}
