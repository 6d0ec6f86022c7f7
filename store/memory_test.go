package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pressindex/pressindex/core"
)

func testArticle(url, title string) Article {
	return Article{
		URL:      url,
		Title:    title,
		Content:  "full text of " + title,
		Summary:  "summary of " + title,
		Keywords: []string{"news"},
	}
}

func TestMemoryUpsertGetRoundtrip(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := Article{
		URL:           "https://news.example/a",
		Title:         "AI Advances",
		Author:        "Jane Roe",
		PublishedDate: &published,
		Content:       "A long article body.",
		Summary:       "A breakthrough in AI.",
		Keywords:      []string{"ai", "research"},
		Category:      "tech",
		MediaSource:   "Example News",
		ImageURL:      "https://news.example/a.jpg",
	}

	id, err := s.Upsert(ctx, a, []float32{1, 0, 0})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if id == "" {
		t.Fatal("Upsert returned empty id")
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.URL != a.URL || got.Title != a.Title || got.Author != a.Author ||
		got.Content != a.Content || got.Summary != a.Summary ||
		got.Category != a.Category || got.MediaSource != a.MediaSource ||
		got.ImageURL != a.ImageURL {
		t.Errorf("Get returned %+v, want fields of %+v", got, a)
	}
	if got.PublishedDate == nil || !got.PublishedDate.Equal(published) {
		t.Errorf("PublishedDate = %v, want %v", got.PublishedDate, published)
	}
	if len(got.Keywords) != 2 || got.Keywords[0] != "ai" {
		t.Errorf("Keywords = %v", got.Keywords)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestMemoryGetNotFound(t *testing.T) {
	s := NewMemoryStore(3)
	_, err := s.Get(context.Background(), "no-such-id")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get unknown id: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryUpsertSameURLReplaces(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	a := testArticle("https://news.example/a", "First Title")
	id1, err := s.Upsert(ctx, a, []float32{1, 0, 0})
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	a.Title = "Second Title"
	a.Summary = "a new summary"
	id2, err := s.Upsert(ctx, a, []float32{0, 1, 0})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	if id1 != id2 {
		t.Errorf("re-upsert changed id: %s -> %s", id1, id2)
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}

	got, err := s.Get(ctx, id1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Second Title" || got.Summary != "a new summary" {
		t.Errorf("record not replaced: %+v", got)
	}

	// The new embedding must rank against the second vector.
	results, err := s.Query(ctx, []float32{0, 1, 0}, 1, 0.9, Filters{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("embedding was not replaced: got %d results above 0.9", len(results))
	}
}

func TestMemoryUpsertDimensionMismatch(t *testing.T) {
	s := NewMemoryStore(1536)
	_, err := s.Upsert(context.Background(), testArticle("https://x/a", "A"), make([]float32, 512))

	var dimErr *core.DimensionMismatchError
	if !errors.As(err, &dimErr) {
		t.Fatalf("err = %v, want DimensionMismatchError", err)
	}
	if dimErr.Want != 1536 || dimErr.Got != 512 {
		t.Errorf("DimensionMismatchError = %+v", dimErr)
	}
	if s.Count() != 0 {
		t.Error("failed upsert left a partial record")
	}
}

func TestMemoryQueryOrderingAndThreshold(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	vectors := map[string][]float32{
		"https://x/exact":      {1, 0, 0},  // sim 1
		"https://x/close":      {1, 1, 0},  // sim ~0.707
		"https://x/orthogonal": {0, 1, 0},  // sim 0
		"https://x/opposite":   {-1, 0, 0}, // sim -1, clamped to 0
	}
	for url, vec := range vectors {
		if _, err := s.Upsert(ctx, testArticle(url, url), vec); err != nil {
			t.Fatalf("Upsert %s: %v", url, err)
		}
	}

	results, err := s.Query(ctx, []float32{1, 0, 0}, 10, 0, Filters{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("threshold 0 is inclusive: got %d results, want 4", len(results))
	}
	if results[0].Article.URL != "https://x/exact" || results[1].Article.URL != "https://x/close" {
		t.Errorf("order = %s, %s", results[0].Article.URL, results[1].Article.URL)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Similarity > results[i-1].Similarity {
			t.Errorf("results not sorted by similarity descending at %d", i)
		}
	}
	for _, r := range results {
		if r.Similarity < 0 || r.Similarity > 1 {
			t.Errorf("similarity %v outside [0,1]", r.Similarity)
		}
	}

	results, err = s.Query(ctx, []float32{1, 0, 0}, 10, 0.5, Filters{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("threshold 0.5: got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Similarity < 0.5 {
			t.Errorf("result below threshold: %v", r.Similarity)
		}
	}

	results, err = s.Query(ctx, []float32{1, 0, 0}, 1, 0, Filters{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 || results[0].Article.URL != "https://x/exact" {
		t.Errorf("k=1: got %d results, first %q", len(results), results[0].Article.URL)
	}
}

func TestMemoryQueryFilterBeforeRank(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	a := testArticle("https://x/tech", "Tech Story")
	a.Category = "tech"
	if _, err := s.Upsert(ctx, a, []float32{1, 1, 0}); err != nil {
		t.Fatal(err)
	}

	b := testArticle("https://x/sports", "Sports Story")
	b.Category = "sports"
	if _, err := s.Upsert(ctx, b, []float32{1, 0, 0}); err != nil {
		t.Fatal(err)
	}

	// The sports article matches the query better but must never appear.
	results, err := s.Query(ctx, []float32{1, 0, 0}, 10, 0, Filters{Category: "tech"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 1 || results[0].Article.Category != "tech" {
		t.Fatalf("filter leaked: %+v", results)
	}
}

func TestMemoryQueryTieBreakByRecency(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	s.now = func() time.Time { return clock }

	vec := []float32{1, 0, 0}
	if _, err := s.Upsert(ctx, testArticle("https://x/old", "Old"), vec); err != nil {
		t.Fatal(err)
	}
	clock = base.Add(time.Hour)
	if _, err := s.Upsert(ctx, testArticle("https://x/new", "New"), vec); err != nil {
		t.Fatal(err)
	}

	results, err := s.Query(ctx, vec, 10, 0, Filters{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Article.URL != "https://x/new" {
		t.Errorf("tie not broken by recency: first = %s", results[0].Article.URL)
	}
}

func TestMemoryQueryDimensionMismatch(t *testing.T) {
	s := NewMemoryStore(3)
	_, err := s.Query(context.Background(), []float32{1, 0}, 10, 0, Filters{})
	var dimErr *core.DimensionMismatchError
	if !errors.As(err, &dimErr) {
		t.Errorf("err = %v, want DimensionMismatchError", err)
	}
}

func TestMemoryListFiltersExactMatch(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	for i, category := range []string{"tech", "technology", "Tech"} {
		a := testArticle(fmt.Sprintf("https://x/%d", i), fmt.Sprintf("Article %d", i))
		a.Category = category
		if _, err := s.Upsert(ctx, a, []float32{1, 0, 0}); err != nil {
			t.Fatal(err)
		}
	}

	articles, err := s.List(ctx, Filters{Category: "tech"}, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(articles) != 1 || articles[0].Category != "tech" {
		t.Errorf("exact match violated: %+v", articles)
	}
}

func TestMemoryListOrderAndPagination(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	s.now = func() time.Time { return clock }

	for i := 0; i < 25; i++ {
		clock = base.Add(time.Duration(i) * time.Minute)
		a := testArticle(fmt.Sprintf("https://x/%d", i), fmt.Sprintf("Article %d", i))
		if _, err := s.Upsert(ctx, a, []float32{1, 0, 0}); err != nil {
			t.Fatal(err)
		}
	}

	// Default limit applies when limit <= 0.
	articles, err := s.List(ctx, Filters{}, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(articles) != DefaultListLimit {
		t.Errorf("default limit: got %d, want %d", len(articles), DefaultListLimit)
	}
	if articles[0].Title != "Article 24" {
		t.Errorf("not ordered by created_at desc: first = %s", articles[0].Title)
	}

	articles, err = s.List(ctx, Filters{}, 10, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(articles) != 5 {
		t.Errorf("offset 20 of 25: got %d, want 5", len(articles))
	}

	articles, err = s.List(ctx, Filters{}, 10, 9999)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("offset past end: got %d, want 0", len(articles))
	}
}

func TestMemoryConcurrentUpserts(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func(i int) {
			a := testArticle(fmt.Sprintf("https://x/%d", i%5), "Concurrent")
			_, err := s.Upsert(ctx, a, []float32{1, 0, 0})
			done <- err
		}(i)
	}
	for i := 0; i < 20; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent Upsert: %v", err)
		}
	}
	if s.Count() != 5 {
		t.Errorf("Count = %d, want 5 distinct urls", s.Count())
	}
}
