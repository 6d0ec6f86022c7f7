package ingest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/pressindex/pressindex/core"
	"github.com/pressindex/pressindex/store"
)

type fakeEmbedder struct {
	calls int
	vec   []float32
	err   error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

func (f *fakeEmbedder) Dimension() int { return len(f.vec) }

func validContent() ExtractedContent {
	return ExtractedContent{
		Title:    "AI Advances",
		Author:   "Jane Roe",
		Content:  "A long article body.",
		Summary:  "A breakthrough in AI.",
		Keywords: []string{"ai"},
		Category: "  Tech ",
	}
}

func TestIngestValidationListsAllMissing(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		mutate  func(*ExtractedContent)
		missing []string
	}{
		{"missing url", "", func(c *ExtractedContent) {}, []string{"url"}},
		{"missing title", "https://x/a", func(c *ExtractedContent) { c.Title = " " }, []string{"title"}},
		{"missing content", "https://x/a", func(c *ExtractedContent) { c.Content = "" }, []string{"content"}},
		{"missing summary", "https://x/a", func(c *ExtractedContent) { c.Summary = "" }, []string{"summary"}},
		{
			"everything missing", "",
			func(c *ExtractedContent) { *c = ExtractedContent{} },
			[]string{"url", "title", "content", "summary"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			emb := &fakeEmbedder{vec: []float32{1, 0, 0}}
			p := New(emb, store.NewMemoryStore(3))

			content := validContent()
			c.mutate(&content)
			_, err := p.Ingest(context.Background(), c.url, content, Options{})

			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			got := append([]string(nil), verr.Missing...)
			want := append([]string(nil), c.missing...)
			sort.Strings(got)
			sort.Strings(want)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Missing = %v, want %v", verr.Missing, c.missing)
			}
			if emb.calls != 0 {
				t.Error("invalid content must not be embedded")
			}
		})
	}
}

func TestIngestStoresNormalizedRecord(t *testing.T) {
	emb := &fakeEmbedder{vec: []float32{1, 0, 0}}
	st := store.NewMemoryStore(3)
	p := New(emb, st)

	content := validContent()
	content.PublishedDate = "2024-03-01"
	id, err := p.Ingest(context.Background(), "https://news.example/a", content, Options{
		MediaSource: " Example News ",
		ImageURL:    "https://news.example/a.jpg",
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	a, err := st.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a.Category != "tech" {
		t.Errorf("Category = %q, want normalized %q", a.Category, "tech")
	}
	if a.MediaSource != "Example News" {
		t.Errorf("MediaSource = %q", a.MediaSource)
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if a.PublishedDate == nil || !a.PublishedDate.Equal(want) {
		t.Errorf("PublishedDate = %v, want %v", a.PublishedDate, want)
	}
	if emb.calls != 1 {
		t.Errorf("embedder calls = %d, want 1", emb.calls)
	}
}

func TestIngestUnparseableDateDropped(t *testing.T) {
	// Slash dates are ambiguous between day-first and month-first, so they
	// are dropped rather than guessed.
	dates := []string{"last Tuesday", "03/14/2024", "14/03/2024", "01/02/2006"}

	for i, date := range dates {
		emb := &fakeEmbedder{vec: []float32{1, 0, 0}}
		st := store.NewMemoryStore(3)
		p := New(emb, st)

		content := validContent()
		content.PublishedDate = date
		id, err := p.Ingest(context.Background(), fmt.Sprintf("https://x/%d", i), content, Options{})
		if err != nil {
			t.Fatalf("Ingest(%q): %v", date, err)
		}

		a, err := st.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if a.PublishedDate != nil {
			t.Errorf("date %q: PublishedDate = %v, want nil", date, a.PublishedDate)
		}
	}
}

func TestIngestSameURLReembeds(t *testing.T) {
	emb := &fakeEmbedder{vec: []float32{1, 0, 0}}
	st := store.NewMemoryStore(3)
	p := New(emb, st)
	ctx := context.Background()

	content := validContent()
	id1, err := p.Ingest(ctx, "https://x/a", content, Options{})
	if err != nil {
		t.Fatalf("first Ingest: %v", err)
	}

	content.Summary = "an updated summary"
	id2, err := p.Ingest(ctx, "https://x/a", content, Options{})
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}

	if id1 != id2 {
		t.Errorf("re-ingest changed id: %s -> %s", id1, id2)
	}
	if emb.calls != 2 {
		t.Errorf("embedder calls = %d, want 2 (re-ingest must re-embed)", emb.calls)
	}
	if st.Count() != 1 {
		t.Errorf("Count = %d, want 1", st.Count())
	}
	a, _ := st.Get(ctx, id1)
	if a.Summary != "an updated summary" {
		t.Errorf("Summary = %q", a.Summary)
	}
}

func TestIngestEmbedErrorPassthrough(t *testing.T) {
	provErr := &core.ProviderError{Op: "create embedding", Err: errors.New("rate limited"), Retryable: true}
	p := New(&fakeEmbedder{err: provErr}, store.NewMemoryStore(3))

	_, err := p.Ingest(context.Background(), "https://x/a", validContent(), Options{})
	var pe *core.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want ProviderError", err)
	}
	if !core.IsRetryable(err) {
		t.Error("retryable flag lost on passthrough")
	}
}
