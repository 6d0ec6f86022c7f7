// Package ingest validates extracted article content, embeds its summary,
// and writes the record into the store.
package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/pressindex/pressindex/core"
	"github.com/pressindex/pressindex/embed"
	"github.com/pressindex/pressindex/store"
)

// ExtractedContent is what the external extraction collaborator hands us for
// one article.
type ExtractedContent struct {
	Title         string   `json:"title"`
	Author        string   `json:"author,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"` // ISO date, best effort
	Content       string   `json:"content"`
	Summary       string   `json:"summary"`
	Keywords      []string `json:"keywords"`
	Category      string   `json:"category,omitempty"`
}

// Options carries caller-supplied metadata not derived from the content.
type Options struct {
	MediaSource string
	ImageURL    string
}

// Pipeline ingests extracted content. Dependencies are injected at
// construction; the pipeline holds no other state.
type Pipeline struct {
	embedder embed.Client
	store    store.Store
}

func New(embedder embed.Client, st store.Store) *Pipeline {
	return &Pipeline{embedder: embedder, store: st}
}

// Ingest validates the content, embeds the summary, and upserts the record.
// Re-ingesting an existing url replaces the record and always regenerates the
// embedding, since ranking depends solely on the embedded text. Returns the
// stored article's id.
func (p *Pipeline) Ingest(ctx context.Context, url string, content ExtractedContent, opts Options) (string, error) {
	if err := validate(url, content); err != nil {
		return "", err
	}

	vec, err := p.embedder.Embed(ctx, content.Summary)
	if err != nil {
		return "", err
	}

	a := store.Article{
		URL:           url,
		Title:         strings.TrimSpace(content.Title),
		Author:        strings.TrimSpace(content.Author),
		PublishedDate: parseDate(content.PublishedDate),
		Content:       content.Content,
		Summary:       content.Summary,
		Keywords:      content.Keywords,
		Category:      normalizeCategory(content.Category),
		MediaSource:   strings.TrimSpace(opts.MediaSource),
		ImageURL:      strings.TrimSpace(opts.ImageURL),
	}

	return p.store.Upsert(ctx, a, vec)
}

func validate(url string, content ExtractedContent) error {
	var missing []string
	if strings.TrimSpace(url) == "" {
		missing = append(missing, "url")
	}
	if strings.TrimSpace(content.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(content.Content) == "" {
		missing = append(missing, "content")
	}
	if strings.TrimSpace(content.Summary) == "" {
		missing = append(missing, "summary")
	}
	if len(missing) > 0 {
		return &core.ValidationError{Missing: missing}
	}
	return nil
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

// parseDate accepts ISO dates and RFC 3339 timestamps. Slash formats are
// ambiguous between day-first and month-first, so they are dropped along with
// anything else unparseable rather than guessed or failing the ingest.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := t.Truncate(24 * time.Hour)
			return &d
		}
	}
	return nil
}
