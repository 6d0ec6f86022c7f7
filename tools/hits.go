package tools

import (
	"github.com/pressindex/pressindex/store"
)

// ArticleHit is the citation-friendly shape returned by search and list
// operations: a subset of the record plus the similarity score where one
// applies. URL and title are always present so downstream rendering can emit
// a [title](url) reference without fallbacks.
type ArticleHit struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	URL           string   `json:"url"`
	Summary       string   `json:"summary"`
	Keywords      []string `json:"keywords,omitempty"`
	Category      string   `json:"category,omitempty"`
	MediaSource   string   `json:"media_source,omitempty"`
	Similarity    *float64 `json:"similarity,omitempty"`
}

// NewArticleHit builds a hit from a record. Pass a negative similarity when
// the operation has no score (list).
func NewArticleHit(a store.Article, similarity float64) ArticleHit {
	hit := ArticleHit{
		ID:          a.ID,
		Title:       a.Title,
		Author:      a.Author,
		URL:         a.URL,
		Summary:     a.Summary,
		Keywords:    a.Keywords,
		Category:    a.Category,
		MediaSource: a.MediaSource,
	}
	if a.PublishedDate != nil {
		hit.PublishedDate = a.PublishedDate.Format("2006-01-02")
	}
	if similarity >= 0 {
		s := similarity
		hit.Similarity = &s
	}
	return hit
}
