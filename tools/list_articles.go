package tools

import (
	"context"
	"encoding/json"

	"github.com/pressindex/pressindex/core"
	"github.com/pressindex/pressindex/store"
)

// ListArticlesTool lists articles by exact metadata filters, newest first.
type ListArticlesTool struct {
	store store.Store
}

func NewListArticlesTool(st store.Store) *ListArticlesTool {
	return &ListArticlesTool{store: st}
}

func (t *ListArticlesTool) Name() string {
	return "list_articles"
}

func (t *ListArticlesTool) Description() string {
	return "List articles with optional exact-match filters, newest first. Returns article metadata and summaries; use get_article for full content."
}

func (t *ListArticlesTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"category": {
				"type": "string",
				"description": "Filter by category, exact match (e.g. tech, politics)"
			},
			"media_source": {
				"type": "string",
				"description": "Filter by media organization name, exact match"
			},
			"author": {
				"type": "string",
				"description": "Filter by author name, exact match"
			},
			"limit": {
				"type": "integer",
				"description": "Maximum number of articles, 1-100 (default: 20)"
			},
			"offset": {
				"type": "integer",
				"description": "Number of articles to skip for pagination (default: 0)"
			}
		}
	}`)
}

type listArticlesArgs struct {
	Category    string `json:"category,omitempty"`
	MediaSource string `json:"media_source,omitempty"`
	Author      string `json:"author,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

func (a *listArticlesArgs) validate() error {
	if a.Limit < 0 || a.Limit > store.MaxListLimit {
		return &core.InvalidArgumentError{Field: "limit", Reason: "must be between 1 and 100"}
	}
	if a.Offset < 0 {
		return &core.InvalidArgumentError{Field: "offset", Reason: "must be zero or greater"}
	}
	return nil
}

type listArticlesResult struct {
	Articles []ArticleHit `json:"articles"`
	Count    int          `json:"count"`
}

func (t *ListArticlesTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var req listArticlesArgs
	if err := decodeArgs(args, &req); err != nil {
		return "", err
	}
	if err := req.validate(); err != nil {
		return "", err
	}

	articles, err := t.store.List(ctx, store.Filters{
		Category:    req.Category,
		MediaSource: req.MediaSource,
		Author:      req.Author,
	}, req.Limit, req.Offset)
	if err != nil {
		return "", err
	}

	hits := make([]ArticleHit, 0, len(articles))
	for _, a := range articles {
		hits = append(hits, NewArticleHit(a, -1))
	}
	return marshalResult(listArticlesResult{Articles: hits, Count: len(hits)})
}
