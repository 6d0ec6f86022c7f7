package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pressindex/pressindex/core"
	"github.com/pressindex/pressindex/retrieve"
	"github.com/pressindex/pressindex/store"
)

// SearchArticlesTool searches the article corpus by semantic similarity.
type SearchArticlesTool struct {
	engine *retrieve.Engine
}

func NewSearchArticlesTool(engine *retrieve.Engine) *SearchArticlesTool {
	return &SearchArticlesTool{engine: engine}
}

func (t *SearchArticlesTool) Name() string {
	return "search_articles"
}

func (t *SearchArticlesTool) Description() string {
	return "Search news articles by semantic similarity to a query. Returns a ranked list of matching articles with title, url, summary, and similarity score. An empty result list means no article matches the query."
}

func (t *SearchArticlesTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "The search query text"
			},
			"limit": {
				"type": "integer",
				"description": "Maximum number of results, 1-50 (default: 10)"
			},
			"category": {
				"type": "string",
				"description": "Filter by category, exact match (e.g. tech, politics)"
			},
			"media_source": {
				"type": "string",
				"description": "Filter by media organization name, exact match"
			},
			"min_similarity": {
				"type": "number",
				"description": "Minimum similarity score between 0 and 1 (default: 0)"
			}
		},
		"required": ["query"]
	}`)
}

type searchArticlesArgs struct {
	Query         string  `json:"query"`
	Limit         int     `json:"limit,omitempty"`
	Category      string  `json:"category,omitempty"`
	MediaSource   string  `json:"media_source,omitempty"`
	MinSimilarity float64 `json:"min_similarity,omitempty"`
}

func (a *searchArticlesArgs) validate() error {
	if strings.TrimSpace(a.Query) == "" {
		return &core.InvalidArgumentError{Field: "query", Reason: "must be a non-empty string"}
	}
	if a.Limit < 0 || a.Limit > retrieve.MaxK {
		return &core.InvalidArgumentError{Field: "limit", Reason: "must be between 1 and 50"}
	}
	if a.MinSimilarity < 0 || a.MinSimilarity > 1 {
		return &core.InvalidArgumentError{Field: "min_similarity", Reason: "must be between 0 and 1"}
	}
	return nil
}

type searchArticlesResult struct {
	Results []ArticleHit `json:"results"`
	Count   int          `json:"count"`
}

func (t *SearchArticlesTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var req searchArticlesArgs
	if err := decodeArgs(args, &req); err != nil {
		return "", err
	}
	if err := req.validate(); err != nil {
		return "", err
	}

	results, err := t.engine.Search(ctx, req.Query, retrieve.Options{
		K:         req.Limit,
		Threshold: req.MinSimilarity,
		Filters: store.Filters{
			Category:    req.Category,
			MediaSource: req.MediaSource,
		},
	})
	if err != nil {
		return "", err
	}

	hits := make([]ArticleHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, NewArticleHit(r.Article, r.Similarity))
	}
	return marshalResult(searchArticlesResult{Results: hits, Count: len(hits)})
}
