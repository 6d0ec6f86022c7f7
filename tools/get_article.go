package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/pressindex/pressindex/core"
	"github.com/pressindex/pressindex/store"
)

// GetArticleTool fetches one article by id, full content included.
type GetArticleTool struct {
	store store.Store
}

func NewGetArticleTool(st store.Store) *GetArticleTool {
	return &GetArticleTool{store: st}
}

func (t *GetArticleTool) Name() string {
	return "get_article"
}

func (t *GetArticleTool) Description() string {
	return "Get a single article by its id, including the full content. If no article has that id, the response has found=false; tell the user you don't have that article rather than guessing."
}

func (t *GetArticleTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"article_id": {
				"type": "string",
				"description": "The unique identifier of the article"
			}
		},
		"required": ["article_id"]
	}`)
}

type getArticleArgs struct {
	ArticleID string `json:"article_id"`
}

type getArticleResult struct {
	Found     bool           `json:"found"`
	ArticleID string         `json:"article_id,omitempty"`
	Article   *store.Article `json:"article,omitempty"`
}

// Execute returns a structured not-found payload instead of an error for an
// unknown id, so the agent can react gracefully.
func (t *GetArticleTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var req getArticleArgs
	if err := decodeArgs(args, &req); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.ArticleID) == "" {
		return "", &core.InvalidArgumentError{Field: "article_id", Reason: "must be a non-empty string"}
	}

	a, err := t.store.Get(ctx, req.ArticleID)
	if errors.Is(err, core.ErrNotFound) {
		return marshalResult(getArticleResult{Found: false, ArticleID: req.ArticleID})
	}
	if err != nil {
		return "", err
	}
	return marshalResult(getArticleResult{Found: true, Article: &a})
}
