// Package retrieve embeds free-text queries and runs similarity search
// against the article store.
package retrieve

import (
	"context"

	"github.com/pressindex/pressindex/embed"
	"github.com/pressindex/pressindex/store"
)

const (
	DefaultK = 10
	MaxK     = 50
)

// Options tunes one search. Zero values mean defaults.
type Options struct {
	K         int
	Threshold float64 // minimum similarity, inclusive
	Filters   store.Filters
}

// Engine is the read path: query text in, ranked results out.
type Engine struct {
	embedder embed.Client
	store    store.Store
}

func New(embedder embed.Client, st store.Store) *Engine {
	return &Engine{embedder: embedder, store: st}
}

// Search embeds the query (same truncation rule as ingestion) and returns
// results ordered by similarity. An empty result set is not an error: callers
// must treat it as "no match" rather than synthesizing an answer.
func (e *Engine) Search(ctx context.Context, query string, opts Options) ([]store.SearchResult, error) {
	k := opts.K
	if k <= 0 {
		k = DefaultK
	}
	if k > MaxK {
		k = MaxK
	}
	threshold := opts.Threshold
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 1 {
		threshold = 1
	}

	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := e.store.Query(ctx, vec, k, threshold, opts.Filters)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []store.SearchResult{}
	}
	return results, nil
}
