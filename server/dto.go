package server

import (
	"github.com/pressindex/pressindex/agent"
	"github.com/pressindex/pressindex/ingest"
	"github.com/pressindex/pressindex/tools"
)

type SearchRequest struct {
	Query         string  `json:"query"`
	Limit         int     `json:"limit,omitempty"`
	Category      string  `json:"category,omitempty"`
	MediaSource   string  `json:"media_source,omitempty"`
	MinSimilarity float64 `json:"min_similarity,omitempty"`
}

type SearchResponse struct {
	Results []tools.ArticleHit `json:"results"`
	Count   int                `json:"count"`
}

type IngestRequest struct {
	URL string `json:"url"`
	ingest.ExtractedContent
	MediaSource string `json:"media_source,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type IngestResponse struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

type ListResponse struct {
	Articles []tools.ArticleHit `json:"articles"`
	Count    int                `json:"count"`
}

type ChatRequest struct {
	Message string          `json:"message"`
	History []agent.Message `json:"history,omitempty"`
}

type ChatResponse struct {
	Content   string `json:"content"`
	ToolCalls int    `json:"tool_calls"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}
