package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pressindex/pressindex/core"
	"github.com/pressindex/pressindex/ingest"
	"github.com/pressindex/pressindex/retrieve"
	"github.com/pressindex/pressindex/store"
	"github.com/pressindex/pressindex/tools"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Query == "" {
		writeError(w, &core.InvalidArgumentError{Field: "query", Reason: "must be a non-empty string"})
		return
	}
	if req.Limit < 0 || req.Limit > retrieve.MaxK {
		writeError(w, &core.InvalidArgumentError{Field: "limit", Reason: "must be between 1 and 50"})
		return
	}
	if req.MinSimilarity < 0 || req.MinSimilarity > 1 {
		writeError(w, &core.InvalidArgumentError{Field: "min_similarity", Reason: "must be between 0 and 1"})
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	start := time.Now()
	results, err := s.engine.Search(ctx, req.Query, retrieve.Options{
		K:         req.Limit,
		Threshold: req.MinSimilarity,
		Filters: store.Filters{
			Category:    req.Category,
			MediaSource: req.MediaSource,
		},
	})
	s.metrics.RecordSearch(time.Since(start), err)
	if err != nil {
		writeError(w, err)
		return
	}

	hits := make([]tools.ArticleHit, 0, len(results))
	for _, res := range results {
		hits = append(hits, tools.NewArticleHit(res.Article, res.Similarity))
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: hits, Count: len(hits)})
}

func (s *Server) handleArticleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	a, err := s.store.Get(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleArticleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := intParam(q.Get("limit"), "limit")
	if err != nil {
		writeError(w, err)
		return
	}
	offset, err := intParam(q.Get("offset"), "offset")
	if err != nil {
		writeError(w, err)
		return
	}
	if limit > store.MaxListLimit {
		writeError(w, &core.InvalidArgumentError{Field: "limit", Reason: "must be between 1 and 100"})
		return
	}
	if offset < 0 {
		writeError(w, &core.InvalidArgumentError{Field: "offset", Reason: "must be zero or greater"})
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	articles, err := s.store.List(ctx, store.Filters{
		Category:    q.Get("category"),
		MediaSource: q.Get("media_source"),
		Author:      q.Get("author"),
	}, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	hits := make([]tools.ArticleHit, 0, len(articles))
	for _, a := range articles {
		hits = append(hits, tools.NewArticleHit(a, -1))
	}
	writeJSON(w, http.StatusOK, ListResponse{Articles: hits, Count: len(hits)})
}

func (s *Server) handleArticleIngest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	start := time.Now()
	id, err := s.pipeline.Ingest(ctx, req.URL, req.ExtractedContent, ingest.Options{
		MediaSource: req.MediaSource,
		ImageURL:    req.ImageURL,
	})
	s.metrics.RecordIngest(time.Since(start), err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, IngestResponse{ID: id, URL: req.URL, Title: req.Title})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Schemas())
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.agent == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "chat_disabled", Detail: "no chat model configured"})
		return
	}

	var req ChatRequest
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Message == "" {
		writeError(w, &core.InvalidArgumentError{Field: "message", Reason: "must be a non-empty string"})
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	start := time.Now()
	reply, err := s.agent.Chat(ctx, req.History, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{
		Content:   reply.Content,
		ToolCalls: reply.ToolCalls,
		ElapsedMs: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleMetricsSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Summary())
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.timeout)
}

func decodeBody(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &core.InvalidArgumentError{Field: "body", Reason: err.Error()}
	}
	return nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &core.InvalidArgumentError{Field: name, Reason: "must be an integer"}
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// writeError maps the error taxonomy onto HTTP statuses. Raw provider errors
// never reach the client; only the taxonomy's name and message do.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *core.ValidationError
		argErr        *core.InvalidArgumentError
		dimErr        *core.DimensionMismatchError
		providerErr   *core.ProviderError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &argErr), errors.Is(err, core.ErrEmptyInput):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Detail: err.Error()})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Detail: err.Error()})
	case errors.As(err, &dimErr):
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "configuration_error", Detail: err.Error()})
	case errors.As(err, &providerErr):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "provider_error", Detail: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Detail: "unexpected error"})
	}
}
