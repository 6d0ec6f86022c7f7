// Package server exposes the retrieval engine over HTTP.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/pressindex/pressindex/agent"
	"github.com/pressindex/pressindex/ingest"
	"github.com/pressindex/pressindex/monitor"
	"github.com/pressindex/pressindex/retrieve"
	"github.com/pressindex/pressindex/store"
	"github.com/pressindex/pressindex/tools"
)

// Config configures a new Server. Store, Pipeline, and Engine are required;
// Agent is optional (chat returns 503 without it).
type Config struct {
	Store    store.Store
	Pipeline *ingest.Pipeline
	Engine   *retrieve.Engine
	Registry *tools.Registry
	Agent    *agent.Agent
	Metrics  *monitor.Collector

	// RequestTimeout bounds each request's embedding and storage calls
	// (default 30s).
	RequestTimeout time.Duration
}

type Server struct {
	store    store.Store
	pipeline *ingest.Pipeline
	engine   *retrieve.Engine
	registry *tools.Registry
	agent    *agent.Agent
	metrics  *monitor.Collector
	timeout  time.Duration
}

func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if cfg.Pipeline == nil || cfg.Engine == nil {
		return nil, errors.New("server: pipeline and engine are required")
	}

	registry := cfg.Registry
	if registry == nil {
		registry = tools.NewRegistry()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = monitor.NewCollector()
	}
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Server{
		store:    cfg.Store,
		pipeline: cfg.Pipeline,
		engine:   cfg.Engine,
		registry: registry,
		agent:    cfg.Agent,
		metrics:  metrics,
		timeout:  timeout,
	}, nil
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /search", s.handleSearch)

	mux.HandleFunc("GET /articles", s.handleArticleList)
	mux.HandleFunc("GET /articles/{id}", s.handleArticleGet)
	mux.HandleFunc("POST /articles", s.handleArticleIngest)

	mux.HandleFunc("GET /tools", s.handleTools)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /metrics/summary", s.handleMetricsSummary)

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)
}
