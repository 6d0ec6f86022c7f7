// Package pressindex turns extracted news articles into a searchable vector
// index and exposes it to LLM agents through typed tools.
//
// Example usage:
//
//	st, _ := store.Open(os.Getenv("DATABASE_URL"), 1536)
//	embedder := embed.NewOpenAIClient(embed.OpenAIConfig{
//	    APIKey:    os.Getenv("OPENAI_API_KEY"),
//	    Model:     "text-embedding-3-small",
//	    Dimension: 1536,
//	})
//
//	pipeline := ingest.New(embedder, st)
//	engine := retrieve.New(embedder, st)
//
//	id, _ := pipeline.Ingest(ctx, url, content, ingest.Options{})
//	results, _ := engine.Search(ctx, "ai breakthroughs", retrieve.Options{K: 5})
package pressindex

import (
	"github.com/pressindex/pressindex/agent"
	"github.com/pressindex/pressindex/embed"
	"github.com/pressindex/pressindex/ingest"
	"github.com/pressindex/pressindex/retrieve"
	"github.com/pressindex/pressindex/server"
	"github.com/pressindex/pressindex/store"
	"github.com/pressindex/pressindex/tools"
)

// Store aliases
type (
	Article      = store.Article
	SearchResult = store.SearchResult
	Filters      = store.Filters
	Store        = store.Store
)

// Open creates a store based on the DSN (memory, postgres://, or a SQLite path).
func Open(dsn string, dimension int) (Store, error) {
	return store.Open(dsn, dimension)
}

// Embedding aliases
type (
	EmbeddingClient = embed.Client
	OpenAIConfig    = embed.OpenAIConfig
)

// NewOpenAIEmbedder creates an OpenAI-backed embedding client.
func NewOpenAIEmbedder(cfg OpenAIConfig) *embed.OpenAIClient {
	return embed.NewOpenAIClient(cfg)
}

// Pipeline aliases
type (
	Pipeline         = ingest.Pipeline
	ExtractedContent = ingest.ExtractedContent
	IngestOptions    = ingest.Options
)

// NewPipeline creates an ingestion pipeline.
func NewPipeline(embedder EmbeddingClient, st Store) *Pipeline {
	return ingest.New(embedder, st)
}

// Retrieval aliases
type (
	Engine        = retrieve.Engine
	SearchOptions = retrieve.Options
)

// NewEngine creates a retrieval engine.
func NewEngine(embedder EmbeddingClient, st Store) *Engine {
	return retrieve.New(embedder, st)
}

// Tool aliases
type (
	Tool         = tools.Tool
	ToolRegistry = tools.Registry
	ArticleHit   = tools.ArticleHit
)

// NewToolRegistry creates a registry populated with the three article tools.
func NewToolRegistry(engine *Engine, st Store) *ToolRegistry {
	r := tools.NewRegistry()
	r.Register(tools.NewSearchArticlesTool(engine))
	r.Register(tools.NewGetArticleTool(st))
	r.Register(tools.NewListArticlesTool(st))
	return r
}

// Agent aliases
type (
	Agent       = agent.Agent
	AgentConfig = agent.Config
)

// NewAgent creates a chat agent over the registry.
func NewAgent(cfg AgentConfig) *Agent {
	return agent.New(cfg)
}

// Server aliases
type (
	Server       = server.Server
	ServerConfig = server.Config
)

// NewServer creates an API server.
func NewServer(cfg ServerConfig) (*Server, error) {
	return server.New(cfg)
}
