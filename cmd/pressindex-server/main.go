package main

import (
	"log"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pressindex/pressindex/agent"
	"github.com/pressindex/pressindex/config"
	"github.com/pressindex/pressindex/embed"
	"github.com/pressindex/pressindex/ingest"
	"github.com/pressindex/pressindex/monitor"
	"github.com/pressindex/pressindex/retrieve"
	"github.com/pressindex/pressindex/server"
	"github.com/pressindex/pressindex/store"
	"github.com/pressindex/pressindex/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	st, err := store.Open(cfg.DatabaseDSN, cfg.EmbedDimension)
	if err != nil {
		log.Fatalf("[store] open: %v", err)
	}
	defer st.Close()
	log.Printf("[store] Initialized article store (dimension %d)", st.Dimension())

	embedder := embed.NewOpenAIClient(embed.OpenAIConfig{
		APIKey:    cfg.OpenAIKey,
		BaseURL:   cfg.OpenAIBaseURL,
		Model:     cfg.EmbedModel,
		Dimension: cfg.EmbedDimension,
		Timeout:   cfg.RequestTimeout,
	})
	log.Printf("[embed] Using model %s", cfg.EmbedModel)

	pipeline := ingest.New(embedder, st)
	engine := retrieve.New(embedder, st)
	metrics := monitor.NewCollector()

	registry := tools.NewRegistry()
	registry.Register(tools.NewSearchArticlesTool(engine))
	registry.Register(tools.NewGetArticleTool(st))
	registry.Register(tools.NewListArticlesTool(st))
	log.Printf("[tools] Registered search_articles, get_article, list_articles")

	openaiCfg := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		openaiCfg.BaseURL = cfg.OpenAIBaseURL
	}
	chatAgent := agent.New(agent.Config{
		Client:   openai.NewClientWithConfig(openaiCfg),
		Registry: registry,
		Model:    cfg.ChatModel,
		Metrics:  metrics,
	})
	log.Printf("[agent] Chat enabled with model %s", cfg.ChatModel)

	srv, err := server.New(server.Config{
		Store:          st,
		Pipeline:       pipeline,
		Engine:         engine,
		Registry:       registry,
		Agent:          chatAgent,
		Metrics:        metrics,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		log.Fatalf("[server] %v", err)
	}

	log.Printf("Starting pressindex server on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, srv.Handler()))
}
