// Command pressindex-ingest batch-loads extracted article content from JSON
// files into the store. Each file holds one object or an array of objects in
// the ingest request shape:
//
//	{"url": "...", "title": "...", "content": "...", "summary": "...",
//	 "keywords": ["..."], "category": "...", "media_source": "..."}
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pressindex/pressindex/config"
	"github.com/pressindex/pressindex/embed"
	"github.com/pressindex/pressindex/ingest"
	"github.com/pressindex/pressindex/store"
)

type ingestEntry struct {
	URL string `json:"url"`
	ingest.ExtractedContent
	MediaSource string `json:"media_source,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s file.json [file.json ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	st, err := store.Open(cfg.DatabaseDSN, cfg.EmbedDimension)
	if err != nil {
		log.Fatalf("[store] open: %v", err)
	}
	defer st.Close()

	embedder := embed.NewOpenAIClient(embed.OpenAIConfig{
		APIKey:    cfg.OpenAIKey,
		BaseURL:   cfg.OpenAIBaseURL,
		Model:     cfg.EmbedModel,
		Dimension: cfg.EmbedDimension,
		Timeout:   cfg.RequestTimeout,
	})
	pipeline := ingest.New(embedder, st)

	ctx := context.Background()
	var ok, failed int
	for _, path := range flag.Args() {
		entries, err := readEntries(path)
		if err != nil {
			log.Printf("[ingest] %s: %v", path, err)
			failed++
			continue
		}

		for _, e := range entries {
			id, err := pipeline.Ingest(ctx, e.URL, e.ExtractedContent, ingest.Options{
				MediaSource: e.MediaSource,
				ImageURL:    e.ImageURL,
			})
			if err != nil {
				log.Printf("[ingest] %s: %v", e.URL, err)
				failed++
				continue
			}
			log.Printf("[ingest] %s -> %s", e.URL, id)
			ok++
		}
	}

	log.Printf("[ingest] Done: %d ingested, %d failed", ok, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func readEntries(path string) ([]ingestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Accept either a single object or an array.
	var entries []ingestEntry
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}
	var one ingestEntry
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return []ingestEntry{one}, nil
}
