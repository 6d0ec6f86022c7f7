// Package config loads process configuration from the environment once at
// startup. The result is treated as immutable for the process lifetime.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	DatabaseDSN string

	OpenAIKey     string
	OpenAIBaseURL string

	EmbedModel     string
	EmbedDimension int
	ChatModel      string

	RequestTimeout time.Duration
}

// Load reads configuration from the environment, with a best-effort .env
// file on top.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:           getEnvOr("ADDR", ":8000"),
		DatabaseDSN:    os.Getenv("DATABASE_URL"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		EmbedModel:     getEnvOr("EMBED_MODEL", "text-embedding-3-small"),
		ChatModel:      getEnvOr("CHAT_MODEL", "gpt-4o-mini"),
		EmbedDimension: 1536,
		RequestTimeout: 30 * time.Second,
	}

	if v := os.Getenv("EMBED_DIMENSION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, errors.New("EMBED_DIMENSION must be a positive integer")
		}
		cfg.EmbedDimension = n
	}

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, errors.New("REQUEST_TIMEOUT must be a positive duration (e.g. 30s)")
		}
		cfg.RequestTimeout = d
	}

	if cfg.OpenAIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}

	return cfg, nil
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
