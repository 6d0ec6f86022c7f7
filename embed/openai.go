package embed

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pressindex/pressindex/core"
)

// OpenAIClient generates embeddings through the OpenAI embeddings API.
type OpenAIClient struct {
	client *openai.Client
	model  string
	dim    int
}

// OpenAIConfig configures an OpenAIClient. BaseURL and Timeout are optional;
// a BaseURL override points the client at a compatible endpoint (proxy,
// Ollama, test server).
type OpenAIConfig struct {
	APIKey    string
	Model     string
	Dimension int
	BaseURL   string
	Timeout   time.Duration
}

// NewOpenAIClient creates a client for the given model and dimension.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
		dim:    cfg.Dimension,
	}
}

// Embed submits text (truncated to MaxInputChars) and returns its embedding.
// Empty or whitespace-only text fails with core.ErrEmptyInput before any
// network call.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, core.ErrEmptyInput
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model:      openai.EmbeddingModel(c.model),
		Input:      []string{Truncate(text)},
		Dimensions: c.dim,
	})
	if err != nil {
		return nil, classify("create embedding", err)
	}
	if len(resp.Data) == 0 {
		return nil, &core.ProviderError{Op: "create embedding", Err: errors.New("no embedding data in response")}
	}
	return resp.Data[0].Embedding, nil
}

func (c *OpenAIClient) Dimension() int {
	return c.dim
}

// classify wraps a provider failure, marking timeouts, rate limits, and 5xx
// responses as retryable.
func classify(op string, err error) error {
	retryable := false

	if errors.Is(err, context.DeadlineExceeded) {
		retryable = true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		retryable = true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500 {
			retryable = true
		}
	}

	return &core.ProviderError{Op: op, Err: err, Retryable: retryable}
}
