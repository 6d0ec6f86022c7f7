// Package agent runs a retrieval-augmented chat loop: the model is handed
// the article tools and its tool calls are dispatched against the registry
// until it produces a final answer.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pressindex/pressindex/core"
	"github.com/pressindex/pressindex/monitor"
	"github.com/pressindex/pressindex/tools"
)

// ErrMaxTurns is returned when the model keeps calling tools past the
// iteration budget without answering.
var ErrMaxTurns = errors.New("tool loop exceeded max turns")

const systemPrompt = `You are a news research assistant with access to an article archive.

Use the tools to find and read articles before answering. Cite every article you mention as [title](url), using the exact title and url from the tool results.

If search_articles returns no results, or get_article reports found=false, say that no matching article was found. Never invent article titles, quotes, or contents, and never answer from memory about articles you have not retrieved.`

const defaultMaxTurns = 8

// ChatCompleter is the slice of the OpenAI client the agent needs. The
// concrete *openai.Client satisfies it; tests substitute a fake.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply is one completed agent turn.
type Reply struct {
	Content   string `json:"content"`
	ToolCalls int    `json:"tool_calls"`
}

type Config struct {
	Client   ChatCompleter
	Registry *tools.Registry
	Model    string
	MaxTurns int
	Metrics  *monitor.Collector // optional
}

type Agent struct {
	client   ChatCompleter
	registry *tools.Registry
	model    string
	maxTurns int
	metrics  *monitor.Collector
}

func New(cfg Config) *Agent {
	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}
	return &Agent{
		client:   cfg.Client,
		registry: cfg.Registry,
		model:    cfg.Model,
		maxTurns: maxTurns,
		metrics:  cfg.Metrics,
	}
}

// Chat runs the tool loop for one user message on top of the given history.
func (a *Agent) Chat(ctx context.Context, history []Message, userMessage string) (*Reply, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	toolDefs := a.toolDefinitions()
	totalCalls := 0

	for turn := 0; turn < a.maxTurns; turn++ {
		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    a.model,
			Messages: messages,
			Tools:    toolDefs,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, errors.New("no choices in completion response")
		}

		choice := resp.Choices[0]
		if len(choice.Message.ToolCalls) == 0 {
			return &Reply{Content: choice.Message.Content, ToolCalls: totalCalls}, nil
		}

		messages = append(messages, choice.Message)
		for _, tc := range choice.Message.ToolCalls {
			totalCalls++
			result := a.dispatch(ctx, tc.ID, tc.Function.Name, json.RawMessage(tc.Function.Arguments))
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: result.ToolCallID,
				Content:    result.Content,
			})
		}
	}

	return nil, ErrMaxTurns
}

// dispatch executes one tool call. Failures come back as result content so
// the model can recover; they never abort the loop.
func (a *Agent) dispatch(ctx context.Context, callID, name string, args json.RawMessage) core.ToolResult {
	start := time.Now()

	tool, ok := a.registry.Get(name)
	if !ok {
		log.Printf("[agent] model requested unknown tool %q", name)
		return core.NewToolError(callID, `{"error": "unknown tool: `+name+`"}`)
	}

	result, err := tool.Execute(ctx, args)
	if a.metrics != nil {
		a.metrics.RecordToolCall(name, time.Since(start), err)
	}
	if err != nil {
		log.Printf("[agent] tool %s failed: %v", name, err)
		out, merr := json.Marshal(map[string]string{"error": err.Error()})
		if merr != nil {
			return core.NewToolError(callID, `{"error": "tool failed"}`)
		}
		return core.NewToolError(callID, string(out))
	}
	return core.NewToolResult(callID, result)
}

func (a *Agent) toolDefinitions() []openai.Tool {
	schemas := a.registry.Schemas()
	defs := make([]openai.Tool, len(schemas))
	for i, s := range schemas {
		defs[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  s.Parameters,
			},
		}
	}
	return defs
}
