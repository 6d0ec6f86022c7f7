package core

import "encoding/json"

// ToolSchema describes one tool to the model: a name, a description, and a
// JSON Schema for its arguments.
type ToolSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ToolResult is the outcome of one tool invocation, fed back to the model as
// the tool message content.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error,omitempty"`
}

func NewToolResult(toolCallID, content string) ToolResult {
	return ToolResult{ToolCallID: toolCallID, Content: content}
}

func NewToolError(toolCallID, errMsg string) ToolResult {
	return ToolResult{ToolCallID: toolCallID, Content: errMsg, IsError: true}
}
