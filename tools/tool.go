// Package tools exposes the article operations as strongly-typed tools an
// LLM agent can invoke. Every tool validates its arguments before touching
// the store.
package tools

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pressindex/pressindex/core"
)

type Tool interface {
	Name() string
	Description() string
	Parameters() json.RawMessage
	Execute(ctx context.Context, args json.RawMessage) (string, error)
}

func ToSchema(t Tool) core.ToolSchema {
	return core.ToolSchema{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}

func ToSchemas(tools []Tool) []core.ToolSchema {
	schemas := make([]core.ToolSchema, len(tools))
	for i, t := range tools {
		schemas[i] = ToSchema(t)
	}
	return schemas
}

// decodeArgs unmarshals raw arguments into v, rejecting unknown fields so a
// mistyped filter key fails loudly instead of being silently dropped.
func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &core.InvalidArgumentError{Field: "arguments", Reason: err.Error()}
	}
	return nil
}

func marshalResult(v any) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
