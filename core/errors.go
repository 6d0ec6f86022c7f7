// Package core holds the error taxonomy and tool-call types shared across
// the retrieval engine.
package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound   = errors.New("article not found")
	ErrEmptyInput = errors.New("empty input")
)

// ValidationError reports required fields that are missing or blank.
// It is returned synchronously and is never retryable.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// InvalidArgumentError reports a tool or API argument that failed schema
// validation before dispatch.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

// DimensionMismatchError indicates configuration drift between the embedding
// provider and the store. It is fatal and must not be coerced.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: store expects %d, got %d", e.Want, e.Got)
}

// ProviderError wraps a failure from the embedding provider or storage
// backend. Retryable marks transient failures (timeouts, rate limits,
// 5xx responses) that the caller may retry with backoff.
type ProviderError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a ProviderError marked retryable.
func IsRetryable(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Retryable
}
