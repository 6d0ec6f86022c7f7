// Package embed turns text into fixed-length embedding vectors via an
// external provider.
package embed

import "context"

// Client generates one embedding per call. Implementations must be safe for
// concurrent use.
type Client interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// MaxInputChars caps the text submitted to the provider. Truncating to a
// fixed rune budget keeps embeddings reproducible for a given input
// regardless of the provider's token limit.
const MaxInputChars = 8000

// Truncate cuts text to MaxInputChars runes.
func Truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxInputChars {
		return text
	}
	return string(runes[:MaxInputChars])
}
