package ai

import "context"

// Options configures a single model invocation.
type Options struct {
	Model           string
	MaxOutputTokens int
	// Temperature controls sampling randomness; 0 is deterministic.
	Temperature float64
}

// Client is the gateway to the chat-completion provider. Implementations make
// a single best-effort request per call; retry policy belongs to callers.
type Client interface {
	// GenerateCompletion returns the raw text completion.
	GenerateCompletion(ctx context.Context, systemPrompt, userPrompt string, opts Options) (string, error)

	// GenerateJSON forces JSON-only output, strips any markdown fencing from
	// the response and unmarshals it into out. A parse failure is a hard
	// error; there is no fallback at this layer.
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, opts Options, out any) error

	// Embed returns a fixed-size pseudo-hash vector for the text. This is NOT
	// a semantic embedding and must not be used for similarity ranking; it
	// only provides a stable dedupe key.
	Embed(text string) []float32
}
