package enrich

import "errors"

// Error taxonomy for enrichment jobs. Callers branch with errors.Is; the API
// layer maps these onto HTTP status codes.
var (
	// ErrNotFound means the referenced content, game or user row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means the source content cannot be enriched as given,
	// e.g. source text below the minimum length. Retrying without changing
	// the input will not help.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstream means the model call failed or returned unparseable output.
	ErrUpstream = errors.New("upstream ai failure")

	// ErrPersistence means the primary result could not be written.
	ErrPersistence = errors.New("persistence failure")
)

// MinSourceTextLen is the minimum raw-text length worth sending to the model.
// Shorter sources fail fast without an LLM call.
const MinSourceTextLen = 10
