// Package agent runs governed language-model pipelines: every LM call
// is wrapped in a pre-check and a post-check, each persisted to the
// audit journal with a compliance report attached.
package agent

import "context"

// Adapter is the minimal language-model surface the pipeline needs.
type Adapter interface {
	// Complete performs a single-shot completion of the prompt.
	Complete(ctx context.Context, prompt string) (string, error)
}

// StreamAdapter is implemented by adapters that can deliver the
// completion in chunks. The pipeline falls back to Complete plus
// simulated token streaming when the adapter does not implement it.
type StreamAdapter interface {
	Adapter

	// CompleteStream streams the completion, invoking onChunk for each
	// chunk in order, and returns the full accumulated output.
	CompleteStream(ctx context.Context, prompt string, onChunk func(string)) (string, error)
}
