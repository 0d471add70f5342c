// Package llm provides the text-completion client used by the analysis
// pipeline. The pipeline depends only on the Client interface; an empty
// reply is the single failure signal it reacts to.
package llm

import "context"

// Client is an opaque remote text-completion service.
type Client interface {
	// Complete sends a prompt and returns the model's text reply.
	// Implementations may return ("", nil) when the service produced
	// no usable output; callers treat empty text and errors alike.
	Complete(ctx context.Context, prompt string) (string, error)
}
