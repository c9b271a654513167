// Package llm provides text-generation backends behind a single
// Completer capability: accept a prompt, return a completion, possibly
// fail or return malformed text.
package llm

import "context"

// Completer is the interchangeable generation backend.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}
