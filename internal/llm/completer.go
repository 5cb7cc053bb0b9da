package llm

import "context"

// Completer defines the interface contract for the generative-language
// backend. The backend gives no structured-output guarantee; callers must
// defensively parse whatever text comes back.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ModelName() string
}
