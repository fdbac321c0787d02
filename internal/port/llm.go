package port

import "context"

// LLM represents a language model for text generation.
type LLM interface {
	// Generate generates text based on the prompt. One attempt, no streaming.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
