package llm

import "context"

// Client defines the contract for the generative model boundary. One call,
// one prompt, one raw text completion back.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
