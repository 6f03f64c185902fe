// Package llm provides text-generation clients, prompt construction, and
// defensive parsing of model output for risk assessment tasks.
package llm

import (
	"context"
	"time"
)

// Generator produces free text from a prompt. Implementations wrap a single
// model endpoint; availability is fixed at construction time.
type Generator interface {
	// Generate sends the prompt and returns the raw generated text.
	Generate(ctx context.Context, prompt string) (string, error)

	// Available reports whether this generator can serve requests at all.
	// An unavailable generator fails every Generate call.
	Available() bool

	// Model returns the model identifier used for usage accounting.
	Model() string
}

// Config holds provider settings for constructing a Generator.
type Config struct {
	// Provider selects the implementation: "watsonx" or "openai".
	Provider string

	APIKey    string
	ProjectID string // watsonx project
	URL       string // watsonx region endpoint
	Model     string

	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}
