// Package llm abstracts the text-generation backend used for narration.
package llm

import (
	"context"
	"errors"
)

// ErrMalformedJSON marks a reply that arrived but could not be parsed as
// JSON. Callers use it to tell a bad answer apart from a failed call.
var ErrMalformedJSON = errors.New("malformed json response")

// Provider defines the interface for interacting with LLM services.
type Provider interface {
	// GenerateText sends a prompt and returns the text response.
	GenerateText(ctx context.Context, name, prompt string) (string, error)

	// GenerateJSON sends a prompt and unmarshals the response into the target struct.
	GenerateJSON(ctx context.Context, name, prompt string, target any) error

	// HealthCheck verifies that the provider is configured and reachable.
	HealthCheck(ctx context.Context) error
}
