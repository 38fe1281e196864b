// Package generation defines the boundary between the application core
// and the generative text provider. The provider is an opaque function
// from prompt to raw text; prompt construction and response parsing are
// the continuation engine's concern, not the generator's.
package generation

import "context"

// Generator produces raw text for a prompt. Implementations wrap an
// external model API and must honor context cancellation; the call is
// the only suspending operation in the system and callers bound it with
// a timeout.
type Generator interface {
	// Generate returns the model's raw text response for the prompt.
	// It returns an error from this package's error kinds if the call
	// fails or the provider returns an unusable payload.
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface,
// which keeps test stubs small.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate implements the Generator interface.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
