package agent

import (
	"context"
)

// Tool is an executable capability exposed to the model.
//
// Run always returns a JSON document. Domain failures (not found, not
// authenticated, invalid input) are encoded inside that document as error
// fields so the model can react to them; the error return is reserved for
// infrastructure failures (store unreachable, timeout).
type Tool interface {
	// Name returns the tool's identifier as exposed to the model.
	Name() string

	// Description returns the tool description shown to the model.
	Description() string

	// Parameters returns the JSON Schema for the tool's input.
	Parameters() map[string]any

	// Run executes the tool with a JSON-encoded input.
	Run(ctx context.Context, input string) (string, error)
}
