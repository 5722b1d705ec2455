package generator

import (
	"context"
	"encoding/json"
)

// Generator produces structured text from a prompt using a specific LLM.
type Generator interface {
	// Name returns the name of the backing LLM service, e.g. "ollama" or
	// "openai"
	Name() string

	// Model returns the model the generator sends requests to.
	Model() string

	// Generate sends the request to the LLM server and returns the full
	// response text. Implementations stream internally, invoking
	// req.OnToken as each chunk arrives, and return the concatenation of
	// all chunks. The provided ctx is used as a parent context for the
	// request to the LLM server.
	Generate(ctx context.Context, req Request) (string, error)

	// IsHealthy returns whether the LLM server is healthy.
	IsHealthy() bool
}

// Request is a single generation request.
type Request struct {
	// System is the system prompt, may be empty.
	System string

	// Prompt is the user prompt.
	Prompt string

	// Format is an optional JSON schema document that constrains the
	// model output.
	Format json.RawMessage

	// OnToken, if set, is called with each piece of response text as it
	// is received.
	OnToken func(token string)
}
