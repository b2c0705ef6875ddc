package llmHub

import (
	"context"
	"encoding/json"
)

// Provider names a model backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderNvidia Provider = "nvidia"
	ProviderGoogle Provider = "google"
)

// Sampling defaults shared by every call path.
const (
	DefaultTemperature = 0.7
	DefaultTopP        = 1.0
)

// Request is one model call.
type Request struct {
	Provider    Provider
	Model       string
	Temperature float64
	TopP        float64
	Prompt      string
}

// Generator turns a rendered prompt into exactly one parsed JSON value.
type Generator interface {
	Generate(ctx context.Context, req Request) (json.RawMessage, error)
}
