package promptHub

import "context"

// DefaultTag is the deployment tag every prompt is resolved against.
const DefaultTag = "production"

// RegistryEntry is a prompt as stored by a registry, before config validation.
type RegistryEntry struct {
	Version int
	Body    string
	Config  map[string]any
}

// Registry fetches versioned prompt templates.
// Implementations return an error wrapping types.ErrPromptNotFound when label/tag is unknown.
type Registry interface {
	Fetch(ctx context.Context, label, tag string) (*RegistryEntry, error)
}
