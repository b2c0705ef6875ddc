package types

// PromptTemplate is a registry entry resolved by label and deployment tag.
type PromptTemplate struct {
	Label   string       `json:"label"`
	Tag     string       `json:"tag"`
	Version int          `json:"version"`
	Body    string       `json:"body"`
	Config  PromptConfig `json:"config"`
}

// PromptConfig is the typed form of the registry's config object.
type PromptConfig struct {
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// TemperatureOr returns the configured temperature or def when unset.
func (c PromptConfig) TemperatureOr(def float64) float64 {
	if c.Temperature == nil {
		return def
	}
	return *c.Temperature
}

// ModelOr returns the configured model or def when unset.
func (c PromptConfig) ModelOr(def string) string {
	if c.Model == "" {
		return def
	}
	return c.Model
}
