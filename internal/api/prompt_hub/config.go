package promptHub

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

const (
	configKeyModel       = "model"
	configKeyTemperature = "temperature"
	// Older registry entries were written with this spelling.
	configKeyTemperatureLegacy = "tempreature"

	maxTemperature = 2.0
)

// DecodePromptConfig validates a registry config object into a PromptConfig.
// Unknown keys and out of range temperatures are rejected with types.ErrInvalidPromptConfig.
// A missing model is not an error here; callers decide whether a default applies.
func DecodePromptConfig(raw map[string]any) (types.PromptConfig, error) {
	var cfg types.PromptConfig
	for key := range raw {
		switch key {
		case configKeyModel, configKeyTemperature, configKeyTemperatureLegacy:
		default:
			return types.PromptConfig{}, fmt.Errorf("unrecognized config key %q: %w", key, types.ErrInvalidPromptConfig)
		}
	}

	if v, ok := raw[configKeyModel]; ok && v != nil {
		model, isString := v.(string)
		if !isString {
			return types.PromptConfig{}, fmt.Errorf("model must be a string, got %T: %w", v, types.ErrInvalidPromptConfig)
		}
		cfg.Model = strings.TrimSpace(model)
	}

	key := configKeyTemperature
	if _, ok := raw[key]; !ok {
		key = configKeyTemperatureLegacy
	}
	if v, ok := raw[key]; ok && v != nil {
		t, err := toFloat(v)
		if err != nil {
			return types.PromptConfig{}, fmt.Errorf("%s: %v: %w", key, err, types.ErrInvalidPromptConfig)
		}
		if t < 0 || t > maxTemperature {
			return types.PromptConfig{}, fmt.Errorf("%s %.2f outside [0, %.0f]: %w", key, t, maxTemperature, types.ErrInvalidPromptConfig)
		}
		cfg.Temperature = &t
	}
	return cfg, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
