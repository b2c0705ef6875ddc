package knowledge

import (
	"bytes"
	"encoding/json"
)

// EffectiveSummary returns the stored summary unchanged and whether the group is
// ready. null, false, 0, "", {} and [] all mean not ready.
func EffectiveSummary(stored json.RawMessage) (json.RawMessage, bool) {
	raw := bytes.TrimSpace(stored)
	if len(raw) == 0 {
		return nil, false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	if !truthy(v) {
		return nil, false
	}
	return raw, true
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
