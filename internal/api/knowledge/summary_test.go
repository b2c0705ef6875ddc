package knowledge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveSummary(t *testing.T) {
	tests := []struct {
		name      string
		stored    string
		want      string
		wantReady bool
	}{
		{"object", `{"vibe":"chill"}`, `{"vibe":"chill"}`, true},
		{"string", `"outdoorsy group"`, `"outdoorsy group"`, true},
		{"array passed whole", `[{"v":1},{"v":2}]`, `[{"v":1},{"v":2}]`, true},
		{"array with empty last element", `[{"v":1},{}]`, `[{"v":1},{}]`, true},
		{"array of falsy values", `[false]`, `[false]`, true},
		{"array of empty strings", `["x", ""]`, `["x", ""]`, true},
		{"nil column", ``, ``, false},
		{"json null", `null`, ``, false},
		{"empty object", `{}`, ``, false},
		{"empty array", `[]`, ``, false},
		{"empty string", `""`, ``, false},
		{"false", `false`, ``, false},
		{"zero", `0`, ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ready := EffectiveSummary(json.RawMessage(tt.stored))
			assert.Equal(t, tt.wantReady, ready)
			if tt.wantReady {
				assert.JSONEq(t, tt.want, string(got))
			} else {
				assert.Nil(t, got)
			}
		})
	}
}
