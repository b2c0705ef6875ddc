package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterestProfile_SummaryText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"Loves hikes"`, "Loves hikes"},
		{"object", `{ "headline": "Loves hikes" }`, `{"headline":"Loves hikes"}`},
		{"array", `["calm", "curious"]`, `["calm","curious"]`},
		{"number", `4`, "4"},
		{"null", `null`, ""},
		{"absent", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := InterestProfile{ProfileSummary: json.RawMessage(tt.raw)}
			assert.Equal(t, tt.want, p.SummaryText())
		})
	}
}
