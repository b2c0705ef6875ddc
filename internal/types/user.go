package types

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID       `json:"id"`
	Email         string          `json:"email"`
	Name          *string         `json:"name,omitempty"`
	PersonaTraits json.RawMessage `json:"persona_traits,omitempty" swaggertype:"object"` // {traits, score} from the interest prompt
	AISummary     *string         `json:"ai_summary,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreateUserRequest carries the onboarding questionnaire answers.
type CreateUserRequest struct {
	Email      string         `json:"email" example:"asha@example.com"`
	Name       string         `json:"name" example:"Asha"`
	UserAnswer map[string]any `json:"user_answer"`
}

// InterestProfile is what the user-interest prompt returns.
type InterestProfile struct {
	TopTraits      json.RawMessage `json:"top_traits"`
	FactorScores   json.RawMessage `json:"factor_scores"`
	ProfileSummary json.RawMessage `json:"profile_summary"`
}

// SummaryText returns profile_summary as stored text: strings verbatim, any
// other JSON value in its compact form, and "" when absent or null.
func (p InterestProfile) SummaryText() string {
	raw := bytes.TrimSpace(p.ProfileSummary)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// PersonaTraits is the stored shape of users.persona_traits.
type PersonaTraits struct {
	Traits json.RawMessage `json:"traits"`
	Score  json.RawMessage `json:"score"`
}

// MemberPersona is the per-member input of the knowledge graph prompt.
type MemberPersona struct {
	PersonaTraits json.RawMessage `json:"persona_traits"`
	AISummary     *string         `json:"ai_summary"`
}

type UserInfo struct {
	User   User        `json:"user"`
	Groups []GroupInfo `json:"groups"`
}
