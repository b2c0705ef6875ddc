package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	RoleCreator = "creator"
	RoleMember  = "member"
)

type Group struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	CreatorID        uuid.UUID       `json:"creator_id"`
	Destination      *string         `json:"destination,omitempty"`
	AIGroupKnSummary json.RawMessage `json:"ai_group_kn_summary,omitempty" swaggertype:"object"`
	MembersVersion   int             `json:"members_version"`
	CreatedAt        time.Time       `json:"created_at"`
}

type GroupMember struct {
	GroupID  uuid.UUID `json:"group_id"`
	UserID   uuid.UUID `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// MemberDetail is a group member joined with its user row.
type MemberDetail struct {
	ID            uuid.UUID       `json:"id"`
	Email         string          `json:"email"`
	Name          *string         `json:"name"`
	Role          string          `json:"role"`
	PersonaTraits json.RawMessage `json:"persona_traits" swaggertype:"object"`
	AISummary     *string         `json:"ai_summary"`
}

type KnowledgeGraphRecord struct {
	ID        uuid.UUID       `json:"id"`
	GroupID   uuid.UUID       `json:"group_id"`
	GraphJSON json.RawMessage `json:"graph_json" swaggertype:"object"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateGroupRequest struct {
	GroupName    string `json:"group_name" example:"Weekend crew"`
	Destination  string `json:"destination" example:"Bangalore"`
	CreatorEmail string `json:"creator_email" example:"asha@example.com"`
}

type AddMemberRequest struct {
	UserEmail string `json:"user_email" example:"ravi@example.com"`
}

// GroupTraits is the ordered list of member personas for one group.
type GroupTraits struct {
	GroupID      uuid.UUID       `json:"group_id"`
	GroupName    string          `json:"group_name"`
	GroupMembers []MemberPersona `json:"group_members"`
}

// ProcessResult reports what the knowledge pipeline persisted.
type ProcessResult struct {
	GroupID        uuid.UUID       `json:"group_id"`
	KnowledgeGraph json.RawMessage `json:"knowledge_graph" swaggertype:"object"`
	Summary        json.RawMessage `json:"summary" swaggertype:"object"`
	// Stale is set when membership changed mid-run and the summary was not stored.
	Stale bool `json:"stale"`
}

// GroupInfo is one group as listed in a user's info page.
type GroupInfo struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Destination *string        `json:"destination"`
	CreatorID   uuid.UUID      `json:"creator_id"`
	Members     []MemberDetail `json:"members"`
	Plans       []TripPlan     `json:"plans"`
}
