package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const DefaultPlanCaption = "Generated multi-option plan"

type TripPlan struct {
	ID                     uuid.UUID       `json:"id"`
	GroupID                uuid.UUID       `json:"group_id"`
	PlanJSON               json.RawMessage `json:"plan_json" swaggertype:"object"`
	SummaryCaption         *string         `json:"summary_caption,omitempty"`
	EstimatedCostPerPerson *float64        `json:"estimated_cost_per_person"`
	CreatedAt              time.Time       `json:"created_at"`
}

// RawActivityData holds the two recommendation payloads fed to the planner.
type RawActivityData struct {
	ShortTrip json.RawMessage `json:"short_trip" swaggertype:"object"`
	LongTrip  json.RawMessage `json:"long_trip" swaggertype:"object"`
}

// CreatePlanRequest carries the caller's activity buckets, normally a recommendations response.
type CreatePlanRequest struct {
	RawData map[string]json.RawMessage `json:"raw_data" swaggertype:"object"`
}

type PlanByGroupNameRequest struct {
	GroupName string                     `json:"group_name" example:"Weekend crew"`
	RawData   map[string]json.RawMessage `json:"raw_data" swaggertype:"object"`
}

// ActivityDataFrom picks the short_trip and long_trip buckets out of raw_data.
// Absent buckets stay nil.
func ActivityDataFrom(raw map[string]json.RawMessage) RawActivityData {
	return RawActivityData{ShortTrip: raw["short_trip"], LongTrip: raw["long_trip"]}
}
