package types

import "encoding/json"

const (
	ProvenanceLive     = "live"
	ProvenanceFallback = "fallback"
)

// Recommendations pairs the city-scale and wide-radius results.
type Recommendations struct {
	ShortTrip  json.RawMessage `json:"short_trip" swaggertype:"object"`
	LongTrip   json.RawMessage `json:"long_trip" swaggertype:"object"`
	Provenance string          `json:"provenance"`
}

// CityBundle is the context for the city-scale spot finder.
type CityBundle struct {
	City          string   `json:"city"`
	TravelProfile []string `json:"travel_profile"`
}

// WideBundle is the context for the wide-radius search.
type WideBundle struct {
	City            string   `json:"city"`
	TravelProfile   []string `json:"travel_profile"`
	Radius          string   `json:"radius"`
	BudgetPerPerson string   `json:"budget_per_person"`
}
