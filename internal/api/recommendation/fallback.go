package recommendation

import (
	"encoding/json"
	"time"

	"github.com/FACorreiaa/go-group-trip-planner/internal/types"
)

const fallbackBaseCity = "Bangalore"

type fallbackSource struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type fallbackDestination struct {
	OptionVariant          string         `json:"option_variant"`
	DestinationName        string         `json:"destination_name"`
	DistanceFromBaseKm     string         `json:"distance_from_base_km"`
	TravelTime             string         `json:"travel_time"`
	TripLengthDays         int            `json:"trip_length_days"`
	KeyHighlights          []string       `json:"key_highlights"`
	AccommodationNotes     string         `json:"accommodation_notes"`
	EstimatedCostPerPerson string         `json:"estimated_cost_per_person"`
	TransportationOptions  []string       `json:"transportation_options"`
	WeatherDuringTrip      string         `json:"weather_during_trip"`
	Source                 fallbackSource `json:"source"`
}

type fallbackPayload struct {
	UserID                string                `json:"user_id"`
	BaseCity              string                `json:"base_city"`
	DateRange             []string              `json:"date_range"`
	SearchRadiusKm        int                   `json:"search_radius_km"`
	ShortTripDestinations []fallbackDestination `json:"short_trip_destinations"`
}

var fallbackDestinations = []fallbackDestination{
	{
		OptionVariant:      "Option A – Nature & Scenic Retreat",
		DestinationName:    "Nandi Hills",
		DistanceFromBaseKm: "60",
		TravelTime:         "1.5 - 2 hours by car",
		TripLengthDays:     2,
		KeyHighlights: []string{
			"Sunrise trek and panoramic views from the hilltop",
			"Paragliding and cycling options",
			"Visit Tipu's Drop and Bhoga Nandeeshwara Temple",
		},
		AccommodationNotes:     "Budget guesthouses to mid-range resorts available nearby.",
		EstimatedCostPerPerson: "INR 5,000 - 8,000",
		TransportationOptions:  []string{"drive", "bus", "train"},
		WeatherDuringTrip:      "Pleasant and cool (typical mid-season).",
		Source: fallbackSource{
			Title:   "51 Places To Visit Near Bangalore Within 200 kms",
			URL:     "https://example.com/nandi-hills",
			Snippet: "Nandi Hills blends historical charm with quick outdoor escapes.",
		},
	},
	{
		OptionVariant:      "Option B – Cultural & Heritage Destination",
		DestinationName:    "Mysore",
		DistanceFromBaseKm: "145",
		TravelTime:         "3 - 4 hours by car/train",
		TripLengthDays:     2,
		KeyHighlights: []string{
			"Mysore Palace illumination",
			"Devaraja Market walk",
			"Chamundi Hills & St. Philomena's Church",
		},
		AccommodationNotes:     "City hotels and boutique heritage stays available.",
		EstimatedCostPerPerson: "INR 6,000 - 10,000",
		TransportationOptions:  []string{"drive", "bus", "train"},
		WeatherDuringTrip:      "Pleasant and moderate.",
		Source: fallbackSource{
			Title:   "Places to Visit Near Bangalore for 2 Days",
			URL:     "https://example.com/mysore",
			Snippet: "The cultural capital with grand palaces and lively markets.",
		},
	},
	{
		OptionVariant:      "Option C – Adventure & Experiential",
		DestinationName:    "Ramanagara",
		DistanceFromBaseKm: "50",
		TravelTime:         "1 - 1.5 hours by car",
		TripLengthDays:     2,
		KeyHighlights: []string{
			"Rock climbing and rappelling on granite hills",
			"Trekking rugged trails",
			"Zip-lining, cave exploration at adventure camps",
		},
		AccommodationNotes:     "Adventure camps, nature resorts, and basic guesthouses.",
		EstimatedCostPerPerson: "INR 5,500 - 8,500",
		TransportationOptions:  []string{"drive", "bus", "train"},
		WeatherDuringTrip:      "Pleasant and dry; ideal for outdoor activities.",
		Source: fallbackSource{
			Title:   "40 Places to Visit near Bangalore within 200 Kms",
			URL:     "https://example.com/ramanagara",
			Snippet: "Adventure paradise near Bangalore with rugged trails.",
		},
	},
}

// Fallback builds the static recommendation set served when live search fails.
// Both slots carry the same payload and the result is marked synthetic.
func Fallback(destination string, today time.Time) *types.Recommendations {
	if destination == "" {
		destination = fallbackBaseCity
	}
	payload, err := json.Marshal(fallbackPayload{
		UserID:                "User_001",
		BaseCity:              destination,
		DateRange:             []string{today.Format(time.DateOnly), today.AddDate(0, 0, 3).Format(time.DateOnly)},
		SearchRadiusKm:        200,
		ShortTripDestinations: fallbackDestinations,
	})
	if err != nil {
		panic(err)
	}
	return &types.Recommendations{
		ShortTrip:  payload,
		LongTrip:   payload,
		Provenance: types.ProvenanceFallback,
	}
}
