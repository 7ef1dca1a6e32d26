package model

import "fmt"

// EstimateSource tells how an Estimate was computed.
type EstimateSource string

// Possible values of EstimateSource.
const (
	// EstimateResolved means both cities were found with coordinates.
	EstimateResolved EstimateSource = "resolved"
	// EstimateFallback means at least one city could not be resolved
	// and a fixed distance was assumed.
	EstimateFallback EstimateSource = "fallback"
)

// Estimate is the distance, duration, and cost estimation of a trip
// between two named cities.
type Estimate struct {
	From            string         `json:"from_city"`
	To              string         `json:"to_city"`
	FromCoordinate  Coordinate     `json:"from_coordinates"`
	ToCoordinate    Coordinate     `json:"to_coordinates"`
	DistanceKm      float64        `json:"distance_km"`
	DurationMinutes int            `json:"duration_minutes"`
	Duration        string         `json:"estimated_duration"`
	Cost            float64        `json:"estimated_cost"`
	Currency        string         `json:"currency"`
	Source          EstimateSource `json:"source"`
}

// FormatDuration formats a number of minutes like "1h 28m", or like
// "45m" for durations shorter than an hour.
func FormatDuration(minutes int) string {
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
