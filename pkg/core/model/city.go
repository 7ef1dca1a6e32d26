package model

import "github.com/google/uuid"

// City is a read-mostly reference row which may be attached to trips
// and is used for resolving trip estimates by name.
// Lat and Lon are nil when the city location is unknown.
type City struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PostalCode string    `json:"code_postal"`
	Country    string    `json:"pays"`
	Lat        *float64  `json:"latitude"`
	Lon        *float64  `json:"longitude"`
}

// Coordinate returns the city location and true, or a zero Coordinate
// and false if either of its latitude or longitude is missing.
func (c *City) Coordinate() (Coordinate, bool) {
	if c.Lat == nil || c.Lon == nil {
		return Coordinate{}, false
	}
	return Coordinate{Lat: *c.Lat, Lon: *c.Lon}, true
}

// Option is an add-on amenity which a driver may attach to trips,
// such as pet-friendly rides or extra luggage.
type Option struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Active      bool      `json:"is_active"`
}

// PriceRange is a labelled suggestion for the trip price per seat.
type PriceRange struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Label string  `json:"label"`
}

// FormData aggregates the reference data which a trip creation form
// needs to present.
type FormData struct {
	Cities       []City       `json:"cities"`
	Options      []Option     `json:"options"`
	VehicleTypes []string     `json:"vehicle_types"`
	PriceRanges  []PriceRange `json:"price_ranges"`
}
