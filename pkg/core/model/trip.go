// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by ORM
// libraries) since adding more tags does not complicate definition of
// a struct, but can prevent unnecessary structs duplication.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Bounds of the number of seats which a trip may offer or a passenger
// may reserve in one booking.
const (
	MinSeats = 1
	MaxSeats = 8
)

// MaxDescriptionLen is the maximum length of trip descriptions and
// reservation notes.
const MaxDescriptionLen = 500

// TripStatus specifies the trip lifecycle state. Although this enum is
// numeric, it is (de)serialized as a string in the adapter layer.
// A trip is created as Planned and may move to Active and then to
// Completed by its driver. Any non-Completed trip may be Cancelled.
type TripStatus int

// Valid values for the TripStatus enum.
const (
	TripStatusInvalid TripStatus = iota // zero value is invalid

	TripStatusPlanned   // published and bookable
	TripStatusActive    // the ride has started
	TripStatusCompleted // the ride is finished (terminal)
	TripStatusCancelled // the driver cancelled the trip (terminal)
)

// ErrUnknownTripStatus indicates that a given string may not be parsed
// as a known trip status.
var ErrUnknownTripStatus = errors.New("unknown trip status")

// TripStatusError indicates an invalid numeric trip status.
type TripStatusError int

// Error implements the error interface.
func (e TripStatusError) Error() string {
	return fmt.Sprintf("invalid trip status: %d", e)
}

// Validate returns nil if TripStatus value is valid. For invalid
// values, an instance of the TripStatusError will be returned.
func (s TripStatus) Validate() error {
	switch s {
	case TripStatusPlanned, TripStatusActive,
		TripStatusCompleted, TripStatusCancelled:
		return nil
	default:
		return TripStatusError(s)
	}
}

// String converts the TripStatus enum to its upper-case string form.
// Invalid statuses cause a panic.
func (s TripStatus) String() string {
	switch s {
	case TripStatusPlanned:
		return "PLANNED"
	case TripStatusActive:
		return "ACTIVE"
	case TripStatusCompleted:
		return "COMPLETED"
	case TripStatusCancelled:
		return "CANCELLED"
	default:
		panic(TripStatusError(s))
	}
}

// ParseTripStatus parses the given string and returns a TripStatus.
// For invalid strings, TripStatusInvalid and ErrUnknownTripStatus
// will be returned.
func ParseTripStatus(s string) (TripStatus, error) {
	switch s {
	case "PLANNED":
		return TripStatusPlanned, nil
	case "ACTIVE":
		return TripStatusActive, nil
	case "COMPLETED":
		return TripStatusCompleted, nil
	case "CANCELLED":
		return TripStatusCancelled, nil
	default:
		return TripStatusInvalid, ErrUnknownTripStatus
	}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (s TripStatus) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (s *TripStatus) UnmarshalText(text []byte) (err error) {
	*s, err = ParseTripStatus(string(text))
	return
}

// Terminal reports if no further transition may leave the s status.
func (s TripStatus) Terminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// Trip is a single published ride offering of a driver. The invariant
// 0 <= AvailableSeats <= MaxSeats holds for all persisted trips.
type Trip struct {
	ID             uuid.UUID  `json:"id"`
	DriverID       uuid.UUID  `json:"driver_id"`
	DepartureTime  time.Time  `json:"departure_time"`
	ArrivalTime    *time.Time `json:"arrival_time,omitempty"`
	PricePerSeat   float64    `json:"price_per_seat"`
	MaxSeats       int        `json:"max_seats"`
	AvailableSeats int        `json:"available_seats"`
	Description    string     `json:"description"`
	Status         TripStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TripView is the denormalized representation of a trip, embedding
// the summaries of its driver, geo-points, options, and cities.
type TripView struct {
	Trip
	Driver  *DriverSummary `json:"driver"`
	Points  []GeoPoint     `json:"points"`
	Options []Option       `json:"options"`
	Cities  []City         `json:"cities"`
}

// TripRequest carries the driver-provided fields of a trip, as used
// for creation, update, and validation of trips.
type TripRequest struct {
	DepartureTime      time.Time
	ArrivalTime        *time.Time
	PricePerSeat       float64
	MaxSeats           int
	Description        string
	StartPoint         *Waypoint
	EndPoint           *Waypoint
	IntermediatePoints []Waypoint
	OptionIDs          []uuid.UUID
	CityIDs            []uuid.UUID
}

// Points returns the geo-points which should be persisted for the r
// request, starting with the start point, followed by intermediate
// points (in their given order), and ending with the end point.
func (r *TripRequest) Points() []GeoPoint {
	pts := make([]GeoPoint, 0, len(r.IntermediatePoints)+2)
	if r.StartPoint != nil {
		pts = append(pts, r.StartPoint.GeoPoint(PointRoleStart))
	}
	for _, wp := range r.IntermediatePoints {
		pts = append(pts, wp.GeoPoint(PointRoleIntermediate))
	}
	if r.EndPoint != nil {
		pts = append(pts, r.EndPoint.GeoPoint(PointRoleEnd))
	}
	return pts
}

// SearchCriteria describes the trip search filters. MinDeparture and
// Seats are mandatory, other filters may be left nil.
//
// RadiusKm, Start, End, StartCity, and EndCity are accepted for the
// sake of clients which send them, but no spatial filtering is
// performed on them.
type SearchCriteria struct {
	MinDeparture time.Time
	MaxDeparture *time.Time
	MinPrice     *float64
	MaxPrice     *float64
	Seats        int

	RadiusKm           float64
	Start, End         *Coordinate
	StartCity, EndCity string
}

// DefaultSearchRadiusKm is the radius which is assumed when a search
// request does not specify one.
const DefaultSearchRadiusKm = 10

// Validation reports the result of checking a TripRequest before its
// submission. Errors make the request unacceptable, while warnings are
// informative.
type Validation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
