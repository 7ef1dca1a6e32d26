// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// ReservationStatus specifies the booking lifecycle state. Bookings
// are created as Pending and may be Confirmed by the trip driver.
// Cancelled and Completed are terminal states.
type ReservationStatus int

// Valid values for the ReservationStatus enum.
const (
	ReservationStatusInvalid ReservationStatus = iota // zero is invalid

	ReservationStatusPending
	ReservationStatusConfirmed
	ReservationStatusCancelled
	ReservationStatusCompleted
)

// ErrUnknownReservationStatus indicates that a given string may not be
// parsed as a known reservation status.
var ErrUnknownReservationStatus = errors.New("unknown reservation status")

// ReservationStatusError indicates an invalid reservation status.
type ReservationStatusError int

// Error implements the error interface.
func (e ReservationStatusError) Error() string {
	return fmt.Sprintf("invalid reservation status: %d", e)
}

// Validate returns nil if the s status is valid.
func (s ReservationStatus) Validate() error {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed,
		ReservationStatusCancelled, ReservationStatusCompleted:
		return nil
	default:
		return ReservationStatusError(s)
	}
}

// String converts the ReservationStatus enum to its upper-case string
// form. Invalid statuses cause a panic.
func (s ReservationStatus) String() string {
	switch s {
	case ReservationStatusPending:
		return "PENDING"
	case ReservationStatusConfirmed:
		return "CONFIRMED"
	case ReservationStatusCancelled:
		return "CANCELLED"
	case ReservationStatusCompleted:
		return "COMPLETED"
	default:
		panic(ReservationStatusError(s))
	}
}

// ParseReservationStatus parses the given string and returns a
// ReservationStatus or ErrUnknownReservationStatus.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch s {
	case "PENDING":
		return ReservationStatusPending, nil
	case "CONFIRMED":
		return ReservationStatusConfirmed, nil
	case "CANCELLED":
		return ReservationStatusCancelled, nil
	case "COMPLETED":
		return ReservationStatusCompleted, nil
	default:
		return ReservationStatusInvalid, ErrUnknownReservationStatus
	}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (s ReservationStatus) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (s *ReservationStatus) UnmarshalText(text []byte) (err error) {
	*s, err = ParseReservationStatus(string(text))
	return
}

// Reservation is a request of a passenger to occupy some seats of a
// trip. The TotalPrice is computed when the reservation is created.
type Reservation struct {
	ID          uuid.UUID         `json:"id"`
	TripID      uuid.UUID         `json:"trip_id"`
	PassengerID uuid.UUID         `json:"passenger_id"`
	Seats       int               `json:"number_of_seats"`
	TotalPrice  float64           `json:"total_price"`
	Status      ReservationStatus `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	ReservedAt  time.Time         `json:"reservation_date"`
}

// TotalPrice computes the price of reserving seats on a trip with the
// given price per seat, rounded to two decimal places.
func TotalPrice(pricePerSeat float64, seats int) float64 {
	return Round2(pricePerSeat * float64(seats))
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BookingRequest carries the passenger-provided booking fields.
type BookingRequest struct {
	TripID uuid.UUID
	Seats  int
	Notes  string
}

// ReservationView is the denormalized representation of a reservation
// embedding its trip and passenger summaries.
type ReservationView struct {
	Reservation
	Trip      *TripSummary      `json:"trip"`
	Passenger *PassengerSummary `json:"passenger"`
}

// TripSummary is the trip representation which is embedded in the
// reservation views.
type TripSummary struct {
	ID            uuid.UUID  `json:"id"`
	DepartureTime time.Time  `json:"departure_time"`
	ArrivalTime   *time.Time `json:"arrival_time,omitempty"`
	PricePerSeat  float64    `json:"price_per_seat"`
	Description   string     `json:"description"`
	Status        TripStatus `json:"status"`
	DriverName    string     `json:"driver_name"`
	VehicleModel  string     `json:"vehicle_model"`
	VehicleColor  string     `json:"vehicle_color"`
	VehiclePlate  string     `json:"vehicle_plate"`
}

// NewTripSummary summarizes the t trip which is driven by the driver
// user. The driver may be nil if it is not known.
func NewTripSummary(t *Trip, driver *User) *TripSummary {
	ts := &TripSummary{
		ID:            t.ID,
		DepartureTime: t.DepartureTime,
		ArrivalTime:   t.ArrivalTime,
		PricePerSeat:  t.PricePerSeat,
		Description:   t.Description,
		Status:        t.Status,
	}
	if driver == nil {
		return ts
	}
	ts.DriverName = driver.FullName()
	if d, ok := driver.Driver(); ok {
		ts.VehicleModel = d.VehicleModel
		ts.VehicleColor = d.VehicleColor
		ts.VehiclePlate = d.VehiclePlate
	}
	return ts
}
