// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/model"
)

// Trips is the trips repository. Its Conn and Tx methods unwrap the
// given connection or transaction and return a queryer which can run
// the trip related queries using them.
type Trips interface {
	Conn(Conn) TripsConnQueryer
	Tx(Tx) TripsTxQueryer
}

// TripsConnQueryer lists the trip queries which may run on a
// connection with auto-committed transactions.
type TripsConnQueryer interface {
	TripsQueryer
}

// TripsTxQueryer lists the trip queries which must run in an ongoing
// transaction, that is, the mutating ones. Mutations of a trip and its
// reservations must be performed in the same transaction.
type TripsTxQueryer interface {
	TripsQueryer

	// Lock fetches the tripID trip and locks its row until the end
	// of the current transaction (SELECT ... FOR UPDATE).
	Lock(ctx context.Context, tripID uuid.UUID) (*model.Trip, error)

	// Create inserts t. The t.ID must be set by the caller.
	Create(ctx context.Context, t *model.Trip) error

	// Update persists the schedule, price, capacity, and description
	// columns of t and refreshes its UpdatedAt field.
	Update(ctx context.Context, t *model.Trip) error

	// SetStatus changes status of the tripID trip and returns it.
	SetStatus(
		ctx context.Context, tripID uuid.UUID, s model.TripStatus,
	) (*model.Trip, error)

	// ReserveSeats decrements the available seats of the tripID trip
	// by n, atomically, only if it is planned and has at least n
	// available seats. Otherwise, a conflict error is returned and
	// nothing is changed.
	ReserveSeats(
		ctx context.Context, tripID uuid.UUID, n int,
	) (*model.Trip, error)

	// ReleaseSeats increments the available seats of the tripID trip
	// by n, bounded by its max seats.
	ReleaseSeats(
		ctx context.Context, tripID uuid.UUID, n int,
	) (*model.Trip, error)

	// ReplacePoints deletes all geo-points of the tripID trip and
	// inserts the given points instead, filling their IDs.
	ReplacePoints(
		ctx context.Context, tripID uuid.UUID, points []model.GeoPoint,
	) error

	// ReplaceOptions replaces the option associations of tripID.
	// If some optionIDs are unknown, a not-found error is returned.
	ReplaceOptions(
		ctx context.Context, tripID uuid.UUID, optionIDs []uuid.UUID,
	) error

	// ReplaceCities replaces the city associations of tripID.
	// If some cityIDs are unknown, a not-found error is returned.
	ReplaceCities(
		ctx context.Context, tripID uuid.UUID, cityIDs []uuid.UUID,
	) error

	// Delete removes the tripID trip. Its geo-points and associations
	// are removed by cascade.
	Delete(ctx context.Context, tripID uuid.UUID) error
}

// TripsQueryer lists the read-only trip queries.
type TripsQueryer interface {
	// Get finds a trip by its ID, returning a not-found error if no
	// such trip exists.
	Get(ctx context.Context, tripID uuid.UUID) (*model.Trip, error)

	// Detail loads the drivers, geo-points, options, and cities of
	// the given trips, returning them as views in the same order.
	Detail(ctx context.Context, trips []model.Trip) ([]model.TripView, error)

	// ByDriver lists trips of the driverID driver, most recent
	// departure first. If statuses are given, only trips having one
	// of them are listed.
	ByDriver(
		ctx context.Context,
		driverID uuid.UUID,
		statuses ...model.TripStatus,
	) ([]model.Trip, error)

	// ByPassenger lists trips with one of the given statuses which
	// the passengerID user holds a reservation with the rs status on.
	// Trips are ordered by their departure time.
	ByPassenger(
		ctx context.Context,
		passengerID uuid.UUID,
		rs model.ReservationStatus,
		statuses ...model.TripStatus,
	) ([]model.Trip, error)

	// Available lists planned trips with at least one available seat
	// which depart after the given time, ordered by departure time.
	Available(ctx context.Context, after time.Time) ([]model.Trip, error)

	// Search lists the planned trips matching sc, ordered by departure.
	// Spatial fields of sc are not consulted.
	Search(ctx context.Context, sc *model.SearchCriteria) ([]model.Trip, error)
}
