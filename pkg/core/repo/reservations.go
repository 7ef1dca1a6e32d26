// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/model"
)

// Reservations is the reservations (bookings) repository.
type Reservations interface {
	Conn(Conn) ReservationsConnQueryer
	Tx(Tx) ReservationsTxQueryer
}

type ReservationsConnQueryer interface {
	ReservationsQueryer
}

type ReservationsTxQueryer interface {
	ReservationsQueryer

	// Lock fetches and locks the id reservation until the end of
	// the current transaction.
	Lock(ctx context.Context, id uuid.UUID) (*model.Reservation, error)

	// Create inserts r. The r.ID must be set by the caller.
	Create(ctx context.Context, r *model.Reservation) error

	// SetStatus changes status of the id reservation and returns it.
	SetStatus(
		ctx context.Context, id uuid.UUID, s model.ReservationStatus,
	) (*model.Reservation, error)

	// CancelPendingByTrip cancels all pending reservations of the
	// tripID trip and returns them (with their new status).
	CancelPendingByTrip(
		ctx context.Context, tripID uuid.UUID,
	) ([]model.Reservation, error)
}

type ReservationsQueryer interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error)

	// ByPassenger lists reservations of passengerID, newest first.
	ByPassenger(
		ctx context.Context, passengerID uuid.UUID,
	) ([]model.Reservation, error)

	// ByTrip lists reservations of tripID, newest first.
	ByTrip(ctx context.Context, tripID uuid.UUID) ([]model.Reservation, error)

	// CountByTrip counts reservations of tripID which have one of the
	// given statuses, or all of them if no status is given.
	CountByTrip(
		ctx context.Context,
		tripID uuid.UUID,
		statuses ...model.ReservationStatus,
	) (int, error)

	// Detail loads the trip (with its driver) and passenger summaries
	// of the given reservations.
	Detail(
		ctx context.Context, rs []model.Reservation,
	) ([]model.ReservationView, error)
}
