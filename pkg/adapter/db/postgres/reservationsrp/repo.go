// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reservationsrp provides a reification of the
// repo.Reservations interface, persisting the seat reservations
// (bookings) of trips in the reservations table.
package reservationsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// Repo represents the reservations repository.
type Repo struct {
}

// New instantiates a reservations Repo struct.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by this adapter layer.
// Otherwise, it will panic.
func (reservations *Repo) Conn(c repo.Conn) repo.ReservationsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (*model.Reservation, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) ByPassenger(
	ctx context.Context, passengerID uuid.UUID,
) ([]model.Reservation, error) {
	return ByPassenger(ctx, cq.Conn, passengerID)
}

func (cq connQueryer) ByTrip(
	ctx context.Context, tripID uuid.UUID,
) ([]model.Reservation, error) {
	return ByTrip(ctx, cq.Conn, tripID)
}

func (cq connQueryer) CountByTrip(
	ctx context.Context,
	tripID uuid.UUID,
	statuses ...model.ReservationStatus,
) (int, error) {
	return CountByTrip(ctx, cq.Conn, tripID, statuses...)
}

func (cq connQueryer) Detail(
	ctx context.Context, rs []model.Reservation,
) ([]model.ReservationView, error) {
	return Detail(ctx, cq.Conn, rs)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx unwraps the given repo.Tx instance, expecting to find an instance
// of *postgres.Tx as created by this adapter layer. Otherwise, it will
// panic. Reservations are only modified in a transaction since each
// change is accompanied by a seats change of their trip.
func (reservations *Repo) Tx(tx repo.Tx) repo.ReservationsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (*model.Reservation, error) {
	return Get(ctx, tq.Tx, id)
}

func (tq txQueryer) ByPassenger(
	ctx context.Context, passengerID uuid.UUID,
) ([]model.Reservation, error) {
	return ByPassenger(ctx, tq.Tx, passengerID)
}

func (tq txQueryer) ByTrip(
	ctx context.Context, tripID uuid.UUID,
) ([]model.Reservation, error) {
	return ByTrip(ctx, tq.Tx, tripID)
}

func (tq txQueryer) CountByTrip(
	ctx context.Context,
	tripID uuid.UUID,
	statuses ...model.ReservationStatus,
) (int, error) {
	return CountByTrip(ctx, tq.Tx, tripID, statuses...)
}

func (tq txQueryer) Detail(
	ctx context.Context, rs []model.Reservation,
) ([]model.ReservationView, error) {
	return Detail(ctx, tq.Tx, rs)
}

func (tq txQueryer) Lock(
	ctx context.Context, id uuid.UUID,
) (*model.Reservation, error) {
	return Lock(ctx, tq.Tx, id)
}

func (tq txQueryer) Create(ctx context.Context, r *model.Reservation) error {
	return Create(ctx, tq.Tx, r)
}

func (tq txQueryer) SetStatus(
	ctx context.Context, id uuid.UUID, s model.ReservationStatus,
) (*model.Reservation, error) {
	return SetStatus(ctx, tq.Tx, id, s)
}

func (tq txQueryer) CancelPendingByTrip(
	ctx context.Context, tripID uuid.UUID,
) ([]model.Reservation, error) {
	return CancelPendingByTrip(ctx, tq.Tx, tripID)
}
