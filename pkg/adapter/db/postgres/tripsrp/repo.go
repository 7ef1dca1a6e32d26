// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package tripsrp provides a reification of the repo.Trips interface.
// Trips are kept in the trips table, their geo-points in the geo_points
// table, and their options and cities associations in the trip_options
// and trip_cities tables respectively.
package tripsrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// Repo represents the trips repository.
type Repo struct {
}

// New instantiates a trips Repo struct.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by this adapter layer.
// Otherwise, it will panic. The returned queryer may only read trips.
func (trips *Repo) Conn(c repo.Conn) repo.TripsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Get(
	ctx context.Context, tripID uuid.UUID,
) (*model.Trip, error) {
	return Get(ctx, cq.Conn, tripID)
}

func (cq connQueryer) Detail(
	ctx context.Context, ts []model.Trip,
) ([]model.TripView, error) {
	return Detail(ctx, cq.Conn, ts)
}

func (cq connQueryer) ByDriver(
	ctx context.Context, driverID uuid.UUID, statuses ...model.TripStatus,
) ([]model.Trip, error) {
	return ByDriver(ctx, cq.Conn, driverID, statuses...)
}

func (cq connQueryer) ByPassenger(
	ctx context.Context,
	passengerID uuid.UUID,
	rs model.ReservationStatus,
	statuses ...model.TripStatus,
) ([]model.Trip, error) {
	return ByPassenger(ctx, cq.Conn, passengerID, rs, statuses...)
}

func (cq connQueryer) Available(
	ctx context.Context, after time.Time,
) ([]model.Trip, error) {
	return Available(ctx, cq.Conn, after)
}

func (cq connQueryer) Search(
	ctx context.Context, sc *model.SearchCriteria,
) ([]model.Trip, error) {
	return Search(ctx, cq.Conn, sc)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx unwraps the given repo.Tx instance, expecting to find an instance
// of *postgres.Tx as created by this adapter layer. Otherwise, it will
// panic. All trip modifications, including the seat reservations,
// mandate a transaction because they are always accompanied by other
// changes (such as the geo-points replacement or the reservation
// creation) which must be committed or rolled back together.
func (trips *Repo) Tx(tx repo.Tx) repo.TripsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Get(
	ctx context.Context, tripID uuid.UUID,
) (*model.Trip, error) {
	return Get(ctx, tq.Tx, tripID)
}

func (tq txQueryer) Detail(
	ctx context.Context, ts []model.Trip,
) ([]model.TripView, error) {
	return Detail(ctx, tq.Tx, ts)
}

func (tq txQueryer) ByDriver(
	ctx context.Context, driverID uuid.UUID, statuses ...model.TripStatus,
) ([]model.Trip, error) {
	return ByDriver(ctx, tq.Tx, driverID, statuses...)
}

func (tq txQueryer) ByPassenger(
	ctx context.Context,
	passengerID uuid.UUID,
	rs model.ReservationStatus,
	statuses ...model.TripStatus,
) ([]model.Trip, error) {
	return ByPassenger(ctx, tq.Tx, passengerID, rs, statuses...)
}

func (tq txQueryer) Available(
	ctx context.Context, after time.Time,
) ([]model.Trip, error) {
	return Available(ctx, tq.Tx, after)
}

func (tq txQueryer) Search(
	ctx context.Context, sc *model.SearchCriteria,
) ([]model.Trip, error) {
	return Search(ctx, tq.Tx, sc)
}

func (tq txQueryer) Lock(
	ctx context.Context, tripID uuid.UUID,
) (*model.Trip, error) {
	return Lock(ctx, tq.Tx, tripID)
}

func (tq txQueryer) Create(ctx context.Context, t *model.Trip) error {
	return Create(ctx, tq.Tx, t)
}

func (tq txQueryer) Update(ctx context.Context, t *model.Trip) error {
	return Update(ctx, tq.Tx, t)
}

func (tq txQueryer) SetStatus(
	ctx context.Context, tripID uuid.UUID, s model.TripStatus,
) (*model.Trip, error) {
	return SetStatus(ctx, tq.Tx, tripID, s)
}

func (tq txQueryer) ReserveSeats(
	ctx context.Context, tripID uuid.UUID, n int,
) (*model.Trip, error) {
	return ReserveSeats(ctx, tq.Tx, tripID, n)
}

func (tq txQueryer) ReleaseSeats(
	ctx context.Context, tripID uuid.UUID, n int,
) (*model.Trip, error) {
	return ReleaseSeats(ctx, tq.Tx, tripID, n)
}

func (tq txQueryer) ReplacePoints(
	ctx context.Context, tripID uuid.UUID, pts []model.GeoPoint,
) error {
	return ReplacePoints(ctx, tq.Tx, tripID, pts)
}

func (tq txQueryer) ReplaceOptions(
	ctx context.Context, tripID uuid.UUID, ids []uuid.UUID,
) error {
	return ReplaceOptions(ctx, tq.Tx, tripID, ids)
}

func (tq txQueryer) ReplaceCities(
	ctx context.Context, tripID uuid.UUID, ids []uuid.UUID,
) error {
	return ReplaceCities(ctx, tq.Tx, tripID, ids)
}

func (tq txQueryer) Delete(ctx context.Context, tripID uuid.UUID) error {
	return Delete(ctx, tq.Tx, tripID)
}
