// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package tripsuc contains the trips UseCase which manages the trip
// lifecycle. Trips are created as planned by drivers, may be started,
// completed, or cancelled by the same driver, and can be searched and
// listed by other users. The state machine is as follows:
//
//	PLANNED --start--> ACTIVE --complete--> COMPLETED
//	PLANNED, ACTIVE --cancel--> CANCELLED
//
// Reservations of a trip are managed by the bookingsuc package, but
// cancelling a trip cancels its pending reservations too.
package tripsuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/log"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// UseCase represents a trips use case. It holds a database connection
// pool and the trips, reservations, and users repositories.
type UseCase struct {
	pool           repo.Pool
	tripsrp        repo.Trips
	reservationsrp repo.Reservations
	usersrp        repo.Users

	notifier  repo.Notifier
	highPrice float64
	currency  string
	now       func() time.Time
}

// New instantiates a trips use case.
func New(
	p repo.Pool,
	trips repo.Trips,
	reservations repo.Reservations,
	users repo.Users,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:           p,
		tripsrp:        trips,
		reservationsrp: reservations,
		usersrp:        users,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.highPrice == 0 {
		uc.highPrice = 320
	}
	if uc.currency == "" {
		uc.currency = "TND"
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// CreateTrip use case creates a planned trip for the caller driver
// with its geo-points, options, and cities as described by req.
// All seats of the new trip are available.
func (trips *UseCase) CreateTrip(
	ctx context.Context, caller model.Caller, req *model.TripRequest,
) (tv *model.TripView, err error) {
	if v := trips.ValidateTrip(req); !v.Valid {
		return nil, cerr.BadRequest(validationError(v))
	}
	now := trips.now()
	t := &model.Trip{
		ID:             uuid.New(),
		DriverID:       caller.UserID,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		PricePerSeat:   req.PricePerSeat,
		MaxSeats:       req.MaxSeats,
		AvailableSeats: req.MaxSeats,
		Description:    req.Description,
		Status:         model.TripStatusPlanned,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = trips.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			u, err := trips.usersrp.Tx(tx).Get(ctx, caller.UserID)
			if err != nil {
				return fmt.Errorf("finding driver: %w", err)
			}
			if u.Role() != model.RoleDriver {
				return cerr.Authorization(
					errors.New("only drivers may create trips"),
				)
			}
			q := trips.tripsrp.Tx(tx)
			if err = q.Create(ctx, t); err != nil {
				return fmt.Errorf("creating trip: %w", err)
			}
			if err = trips.replaceRoute(ctx, q, t.ID, req); err != nil {
				return err
			}
			tv, err = detailOne(ctx, q, t)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	trips.notify(ctx, model.Notification{
		Kind:    model.NotifyTripCreated,
		UserID:  caller.UserID,
		TripID:  t.ID,
		Message: "Your trip was published successfully",
	})
	return tv, nil
}

// UpdateTrip use case replaces the schedule, price, capacity,
// description, geo-points, options, and cities of the id trip.
// Only planned trips may be updated and only by their drivers.
// The max seats may not be less than the number of confirmed
// reservations and available seats are recomputed accordingly.
func (trips *UseCase) UpdateTrip(
	ctx context.Context,
	caller model.Caller,
	id uuid.UUID,
	req *model.TripRequest,
) (tv *model.TripView, err error) {
	if v := trips.ValidateTrip(req); !v.Valid {
		return nil, cerr.BadRequest(validationError(v))
	}
	err = trips.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := trips.tripsrp.Tx(tx)
			t, err := lockOwned(ctx, q, caller, id)
			if err != nil {
				return err
			}
			if t.Status != model.TripStatusPlanned {
				return cerr.Conflict(fmt.Errorf(
					"only planned trips may be updated, trip is %s",
					t.Status,
				))
			}
			confirmed, err := trips.reservationsrp.Tx(tx).CountByTrip(
				ctx, id, model.ReservationStatusConfirmed,
			)
			if err != nil {
				return fmt.Errorf("counting confirmed reservations: %w", err)
			}
			if req.MaxSeats < confirmed {
				return cerr.Conflict(fmt.Errorf(
					"max seats (%d) is less than confirmed bookings (%d)",
					req.MaxSeats, confirmed,
				))
			}
			t.DepartureTime = req.DepartureTime
			t.ArrivalTime = req.ArrivalTime
			t.PricePerSeat = req.PricePerSeat
			t.Description = req.Description
			t.MaxSeats = req.MaxSeats
			t.AvailableSeats = req.MaxSeats - confirmed
			if err = q.Update(ctx, t); err != nil {
				return fmt.Errorf("updating trip: %w", err)
			}
			if err = trips.replaceRoute(ctx, q, id, req); err != nil {
				return err
			}
			tv, err = detailOne(ctx, q, t)
			return err
		})
	})
	if err != nil {
		tv = nil
	}
	return
}

func (trips *UseCase) replaceRoute(
	ctx context.Context,
	q repo.TripsTxQueryer,
	id uuid.UUID,
	req *model.TripRequest,
) error {
	if err := q.ReplacePoints(ctx, id, req.Points()); err != nil {
		return fmt.Errorf("replacing geo-points: %w", err)
	}
	if err := q.ReplaceOptions(ctx, id, req.OptionIDs); err != nil {
		return fmt.Errorf("replacing options: %w", err)
	}
	if err := q.ReplaceCities(ctx, id, req.CityIDs); err != nil {
		return fmt.Errorf("replacing cities: %w", err)
	}
	return nil
}

// StartTrip use case moves the id trip from planned to active.
func (trips *UseCase) StartTrip(
	ctx context.Context, caller model.Caller, id uuid.UUID,
) (*model.TripView, error) {
	return trips.transit(
		ctx, caller, id, model.TripStatusActive, model.TripStatusPlanned,
	)
}

// CompleteTrip use case moves the id trip from active to completed.
func (trips *UseCase) CompleteTrip(
	ctx context.Context, caller model.Caller, id uuid.UUID,
) (*model.TripView, error) {
	return trips.transit(
		ctx, caller, id, model.TripStatusCompleted, model.TripStatusActive,
	)
}

// transit changes status of the id trip to the `to` status if its
// current status is one of the `from` statuses.
func (trips *UseCase) transit(
	ctx context.Context,
	caller model.Caller,
	id uuid.UUID,
	to model.TripStatus,
	from ...model.TripStatus,
) (tv *model.TripView, err error) {
	err = trips.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := trips.tripsrp.Tx(tx)
			t, err := lockOwned(ctx, q, caller, id)
			if err != nil {
				return err
			}
			if !slices.Contains(from, t.Status) {
				return cerr.Conflict(fmt.Errorf(
					"trip may not become %s from %s", to, t.Status,
				))
			}
			if t, err = q.SetStatus(ctx, id, to); err != nil {
				return fmt.Errorf("setting status: %w", err)
			}
			tv, err = detailOne(ctx, q, t)
			return err
		})
	})
	if err != nil {
		tv = nil
	}
	return
}

// CancelTrip use case cancels the id trip unless it is completed.
// All pending reservations of the trip are cancelled too and their
// passengers are notified. Confirmed reservations are kept unchanged.
func (trips *UseCase) CancelTrip(
	ctx context.Context, caller model.Caller, id uuid.UUID,
) (tv *model.TripView, err error) {
	var cancelled []model.Reservation
	err = trips.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := trips.tripsrp.Tx(tx)
			t, err := lockOwned(ctx, q, caller, id)
			if err != nil {
				return err
			}
			if t.Status == model.TripStatusCompleted {
				return cerr.Conflict(
					errors.New("completed trips may not be cancelled"),
				)
			}
			if t, err = q.SetStatus(
				ctx, id, model.TripStatusCancelled,
			); err != nil {
				return fmt.Errorf("setting status: %w", err)
			}
			cancelled, err = trips.reservationsrp.Tx(
				tx,
			).CancelPendingByTrip(ctx, id)
			if err != nil {
				return fmt.Errorf("cancelling pending bookings: %w", err)
			}
			tv, err = detailOne(ctx, q, t)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	for _, r := range cancelled {
		trips.notify(ctx, model.Notification{
			Kind:      model.NotifyTripCancelled,
			UserID:    r.PassengerID,
			TripID:    id,
			BookingID: r.ID,
			Message:   "The trip of your booking was cancelled by its driver",
		})
	}
	return tv, nil
}

// DeleteTrip use case removes the id trip. Only planned trips without
// any reservation (in any status) may be deleted.
func (trips *UseCase) DeleteTrip(
	ctx context.Context, caller model.Caller, id uuid.UUID,
) error {
	return trips.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := trips.tripsrp.Tx(tx)
			t, err := lockOwned(ctx, q, caller, id)
			if err != nil {
				return err
			}
			if t.Status != model.TripStatusPlanned {
				return cerr.Conflict(fmt.Errorf(
					"only planned trips may be deleted, trip is %s",
					t.Status,
				))
			}
			n, err := trips.reservationsrp.Tx(tx).CountByTrip(ctx, id)
			if err != nil {
				return fmt.Errorf("counting bookings: %w", err)
			}
			if n > 0 {
				return cerr.Conflict(fmt.Errorf(
					"trip has %d bookings and may not be deleted", n,
				))
			}
			return q.Delete(ctx, id)
		})
	})
}

// lockOwned locks the id trip and ensures that caller is its driver.
func lockOwned(
	ctx context.Context,
	q repo.TripsTxQueryer,
	caller model.Caller,
	id uuid.UUID,
) (*model.Trip, error) {
	t, err := q.Lock(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding trip: %w", err)
	}
	if t.DriverID != caller.UserID {
		return nil, cerr.Authorization(
			errors.New("you are not the driver of this trip"),
		)
	}
	return t, nil
}

func detailOne(
	ctx context.Context, q repo.TripsQueryer, t *model.Trip,
) (*model.TripView, error) {
	tvs, err := q.Detail(ctx, []model.Trip{*t})
	if err != nil {
		return nil, fmt.Errorf("loading trip details: %w", err)
	}
	return &tvs[0], nil
}

// notify publishes n if a notifier is configured. Failures are logged
// and ignored.
func (trips *UseCase) notify(ctx context.Context, n model.Notification) {
	if trips.notifier == nil {
		return
	}
	if err := trips.notifier.Notify(ctx, n); err != nil {
		log.Warn(
			ctx, "cannot publish notification",
			slog.String("kind", string(n.Kind)),
			log.ID("user", n.UserID),
			log.Err("err", err),
		)
	}
}
