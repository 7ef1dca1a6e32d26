// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bookingsuc contains the bookings UseCase which manages the
// seat reservations of trips. A reservation is created as pending by
// a passenger, may be confirmed by the trip driver, and may be
// cancelled by either of them. Seats are taken from the trip when a
// reservation is created and are given back when it is cancelled.
package bookingsuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/log"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// UseCase represents a bookings use case.
type UseCase struct {
	pool           repo.Pool
	reservationsrp repo.Reservations
	tripsrp        repo.Trips
	usersrp        repo.Users

	notifier repo.Notifier
	now      func() time.Time
}

// New instantiates a bookings use case.
func New(
	p repo.Pool,
	reservations repo.Reservations,
	trips repo.Trips,
	users repo.Users,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:           p,
		reservationsrp: reservations,
		tripsrp:        trips,
		usersrp:        users,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// CreateBooking use case reserves req.Seats seats of the req.TripID
// trip for the caller passenger. The trip must be planned and have
// enough available seats. Seats are taken by a conditional update, so
// concurrent bookings may not overbook a trip. The reservation is
// created as pending and the trip driver is notified.
func (bookings *UseCase) CreateBooking(
	ctx context.Context, caller model.Caller, req model.BookingRequest,
) (rv *model.ReservationView, err error) {
	if req.Seats < model.MinSeats || req.Seats > model.MaxSeats {
		return nil, cerr.BadRequest(fmt.Errorf(
			"seats (%d) is not in [%d, %d]",
			req.Seats, model.MinSeats, model.MaxSeats,
		))
	}
	if len(req.Notes) > model.MaxDescriptionLen {
		return nil, cerr.BadRequest(fmt.Errorf(
			"notes may not exceed %d characters", model.MaxDescriptionLen,
		))
	}
	var driverID uuid.UUID
	err = bookings.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			u, err := bookings.usersrp.Tx(tx).Get(ctx, caller.UserID)
			if err != nil {
				return fmt.Errorf("finding passenger: %w", err)
			}
			if u.Role() != model.RolePassenger {
				return cerr.Authorization(
					errors.New("only passengers may book trips"),
				)
			}
			tq := bookings.tripsrp.Tx(tx)
			t, err := tq.Get(ctx, req.TripID)
			if err != nil {
				return fmt.Errorf("finding trip: %w", err)
			}
			switch {
			case t.Status != model.TripStatusPlanned:
				return cerr.Conflict(fmt.Errorf(
					"trip is %s and may not be booked", t.Status,
				))
			case t.AvailableSeats < req.Seats:
				return cerr.Conflict(fmt.Errorf(
					"only %d seats are available", t.AvailableSeats,
				))
			}
			if t, err = tq.ReserveSeats(ctx, t.ID, req.Seats); err != nil {
				return fmt.Errorf("reserving seats: %w", err)
			}
			driverID = t.DriverID
			r := &model.Reservation{
				ID:          uuid.New(),
				TripID:      t.ID,
				PassengerID: caller.UserID,
				Seats:       req.Seats,
				TotalPrice:  model.TotalPrice(t.PricePerSeat, req.Seats),
				Status:      model.ReservationStatusPending,
				Notes:       req.Notes,
				ReservedAt:  bookings.now(),
			}
			rq := bookings.reservationsrp.Tx(tx)
			if err = rq.Create(ctx, r); err != nil {
				return fmt.Errorf("creating booking: %w", err)
			}
			rv, err = detailOne(ctx, rq, r)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	bookings.notify(ctx, model.Notification{
		Kind:      model.NotifyBookingCreated,
		UserID:    driverID,
		TripID:    rv.TripID,
		BookingID: rv.ID,
		Message: fmt.Sprintf(
			"A passenger booked %d seat(s) on your trip", rv.Seats,
		),
	})
	return rv, nil
}

// ConfirmBooking use case confirms the pending id reservation. Only the
// driver of the reserved trip may confirm it. The passenger is notified.
func (bookings *UseCase) ConfirmBooking(
	ctx context.Context, caller model.Caller, id uuid.UUID,
) (rv *model.ReservationView, err error) {
	err = bookings.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			rq := bookings.reservationsrp.Tx(tx)
			r, err := rq.Lock(ctx, id)
			if err != nil {
				return fmt.Errorf("finding booking: %w", err)
			}
			t, err := bookings.tripsrp.Tx(tx).Get(ctx, r.TripID)
			if err != nil {
				return fmt.Errorf("finding trip: %w", err)
			}
			if t.DriverID != caller.UserID {
				return cerr.Authorization(errors.New(
					"only the trip driver may confirm its bookings",
				))
			}
			if r.Status != model.ReservationStatusPending {
				return cerr.Conflict(fmt.Errorf(
					"only pending bookings may be confirmed, booking is %s",
					r.Status,
				))
			}
			r, err = rq.SetStatus(ctx, id, model.ReservationStatusConfirmed)
			if err != nil {
				return fmt.Errorf("setting status: %w", err)
			}
			rv, err = detailOne(ctx, rq, r)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	bookings.notify(ctx, model.Notification{
		Kind:      model.NotifyBookingConfirmed,
		UserID:    rv.PassengerID,
		TripID:    rv.TripID,
		BookingID: rv.ID,
		Message:   "Your booking was confirmed by the driver",
	})
	return rv, nil
}

// CancelBooking use case cancels the id reservation on behalf of its
// passenger or the driver of its trip, giving its seats back to the
// trip. Cancelled and completed reservations may not be cancelled.
// The other party is notified.
func (bookings *UseCase) CancelBooking(
	ctx context.Context, caller model.Caller, id uuid.UUID,
) (rv *model.ReservationView, err error) {
	var recipient uuid.UUID
	err = bookings.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			rq := bookings.reservationsrp.Tx(tx)
			r, err := rq.Lock(ctx, id)
			if err != nil {
				return fmt.Errorf("finding booking: %w", err)
			}
			tq := bookings.tripsrp.Tx(tx)
			t, err := tq.Lock(ctx, r.TripID)
			if err != nil {
				return fmt.Errorf("finding trip: %w", err)
			}
			switch caller.UserID {
			case r.PassengerID:
				recipient = t.DriverID
			case t.DriverID:
				recipient = r.PassengerID
			default:
				return cerr.Authorization(errors.New(
					"only the passenger or driver may cancel a booking",
				))
			}
			switch r.Status {
			case model.ReservationStatusCancelled,
				model.ReservationStatusCompleted:
				return cerr.Conflict(fmt.Errorf(
					"booking is already %s", r.Status,
				))
			}
			if _, err = tq.ReleaseSeats(ctx, t.ID, r.Seats); err != nil {
				return fmt.Errorf("releasing seats: %w", err)
			}
			r, err = rq.SetStatus(ctx, id, model.ReservationStatusCancelled)
			if err != nil {
				return fmt.Errorf("setting status: %w", err)
			}
			rv, err = detailOne(ctx, rq, r)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	bookings.notify(ctx, model.Notification{
		Kind:      model.NotifyBookingCancelled,
		UserID:    recipient,
		TripID:    rv.TripID,
		BookingID: rv.ID,
		Message:   "A booking was cancelled",
	})
	return rv, nil
}

// GetBooking use case finds the id reservation. Only its passenger and
// the driver of its trip may see it.
func (bookings *UseCase) GetBooking(
	ctx context.Context, caller model.Caller, id uuid.UUID,
) (rv *model.ReservationView, err error) {
	err = bookings.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		rq := bookings.reservationsrp.Conn(c)
		r, err := rq.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("finding booking: %w", err)
		}
		if r.PassengerID != caller.UserID {
			t, err := bookings.tripsrp.Conn(c).Get(ctx, r.TripID)
			if err != nil {
				return fmt.Errorf("finding trip: %w", err)
			}
			if t.DriverID != caller.UserID {
				return cerr.Authorization(
					errors.New("you may not see this booking"),
				)
			}
		}
		rv, err = detailOne(ctx, rq, r)
		return err
	})
	if err != nil {
		rv = nil
	}
	return
}

// PassengerBookings use case lists the reservations of the caller,
// newest first.
func (bookings *UseCase) PassengerBookings(
	ctx context.Context, caller model.Caller,
) (rvs []model.ReservationView, err error) {
	err = bookings.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		rq := bookings.reservationsrp.Conn(c)
		rs, err := rq.ByPassenger(ctx, caller.UserID)
		if err != nil {
			return err
		}
		rvs, err = rq.Detail(ctx, rs)
		return err
	})
	if err != nil {
		rvs = nil
	}
	return
}

// TripBookings use case lists the reservations of the tripID trip.
// Only the trip driver may list them.
func (bookings *UseCase) TripBookings(
	ctx context.Context, caller model.Caller, tripID uuid.UUID,
) (rvs []model.ReservationView, err error) {
	err = bookings.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		t, err := bookings.tripsrp.Conn(c).Get(ctx, tripID)
		if err != nil {
			return fmt.Errorf("finding trip: %w", err)
		}
		if t.DriverID != caller.UserID {
			return cerr.Authorization(
				errors.New("you are not the driver of this trip"),
			)
		}
		rq := bookings.reservationsrp.Conn(c)
		rs, err := rq.ByTrip(ctx, tripID)
		if err != nil {
			return err
		}
		rvs, err = rq.Detail(ctx, rs)
		return err
	})
	if err != nil {
		rvs = nil
	}
	return
}

func detailOne(
	ctx context.Context, q repo.ReservationsQueryer, r *model.Reservation,
) (*model.ReservationView, error) {
	rvs, err := q.Detail(ctx, []model.Reservation{*r})
	if err != nil {
		return nil, fmt.Errorf("loading booking details: %w", err)
	}
	return &rvs[0], nil
}

func (bookings *UseCase) notify(ctx context.Context, n model.Notification) {
	if bookings.notifier == nil {
		return
	}
	if err := bookings.notifier.Notify(ctx, n); err != nil {
		log.Warn(
			ctx, "cannot publish notification",
			slog.String("kind", string(n.Kind)),
			log.ID("booking", n.BookingID),
			log.Err("err", err),
		)
	}
}
