// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tripsuc

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// GetTrip use case finds the id trip with its details.
func (trips *UseCase) GetTrip(
	ctx context.Context, id uuid.UUID,
) (tv *model.TripView, err error) {
	err = trips.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := trips.tripsrp.Conn(c)
		t, err := q.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("finding trip: %w", err)
		}
		tv, err = detailOne(ctx, q, t)
		return err
	})
	if err != nil {
		tv = nil
	}
	return
}

// DriverTrips use case lists all trips of the caller driver, the most
// recent departure first.
func (trips *UseCase) DriverTrips(
	ctx context.Context, caller model.Caller,
) ([]model.TripView, error) {
	return trips.list(ctx, func(
		ctx context.Context, q repo.TripsConnQueryer,
	) ([]model.Trip, error) {
		return q.ByDriver(ctx, caller.UserID)
	})
}

// AvailableTrips use case lists the planned trips which depart in
// the future and have at least one available seat.
func (trips *UseCase) AvailableTrips(
	ctx context.Context,
) ([]model.TripView, error) {
	now := trips.now()
	return trips.list(ctx, func(
		ctx context.Context, q repo.TripsConnQueryer,
	) ([]model.Trip, error) {
		return q.Available(ctx, now)
	})
}

// UpcomingTrips use case lists the planned trips which the caller
// drives or holds a confirmed booking on, ordered by departure time.
func (trips *UseCase) UpcomingTrips(
	ctx context.Context, caller model.Caller,
) ([]model.TripView, error) {
	return trips.list(ctx, func(
		ctx context.Context, q repo.TripsConnQueryer,
	) ([]model.Trip, error) {
		driven, err := q.ByDriver(
			ctx, caller.UserID, model.TripStatusPlanned,
		)
		if err != nil {
			return nil, fmt.Errorf("driven trips: %w", err)
		}
		booked, err := q.ByPassenger(
			ctx, caller.UserID,
			model.ReservationStatusConfirmed, model.TripStatusPlanned,
		)
		if err != nil {
			return nil, fmt.Errorf("booked trips: %w", err)
		}
		ts := union(driven, booked)
		sort.SliceStable(ts, func(i, j int) bool {
			return ts[i].DepartureTime.Before(ts[j].DepartureTime)
		})
		return ts, nil
	})
}

// CompletedTrips use case lists the completed trips which the caller
// has driven or has a completed booking on, the most recent first.
func (trips *UseCase) CompletedTrips(
	ctx context.Context, caller model.Caller,
) ([]model.TripView, error) {
	return trips.list(ctx, func(
		ctx context.Context, q repo.TripsConnQueryer,
	) ([]model.Trip, error) {
		driven, err := q.ByDriver(
			ctx, caller.UserID, model.TripStatusCompleted,
		)
		if err != nil {
			return nil, fmt.Errorf("driven trips: %w", err)
		}
		booked, err := q.ByPassenger(
			ctx, caller.UserID,
			model.ReservationStatusCompleted, model.TripStatusCompleted,
		)
		if err != nil {
			return nil, fmt.Errorf("booked trips: %w", err)
		}
		ts := union(driven, booked)
		sort.SliceStable(ts, func(i, j int) bool {
			return ts[i].DepartureTime.After(ts[j].DepartureTime)
		})
		return ts, nil
	})
}

// SearchTrips use case finds the planned trips which depart in the
// sc time window, cost in the sc price range, and have at least
// sc.Seats available seats. A zero sc.Seats is taken as one seat and
// a zero sc.RadiusKm is taken as DefaultSearchRadiusKm. The radius,
// coordinates, and city names of sc are validated, but they do not
// filter the results.
func (trips *UseCase) SearchTrips(
	ctx context.Context, sc model.SearchCriteria,
) ([]model.TripView, error) {
	if sc.Seats == 0 {
		sc.Seats = 1
	}
	if sc.RadiusKm == 0 {
		sc.RadiusKm = model.DefaultSearchRadiusKm
	}
	if err := validateCriteria(&sc); err != nil {
		return nil, cerr.BadRequest(err)
	}
	return trips.list(ctx, func(
		ctx context.Context, q repo.TripsConnQueryer,
	) ([]model.Trip, error) {
		return q.Search(ctx, &sc)
	})
}

func validateCriteria(sc *model.SearchCriteria) error {
	switch {
	case sc.MinDeparture.IsZero():
		return errors.New("min departure time is required")
	case sc.MaxDeparture != nil && sc.MaxDeparture.Before(sc.MinDeparture):
		return errors.New("max departure time is before the min one")
	case sc.Seats < model.MinSeats || sc.Seats > model.MaxSeats:
		return fmt.Errorf(
			"seats (%d) is not in [%d, %d]",
			sc.Seats, model.MinSeats, model.MaxSeats,
		)
	case sc.MinPrice != nil && *sc.MinPrice < 0:
		return errors.New("min price is negative")
	case sc.MinPrice != nil && sc.MaxPrice != nil &&
		*sc.MaxPrice < *sc.MinPrice:
		return errors.New("max price is less than min price")
	case sc.RadiusKm < 0 || sc.RadiusKm > 100:
		return fmt.Errorf("radius (%v km) is not in [0, 100]", sc.RadiusKm)
	}
	for _, c := range []*model.Coordinate{sc.Start, sc.End} {
		if c == nil {
			continue
		}
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// list runs the f query on a connection and details its trips.
func (trips *UseCase) list(
	ctx context.Context,
	f func(context.Context, repo.TripsConnQueryer) ([]model.Trip, error),
) (tvs []model.TripView, err error) {
	err = trips.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := trips.tripsrp.Conn(c)
		ts, err := f(ctx, q)
		if err != nil {
			return err
		}
		tvs, err = q.Detail(ctx, ts)
		return err
	})
	if err != nil {
		tvs = nil
	}
	return
}

// union appends those trips of b which are not in a to it.
func union(a, b []model.Trip) []model.Trip {
	seen := make(map[uuid.UUID]bool, len(a))
	for _, t := range a {
		seen[t.ID] = true
	}
	for _, t := range b {
		if !seen[t.ID] {
			seen[t.ID] = true
			a = append(a, t)
		}
	}
	return a
}
