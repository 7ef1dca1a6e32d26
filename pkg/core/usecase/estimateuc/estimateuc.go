// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package estimateuc contains the trip estimator UseCase. It resolves
// two city names to their coordinates and estimates the distance,
// driving duration, and fuel cost of a trip between them.
package estimateuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/log"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// FallbackDistanceKm is the distance which is reported when any of
// the requested cities can not be resolved.
const FallbackDistanceKm = 100.0

// UseCase represents the trip estimator use case.
type UseCase struct {
	pool     repo.Pool
	citiesrp repo.Cities

	speed     float64 // km/h
	costPerKm float64
	rate      float64
	currency  string
}

// New instantiates a trip estimator use case. By default, an average
// speed of 80 km/h and a fuel cost of 0.15 per km, converted with the
// 3.2 rate to TND, are assumed.
func New(p repo.Pool, cities repo.Cities, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, citiesrp: cities}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.speed == 0 {
		uc.speed = 80
	}
	if uc.costPerKm == 0 {
		uc.costPerKm = 0.15
	}
	if uc.rate == 0 {
		uc.rate = 3.2
	}
	if uc.currency == "" {
		uc.currency = "TND"
	}
	return uc, nil
}

// EstimateTrip use case estimates a trip between the from and to
// cities. Each name is resolved to the city which has exactly the same
// name (ignoring case) or otherwise to the first city which contains
// it. If any of them can not be resolved or has no coordinates, the
// FallbackDistanceKm distance is assumed with zero coordinates and
// the estimate source is reported as model.EstimateFallback.
func (est *UseCase) EstimateTrip(
	ctx context.Context, from, to string,
) (*model.Estimate, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return nil, cerr.BadRequest(
			errors.New("departure and arrival cities are required"),
		)
	}
	e := &model.Estimate{
		From:       from,
		To:         to,
		DistanceKm: FallbackDistanceKm,
		Currency:   est.currency,
		Source:     model.EstimateFallback,
	}
	err := est.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := est.citiesrp.Conn(c)
		fc, err := resolve(ctx, q, from)
		if err != nil {
			return err
		}
		tc, err := resolve(ctx, q, to)
		if err != nil {
			return err
		}
		if fc == nil || tc == nil {
			return nil
		}
		src, ok1 := fc.Coordinate()
		dst, ok2 := tc.Coordinate()
		if !ok1 || !ok2 {
			return nil
		}
		e.FromCoordinate, e.ToCoordinate = src, dst
		e.DistanceKm = src.DistanceKm(dst)
		e.Source = model.EstimateResolved
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolving cities: %w", err)
	}
	if e.Source == model.EstimateFallback {
		log.Info(
			ctx, "estimating with the fallback distance",
			slog.String("from", from), slog.String("to", to),
		)
	}
	e.DurationMinutes = int(e.DistanceKm / est.speed * 60)
	e.Duration = model.FormatDuration(e.DurationMinutes)
	e.Cost = model.Round2(e.DistanceKm * est.costPerKm * est.rate)
	e.DistanceKm = model.Round2(e.DistanceKm)
	return e, nil
}

// resolve finds the best matching city for name, or nil if there is
// no matching city.
func resolve(
	ctx context.Context, q repo.CitiesQueryer, name string,
) (*model.City, error) {
	cs, err := q.SearchByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", name, err)
	}
	for i := range cs {
		if strings.EqualFold(cs[i].Name, name) {
			return &cs[i], nil
		}
	}
	if len(cs) == 0 {
		return nil, nil
	}
	return &cs[0], nil
}
