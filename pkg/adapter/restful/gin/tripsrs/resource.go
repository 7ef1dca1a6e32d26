// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package tripsrs realizes the trips resource, allowing the trips
// publishing, lifecycle, listing, and search REST APIs to be accepted
// and delegated to the trips use cases respectively.
package tripsrs

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/bearer"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/usecase/appuc"
	"github.com/momeni/carpool/pkg/core/usecase/tripsuc"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the trips use case with
// the relevant REST APIs including:
//  1. POST request to /api/carpool/v1/trips
//     in order to publish a trip by the caller driver,
//  2. GET, PUT, and DELETE requests to /api/carpool/v1/trips/:id
//     in order to fetch, update, or delete a trip,
//  3. POST requests to /api/carpool/v1/trips/:id/start (or complete,
//     or cancel) in order to move a trip in its lifecycle,
//  4. GET requests to /api/carpool/v1/trips/my-trips (or available,
//     upcoming, completed) in order to list trips,
//  5. POST request to /api/carpool/v1/trips/search
//     in order to search the bookable trips.
//
// The r router group must authenticate its callers.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.POST("trips", rs.CreateTrip)
	r.GET("trips/my-trips", rs.list(driverTrips))
	r.GET("trips/available", rs.list(availableTrips))
	r.GET("trips/upcoming", rs.list(upcomingTrips))
	r.GET("trips/completed", rs.list(completedTrips))
	r.POST("trips/search", rs.SearchTrips)
	r.GET("trips/:id", rs.GetTrip)
	r.PUT("trips/:id", rs.UpdateTrip)
	r.DELETE("trips/:id", rs.DeleteTrip)
	r.POST("trips/:id/start", rs.transit((*tripsuc.UseCase).StartTrip))
	r.POST("trips/:id/complete", rs.transit((*tripsuc.UseCase).CompleteTrip))
	r.POST("trips/:id/cancel", rs.transit((*tripsuc.UseCase).CancelTrip))
}

func (rs *resource) CreateTrip(c *gin.Context) {
	req, ok := DserTripReq(c)
	if !ok {
		return
	}
	tv, err := rs.app.TripsUseCase().CreateTrip(c, bearer.Caller(c), req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, tv)
}

func (rs *resource) GetTrip(c *gin.Context) {
	id, ok := serdser.BindUUID(c, "id")
	if !ok {
		return
	}
	tv, err := rs.app.TripsUseCase().GetTrip(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, tv)
}

func (rs *resource) UpdateTrip(c *gin.Context) {
	id, ok := serdser.BindUUID(c, "id")
	if !ok {
		return
	}
	req, ok := DserTripReq(c)
	if !ok {
		return
	}
	trips := rs.app.TripsUseCase()
	tv, err := trips.UpdateTrip(c, bearer.Caller(c), id, req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, tv)
}

func (rs *resource) DeleteTrip(c *gin.Context) {
	id, ok := serdser.BindUUID(c, "id")
	if !ok {
		return
	}
	err := rs.app.TripsUseCase().DeleteTrip(c, bearer.Caller(c), id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type transition func(
	*tripsuc.UseCase, context.Context, model.Caller, uuid.UUID,
) (*model.TripView, error)

func (rs *resource) transit(f transition) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := serdser.BindUUID(c, "id")
		if !ok {
			return
		}
		tv, err := f(rs.app.TripsUseCase(), c, bearer.Caller(c), id)
		if err != nil {
			serdser.SerErr(c, err)
			return
		}
		c.JSON(http.StatusOK, tv)
	}
}

type listing func(
	*tripsuc.UseCase, context.Context, model.Caller,
) ([]model.TripView, error)

func driverTrips(
	trips *tripsuc.UseCase, ctx context.Context, caller model.Caller,
) ([]model.TripView, error) {
	return trips.DriverTrips(ctx, caller)
}

func availableTrips(
	trips *tripsuc.UseCase, ctx context.Context, _ model.Caller,
) ([]model.TripView, error) {
	return trips.AvailableTrips(ctx)
}

func upcomingTrips(
	trips *tripsuc.UseCase, ctx context.Context, caller model.Caller,
) ([]model.TripView, error) {
	return trips.UpcomingTrips(ctx, caller)
}

func completedTrips(
	trips *tripsuc.UseCase, ctx context.Context, caller model.Caller,
) ([]model.TripView, error) {
	return trips.CompletedTrips(ctx, caller)
}

func (rs *resource) list(f listing) gin.HandlerFunc {
	return func(c *gin.Context) {
		tvs, err := f(rs.app.TripsUseCase(), c, bearer.Caller(c))
		if err != nil {
			serdser.SerErr(c, err)
			return
		}
		c.JSON(http.StatusOK, tvs)
	}
}

func (rs *resource) SearchTrips(c *gin.Context) {
	sc, ok := rs.DserSearchReq(c)
	if !ok {
		return
	}
	tvs, err := rs.app.TripsUseCase().SearchTrips(c, *sc)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, tvs)
}
