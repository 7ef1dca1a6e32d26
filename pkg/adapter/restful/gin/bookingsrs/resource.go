// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bookingsrs realizes the bookings resource, allowing the
// passengers to reserve seats and the drivers to confirm them.
package bookingsrs

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/bearer"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/usecase/appuc"
	"github.com/momeni/carpool/pkg/core/usecase/bookingsuc"
)

type resource struct {
	app *appuc.UseCase
}

// Register instantiates a resource adapting the bookings use case with
// the relevant REST APIs including:
//  1. POST request to /api/carpool/v1/bookings
//     in order to book seats of a trip by the caller passenger,
//  2. GET request to /api/carpool/v1/bookings/my-bookings
//     in order to list the caller bookings,
//  3. GET request to /api/carpool/v1/bookings/:id
//     in order to fetch one booking,
//  4. GET request to /api/carpool/v1/bookings/trip/:tripId
//     in order to list the bookings of a trip (for its driver),
//  5. POST requests to /api/carpool/v1/bookings/:id/confirm (or cancel)
//     in order to move a booking in its lifecycle.
//
// The r router group must authenticate its callers.
func Register(r *gin.RouterGroup, app *appuc.UseCase) {
	rs := &resource{app: app}
	r.POST("bookings", rs.CreateBooking)
	r.GET("bookings/my-bookings", rs.PassengerBookings)
	r.GET("bookings/trip/:tripId", rs.TripBookings)
	r.GET("bookings/:id", rs.byID((*bookingsuc.UseCase).GetBooking))
	r.POST(
		"bookings/:id/confirm",
		rs.byID((*bookingsuc.UseCase).ConfirmBooking),
	)
	r.POST(
		"bookings/:id/cancel",
		rs.byID((*bookingsuc.UseCase).CancelBooking),
	)
}

type bookingReq struct {
	TripID uuid.UUID `json:"trip_id" binding:"required"`
	Seats  int       `json:"number_of_seats" binding:"required,min=1,max=8"`
	Notes  string    `json:"notes" binding:"max=500"`
}

func (rs *resource) CreateBooking(c *gin.Context) {
	req := &bookingReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	rv, err := rs.app.BookingsUseCase().CreateBooking(
		c, bearer.Caller(c), model.BookingRequest{
			TripID: req.TripID,
			Seats:  req.Seats,
			Notes:  req.Notes,
		},
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

func (rs *resource) PassengerBookings(c *gin.Context) {
	bookings := rs.app.BookingsUseCase()
	rvs, err := bookings.PassengerBookings(c, bearer.Caller(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rvs)
}

func (rs *resource) TripBookings(c *gin.Context) {
	tripID, ok := serdser.BindUUID(c, "tripId")
	if !ok {
		return
	}
	bookings := rs.app.BookingsUseCase()
	rvs, err := bookings.TripBookings(c, bearer.Caller(c), tripID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rvs)
}

type byIDFunc func(
	*bookingsuc.UseCase, context.Context, model.Caller, uuid.UUID,
) (*model.ReservationView, error)

func (rs *resource) byID(f byIDFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := serdser.BindUUID(c, "id")
		if !ok {
			return
		}
		rv, err := f(rs.app.BookingsUseCase(), c, bearer.Caller(c), id)
		if err != nil {
			serdser.SerErr(c, err)
			return
		}
		c.JSON(http.StatusOK, rv)
	}
}
