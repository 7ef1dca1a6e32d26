// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tripsuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carpool/internal/test/memrepo"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/usecase/tripsuc"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type TripsUseCaseTestSuite struct {
	suite.Suite

	Ctx      context.Context
	Store    *memrepo.Store
	Notifier *memrepo.Notifier
	Trips    *tripsuc.UseCase

	Driver, Passenger model.Caller
	Tunis, Sousse     model.City
	AC                model.Option
}

func TestTripsUseCaseTestSuite(t *testing.T) {
	suite.Run(t, &TripsUseCaseTestSuite{Ctx: context.Background()})
}

func (ts *TripsUseCaseTestSuite) SetupTest() {
	ts.Store = memrepo.New()
	ts.Notifier = &memrepo.Notifier{}
	var err error
	ts.Trips, err = tripsuc.New(
		ts.Store,
		memrepo.Trips{}, memrepo.Reservations{}, memrepo.Users{},
		tripsuc.WithNotifier(ts.Notifier),
		tripsuc.WithClock(func() time.Time { return now }),
	)
	ts.Require().NoError(err, "creating trips use case")

	ts.Driver = model.Caller{UserID: uuid.New(), Role: model.RoleDriver}
	ts.Store.AddUser(model.User{
		ID:        ts.Driver.UserID,
		Username:  "driver",
		Email:     "driver@example.com",
		FirstName: "Sami",
		LastName:  "Ben Ali",
		Profile: &model.DriverProfile{
			LicenseNumber: "TN-1234",
			VehicleModel:  "Clio",
			MaxPassengers: model.DefaultMaxPassengers,
			Available:     true,
		},
	})
	ts.Passenger = model.Caller{UserID: uuid.New(), Role: model.RolePassenger}
	ts.Store.AddUser(model.User{
		ID:       ts.Passenger.UserID,
		Username: "rider",
		Email:    "rider@example.com",
		Profile:  &model.PassengerProfile{},
	})
	lat, lon := 36.8065, 10.1815
	ts.Tunis = model.City{ID: uuid.New(), Name: "Tunis", Lat: &lat, Lon: &lon}
	ts.Sousse = model.City{ID: uuid.New(), Name: "Sousse"}
	ts.AC = model.Option{ID: uuid.New(), Name: "Air conditioning", Active: true}
	ts.Store.SetReferenceData(
		[]model.City{ts.Tunis, ts.Sousse}, []model.Option{ts.AC},
	)
}

func (ts *TripsUseCaseTestSuite) request(seats int) *model.TripRequest {
	return &model.TripRequest{
		DepartureTime: now.Add(24 * time.Hour),
		PricePerSeat:  12.5,
		MaxSeats:      seats,
		Description:   "Tunis to Sousse by the highway",
		StartPoint: &model.Waypoint{
			Coordinate: model.Coordinate{Lat: 36.8065, Lon: 10.1815},
			Address:    "Tunis",
		},
		EndPoint: &model.Waypoint{
			Coordinate: model.Coordinate{Lat: 35.8245, Lon: 10.6346},
			Address:    "Sousse",
		},
		IntermediatePoints: []model.Waypoint{{
			Coordinate: model.Coordinate{Lat: 36.4, Lon: 10.6},
			Address:    "Hammamet",
		}},
		OptionIDs: []uuid.UUID{ts.AC.ID},
		CityIDs:   []uuid.UUID{ts.Tunis.ID, ts.Sousse.ID},
	}
}

func (ts *TripsUseCaseTestSuite) create(seats int) *model.TripView {
	tv, err := ts.Trips.CreateTrip(ts.Ctx, ts.Driver, ts.request(seats))
	ts.Require().NoError(err, "creating trip")
	return tv
}

func (ts *TripsUseCaseTestSuite) requireStatus(err error, code int) {
	ts.T().Helper()
	var ce *cerr.Error
	ts.Require().True(errors.As(err, &ce), "expected cerr, got %v", err)
	ts.Require().Equal(code, ce.HTTPStatusCode, "err: %v", err)
}

func (ts *TripsUseCaseTestSuite) book(
	tripID uuid.UUID, seats int, s model.ReservationStatus,
) model.Reservation {
	r := model.Reservation{
		ID:          uuid.New(),
		TripID:      tripID,
		PassengerID: ts.Passenger.UserID,
		Seats:       seats,
		Status:      s,
		ReservedAt:  now,
	}
	ts.Store.AddReservation(r)
	return r
}

func (ts *TripsUseCaseTestSuite) TestCreateTrip() {
	tv := ts.create(4)
	ts.Equal(model.TripStatusPlanned, tv.Status)
	ts.Equal(4, tv.AvailableSeats)
	ts.Equal(ts.Driver.UserID, tv.DriverID)
	ts.Require().NotNil(tv.Driver)
	ts.Equal("Clio", tv.Driver.VehicleModel)
	ts.Require().Len(tv.Points, 3)
	ts.Equal(model.PointRoleStart, tv.Points[0].Role)
	ts.Equal(model.PointRoleIntermediate, tv.Points[1].Role)
	ts.Equal(model.PointRoleEnd, tv.Points[2].Role)
	ts.Len(tv.Options, 1)
	ts.Len(tv.Cities, 2)

	ns := ts.Notifier.Notifications()
	ts.Require().Len(ns, 1)
	ts.Equal(model.NotifyTripCreated, ns[0].Kind)
	ts.Equal(tv.ID, ns[0].TripID)
}

func (ts *TripsUseCaseTestSuite) TestCreateTripByPassenger() {
	_, err := ts.Trips.CreateTrip(ts.Ctx, ts.Passenger, ts.request(4))
	ts.requireStatus(err, http.StatusForbidden)
	ts.Empty(ts.Notifier.Notifications())
}

func (ts *TripsUseCaseTestSuite) TestCreateTripUnknownOption() {
	req := ts.request(4)
	req.OptionIDs = append(req.OptionIDs, uuid.New())
	_, err := ts.Trips.CreateTrip(ts.Ctx, ts.Driver, req)
	ts.requireStatus(err, http.StatusNotFound)
	tvs, err := ts.Trips.DriverTrips(ts.Ctx, ts.Driver)
	ts.Require().NoError(err)
	ts.Empty(tvs, "failed creation must be rolled back")
}

func (ts *TripsUseCaseTestSuite) TestCreateTripInvalid() {
	req := ts.request(9)
	req.EndPoint = nil
	_, err := ts.Trips.CreateTrip(ts.Ctx, ts.Driver, req)
	ts.requireStatus(err, http.StatusBadRequest)
	ts.ErrorContains(err, "Maximum seats must be between 1 and 8")
	ts.ErrorContains(err, "Arrival point is required")
}

func (ts *TripsUseCaseTestSuite) TestNotifierFailureIsIgnored() {
	ts.Notifier.Err = errors.New("broker is down")
	tv, err := ts.Trips.CreateTrip(ts.Ctx, ts.Driver, ts.request(2))
	ts.Require().NoError(err)
	ts.NotNil(tv)
}

func (ts *TripsUseCaseTestSuite) TestLifecycle() {
	tv := ts.create(4)

	_, err := ts.Trips.CompleteTrip(ts.Ctx, ts.Driver, tv.ID)
	ts.requireStatus(err, http.StatusConflict)

	tv, err = ts.Trips.StartTrip(ts.Ctx, ts.Driver, tv.ID)
	ts.Require().NoError(err)
	ts.Equal(model.TripStatusActive, tv.Status)

	_, err = ts.Trips.StartTrip(ts.Ctx, ts.Driver, tv.ID)
	ts.requireStatus(err, http.StatusConflict)

	tv, err = ts.Trips.CompleteTrip(ts.Ctx, ts.Driver, tv.ID)
	ts.Require().NoError(err)
	ts.Equal(model.TripStatusCompleted, tv.Status)

	_, err = ts.Trips.StartTrip(ts.Ctx, ts.Driver, tv.ID)
	ts.requireStatus(err, http.StatusConflict)
	_, err = ts.Trips.CancelTrip(ts.Ctx, ts.Driver, tv.ID)
	ts.requireStatus(err, http.StatusConflict)
}

func (ts *TripsUseCaseTestSuite) TestStartCancelledTrip() {
	tv := ts.create(4)
	_, err := ts.Trips.CancelTrip(ts.Ctx, ts.Driver, tv.ID)
	ts.Require().NoError(err)
	_, err = ts.Trips.StartTrip(ts.Ctx, ts.Driver, tv.ID)
	ts.requireStatus(err, http.StatusConflict)
}

func (ts *TripsUseCaseTestSuite) TestTransitionsByOthers() {
	tv := ts.create(4)
	_, err := ts.Trips.StartTrip(ts.Ctx, ts.Passenger, tv.ID)
	ts.requireStatus(err, http.StatusForbidden)
	_, err = ts.Trips.CancelTrip(ts.Ctx, ts.Passenger, tv.ID)
	ts.requireStatus(err, http.StatusForbidden)
	err = ts.Trips.DeleteTrip(ts.Ctx, ts.Passenger, tv.ID)
	ts.requireStatus(err, http.StatusForbidden)
	_, err = ts.Trips.UpdateTrip(ts.Ctx, ts.Passenger, tv.ID, ts.request(4))
	ts.requireStatus(err, http.StatusForbidden)
	_, err = ts.Trips.StartTrip(ts.Ctx, ts.Driver, uuid.New())
	ts.requireStatus(err, http.StatusNotFound)
}

func (ts *TripsUseCaseTestSuite) TestCancelTripCancelsPendingBookings() {
	tv := ts.create(4)
	pending := ts.book(tv.ID, 1, model.ReservationStatusPending)
	confirmed := ts.book(tv.ID, 2, model.ReservationStatusConfirmed)

	tv, err := ts.Trips.CancelTrip(ts.Ctx, ts.Driver, tv.ID)
	ts.Require().NoError(err)
	ts.Equal(model.TripStatusCancelled, tv.Status)

	r, _ := ts.Store.Reservation(pending.ID)
	ts.Equal(model.ReservationStatusCancelled, r.Status)
	r, _ = ts.Store.Reservation(confirmed.ID)
	ts.Equal(model.ReservationStatusConfirmed, r.Status)

	ns := ts.Notifier.Notifications()
	ts.Require().Len(ns, 2)
	ts.Equal(model.NotifyTripCancelled, ns[1].Kind)
	ts.Equal(ts.Passenger.UserID, ns[1].UserID)
	ts.Equal(pending.ID, ns[1].BookingID)
}

func (ts *TripsUseCaseTestSuite) TestUpdateTrip() {
	tv := ts.create(4)
	ts.book(tv.ID, 1, model.ReservationStatusConfirmed)
	ts.book(tv.ID, 1, model.ReservationStatusConfirmed)

	req := ts.request(1)
	_, err := ts.Trips.UpdateTrip(ts.Ctx, ts.Driver, tv.ID, req)
	ts.requireStatus(err, http.StatusConflict)

	req = ts.request(6)
	req.IntermediatePoints = nil
	req.PricePerSeat = 15
	tv, err = ts.Trips.UpdateTrip(ts.Ctx, ts.Driver, tv.ID, req)
	ts.Require().NoError(err)
	ts.Equal(6, tv.MaxSeats)
	ts.Equal(4, tv.AvailableSeats)
	ts.Equal(15.0, tv.PricePerSeat)
	ts.Len(tv.Points, 2)
	ts.Len(ts.Store.Points(tv.ID), 2)
}

func (ts *TripsUseCaseTestSuite) TestUpdateStartedTrip() {
	tv := ts.create(4)
	_, err := ts.Trips.StartTrip(ts.Ctx, ts.Driver, tv.ID)
	ts.Require().NoError(err)
	_, err = ts.Trips.UpdateTrip(ts.Ctx, ts.Driver, tv.ID, ts.request(4))
	ts.requireStatus(err, http.StatusConflict)
}

func (ts *TripsUseCaseTestSuite) TestDeleteTrip() {
	booked := ts.create(4)
	ts.book(booked.ID, 1, model.ReservationStatusCancelled)
	err := ts.Trips.DeleteTrip(ts.Ctx, ts.Driver, booked.ID)
	ts.requireStatus(err, http.StatusConflict)

	free := ts.create(4)
	ts.Require().NotEmpty(ts.Store.Points(free.ID))
	err = ts.Trips.DeleteTrip(ts.Ctx, ts.Driver, free.ID)
	ts.Require().NoError(err)
	_, ok := ts.Store.Trip(free.ID)
	ts.False(ok)
	ts.Empty(ts.Store.Points(free.ID))
	_, err = ts.Trips.GetTrip(ts.Ctx, free.ID)
	ts.requireStatus(err, http.StatusNotFound)
}

func (ts *TripsUseCaseTestSuite) TestSearchTrips() {
	one := ts.create(1)
	two := ts.create(3)

	tvs, err := ts.Trips.SearchTrips(ts.Ctx, model.SearchCriteria{
		MinDeparture: now.Add(time.Hour),
		Seats:        2,
	})
	ts.Require().NoError(err)
	ts.Require().Len(tvs, 1)
	ts.Equal(two.ID, tvs[0].ID)
	ts.NotEqual(one.ID, tvs[0].ID)

	maxPrice := 10.0
	tvs, err = ts.Trips.SearchTrips(ts.Ctx, model.SearchCriteria{
		MinDeparture: now,
		MaxPrice:     &maxPrice,
	})
	ts.Require().NoError(err)
	ts.Empty(tvs)

	tvs, err = ts.Trips.SearchTrips(ts.Ctx, model.SearchCriteria{
		MinDeparture: now,
		RadiusKm:     1,
		Start:        &model.Coordinate{Lat: -80, Lon: 0},
	})
	ts.Require().NoError(err)
	ts.Len(tvs, 2, "radius and coordinates must not filter trips")

	dep := now.Add(24 * time.Hour)
	tvs, err = ts.Trips.SearchTrips(ts.Ctx, model.SearchCriteria{
		MinDeparture: dep,
	})
	ts.Require().NoError(err)
	ts.Empty(tvs, "departure window excludes its lower bound")
	tvs, err = ts.Trips.SearchTrips(ts.Ctx, model.SearchCriteria{
		MinDeparture: now, MaxDeparture: &dep,
	})
	ts.Require().NoError(err)
	ts.Empty(tvs, "departure window excludes its upper bound")
	after := dep.Add(time.Minute)
	tvs, err = ts.Trips.SearchTrips(ts.Ctx, model.SearchCriteria{
		MinDeparture: now, MaxDeparture: &after,
	})
	ts.Require().NoError(err)
	ts.Len(tvs, 2)

	_, err = ts.Trips.SearchTrips(ts.Ctx, model.SearchCriteria{Seats: 1})
	ts.requireStatus(err, http.StatusBadRequest)
	_, err = ts.Trips.SearchTrips(ts.Ctx, model.SearchCriteria{
		MinDeparture: now, RadiusKm: 101,
	})
	ts.requireStatus(err, http.StatusBadRequest)
}

func (ts *TripsUseCaseTestSuite) TestListings() {
	driven := ts.create(4)
	other := model.Trip{
		ID:             uuid.New(),
		DriverID:       uuid.New(),
		DepartureTime:  now.Add(2 * time.Hour),
		PricePerSeat:   5,
		MaxSeats:       3,
		AvailableSeats: 3,
		Status:         model.TripStatusPlanned,
	}
	ts.Store.AddTrip(other)
	ts.book(other.ID, 1, model.ReservationStatusConfirmed)

	tvs, err := ts.Trips.UpcomingTrips(ts.Ctx, ts.Driver)
	ts.Require().NoError(err)
	ts.Require().Len(tvs, 1)
	ts.Equal(driven.ID, tvs[0].ID)

	tvs, err = ts.Trips.UpcomingTrips(ts.Ctx, ts.Passenger)
	ts.Require().NoError(err)
	ts.Require().Len(tvs, 1)
	ts.Equal(other.ID, tvs[0].ID)

	tvs, err = ts.Trips.AvailableTrips(ts.Ctx)
	ts.Require().NoError(err)
	ts.Require().Len(tvs, 2)
	ts.Equal(other.ID, tvs[0].ID, "earliest departure comes first")

	_, err = ts.Trips.StartTrip(ts.Ctx, ts.Driver, driven.ID)
	ts.Require().NoError(err)
	_, err = ts.Trips.CompleteTrip(ts.Ctx, ts.Driver, driven.ID)
	ts.Require().NoError(err)
	tvs, err = ts.Trips.CompletedTrips(ts.Ctx, ts.Driver)
	ts.Require().NoError(err)
	ts.Require().Len(tvs, 1)
	ts.Equal(driven.ID, tvs[0].ID)
	tvs, err = ts.Trips.CompletedTrips(ts.Ctx, ts.Passenger)
	ts.Require().NoError(err)
	ts.Empty(tvs)
}

func (ts *TripsUseCaseTestSuite) TestValidateTrip() {
	req := ts.request(4)
	req.PricePerSeat = 400
	req.EndPoint.Address = " tunis "
	at := req.DepartureTime.Add(-time.Minute)
	req.ArrivalTime = &at
	v := ts.Trips.ValidateTrip(req)
	ts.False(v.Valid)
	ts.Equal([]string{"Arrival time must be after departure time"}, v.Errors)
	ts.Equal([]string{
		"Price per seat is quite high (over 320 TND)",
		"Departure and arrival addresses are the same",
	}, v.Warnings)

	req = ts.request(4)
	req.DepartureTime = now.Add(-time.Hour)
	req.PricePerSeat = 0
	v = ts.Trips.ValidateTrip(req)
	ts.False(v.Valid)
	ts.Equal([]string{
		"Departure time must be in the future",
		"Price per seat must be greater than 0",
	}, v.Errors)
	ts.Empty(v.Warnings)

	v = ts.Trips.ValidateTrip(ts.request(4))
	ts.True(v.Valid)
	ts.Empty(v.Errors)
}

func TestOptions(t *testing.T) {
	s := memrepo.New()
	_, err := tripsuc.New(
		s, memrepo.Trips{}, memrepo.Reservations{}, memrepo.Users{},
		tripsuc.WithHighPriceThreshold(-1),
	)
	if err == nil {
		t.Error("negative price threshold must be rejected")
	}
	_, err = tripsuc.New(
		s, memrepo.Trips{}, memrepo.Reservations{}, memrepo.Users{},
		tripsuc.WithCurrency("EUR"), tripsuc.WithCurrency("TND"),
	)
	if err == nil {
		t.Error("duplicate currency option must be rejected")
	}
}
