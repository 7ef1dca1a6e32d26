package bookingsuc_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carpool/internal/test/memrepo"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/usecase/bookingsuc"
	"github.com/stretchr/testify/suite"
)

type BookingsUseCaseTestSuite struct {
	suite.Suite

	Ctx      context.Context
	Store    *memrepo.Store
	Notifier *memrepo.Notifier
	Bookings *bookingsuc.UseCase

	Driver, Passenger, Stranger model.Caller
}

func TestBookingsUseCaseTestSuite(t *testing.T) {
	suite.Run(t, &BookingsUseCaseTestSuite{Ctx: context.Background()})
}

func (bts *BookingsUseCaseTestSuite) SetupTest() {
	bts.Store = memrepo.New()
	bts.Notifier = &memrepo.Notifier{}
	var err error
	bts.Bookings, err = bookingsuc.New(
		bts.Store,
		memrepo.Reservations{}, memrepo.Trips{}, memrepo.Users{},
		bookingsuc.WithNotifier(bts.Notifier),
	)
	bts.Require().NoError(err, "creating bookings use case")

	bts.Driver = bts.addUser("driver", &model.DriverProfile{
		VehicleModel: "Peugeot 208",
		VehicleColor: "white",
		VehiclePlate: "123 TU 4567",
	})
	bts.Passenger = bts.addUser("rider", &model.PassengerProfile{})
	bts.Stranger = bts.addUser("stranger", &model.PassengerProfile{})
}

func (bts *BookingsUseCaseTestSuite) addUser(
	name string, p model.Profile,
) model.Caller {
	u := model.User{
		ID:        uuid.New(),
		Username:  name,
		Email:     name + "@example.com",
		FirstName: name,
		LastName:  "Test",
		Profile:   p,
	}
	bts.Store.AddUser(u)
	return model.Caller{UserID: u.ID, Role: u.Role()}
}

func (bts *BookingsUseCaseTestSuite) addTrip(
	seats int, s model.TripStatus,
) model.Trip {
	t := model.Trip{
		ID:             uuid.New(),
		DriverID:       bts.Driver.UserID,
		DepartureTime:  time.Now().Add(48 * time.Hour),
		PricePerSeat:   12.5,
		MaxSeats:       seats,
		AvailableSeats: seats,
		Status:         s,
	}
	bts.Store.AddTrip(t)
	return t
}

func (bts *BookingsUseCaseTestSuite) book(
	tripID uuid.UUID, seats int,
) (*model.ReservationView, error) {
	return bts.Bookings.CreateBooking(
		bts.Ctx, bts.Passenger, model.BookingRequest{
			TripID: tripID,
			Seats:  seats,
			Notes:  "one small bag",
		},
	)
}

func (bts *BookingsUseCaseTestSuite) available(id uuid.UUID) int {
	t, ok := bts.Store.Trip(id)
	bts.Require().True(ok, "trip %s must exist", id)
	return t.AvailableSeats
}

func (bts *BookingsUseCaseTestSuite) requireStatus(err error, code int) {
	bts.T().Helper()
	var ce *cerr.Error
	bts.Require().True(errors.As(err, &ce), "expected cerr, got %v", err)
	bts.Require().Equal(code, ce.HTTPStatusCode, "err: %v", err)
}

func (bts *BookingsUseCaseTestSuite) TestBookAndCancel() {
	t := bts.addTrip(4, model.TripStatusPlanned)
	rv, err := bts.book(t.ID, 3)
	bts.Require().NoError(err)
	bts.Equal(model.ReservationStatusPending, rv.Status)
	bts.Equal(37.5, rv.TotalPrice)
	bts.Equal(1, bts.available(t.ID))
	bts.Require().NotNil(rv.Trip)
	bts.Equal("driver Test", rv.Trip.DriverName)
	bts.Equal("Peugeot 208", rv.Trip.VehicleModel)
	bts.Require().NotNil(rv.Passenger)
	bts.Equal("rider", rv.Passenger.Username)

	rv, err = bts.Bookings.CancelBooking(bts.Ctx, bts.Passenger, rv.ID)
	bts.Require().NoError(err)
	bts.Equal(model.ReservationStatusCancelled, rv.Status)
	bts.Equal(4, bts.available(t.ID))

	_, err = bts.Bookings.CancelBooking(bts.Ctx, bts.Passenger, rv.ID)
	bts.requireStatus(err, http.StatusConflict)
	bts.Equal(4, bts.available(t.ID))

	ns := bts.Notifier.Notifications()
	bts.Require().Len(ns, 2)
	bts.Equal(model.NotifyBookingCreated, ns[0].Kind)
	bts.Equal(bts.Driver.UserID, ns[0].UserID)
	bts.Equal(model.NotifyBookingCancelled, ns[1].Kind)
	bts.Equal(bts.Driver.UserID, ns[1].UserID)
}

func (bts *BookingsUseCaseTestSuite) TestOverbooking() {
	t := bts.addTrip(2, model.TripStatusPlanned)
	_, err := bts.book(t.ID, 3)
	bts.requireStatus(err, http.StatusConflict)
	bts.Equal(2, bts.available(t.ID))

	_, err = bts.book(t.ID, 0)
	bts.requireStatus(err, http.StatusBadRequest)
}

func (bts *BookingsUseCaseTestSuite) TestConcurrentBookings() {
	t := bts.addTrip(3, model.TripStatusPlanned)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := bts.book(t.ID, 1); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	bts.Equal(3, accepted)
	bts.Equal(0, bts.available(t.ID))
}

func (bts *BookingsUseCaseTestSuite) TestBookUnplannedTrip() {
	for _, s := range []model.TripStatus{
		model.TripStatusActive,
		model.TripStatusCompleted,
		model.TripStatusCancelled,
	} {
		t := bts.addTrip(4, s)
		_, err := bts.book(t.ID, 1)
		bts.requireStatus(err, http.StatusConflict)
	}
	_, err := bts.book(uuid.New(), 1)
	bts.requireStatus(err, http.StatusNotFound)
}

func (bts *BookingsUseCaseTestSuite) TestBookByDriver() {
	t := bts.addTrip(4, model.TripStatusPlanned)
	_, err := bts.Bookings.CreateBooking(
		bts.Ctx, bts.Driver, model.BookingRequest{TripID: t.ID, Seats: 1},
	)
	bts.requireStatus(err, http.StatusForbidden)
	bts.Equal(4, bts.available(t.ID))
}

func (bts *BookingsUseCaseTestSuite) TestConfirm() {
	t := bts.addTrip(4, model.TripStatusPlanned)
	rv, err := bts.book(t.ID, 1)
	bts.Require().NoError(err)

	_, err = bts.Bookings.ConfirmBooking(bts.Ctx, bts.Passenger, rv.ID)
	bts.requireStatus(err, http.StatusForbidden)

	rv, err = bts.Bookings.ConfirmBooking(bts.Ctx, bts.Driver, rv.ID)
	bts.Require().NoError(err)
	bts.Equal(model.ReservationStatusConfirmed, rv.Status)

	_, err = bts.Bookings.ConfirmBooking(bts.Ctx, bts.Driver, rv.ID)
	bts.requireStatus(err, http.StatusConflict)

	rv, err = bts.Bookings.CancelBooking(bts.Ctx, bts.Driver, rv.ID)
	bts.Require().NoError(err)
	bts.Equal(4, bts.available(t.ID))

	ns := bts.Notifier.Notifications()
	bts.Require().Len(ns, 3)
	bts.Equal(model.NotifyBookingConfirmed, ns[1].Kind)
	bts.Equal(bts.Passenger.UserID, ns[1].UserID)
	bts.Equal(model.NotifyBookingCancelled, ns[2].Kind)
	bts.Equal(bts.Passenger.UserID, ns[2].UserID)
}

func (bts *BookingsUseCaseTestSuite) TestReleaseIsBoundedByMaxSeats() {
	t := bts.addTrip(2, model.TripStatusPlanned)
	r := model.Reservation{
		ID:          uuid.New(),
		TripID:      t.ID,
		PassengerID: bts.Passenger.UserID,
		Seats:       2,
		Status:      model.ReservationStatusConfirmed,
	}
	bts.Store.AddReservation(r)
	_, err := bts.Bookings.CancelBooking(bts.Ctx, bts.Passenger, r.ID)
	bts.Require().NoError(err)
	bts.Equal(2, bts.available(t.ID))
}

func (bts *BookingsUseCaseTestSuite) TestVisibility() {
	t := bts.addTrip(4, model.TripStatusPlanned)
	rv, err := bts.book(t.ID, 2)
	bts.Require().NoError(err)

	_, err = bts.Bookings.GetBooking(bts.Ctx, bts.Passenger, rv.ID)
	bts.NoError(err)
	_, err = bts.Bookings.GetBooking(bts.Ctx, bts.Driver, rv.ID)
	bts.NoError(err)
	_, err = bts.Bookings.GetBooking(bts.Ctx, bts.Stranger, rv.ID)
	bts.requireStatus(err, http.StatusForbidden)
	_, err = bts.Bookings.CancelBooking(bts.Ctx, bts.Stranger, rv.ID)
	bts.requireStatus(err, http.StatusForbidden)

	rvs, err := bts.Bookings.PassengerBookings(bts.Ctx, bts.Passenger)
	bts.Require().NoError(err)
	bts.Len(rvs, 1)
	rvs, err = bts.Bookings.PassengerBookings(bts.Ctx, bts.Stranger)
	bts.Require().NoError(err)
	bts.Empty(rvs)

	rvs, err = bts.Bookings.TripBookings(bts.Ctx, bts.Driver, t.ID)
	bts.Require().NoError(err)
	bts.Require().Len(rvs, 1)
	bts.Equal(rv.ID, rvs[0].ID)
	_, err = bts.Bookings.TripBookings(bts.Ctx, bts.Passenger, t.ID)
	bts.requireStatus(err, http.StatusForbidden)
}
