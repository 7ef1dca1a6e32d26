package memrepo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// Reservations is the in-memory reservations repository.
type Reservations struct{}

func (Reservations) Conn(c repo.Conn) repo.ReservationsConnQueryer {
	return reservationsQueryer{connAccess(c)}
}

func (Reservations) Tx(tx repo.Tx) repo.ReservationsTxQueryer {
	return reservationsQueryer{txAccess(tx)}
}

type reservationsQueryer struct {
	access
}

func (q reservationsQueryer) Get(
	_ context.Context, id uuid.UUID,
) (r *model.Reservation, err error) {
	err = q.run(func(st *state) error {
		x, ok := st.reservations[id]
		if !ok {
			return cerr.NotFound(fmt.Errorf("booking %s not found", id))
		}
		r = &x
		return nil
	})
	return
}

func (q reservationsQueryer) Lock(
	ctx context.Context, id uuid.UUID,
) (*model.Reservation, error) {
	return q.Get(ctx, id)
}

func (q reservationsQueryer) filter(
	keep func(r model.Reservation) bool,
) (rs []model.Reservation, err error) {
	err = q.run(func(st *state) error {
		rs = []model.Reservation{}
		for _, r := range st.reservations {
			if keep(r) {
				rs = append(rs, r)
			}
		}
		return nil
	})
	sort.Slice(rs, func(i, j int) bool {
		return rs[i].ReservedAt.After(rs[j].ReservedAt)
	})
	return
}

func (q reservationsQueryer) ByPassenger(
	_ context.Context, passengerID uuid.UUID,
) ([]model.Reservation, error) {
	return q.filter(func(r model.Reservation) bool {
		return r.PassengerID == passengerID
	})
}

func (q reservationsQueryer) ByTrip(
	_ context.Context, tripID uuid.UUID,
) ([]model.Reservation, error) {
	return q.filter(func(r model.Reservation) bool {
		return r.TripID == tripID
	})
}

func (q reservationsQueryer) CountByTrip(
	_ context.Context,
	tripID uuid.UUID,
	statuses ...model.ReservationStatus,
) (int, error) {
	rs, err := q.filter(func(r model.Reservation) bool {
		return r.TripID == tripID &&
			(len(statuses) == 0 || slices.Contains(statuses, r.Status))
	})
	return len(rs), err
}

func (q reservationsQueryer) Detail(
	_ context.Context, rs []model.Reservation,
) (rvs []model.ReservationView, err error) {
	err = q.run(func(st *state) error {
		rvs = make([]model.ReservationView, 0, len(rs))
		for _, r := range rs {
			rv := model.ReservationView{Reservation: r}
			if t, ok := st.trips[r.TripID]; ok {
				var driver *model.User
				if u, ok := st.users[t.DriverID]; ok {
					driver = &u
				}
				rv.Trip = model.NewTripSummary(&t, driver)
			}
			if u, ok := st.users[r.PassengerID]; ok {
				rv.Passenger = model.NewPassengerSummary(&u)
			}
			rvs = append(rvs, rv)
		}
		return nil
	})
	return
}

func (q reservationsQueryer) Create(
	_ context.Context, r *model.Reservation,
) error {
	return q.run(func(st *state) error {
		if _, ok := st.reservations[r.ID]; ok {
			return cerr.Conflict(errors.New("duplicate booking id"))
		}
		if _, ok := st.trips[r.TripID]; !ok {
			return tripNotFound(r.TripID)
		}
		st.reservations[r.ID] = *r
		return nil
	})
}

func (q reservationsQueryer) SetStatus(
	_ context.Context, id uuid.UUID, s model.ReservationStatus,
) (r *model.Reservation, err error) {
	err = q.run(func(st *state) error {
		x, ok := st.reservations[id]
		if !ok {
			return cerr.NotFound(fmt.Errorf("booking %s not found", id))
		}
		x.Status = s
		st.reservations[id] = x
		r = &x
		return nil
	})
	return
}

func (q reservationsQueryer) CancelPendingByTrip(
	_ context.Context, tripID uuid.UUID,
) (rs []model.Reservation, err error) {
	err = q.run(func(st *state) error {
		rs = []model.Reservation{}
		for id, r := range st.reservations {
			if r.TripID != tripID ||
				r.Status != model.ReservationStatusPending {
				continue
			}
			r.Status = model.ReservationStatusCancelled
			st.reservations[id] = r
			rs = append(rs, r)
		}
		return nil
	})
	return
}
