package memrepo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// Trips is the in-memory trips repository.
type Trips struct{}

func (Trips) Conn(c repo.Conn) repo.TripsConnQueryer {
	return tripsQueryer{connAccess(c)}
}

func (Trips) Tx(tx repo.Tx) repo.TripsTxQueryer {
	return tripsQueryer{txAccess(tx)}
}

type tripsQueryer struct {
	access
}

func tripNotFound(id uuid.UUID) error {
	return cerr.NotFound(fmt.Errorf("trip %s not found", id))
}

func (q tripsQueryer) Get(
	_ context.Context, id uuid.UUID,
) (t *model.Trip, err error) {
	err = q.run(func(st *state) error {
		x, ok := st.trips[id]
		if !ok {
			return tripNotFound(id)
		}
		t = &x
		return nil
	})
	return
}

func (q tripsQueryer) Lock(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	return q.Get(ctx, id)
}

func (q tripsQueryer) Detail(
	_ context.Context, ts []model.Trip,
) (tvs []model.TripView, err error) {
	err = q.run(func(st *state) error {
		tvs = make([]model.TripView, 0, len(ts))
		for _, t := range ts {
			tv := model.TripView{
				Trip:    t,
				Points:  slices.Clone(st.points[t.ID]),
				Options: []model.Option{},
				Cities:  []model.City{},
			}
			if tv.Points == nil {
				tv.Points = []model.GeoPoint{}
			}
			if u, ok := st.users[t.DriverID]; ok {
				tv.Driver = model.NewDriverSummary(&u)
			}
			for _, o := range st.options {
				if slices.Contains(st.tripOptions[t.ID], o.ID) {
					tv.Options = append(tv.Options, o)
				}
			}
			for _, c := range st.cities {
				if slices.Contains(st.tripCities[t.ID], c.ID) {
					tv.Cities = append(tv.Cities, c)
				}
			}
			tvs = append(tvs, tv)
		}
		return nil
	})
	return
}

func (q tripsQueryer) filter(keep func(st *state, t model.Trip) bool) (
	ts []model.Trip, err error,
) {
	err = q.run(func(st *state) error {
		ts = []model.Trip{}
		for _, t := range st.trips {
			if keep(st, t) {
				ts = append(ts, t)
			}
		}
		return nil
	})
	sort.Slice(ts, func(i, j int) bool {
		return ts[i].DepartureTime.Before(ts[j].DepartureTime)
	})
	return
}

func (q tripsQueryer) ByDriver(
	_ context.Context, driverID uuid.UUID, statuses ...model.TripStatus,
) ([]model.Trip, error) {
	ts, err := q.filter(func(_ *state, t model.Trip) bool {
		return t.DriverID == driverID &&
			(len(statuses) == 0 || slices.Contains(statuses, t.Status))
	})
	slices.Reverse(ts)
	return ts, err
}

func (q tripsQueryer) ByPassenger(
	_ context.Context,
	passengerID uuid.UUID,
	rs model.ReservationStatus,
	statuses ...model.TripStatus,
) ([]model.Trip, error) {
	return q.filter(func(st *state, t model.Trip) bool {
		if !slices.Contains(statuses, t.Status) {
			return false
		}
		for _, r := range st.reservations {
			if r.TripID == t.ID && r.PassengerID == passengerID &&
				r.Status == rs {
				return true
			}
		}
		return false
	})
}

func (q tripsQueryer) Available(
	_ context.Context, after time.Time,
) ([]model.Trip, error) {
	return q.filter(func(_ *state, t model.Trip) bool {
		return t.Status == model.TripStatusPlanned &&
			t.AvailableSeats > 0 && t.DepartureTime.After(after)
	})
}

func (q tripsQueryer) Search(
	_ context.Context, sc *model.SearchCriteria,
) ([]model.Trip, error) {
	return q.filter(func(_ *state, t model.Trip) bool {
		switch {
		case t.Status != model.TripStatusPlanned:
		case t.AvailableSeats < sc.Seats:
		case !t.DepartureTime.After(sc.MinDeparture):
		case sc.MaxDeparture != nil && !t.DepartureTime.Before(*sc.MaxDeparture):
		case sc.MinPrice != nil && t.PricePerSeat < *sc.MinPrice:
		case sc.MaxPrice != nil && t.PricePerSeat > *sc.MaxPrice:
		default:
			return true
		}
		return false
	})
}

func (q tripsQueryer) Create(_ context.Context, t *model.Trip) error {
	return q.run(func(st *state) error {
		if _, ok := st.trips[t.ID]; ok {
			return cerr.Conflict(errors.New("duplicate trip id"))
		}
		st.trips[t.ID] = *t
		return nil
	})
}

func (q tripsQueryer) Update(_ context.Context, t *model.Trip) error {
	return q.run(func(st *state) error {
		if _, ok := st.trips[t.ID]; !ok {
			return tripNotFound(t.ID)
		}
		t.UpdatedAt = time.Now()
		st.trips[t.ID] = *t
		return nil
	})
}

// mutate applies f on the id trip and returns its updated value.
func (q tripsQueryer) mutate(
	id uuid.UUID, f func(t *model.Trip) error,
) (t *model.Trip, err error) {
	err = q.run(func(st *state) error {
		x, ok := st.trips[id]
		if !ok {
			return tripNotFound(id)
		}
		if err := f(&x); err != nil {
			return err
		}
		x.UpdatedAt = time.Now()
		st.trips[id] = x
		t = &x
		return nil
	})
	return
}

func (q tripsQueryer) SetStatus(
	_ context.Context, id uuid.UUID, s model.TripStatus,
) (*model.Trip, error) {
	return q.mutate(id, func(t *model.Trip) error {
		t.Status = s
		return nil
	})
}

func (q tripsQueryer) ReserveSeats(
	_ context.Context, id uuid.UUID, n int,
) (*model.Trip, error) {
	return q.mutate(id, func(t *model.Trip) error {
		if t.Status != model.TripStatusPlanned || t.AvailableSeats < n {
			return cerr.Conflict(errors.New("not enough available seats"))
		}
		t.AvailableSeats -= n
		return nil
	})
}

func (q tripsQueryer) ReleaseSeats(
	_ context.Context, id uuid.UUID, n int,
) (*model.Trip, error) {
	return q.mutate(id, func(t *model.Trip) error {
		t.AvailableSeats = min(t.MaxSeats, t.AvailableSeats+n)
		return nil
	})
}

func (q tripsQueryer) ReplacePoints(
	_ context.Context, id uuid.UUID, pts []model.GeoPoint,
) error {
	return q.run(func(st *state) error {
		cp := slices.Clone(pts)
		for i := range cp {
			cp[i].ID = uuid.New()
		}
		st.points[id] = cp
		return nil
	})
}

func (q tripsQueryer) ReplaceOptions(
	_ context.Context, id uuid.UUID, optionIDs []uuid.UUID,
) error {
	return q.run(func(st *state) error {
		for _, oid := range optionIDs {
			if !slices.ContainsFunc(st.options, func(o model.Option) bool {
				return o.ID == oid
			}) {
				return cerr.NotFound(fmt.Errorf("option %s not found", oid))
			}
		}
		st.tripOptions[id] = slices.Clone(optionIDs)
		return nil
	})
}

func (q tripsQueryer) ReplaceCities(
	_ context.Context, id uuid.UUID, cityIDs []uuid.UUID,
) error {
	return q.run(func(st *state) error {
		for _, cid := range cityIDs {
			if !slices.ContainsFunc(st.cities, func(c model.City) bool {
				return c.ID == cid
			}) {
				return cerr.NotFound(fmt.Errorf("city %s not found", cid))
			}
		}
		st.tripCities[id] = slices.Clone(cityIDs)
		return nil
	})
}

func (q tripsQueryer) Delete(_ context.Context, id uuid.UUID) error {
	return q.run(func(st *state) error {
		if _, ok := st.trips[id]; !ok {
			return tripNotFound(id)
		}
		delete(st.trips, id)
		delete(st.points, id)
		delete(st.tripOptions, id)
		delete(st.tripCities, id)
		return nil
	})
}
