package reservationsrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/tripsrp"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gReservation struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	TripID      uuid.UUID `gorm:"type:uuid"`
	PassengerID uuid.UUID `gorm:"type:uuid"`
	Seats       int
	TotalPrice  float64
	Status      string
	Notes       string
	ReservedAt  time.Time
}

func (gr *gReservation) TableName() string {
	return "reservations"
}

func (gr *gReservation) Model() (*model.Reservation, error) {
	s, err := model.ParseReservationStatus(gr.Status)
	if err != nil {
		return nil, fmt.Errorf(
			"reservation %s status %q: %w", gr.ID, gr.Status, err,
		)
	}
	return &model.Reservation{
		ID:          gr.ID,
		TripID:      gr.TripID,
		PassengerID: gr.PassengerID,
		Seats:       gr.Seats,
		TotalPrice:  gr.TotalPrice,
		Status:      s,
		Notes:       gr.Notes,
		ReservedAt:  gr.ReservedAt,
	}, nil
}

func notFound(id uuid.UUID) error {
	return cerr.NotFound(fmt.Errorf("reservation %s not found", id))
}

// Get finds the id reservation.
func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.Reservation, error) {
	return take(q.GORM(ctx), id)
}

// Lock finds the id reservation and locks it FOR UPDATE.
func Lock(ctx context.Context, tx *postgres.Tx, id uuid.UUID) (
	*model.Reservation, error,
) {
	return take(tx.GORM(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func take(gdb *gorm.DB, id uuid.UUID) (*model.Reservation, error) {
	var gr gReservation
	if err := gdb.Where("id = ?", id).Take(&gr).Error; err != nil {
		if postgres.IsNotFound(err) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("finding reservation: %w", err)
	}
	return gr.Model()
}

// Create inserts r.
func Create(ctx context.Context, tx *postgres.Tx, r *model.Reservation) error {
	gr := &gReservation{
		ID:          r.ID,
		TripID:      r.TripID,
		PassengerID: r.PassengerID,
		Seats:       r.Seats,
		TotalPrice:  r.TotalPrice,
		Status:      r.Status.String(),
		Notes:       r.Notes,
		ReservedAt:  r.ReservedAt,
	}
	if err := tx.GORM(ctx).Create(gr).Error; err != nil {
		return postgres.TranslateError(err, "reservation")
	}
	return nil
}

// SetStatus changes the status of the id reservation.
func SetStatus(
	ctx context.Context,
	tx *postgres.Tx,
	id uuid.UUID,
	s model.ReservationStatus,
) (*model.Reservation, error) {
	var grs []gReservation
	err := tx.GORM(ctx).Model(&grs).Clauses(clause.Returning{}).Where(
		"id = ?", id,
	).Update("status", s.String()).Error
	if err != nil {
		return nil, fmt.Errorf("updating reservation: %w", err)
	}
	if n := len(grs); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return grs[0].Model()
}

// CancelPendingByTrip cancels the pending reservations of tripID and
// returns them.
func CancelPendingByTrip(
	ctx context.Context, tx *postgres.Tx, tripID uuid.UUID,
) ([]model.Reservation, error) {
	var grs []gReservation
	err := tx.GORM(ctx).Model(&grs).Clauses(clause.Returning{}).Where(
		"trip_id = ? AND status = ?",
		tripID, model.ReservationStatusPending.String(),
	).Update("status", model.ReservationStatusCancelled.String()).Error
	if err != nil {
		return nil, fmt.Errorf("cancelling reservations: %w", err)
	}
	return models(grs)
}

// ByPassenger lists the reservations of passengerID, newest first.
func ByPassenger[Q postgres.Queryer](
	ctx context.Context, q Q, passengerID uuid.UUID,
) ([]model.Reservation, error) {
	return find(q.GORM(ctx).Where("passenger_id = ?", passengerID))
}

// ByTrip lists the reservations of tripID, newest first.
func ByTrip[Q postgres.Queryer](
	ctx context.Context, q Q, tripID uuid.UUID,
) ([]model.Reservation, error) {
	return find(q.GORM(ctx).Where("trip_id = ?", tripID))
}

func find(gdb *gorm.DB) ([]model.Reservation, error) {
	var grs []gReservation
	if err := gdb.Order("reserved_at DESC").Find(&grs).Error; err != nil {
		return nil, fmt.Errorf("finding reservations: %w", err)
	}
	return models(grs)
}

func models(grs []gReservation) ([]model.Reservation, error) {
	rs := make([]model.Reservation, 0, len(grs))
	for i := range grs {
		r, err := grs[i].Model()
		if err != nil {
			return nil, err
		}
		rs = append(rs, *r)
	}
	return rs, nil
}

// CountByTrip counts reservations of tripID having one of statuses,
// or all of its reservations if no status is given.
func CountByTrip[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	tripID uuid.UUID,
	statuses ...model.ReservationStatus,
) (int, error) {
	gdb := q.GORM(ctx).Model(&gReservation{}).Where("trip_id = ?", tripID)
	if len(statuses) > 0 {
		ss := make([]string, 0, len(statuses))
		for _, s := range statuses {
			ss = append(ss, s.String())
		}
		gdb = gdb.Where("status IN ?", ss)
	}
	var n int64
	if err := gdb.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting reservations: %w", err)
	}
	return int(n), nil
}

// Detail loads the trip and passenger summaries of rs.
func Detail[Q postgres.Queryer](
	ctx context.Context, q Q, rs []model.Reservation,
) ([]model.ReservationView, error) {
	rvs := make([]model.ReservationView, 0, len(rs))
	if len(rs) == 0 {
		return rvs, nil
	}
	tripIDs := make([]uuid.UUID, 0, len(rs))
	userIDs := make([]uuid.UUID, 0, 2*len(rs))
	for _, r := range rs {
		tripIDs = append(tripIDs, r.TripID)
		userIDs = append(userIDs, r.PassengerID)
	}
	trips, err := tripsrp.ByIDs(ctx, q, tripIDs)
	if err != nil {
		return nil, fmt.Errorf("loading trips: %w", err)
	}
	for _, t := range trips {
		userIDs = append(userIDs, t.DriverID)
	}
	users, err := usersrp.ByIDs(ctx, q, userIDs)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	for _, r := range rs {
		rv := model.ReservationView{Reservation: r}
		if t, ok := trips[r.TripID]; ok {
			rv.Trip = model.NewTripSummary(t, users[t.DriverID])
		}
		if p, ok := users[r.PassengerID]; ok {
			rv.Passenger = model.NewPassengerSummary(p)
		}
		rvs = append(rvs, rv)
	}
	return rvs, nil
}
