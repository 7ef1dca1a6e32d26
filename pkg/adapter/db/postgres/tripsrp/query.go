// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tripsrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gTrip struct {
	ID             uuid.UUID `gorm:"primaryKey;type:uuid"`
	DriverID       uuid.UUID `gorm:"type:uuid"`
	DepartureTime  time.Time
	ArrivalTime    *time.Time
	PricePerSeat   float64
	MaxSeats       int
	AvailableSeats int
	Description    string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (gt *gTrip) TableName() string {
	return "trips"
}

func newGTrip(t *model.Trip) *gTrip {
	return &gTrip{
		ID:             t.ID,
		DriverID:       t.DriverID,
		DepartureTime:  t.DepartureTime,
		ArrivalTime:    t.ArrivalTime,
		PricePerSeat:   t.PricePerSeat,
		MaxSeats:       t.MaxSeats,
		AvailableSeats: t.AvailableSeats,
		Description:    t.Description,
		Status:         t.Status.String(),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func (gt *gTrip) Model() (*model.Trip, error) {
	s, err := model.ParseTripStatus(gt.Status)
	if err != nil {
		return nil, fmt.Errorf("trip %s status %q: %w", gt.ID, gt.Status, err)
	}
	return &model.Trip{
		ID:             gt.ID,
		DriverID:       gt.DriverID,
		DepartureTime:  gt.DepartureTime,
		ArrivalTime:    gt.ArrivalTime,
		PricePerSeat:   gt.PricePerSeat,
		MaxSeats:       gt.MaxSeats,
		AvailableSeats: gt.AvailableSeats,
		Description:    gt.Description,
		Status:         s,
		CreatedAt:      gt.CreatedAt,
		UpdatedAt:      gt.UpdatedAt,
	}, nil
}

func models(gts []gTrip) ([]model.Trip, error) {
	ts := make([]model.Trip, 0, len(gts))
	for i := range gts {
		t, err := gts[i].Model()
		if err != nil {
			return nil, err
		}
		ts = append(ts, *t)
	}
	return ts, nil
}

type gGeoPoint struct {
	ID       uuid.UUID `gorm:"primaryKey;type:uuid"`
	TripID   uuid.UUID `gorm:"type:uuid"`
	Position int
	Lat      float64
	Lon      float64
	Address  string
	Role     string
}

func (gp *gGeoPoint) TableName() string {
	return "geo_points"
}

func (gp *gGeoPoint) Model() (model.GeoPoint, error) {
	r, err := model.ParsePointRole(gp.Role)
	if err != nil {
		return model.GeoPoint{}, fmt.Errorf(
			"geo-point %s role %q: %w", gp.ID, gp.Role, err,
		)
	}
	return model.GeoPoint{
		ID:         gp.ID,
		Coordinate: model.Coordinate{Lat: gp.Lat, Lon: gp.Lon},
		Address:    gp.Address,
		Role:       r,
	}, nil
}

func notFound(id uuid.UUID) error {
	return cerr.NotFound(fmt.Errorf("trip %s not found", id))
}

// Get finds the tripID trip.
func Get[Q postgres.Queryer](
	ctx context.Context, q Q, tripID uuid.UUID,
) (*model.Trip, error) {
	return take(q.GORM(ctx), tripID)
}

// Lock finds the tripID trip and locks its row FOR UPDATE.
func Lock(ctx context.Context, tx *postgres.Tx, tripID uuid.UUID) (
	*model.Trip, error,
) {
	gdb := tx.GORM(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return take(gdb, tripID)
}

func take(gdb *gorm.DB, tripID uuid.UUID) (*model.Trip, error) {
	var gt gTrip
	err := gdb.Where("id = ?", tripID).Take(&gt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("finding trip: %w", err)
	}
	return gt.Model()
}

// Create inserts the t trip, filling its timestamps.
func Create(ctx context.Context, tx *postgres.Tx, t *model.Trip) error {
	gt := newGTrip(t)
	if err := tx.GORM(ctx).Create(gt).Error; err != nil {
		return postgres.TranslateError(err, "trip")
	}
	t.CreatedAt, t.UpdatedAt = gt.CreatedAt, gt.UpdatedAt
	return nil
}

// Update persists the mutable columns of t.
func Update(ctx context.Context, tx *postgres.Tx, t *model.Trip) error {
	gt, err := updateOne(tx.GORM(ctx), t.ID, map[string]any{
		"departure_time":  t.DepartureTime,
		"arrival_time":    t.ArrivalTime,
		"price_per_seat":  t.PricePerSeat,
		"max_seats":       t.MaxSeats,
		"available_seats": t.AvailableSeats,
		"description":     t.Description,
	}, "")
	if err != nil {
		return err
	}
	if gt == nil {
		return notFound(t.ID)
	}
	t.UpdatedAt = gt.UpdatedAt
	return nil
}

// SetStatus changes the status of the tripID trip.
func SetStatus(
	ctx context.Context, tx *postgres.Tx, tripID uuid.UUID, s model.TripStatus,
) (*model.Trip, error) {
	gt, err := updateOne(tx.GORM(ctx), tripID, map[string]any{
		"status": s.String(),
	}, "")
	if err != nil {
		return nil, err
	}
	if gt == nil {
		return nil, notFound(tripID)
	}
	return gt.Model()
}

// ReserveSeats decrements the available seats of the tripID trip by n
// if it is planned and has n available seats. The check and decrement
// happen in one statement, so concurrent reservations may not take
// more seats than are available.
func ReserveSeats(
	ctx context.Context, tx *postgres.Tx, tripID uuid.UUID, n int,
) (*model.Trip, error) {
	gdb := tx.GORM(ctx)
	gt, err := updateOne(gdb, tripID, map[string]any{
		"available_seats": gorm.Expr("available_seats - ?", n),
	}, "status = ? AND available_seats >= ?",
		model.TripStatusPlanned.String(), n,
	)
	if err != nil {
		return nil, err
	}
	if gt == nil {
		if _, err := take(gdb, tripID); err != nil {
			return nil, err
		}
		return nil, cerr.Conflict(fmt.Errorf(
			"trip %s is not planned or has less than %d seats",
			tripID, n,
		))
	}
	return gt.Model()
}

// ReleaseSeats increments the available seats of the tripID trip by n,
// never exceeding its max seats.
func ReleaseSeats(
	ctx context.Context, tx *postgres.Tx, tripID uuid.UUID, n int,
) (*model.Trip, error) {
	gt, err := updateOne(tx.GORM(ctx), tripID, map[string]any{
		"available_seats": gorm.Expr(
			"LEAST(max_seats, available_seats + ?)", n,
		),
	}, "")
	if err != nil {
		return nil, err
	}
	if gt == nil {
		return nil, notFound(tripID)
	}
	return gt.Model()
}

// updateOne updates cols of the tripID trip if it matches cond too,
// returning the updated row. If no row matches, nil is returned.
func updateOne(
	gdb *gorm.DB,
	tripID uuid.UUID,
	cols map[string]any,
	cond string,
	args ...any,
) (*gTrip, error) {
	cols["updated_at"] = time.Now()
	var gts []gTrip
	gdb = gdb.Model(&gts).Clauses(clause.Returning{}).Where("id = ?", tripID)
	if cond != "" {
		gdb = gdb.Where(cond, args...)
	}
	if err := gdb.Updates(cols).Error; err != nil {
		return nil, postgres.TranslateError(err, "trip")
	}
	switch n := len(gts); n {
	case 0:
		return nil, nil
	case 1:
		return &gts[0], nil
	default:
		return nil, fmt.Errorf("expected one row, but got %d", n)
	}
}

// ReplacePoints deletes the geo-points of the tripID trip and inserts
// pts instead, keeping their order and filling their IDs.
func ReplacePoints(
	ctx context.Context, tx *postgres.Tx, tripID uuid.UUID, pts []model.GeoPoint,
) error {
	gdb := tx.GORM(ctx)
	err := gdb.Where("trip_id = ?", tripID).Delete(&gGeoPoint{}).Error
	if err != nil {
		return fmt.Errorf("deleting geo-points: %w", err)
	}
	if len(pts) == 0 {
		return nil
	}
	gps := make([]gGeoPoint, 0, len(pts))
	for i := range pts {
		pts[i].ID = uuid.New()
		gps = append(gps, gGeoPoint{
			ID:       pts[i].ID,
			TripID:   tripID,
			Position: i,
			Lat:      pts[i].Lat,
			Lon:      pts[i].Lon,
			Address:  pts[i].Address,
			Role:     pts[i].Role.String(),
		})
	}
	if err := gdb.Create(&gps).Error; err != nil {
		return postgres.TranslateError(err, "geo-point")
	}
	return nil
}

// ReplaceOptions replaces the options of the tripID trip.
func ReplaceOptions(
	ctx context.Context, tx *postgres.Tx, tripID uuid.UUID, ids []uuid.UUID,
) error {
	return replaceLinks(tx.GORM(ctx), "trip_options", "options", "option",
		tripID, ids,
	)
}

// ReplaceCities replaces the cities of the tripID trip.
func ReplaceCities(
	ctx context.Context, tx *postgres.Tx, tripID uuid.UUID, ids []uuid.UUID,
) error {
	return replaceLinks(tx.GORM(ctx), "trip_cities", "cities", "city",
		tripID, ids,
	)
}

// replaceLinks replaces rows of the (trip_id, <what>_id) association
// table after ensuring that all ids exist in the target table.
// Table names are trusted constants.
func replaceLinks(
	gdb *gorm.DB,
	table, target, what string,
	tripID uuid.UUID,
	ids []uuid.UUID,
) error {
	ids = unique(ids)
	if len(ids) > 0 {
		var n int64
		err := gdb.Table(target).Where("id IN ?", ids).Count(&n).Error
		if err != nil {
			return fmt.Errorf("counting %s: %w", target, err)
		}
		if int(n) != len(ids) {
			return cerr.NotFound(fmt.Errorf(
				"%d of %d %s ids are unknown", len(ids)-int(n), len(ids), what,
			))
		}
	}
	err := gdb.Exec("DELETE FROM "+table+" WHERE trip_id = ?", tripID).Error
	if err != nil {
		return fmt.Errorf("deleting %s: %w", table, err)
	}
	if len(ids) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, map[string]any{
			"trip_id":    tripID,
			what + "_id": id,
		})
	}
	if err := gdb.Table(table).Create(rows).Error; err != nil {
		return postgres.TranslateError(err, what)
	}
	return nil
}

func unique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	u := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			u = append(u, id)
		}
	}
	return u
}

// Delete removes the tripID trip. Its geo-points and associations are
// removed by their ON DELETE CASCADE foreign keys.
func Delete(ctx context.Context, tx *postgres.Tx, tripID uuid.UUID) error {
	res := tx.GORM(ctx).Where("id = ?", tripID).Delete(&gTrip{})
	if err := res.Error; err != nil {
		return postgres.TranslateError(err, "trip")
	}
	if res.RowsAffected != 1 {
		return notFound(tripID)
	}
	return nil
}

// ByDriver lists trips of driverID, latest departure first.
func ByDriver[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	driverID uuid.UUID,
	statuses ...model.TripStatus,
) ([]model.Trip, error) {
	gdb := q.GORM(ctx).Where("driver_id = ?", driverID)
	if len(statuses) > 0 {
		gdb = gdb.Where("status IN ?", names(statuses))
	}
	return find(gdb.Order("departure_time DESC"))
}

// ByPassenger lists trips which passengerID holds an rs reservation on.
func ByPassenger[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	passengerID uuid.UUID,
	rs model.ReservationStatus,
	statuses ...model.TripStatus,
) ([]model.Trip, error) {
	gdb := q.GORM(ctx)
	sub := gdb.Table("reservations").Select("trip_id").Where(
		"passenger_id = ? AND status = ?", passengerID, rs.String(),
	)
	return find(gdb.Where("id IN (?)", sub).Where(
		"status IN ?", names(statuses),
	).Order("departure_time"))
}

// Available lists bookable trips departing after the given time.
func Available[Q postgres.Queryer](
	ctx context.Context, q Q, after time.Time,
) ([]model.Trip, error) {
	return find(q.GORM(ctx).Where(
		"status = ? AND available_seats > 0 AND departure_time > ?",
		model.TripStatusPlanned.String(), after,
	).Order("departure_time"))
}

// Search lists planned trips which match the sc criteria. The departure
// window is exclusive at both ends. The radius,
// coordinates, and city names of sc are ignored.
func Search[Q postgres.Queryer](
	ctx context.Context, q Q, sc *model.SearchCriteria,
) ([]model.Trip, error) {
	gdb := q.GORM(ctx).Where(
		"status = ? AND available_seats >= ? AND departure_time > ?",
		model.TripStatusPlanned.String(), sc.Seats, sc.MinDeparture,
	)
	if sc.MaxDeparture != nil {
		gdb = gdb.Where("departure_time < ?", *sc.MaxDeparture)
	}
	if sc.MinPrice != nil {
		gdb = gdb.Where("price_per_seat >= ?", *sc.MinPrice)
	}
	if sc.MaxPrice != nil {
		gdb = gdb.Where("price_per_seat <= ?", *sc.MaxPrice)
	}
	return find(gdb.Order("departure_time"))
}

func names(statuses []model.TripStatus) []string {
	ss := make([]string, 0, len(statuses))
	for _, s := range statuses {
		ss = append(ss, s.String())
	}
	return ss
}

func find(gdb *gorm.DB) ([]model.Trip, error) {
	var gts []gTrip
	if err := gdb.Find(&gts).Error; err != nil {
		return nil, fmt.Errorf("finding trips: %w", err)
	}
	return models(gts)
}

type optionLink struct {
	TripID      uuid.UUID
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64
	Active      bool
}

type cityLink struct {
	TripID     uuid.UUID
	ID         uuid.UUID
	Name       string
	PostalCode string
	Country    string
	Lat        *float64
	Lon        *float64
}

// Detail loads the drivers, geo-points, options, and cities of ts.
func Detail[Q postgres.Queryer](
	ctx context.Context, q Q, ts []model.Trip,
) ([]model.TripView, error) {
	tvs := make([]model.TripView, 0, len(ts))
	if len(ts) == 0 {
		return tvs, nil
	}
	ids := make([]uuid.UUID, 0, len(ts))
	driverIDs := make([]uuid.UUID, 0, len(ts))
	for _, t := range ts {
		ids = append(ids, t.ID)
		driverIDs = append(driverIDs, t.DriverID)
	}
	drivers, err := usersrp.ByIDs(ctx, q, unique(driverIDs))
	if err != nil {
		return nil, fmt.Errorf("loading drivers: %w", err)
	}
	gdb := q.GORM(ctx)
	var gps []gGeoPoint
	err = gdb.Where("trip_id IN ?", ids).Order("trip_id, position").
		Find(&gps).Error
	if err != nil {
		return nil, fmt.Errorf("loading geo-points: %w", err)
	}
	points := make(map[uuid.UUID][]model.GeoPoint, len(ts))
	for i := range gps {
		p, err := gps[i].Model()
		if err != nil {
			return nil, err
		}
		points[gps[i].TripID] = append(points[gps[i].TripID], p)
	}
	var ols []optionLink
	err = gdb.Raw(`SELECT tro.trip_id, o.id, o.name, o.description,
	o.price, o.active
FROM trip_options tro JOIN options o ON o.id = tro.option_id
WHERE tro.trip_id IN ?
ORDER BY o.name`, ids).Scan(&ols).Error
	if err != nil {
		return nil, fmt.Errorf("loading options: %w", err)
	}
	options := make(map[uuid.UUID][]model.Option, len(ts))
	for _, ol := range ols {
		options[ol.TripID] = append(options[ol.TripID], model.Option{
			ID:          ol.ID,
			Name:        ol.Name,
			Description: ol.Description,
			Price:       ol.Price,
			Active:      ol.Active,
		})
	}
	var cls []cityLink
	err = gdb.Raw(`SELECT trc.trip_id, c.id, c.name, c.postal_code,
	c.country, c.lat, c.lon
FROM trip_cities trc JOIN cities c ON c.id = trc.city_id
WHERE trc.trip_id IN ?
ORDER BY c.name`, ids).Scan(&cls).Error
	if err != nil {
		return nil, fmt.Errorf("loading cities: %w", err)
	}
	cities := make(map[uuid.UUID][]model.City, len(ts))
	for _, cl := range cls {
		cities[cl.TripID] = append(cities[cl.TripID], model.City{
			ID:         cl.ID,
			Name:       cl.Name,
			PostalCode: cl.PostalCode,
			Country:    cl.Country,
			Lat:        cl.Lat,
			Lon:        cl.Lon,
		})
	}
	for _, t := range ts {
		tv := model.TripView{
			Trip:    t,
			Points:  nonNil(points[t.ID]),
			Options: nonNil(options[t.ID]),
			Cities:  nonNil(cities[t.ID]),
		}
		if d, ok := drivers[t.DriverID]; ok {
			tv.Driver = model.NewDriverSummary(d)
		}
		tvs = append(tvs, tv)
	}
	return tvs, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// ByIDs finds the trips with the given ids as a map, skipping the
// missing ones.
func ByIDs[Q postgres.Queryer](
	ctx context.Context, q Q, ids []uuid.UUID,
) (map[uuid.UUID]*model.Trip, error) {
	m := make(map[uuid.UUID]*model.Trip, len(ids))
	if len(ids) == 0 {
		return m, nil
	}
	ts, err := find(q.GORM(ctx).Where("id IN ?", unique(ids)))
	if err != nil {
		return nil, err
	}
	for i := range ts {
		m[ts[i].ID] = &ts[i]
	}
	return m, nil
}
