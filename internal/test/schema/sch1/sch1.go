// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sch1 provides database schema major version 1 verification
// logic. This implementation may be instantiated indirectly using
// the github.com/momeni/carpool/internal/test/schema package.
package sch1

import (
	"context"
	"testing"

	"github.com/momeni/carpool/pkg/adapter/db/postgres/migration/settle/stlmig1"
	"github.com/momeni/carpool/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These constants present the relevant major, minor, and patch semantic
// versions of this schema verifier package. They are initialized based
// on the stlmig1 package because whenever a new minor version is
// released, the stlmig1 has to be updated based on it and this verifier
// needs to verify its updated changes too.
// Also, the stlmig1 constants are not used directly, so users of this
// package do not need to import it just for checking the provided
// semantic version components.
const (
	Major = stlmig1.Major
	Minor = stlmig1.Minor
	Patch = stlmig1.Patch
)

// Verifier implements the schema major version 1 verification logic. It
// implements github.com/momeni/carpool/internal/test/schema.Verifier
// interface and wraps a database connection as noted in New function.
type Verifier struct {
	c repo.Conn // database connection which is used for testing
}

// New instantiates a Verifier struct, wrapping the `c` database
// connection. Since Verifier fields are not exported, the New function
// is required for its initialization.
func New(c repo.Conn) *Verifier {
	return &Verifier{c}
}

// columns lists the expected columns of each table. Extra columns
// of a more recent minor version are acceptable.
var columns = map[string][]string{
	"users": {
		"id", "username", "email", "password_hash", "first_name",
		"last_name", "phone", "role", "created_at",
	},
	"passengers": {
		"user_id", "preferred_payment_method", "rating", "total_rides",
		"verified",
	},
	"drivers": {
		"user_id", "license_number", "vehicle_model", "vehicle_color",
		"vehicle_plate", "max_passengers", "rating", "total_trips",
		"verified", "available",
	},
	"admins":  {"user_id", "admin_level", "permissions"},
	"cities":  {"id", "name", "postal_code", "country", "lat", "lon"},
	"options": {"id", "name", "description", "price", "active"},
	"trips": {
		"id", "driver_id", "departure_time", "arrival_time",
		"price_per_seat", "max_seats", "available_seats", "description",
		"status", "created_at", "updated_at",
	},
	"geo_points": {
		"id", "trip_id", "position", "lat", "lon", "address", "role",
	},
	"trip_options": {"trip_id", "option_id"},
	"trip_cities":  {"trip_id", "city_id"},
	"reservations": {
		"id", "trip_id", "passenger_id", "seats", "total_price",
		"status", "notes", "reserved_at",
	},
	"settings": {"component", "config"},
}

// constraints lists the named constraints which the repositories
// rely on for mapping violations to conflicts.
var constraints = []string{
	"users_username_key",
	"users_email_key",
	"users_role_check",
	"cities_name_key",
	"trips_seats_check",
	"trips_status_check",
	"geo_points_position_key",
	"geo_points_role_check",
	"reservations_status_check",
}

// VerifySchema uses the corresponding database connection of `v` in
// order to query the catalog, ensuring that the expected tables with
// their columns and constraints of the Major major version and Minor
// minor version are in place.
// If a more recent minor version was settled, this verification will
// pass too, so it is important to update this implementation whenever
// a new minor version is released.
// This process failures are reported using the `t` testing argument.
func (v *Verifier) VerifySchema(ctx context.Context, t *testing.T) {
	for table, cols := range columns {
		found := v.strings(ctx, t, `SELECT column_name
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1`, table)
		assert.Subset(t, found, cols, "columns of %q table", table)
	}
	found := v.strings(ctx, t, `SELECT conname FROM pg_constraint
WHERE connamespace = current_schema()::regnamespace`)
	assert.Subset(t, found, constraints, "named constraints")
}

// VerifyDevData checks for presence of the development suitable initial
// data and marks possible issues using the `t` testing argument.
// Presence of extra rows is acceptable.
func (v *Verifier) VerifyDevData(ctx context.Context, t *testing.T) {
	v.VerifyProdData(ctx, t)
	users := v.strings(ctx, t, `SELECT username FROM users`)
	assert.Subset(t, users, []string{
		stlmig1.DevDriver, stlmig1.DevPassenger, stlmig1.DevAdmin,
	}, "sample users")
	for table, username := range map[string]string{
		"drivers":    stlmig1.DevDriver,
		"passengers": stlmig1.DevPassenger,
		"admins":     stlmig1.DevAdmin,
	} {
		n := v.count(ctx, t, `SELECT count(*) FROM `+table+`
WHERE user_id = $1`, stlmig1.SeedID("users", username))
		assert.Equal(t, 1, n, "%s profile of %q", table, username)
	}
	for _, name := range stlmig1.Trips {
		id := stlmig1.SeedID("trips", name)
		n := v.count(ctx, t, `SELECT count(*) FROM trips
WHERE id = $1 AND available_seats BETWEEN 0 AND max_seats`, id)
		assert.Equal(t, 1, n, "sample trip %q", name)
		n = v.count(ctx, t, `SELECT count(*) FROM geo_points
WHERE trip_id = $1 AND role IN ('START', 'END')`, id)
		assert.Equal(t, 2, n, "start and end points of %q", name)
	}
	n := v.count(ctx, t, `SELECT count(*) FROM reservations
WHERE trip_id = $1 AND passenger_id = $2 AND status = 'PENDING'`,
		stlmig1.SeedID("trips", "tunis-sousse"),
		stlmig1.SeedID("users", stlmig1.DevPassenger),
	)
	assert.Equal(t, 1, n, "pending sample reservation")
}

// VerifyProdData checks for presence of the production suitable initial
// data and marks possible issues using the `t` testing argument.
// Presence of extra rows is acceptable.
func (v *Verifier) VerifyProdData(ctx context.Context, t *testing.T) {
	cities := v.strings(ctx, t, `SELECT name FROM cities`)
	assert.Subset(t, cities, stlmig1.Cities, "reference cities")
	n := v.count(ctx, t, `SELECT count(*) FROM cities
WHERE id = $1 AND country = 'Tunisia'`, stlmig1.SeedID("cities", "Tunis"))
	assert.Equal(t, 1, n, "Tunis city identifier")
	n = v.count(ctx, t, `SELECT count(*) FROM options WHERE active`)
	assert.GreaterOrEqual(t, n, stlmig1.ActiveOptions, "active options")
	n = v.count(ctx, t, `SELECT count(*) FROM settings
WHERE component = $1`, stlmig1.Component)
	assert.Equal(t, 1, n, "persisted settings")
}

func (v *Verifier) strings(
	ctx context.Context, t *testing.T, q string, args ...any,
) []string {
	rows, err := v.c.Query(ctx, q, args...)
	require.NoError(t, err, "querying %q", q)
	defer rows.Close()
	var ss []string
	for rows.Next() {
		var s string
		require.NoError(t, rows.Scan(&s), "scanning %q", q)
		ss = append(ss, s)
	}
	require.NoError(t, rows.Err(), "iterating %q", q)
	return ss
}

func (v *Verifier) count(
	ctx context.Context, t *testing.T, q string, args ...any,
) int {
	rows, err := v.c.Query(ctx, q, args...)
	require.NoError(t, err, "querying %q", q)
	defer rows.Close()
	require.True(t, rows.Next(), "no count row for %q", q)
	var n int
	require.NoError(t, rows.Scan(&n), "scanning %q", q)
	return n
}
