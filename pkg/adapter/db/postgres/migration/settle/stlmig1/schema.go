// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package stlmig1

import (
	"context"
	"fmt"
	"strings"
)

// tables lists the DDL statements of the v1.0 schema. They are run in
// order, so referenced tables must be created first.
var tables = []string{
	`CREATE TABLE users (
	id uuid PRIMARY KEY,
	username varchar(150) NOT NULL,
	email varchar(254) NOT NULL,
	password_hash text NOT NULL,
	first_name varchar(150) NOT NULL DEFAULT '',
	last_name varchar(150) NOT NULL DEFAULT '',
	phone varchar(32) NOT NULL DEFAULT '',
	role varchar(16) NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	CONSTRAINT users_username_key UNIQUE (username),
	CONSTRAINT users_email_key UNIQUE (email),
	CONSTRAINT users_role_check
		CHECK (role IN ('PASSENGER', 'DRIVER', 'ADMIN'))
)`,
	`CREATE TABLE passengers (
	user_id uuid PRIMARY KEY REFERENCES users (id) ON DELETE CASCADE,
	preferred_payment_method varchar(64) NOT NULL DEFAULT '',
	rating numeric(3,2) NOT NULL DEFAULT 0,
	total_rides integer NOT NULL DEFAULT 0,
	verified boolean NOT NULL DEFAULT false
)`,
	`CREATE TABLE drivers (
	user_id uuid PRIMARY KEY REFERENCES users (id) ON DELETE CASCADE,
	license_number varchar(64) NOT NULL DEFAULT '',
	vehicle_model varchar(128) NOT NULL DEFAULT '',
	vehicle_color varchar(64) NOT NULL DEFAULT '',
	vehicle_plate varchar(32) NOT NULL DEFAULT '',
	max_passengers integer NOT NULL DEFAULT 4,
	rating numeric(3,2) NOT NULL DEFAULT 0,
	total_trips integer NOT NULL DEFAULT 0,
	verified boolean NOT NULL DEFAULT false,
	available boolean NOT NULL DEFAULT true
)`,
	`CREATE TABLE admins (
	user_id uuid PRIMARY KEY REFERENCES users (id) ON DELETE CASCADE,
	admin_level varchar(32) NOT NULL DEFAULT '',
	permissions jsonb NOT NULL DEFAULT '[]'
)`,
	`CREATE TABLE cities (
	id uuid PRIMARY KEY,
	name varchar(128) NOT NULL,
	postal_code varchar(16) NOT NULL DEFAULT '',
	country varchar(64) NOT NULL DEFAULT '',
	lat double precision,
	lon double precision,
	CONSTRAINT cities_name_key UNIQUE (name)
)`,
	`CREATE TABLE options (
	id uuid PRIMARY KEY,
	name varchar(128) NOT NULL,
	description text NOT NULL DEFAULT '',
	price numeric(10,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
	active boolean NOT NULL DEFAULT true
)`,
	`CREATE TABLE trips (
	id uuid PRIMARY KEY,
	driver_id uuid NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	departure_time timestamptz NOT NULL,
	arrival_time timestamptz,
	price_per_seat numeric(10,2) NOT NULL CHECK (price_per_seat >= 0),
	max_seats integer NOT NULL CHECK (max_seats BETWEEN 1 AND 8),
	available_seats integer NOT NULL,
	description text NOT NULL DEFAULT '',
	status varchar(16) NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now(),
	CONSTRAINT trips_seats_check
		CHECK (available_seats BETWEEN 0 AND max_seats),
	CONSTRAINT trips_status_check CHECK (status IN
		('PLANNED', 'ACTIVE', 'COMPLETED', 'CANCELLED'))
)`,
	`CREATE INDEX trips_driver_idx ON trips (driver_id)`,
	`CREATE INDEX trips_departure_idx ON trips (status, departure_time)`,
	`CREATE TABLE geo_points (
	id uuid PRIMARY KEY,
	trip_id uuid NOT NULL REFERENCES trips (id) ON DELETE CASCADE,
	position integer NOT NULL,
	lat double precision NOT NULL CHECK (lat BETWEEN -90 AND 90),
	lon double precision NOT NULL CHECK (lon BETWEEN -180 AND 180),
	address varchar(255) NOT NULL DEFAULT '',
	role varchar(16) NOT NULL,
	CONSTRAINT geo_points_position_key UNIQUE (trip_id, position),
	CONSTRAINT geo_points_role_check
		CHECK (role IN ('START', 'END', 'INTERMEDIATE'))
)`,
	`CREATE TABLE trip_options (
	trip_id uuid NOT NULL REFERENCES trips (id) ON DELETE CASCADE,
	option_id uuid NOT NULL REFERENCES options (id) ON DELETE CASCADE,
	PRIMARY KEY (trip_id, option_id)
)`,
	`CREATE TABLE trip_cities (
	trip_id uuid NOT NULL REFERENCES trips (id) ON DELETE CASCADE,
	city_id uuid NOT NULL REFERENCES cities (id) ON DELETE CASCADE,
	PRIMARY KEY (trip_id, city_id)
)`,
	`CREATE TABLE reservations (
	id uuid PRIMARY KEY,
	trip_id uuid NOT NULL REFERENCES trips (id) ON DELETE CASCADE,
	passenger_id uuid NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	seats integer NOT NULL CHECK (seats BETWEEN 1 AND 8),
	total_price numeric(10,2) NOT NULL CHECK (total_price >= 0),
	status varchar(16) NOT NULL,
	notes text NOT NULL DEFAULT '',
	reserved_at timestamptz NOT NULL DEFAULT now(),
	CONSTRAINT reservations_status_check CHECK (status IN
		('PENDING', 'CONFIRMED', 'CANCELLED', 'COMPLETED'))
)`,
	`CREATE INDEX reservations_trip_idx ON reservations (trip_id)`,
	`CREATE INDEX reservations_passenger_idx
	ON reservations (passenger_id)`,
	`CREATE TABLE settings (
	component varchar(32) PRIMARY KEY,
	config jsonb NOT NULL
)`,
}

func (sm1 *Settler) createTables(ctx context.Context) error {
	for _, ddl := range tables {
		if _, err := sm1.tx.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("running %q: %w", firstLine(ddl), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	l, _, _ := strings.Cut(s, "\n")
	return l
}
