// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sch1v0 reads the v1.0 database schema. It is kept apart from
// the stlmig1 settler because loading depends on both of the major and
// minor versions while settling depends on the major version alone.
package sch1v0

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/carpool/pkg/adapter/db/postgres/migration/settle/stlmig1"
	"github.com/momeni/carpool/pkg/core/repo"
)

// These constants indicate the database schema version which may be
// read by this package.
const (
	Major = 1
	Minor = 0
)

// LoadSettings loads the serialized mutable settings from the database
// using the given `c` connection, assuming that the database schema
// version is equal to v1.0 as specified by the Major and Minor consts.
func LoadSettings(ctx context.Context, c repo.Conn) ([]byte, error) {
	rs, err := c.Query(
		ctx, "SELECT config FROM settings WHERE component=$1",
		stlmig1.Component,
	)
	if err != nil {
		return nil, fmt.Errorf("querying settings table: %w", err)
	}
	defer rs.Close()
	var cfg []byte
	for rs.Next() {
		if cfg != nil {
			return nil, errors.New("more than one carpool settings rows")
		}
		if err := rs.Scan(&cfg); err != nil {
			return nil, fmt.Errorf("scanning config column: %w", err)
		}
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("closing result set: %w", err)
	}
	if cfg == nil {
		return nil, errors.New("missing carpool settings row")
	}
	return cfg, nil
}
