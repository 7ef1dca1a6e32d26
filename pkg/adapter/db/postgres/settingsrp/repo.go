// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settingsrp is the adapter for the settings repository.
// It exposes the settingsrp.Repo type in order to allow use cases
// to update mutable settings or query them from the database.
package settingsrp

import (
	"context"

	"github.com/momeni/carpool/pkg/adapter/config/cfg1"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
	"github.com/momeni/carpool/pkg/core/usecase/appuc"
)

// Repo represents the settings repository instance.
type Repo struct {
	baseConfs *cfg1.Config
}

// New instantiates a settings Repo struct. Created instance wraps
// the given configuration instance as its base configuration items, so
// whenever it needs to update the mutable settings or reload them from
// the database, it can apply them on a fresh clone of this base confs.
func New(c *cfg1.Config) *Repo {
	return &Repo{
		baseConfs: c,
	}
}

type connQueryer struct {
	*postgres.Conn
	baseConfs *cfg1.Config
}

// Conn takes a Conn interface instance, unwraps it as required,
// and returns a SettingsConnQueryer interface which (with access to
// the implementation-dependent connection object) can run different
// permitted operations on settings.
func (settings *Repo) Conn(c repo.Conn) appuc.SettingsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc, baseConfs: settings.baseConfs}
}

// Fetch queries the mutable settings from the settings repository and
// merges them into a clone of the base settings. See the Fetch
// function for details.
func (cq connQueryer) Fetch(ctx context.Context) (
	appuc.Builder, *model.VisibleSettings, *model.Settings,
	*model.Settings, error,
) {
	return Fetch(ctx, cq.Conn, cq.baseConfs)
}

type txQueryer struct {
	*postgres.Tx
	baseConfs *cfg1.Config
}

// Tx takes a Tx interface instance, unwraps it as required,
// and returns a SettingsTxQueryer interface which (with access to the
// implementation-dependent transaction object) can run different
// permitted operations on settings.
func (settings *Repo) Tx(tx repo.Tx) appuc.SettingsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt, baseConfs: settings.baseConfs}
}

// Update stores the `s` mutable settings in the settings repository.
// See the Update function for details.
func (tq txQueryer) Update(ctx context.Context, s *model.Settings) (
	appuc.Builder, *model.VisibleSettings, *model.Settings,
	*model.Settings, error,
) {
	return Update(ctx, tq.Tx, tq.baseConfs, s)
}
