// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settingsrp

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/momeni/carpool/pkg/adapter/config/cfg1"
	"github.com/momeni/carpool/pkg/adapter/config/settings"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/migration/sch1v0"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/migration/settle/stlmig1"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/log"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/usecase/appuc"
)

// Fetch queries the mutable settings from the settings repository,
// deserializes them, merges them into a clone of the baseConfs
// representing the configuration file and environment variables state,
// and returns the fresh configuration instance as an appuc.Builder
// interface in addition to its visible settings and boundary values
// (as instances of the version-independent model structs).
// Stored settings which violate the boundary values are replaced by
// their nearest boundary value and a warning is logged.
func Fetch(
	ctx context.Context, c *postgres.Conn, baseConfs *cfg1.Config,
) (
	b appuc.Builder, vs *model.VisibleSettings,
	minb, maxb *model.Settings, err error,
) {
	data, err := sch1v0.LoadSettings(ctx, c)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf(
			"sch1v0.LoadSettings: %w", err,
		)
	}
	var ser cfg1.Serializable
	if err = json.Unmarshal(data, &ser); err != nil {
		return nil, nil, nil, nil, fmt.Errorf(
			"deserializing json: %w", err,
		)
	}
	confs := baseConfs.Clone()
	err = confs.Mutate(ser)
	var be settings.BoundsError
	switch {
	case errors.As(err, &be):
		log.Warn(
			ctx, "stored settings are adjusted by boundary values",
			log.Err("violation", be),
		)
	case err != nil:
		return nil, nil, nil, nil, fmt.Errorf(
			"confs.Mutate(%#v): %w", ser, err,
		)
	}
	vs, minb, maxb = convert(confs)
	return confs, vs, minb, maxb, nil
}

// Update converts the version-independent mutable model.Settings
// instance into a version-dependent serializable settings instance
// for the last supported version, serializes them as JSON, and
// then stores them in the settings repository. Given mutable settings
// are also used in order to update a clone of the baseConfs instance.
// Settings which violate their boundary values are rejected with a
// bad request error and nothing is persisted.
func Update(
	ctx context.Context,
	tx *postgres.Tx,
	baseConfs *cfg1.Config,
	s *model.Settings,
) (
	b appuc.Builder, vs *model.VisibleSettings,
	minb, maxb *model.Settings, err error,
) {
	if s.ImmutableSettings != nil {
		return nil, nil, nil, nil, cerr.BadRequest(
			errors.New("immutable settings cannot be updated"),
		)
	}
	ser := cfg1.Serializable{
		Version: baseConfs.Version(),
	}
	e, se := &s.Estimator, &ser.Settings.Visible.Estimator
	settings.OverwriteUnconditionally(&se.AverageSpeed, e.AverageSpeed)
	settings.OverwriteUnconditionally(&se.CostPerKm, e.CostPerKm)
	settings.OverwriteUnconditionally(&se.CurrencyRate, e.CurrencyRate)
	confs := baseConfs.Clone()
	err = confs.Mutate(ser)
	var be settings.BoundsError
	switch {
	case errors.As(err, &be):
		return nil, nil, nil, nil, cerr.BadRequest(be)
	case err != nil:
		return nil, nil, nil, nil, fmt.Errorf(
			"confs.Mutate(%#v): %w", ser, err,
		)
	}
	data, err := json.Marshal(ser)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf(
			"serializing json: %w", err,
		)
	}
	sm1 := stlmig1.New(tx, nil)
	if err = sm1.PersistSettings(ctx, data); err != nil {
		return nil, nil, nil, nil, fmt.Errorf(
			"persisting settings: %w", err,
		)
	}
	vs, minb, maxb = convert(confs)
	return confs, vs, minb, maxb, nil
}

func convert(c *cfg1.Config) (
	vs *model.VisibleSettings, minb, maxb *model.Settings,
) {
	v := c.Visible()
	vs = &model.VisibleSettings{
		ImmutableSettings: &model.ImmutableSettings{
			Logger:   *v.Immutable.Logger,
			Currency: *v.Immutable.Currency,
		},
	}
	estimator(&vs.Estimator, &v.Estimator)
	mins, maxs := c.Bounds()
	minb, maxb = &model.Settings{}, &model.Settings{}
	estimator(&minb.Estimator, &mins.Settings.Visible.Estimator)
	estimator(&maxb.Estimator, &maxs.Settings.Visible.Estimator)
	return vs, minb, maxb
}

func estimator(dst *model.EstimatorSettings, src *cfg1.EstimatorSettings) {
	settings.OverwriteUnconditionally(&dst.AverageSpeed, src.AverageSpeed)
	settings.OverwriteUnconditionally(&dst.CostPerKm, src.CostPerKm)
	settings.OverwriteUnconditionally(&dst.CurrencyRate, src.CurrencyRate)
}
