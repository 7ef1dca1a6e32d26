// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"errors"
	"fmt"

	"github.com/momeni/carpool/pkg/adapter/config/settings"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
)

// Serializable embeds the Settings in addition to a Version field,
// so it can be serialized and stored in the database, while the Version
// field may be consulted during its deserialization in order to ensure
// that it belongs to the same configuration format version.
// The nested Immutable pointer must be nil when Serializable carries
// the mutable settings which are stored in the database.
//
// Serializable also represents the minimum and maximum boundary values
// of settings. All three instances have the same version.
type Serializable struct {
	// Version indicates the format version of this Serializable and
	// is equal to the Config struct version.
	Version model.SemVer `json:"version"`

	Settings
}

// Settings contains those settings which are mutable & invisible,
// that is, write-only settings. It also embeds the Visible struct
// so it effectively contains all kinds of settings.
// There are no write-only settings in this version.
//
// All fields have pointer types. A nil setting is meaningful and asks
// the Config not to pass the corresponding functional option, so the
// use case default value is used. A nil boundary value means that the
// setting has no lower/upper limit.
type Settings struct {
	Visible
}

// Visible contains settings which are visible by end-users.
// The immutable & visible settings are managed by the embedded
// Immutable struct which must be nil when settings are taken from
// end-users or the database.
type Visible struct {
	Estimator EstimatorSettings `json:"estimator"`
	*Immutable
}

// EstimatorSettings represents the trip estimator mutable settings.
type EstimatorSettings struct {
	AverageSpeed *float64 `json:"average_speed"`
	CostPerKm    *float64 `json:"cost_per_km"`
	CurrencyRate *float64 `json:"currency_rate"`
}

// Immutable contains settings which are immutable (and can be
// configured only using the configuration file or environment variables
// alone), but are visible by end-users.
// Fields are non-nil when they represent the settings values and nil
// when they represent the boundary values.
type Immutable struct {
	// Logger reports if server-side REST API logging is enabled.
	Logger *bool `json:"logger,omitempty"`
	// Currency is the local currency code.
	Currency *string `json:"currency,omitempty"`
}

// OutOfBoundsSettingsError lists the range violations of all settings
// which have boundary values. Violating values are replaced by their
// nearest boundary value, so the caller may decide whether this error
// is fatal or should be treated as a warning.
type OutOfBoundsSettingsError struct {
	Estimator struct {
		AverageSpeed *settings.OutOfRangeError[float64]
		CostPerKm    *settings.OutOfRangeError[float64]
		CurrencyRate *settings.OutOfRangeError[float64]
	}
}

// Error implements error interface and encodes whole of this
// OutOfBoundsSettingsError instance as an error string.
func (e *OutOfBoundsSettingsError) Error() string {
	var violations []string
	for _, v := range []struct {
		name string
		err  *settings.OutOfRangeError[float64]
	}{
		{"average speed", e.Estimator.AverageSpeed},
		{"cost per km", e.Estimator.CostPerKm},
		{"currency rate", e.Estimator.CurrencyRate},
	} {
		if v.err != nil {
			violations = append(violations, fmt.Sprintf(
				"%s %v: %s", v.name, *v.err.Value, v.err.Error(),
			))
		}
	}
	return fmt.Sprintf("cfg1.Config settings are out of bounds: %v", violations)
}

// IsBoundsError marks *OutOfBoundsSettingsError as a settings.BoundsError.
func (e *OutOfBoundsSettingsError) IsBoundsError() {
}

// Mutate updates this Config instance using the given Serializable
// instance which provides the mutable settings values.
// The Immutable pointer of `s` must be nil.
//
// If provided values do not respect the expected boundary values, the
// nearest boundary value is used instead and an error with the
// *OutOfBoundsSettingsError type is returned, but this Config instance
// is updated anyway.
func (c *Config) Mutate(s Serializable) error {
	if s.Settings.Visible.Immutable != nil {
		return errors.New("immutable settings must not be set")
	}
	if v1 := c.Version(); v1 != s.Version {
		return &cerr.MismatchingSemVerError{v1, s.Version}
	}
	e, se := &c.Usecases.Estimator, &s.Settings.Visible.Estimator
	settings.OverwriteUnconditionally(&e.AverageSpeed, se.AverageSpeed)
	settings.OverwriteUnconditionally(&e.CostPerKm, se.CostPerKm)
	settings.OverwriteUnconditionally(&e.CurrencyRate, se.CurrencyRate)
	return c.verifyRanges()
}

// Serializable creates and returns an instance of *Serializable
// in order to report the mutable settings, based on this Config
// instance. The Immutable pointer will be nil in the returned object.
func (c *Config) Serializable() *Serializable {
	s := &Serializable{Version: c.Version()}
	e, se := &c.Usecases.Estimator, &s.Settings.Visible.Estimator
	settings.OverwriteUnconditionally(&se.AverageSpeed, e.AverageSpeed)
	settings.OverwriteUnconditionally(&se.CostPerKm, e.CostPerKm)
	settings.OverwriteUnconditionally(&se.CurrencyRate, e.CurrencyRate)
	return s
}

// Visible creates and fills an instance of Visible struct with the
// mutable and immutable settings which can be queried by end-users.
// That is, the Immutable pointer will be non-nil in the returned
// object.
func (c *Config) Visible() *Visible {
	// Logger is non-nil after ValidateAndNormalize.
	l, cur := *c.Gin.Logger, c.Usecases.Currency
	v := &Visible{
		Immutable: &Immutable{
			Logger:   &l,
			Currency: &cur,
		},
	}
	e := &c.Usecases.Estimator
	settings.OverwriteUnconditionally(
		&v.Estimator.AverageSpeed, e.AverageSpeed,
	)
	settings.OverwriteUnconditionally(&v.Estimator.CostPerKm, e.CostPerKm)
	settings.OverwriteUnconditionally(
		&v.Estimator.CurrencyRate, e.CurrencyRate,
	)
	return v
}

// Bounds creates and returns two instances of *Serializable in order to
// report the minimum and maximum boundary values for those settings
// which their lower/upper limits should be restricted.
// All boundary values are obtained from this Config instance.
func (c *Config) Bounds() (minb, maxb *Serializable) {
	e := &c.Usecases.Estimator
	minb = &Serializable{
		Version: c.Version(),
		Settings: Settings{
			Visible: Visible{Immutable: &Immutable{}},
		},
	}
	me := &minb.Settings.Visible.Estimator
	settings.OverwriteUnconditionally(&me.AverageSpeed, e.MinAverageSpeed)
	settings.OverwriteUnconditionally(&me.CostPerKm, e.MinCostPerKm)
	settings.OverwriteUnconditionally(&me.CurrencyRate, e.MinCurrencyRate)
	maxb = &Serializable{
		Version: c.Version(),
		Settings: Settings{
			Visible: Visible{Immutable: &Immutable{}},
		},
	}
	xe := &maxb.Settings.Visible.Estimator
	settings.OverwriteUnconditionally(&xe.AverageSpeed, e.MaxAverageSpeed)
	settings.OverwriteUnconditionally(&xe.CostPerKm, e.MaxCostPerKm)
	settings.OverwriteUnconditionally(&xe.CurrencyRate, e.MaxCurrencyRate)
	return minb, maxb
}
