// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Settings contains those settings which are mutable & invisible,
// that is, write-only settings. It also embeds the VisibleSettings
// struct, so it effectively contains all kinds of settings.
// When fetching settings, the nested ImmutableSettings pointer can be
// set to nil in order to keep the mutable (visible or invisible)
// settings and when reporting settings, the embedded VisibleSettings
// struct can be reported alone (having a non-nil ImmutableSettings
// pointer) in order to exclude the invisible settings.
//
// A repository package is responsible to manage conversion between
// this struct and its version dependent adapters layer counterparts.
type Settings struct {
	VisibleSettings
}

// VisibleSettings contains settings which are visible by end-users.
// These settings may be mutable or immutable. The immutable & visible
// settings are managed by the embedded ImmutableSettings struct which
// must be nil when settings are taken from end-users.
type VisibleSettings struct {
	// Estimator contains the trip estimator related settings.
	Estimator EstimatorSettings `json:"estimator"`

	*ImmutableSettings
}

// EstimatorSettings represents the trip estimator settings which are
// visible and mutable. A nil field keeps its use case default value.
type EstimatorSettings struct {
	// AverageSpeed is the assumed driving speed in km/h.
	AverageSpeed *float64 `json:"average_speed"`
	// CostPerKm is the base fuel cost of one kilometer.
	CostPerKm *float64 `json:"cost_per_km"`
	// CurrencyRate converts the base cost to the local currency.
	CurrencyRate *float64 `json:"currency_rate"`
}

// ImmutableSettings contains settings which are immutable (and can be
// configured only using the configuration file or environment variables
// alone), but are visible by end-users.
type ImmutableSettings struct {
	// Logger reports if server-side REST API logging is enabled.
	Logger bool `json:"logger"`
	// Currency is the local currency code of prices and estimates.
	Currency string `json:"currency"`
}
