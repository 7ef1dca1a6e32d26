// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
	"github.com/momeni/carpool/pkg/adapter/config/cfg1"
	"github.com/momeni/carpool/pkg/adapter/config/settings"
	"github.com/momeni/carpool/pkg/adapter/config/vers"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleSerializable() {
	s := &cfg1.Serializable{
		Version: model.SemVer{1, 4, 5},
	}
	speed := 75.5
	s.Settings.Visible.Estimator.AverageSpeed = &speed
	b, err := json.Marshal(s)
	fmt.Println(err)
	fmt.Println(string(b))
	// Output:
	// <nil>
	// {"version":"1.4.5","estimator":{"average_speed":75.5,"cost_per_km":null,"currency_rate":null}}
}

func newConfig(t *testing.T) *cfg1.Config {
	speed, minSpeed, maxSpeed := 80.0, 20.0, 130.0
	c := &cfg1.Config{
		Auth: cfg1.Auth{
			Secret: "a-test-secret-which-is-long-enough-for-hs256",
		},
		Usecases: cfg1.Usecases{
			Estimator: cfg1.Estimator{
				AverageSpeed:    &speed,
				MinAverageSpeed: &minSpeed,
				MaxAverageSpeed: &maxSpeed,
			},
		},
		Vers: vers.Config{
			Versions: vers.Versions{
				Database: model.SemVer{1, 0, 0},
				Config:   cfg1.Version,
			},
		},
	}
	require.NoError(t, c.ValidateAndNormalize(), "validating config")
	return c
}

func TestMutateWithinBounds(t *testing.T) {
	c := newConfig(t)
	s := c.Serializable()
	speed, cost := 95.0, 0.5
	s.Settings.Visible.Estimator.AverageSpeed = &speed
	s.Settings.Visible.Estimator.CostPerKm = &cost
	require.NoError(t, c.Mutate(*s))
	assert.Equal(t, 95.0, *c.Usecases.Estimator.AverageSpeed)
	assert.Equal(t, 0.5, *c.Usecases.Estimator.CostPerKm)
	assert.Nil(t, c.Usecases.Estimator.CurrencyRate)

	v := c.Visible()
	require.NotNil(t, v.Immutable)
	assert.Equal(t, "TND", *v.Immutable.Currency)
	assert.False(t, *v.Immutable.Logger)
}

func TestMutateOutOfBounds(t *testing.T) {
	c := newConfig(t)
	s := c.Serializable()
	speed := 200.0
	s.Settings.Visible.Estimator.AverageSpeed = &speed
	err := c.Mutate(*s)
	var be settings.BoundsError
	require.True(t, errors.As(err, &be), "bounds error: %v", err)
	var obe *cfg1.OutOfBoundsSettingsError
	require.True(t, errors.As(err, &obe))
	require.NotNil(t, obe.Estimator.AverageSpeed)
	assert.Equal(t, 200.0, *obe.Estimator.AverageSpeed.Value)
	assert.Equal(t, 130.0, *c.Usecases.Estimator.AverageSpeed)
}

func TestMutateRejectsImmutable(t *testing.T) {
	c := newConfig(t)
	s := c.Serializable()
	s.Settings.Visible.Immutable = &cfg1.Immutable{}
	assert.Error(t, c.Mutate(*s))

	s = c.Serializable()
	s.Version = model.SemVer{1, 7, 0}
	assert.Error(t, c.Mutate(*s), "mismatching version")
}

func TestBounds(t *testing.T) {
	c := newConfig(t)
	minb, maxb := c.Bounds()
	assert.Equal(t, 20.0, *minb.Settings.Visible.Estimator.AverageSpeed)
	assert.Equal(t, 130.0, *maxb.Settings.Visible.Estimator.AverageSpeed)
	assert.Nil(t, minb.Settings.Visible.Estimator.CostPerKm)
	assert.Nil(t, maxb.Settings.Visible.Estimator.CurrencyRate)
}

func TestCloneIsIndependent(t *testing.T) {
	c := newConfig(t)
	cc := c.Clone()
	*cc.Usecases.Estimator.AverageSpeed = 60
	*cc.Gin.Logger = true
	assert.Equal(t, 80.0, *c.Usecases.Estimator.AverageSpeed)
	assert.False(t, *c.Gin.Logger)
}

func TestInvalidRange(t *testing.T) {
	minb, maxb := 10.0, 5.0
	c := &cfg1.Config{
		Auth: cfg1.Auth{
			Secret: "a-test-secret-which-is-long-enough-for-hs256",
		},
		Usecases: cfg1.Usecases{
			Estimator: cfg1.Estimator{
				MinCostPerKm: &minb,
				MaxCostPerKm: &maxb,
			},
		},
		Vers: vers.Config{
			Versions: vers.Versions{Config: cfg1.Version},
		},
	}
	assert.Error(t, c.ValidateAndNormalize())
}
