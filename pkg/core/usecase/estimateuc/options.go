// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package estimateuc

import (
	"errors"
	"fmt"
)

// Option is a functional option for the estimator use case.
type Option func(uc *UseCase) error

// positive returns an Option which validates and stores v in the
// field which is pointed to by f.
func positive(name string, v float64, f func(uc *UseCase) *float64) Option {
	return func(uc *UseCase) error {
		if v <= 0 {
			return fmt.Errorf("%s (%v) is not positive", name, v)
		}
		p := f(uc)
		if *p != 0 {
			return fmt.Errorf("%s is already configured", name)
		}
		*p = v
		return nil
	}
}

// WithAverageSpeed option configures the driving speed (in km/h)
// which is assumed for estimation of the trip durations.
func WithAverageSpeed(kmph float64) Option {
	return positive("average speed", kmph, func(uc *UseCase) *float64 {
		return &uc.speed
	})
}

// WithCostPerKm option configures the base fuel cost of driving for
// one kilometer.
func WithCostPerKm(cost float64) Option {
	return positive("cost per km", cost, func(uc *UseCase) *float64 {
		return &uc.costPerKm
	})
}

// WithCurrencyRate option configures the rate which converts the base
// fuel costs to the local currency.
func WithCurrencyRate(rate float64) Option {
	return positive("currency rate", rate, func(uc *UseCase) *float64 {
		return &uc.rate
	})
}

// WithCurrency option configures the reported currency code.
func WithCurrency(code string) Option {
	return func(uc *UseCase) error {
		if code == "" {
			return errors.New("currency code is empty")
		}
		if uc.currency != "" {
			return errors.New("currency is already configured")
		}
		uc.currency = code
		return nil
	}
}
