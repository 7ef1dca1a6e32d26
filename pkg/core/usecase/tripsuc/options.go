// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tripsuc

import (
	"errors"
	"fmt"
	"time"

	"github.com/momeni/carpool/pkg/core/repo"
)

// Option is a functional option for the trips use case.
type Option func(uc *UseCase) error

// WithNotifier option configures a trips UseCase instance in order to
// publish the trip created and cancelled notifications using the n
// notifier. Without this option, no notification is published.
func WithNotifier(n repo.Notifier) Option {
	return func(uc *UseCase) error {
		if n == nil {
			return errors.New("notifier is nil")
		}
		if uc.notifier != nil {
			return errors.New("notifier is already configured")
		}
		uc.notifier = n
		return nil
	}
}

// WithHighPriceThreshold option configures the price per seat which
// trips more expensive than it receive a validation warning.
func WithHighPriceThreshold(price float64) Option {
	return func(uc *UseCase) error {
		if price <= 0 {
			return fmt.Errorf("price threshold (%v) is not positive", price)
		}
		if uc.highPrice != 0 {
			return errors.New("price threshold is already configured")
		}
		uc.highPrice = price
		return nil
	}
}

// WithCurrency option configures the currency code which is reported
// in the validation messages.
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

// WithClock option replaces the time.Now function which is used for
// checking the departure times.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}
