package bookingsuc

import (
	"errors"
	"time"

	"github.com/momeni/carpool/pkg/core/repo"
)

// Option is a functional option for the bookings use case.
type Option func(uc *UseCase) error

// WithNotifier option configures a bookings UseCase instance in order
// to notify drivers and passengers about their bookings using the n
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

// WithClock option replaces the time.Now function which is used for
// recording the reservation times.
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
