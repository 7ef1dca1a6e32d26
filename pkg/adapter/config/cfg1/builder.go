package cfg1

import (
	"github.com/momeni/carpool/pkg/core/repo"
	"github.com/momeni/carpool/pkg/core/usecase/appuc"
	"github.com/momeni/carpool/pkg/core/usecase/authuc"
	"github.com/momeni/carpool/pkg/core/usecase/bookingsuc"
	"github.com/momeni/carpool/pkg/core/usecase/estimateuc"
	"github.com/momeni/carpool/pkg/core/usecase/refdatauc"
	"github.com/momeni/carpool/pkg/core/usecase/tripsuc"
)

// NewAppUseCase instantiates the application use case which manages
// the settings and all other use cases.
func (c *Config) NewAppUseCase(
	p repo.Pool, s appuc.SettingsRepo, r appuc.Repos,
) (*appuc.UseCase, error) {
	return appuc.New(p, s, r), nil
}

// NewTripsUseCase instantiates a trips use case.
func (c *Config) NewTripsUseCase(
	p repo.Pool, r appuc.Repos,
) (*tripsuc.UseCase, error) {
	opts := make([]tripsuc.Option, 0, 3)
	if r.Notifier != nil {
		opts = append(opts, tripsuc.WithNotifier(r.Notifier))
	}
	if t := c.Usecases.Trips.HighPriceThreshold; t != nil {
		opts = append(opts, tripsuc.WithHighPriceThreshold(*t))
	}
	opts = append(opts, tripsuc.WithCurrency(c.Usecases.Currency))
	return tripsuc.New(p, r.Trips, r.Reservations, r.Users, opts...)
}

// NewBookingsUseCase instantiates a bookings use case.
func (c *Config) NewBookingsUseCase(
	p repo.Pool, r appuc.Repos,
) (*bookingsuc.UseCase, error) {
	var opts []bookingsuc.Option
	if r.Notifier != nil {
		opts = append(opts, bookingsuc.WithNotifier(r.Notifier))
	}
	return bookingsuc.New(p, r.Reservations, r.Trips, r.Users, opts...)
}

// NewEstimateUseCase instantiates a trip estimator use case. The
// uninitialized estimator settings keep their use case defaults.
func (c *Config) NewEstimateUseCase(
	p repo.Pool, r appuc.Repos,
) (*estimateuc.UseCase, error) {
	e := c.Usecases.Estimator
	opts := make([]estimateuc.Option, 0, 4)
	if e.AverageSpeed != nil {
		opts = append(opts, estimateuc.WithAverageSpeed(*e.AverageSpeed))
	}
	if e.CostPerKm != nil {
		opts = append(opts, estimateuc.WithCostPerKm(*e.CostPerKm))
	}
	if e.CurrencyRate != nil {
		opts = append(opts, estimateuc.WithCurrencyRate(*e.CurrencyRate))
	}
	opts = append(opts, estimateuc.WithCurrency(c.Usecases.Currency))
	return estimateuc.New(p, r.Cities, opts...)
}

// NewRefDataUseCase instantiates the cities and options use case.
func (c *Config) NewRefDataUseCase(
	p repo.Pool, r appuc.Repos,
) (*refdatauc.UseCase, error) {
	return refdatauc.New(p, r.Cities, r.Options, c.Usecases.Currency), nil
}

// NewAuthUseCase instantiates the identity use case with the configured
// password hasher and token issuer.
func (c *Config) NewAuthUseCase(
	p repo.Pool, r appuc.Repos,
) (*authuc.UseCase, error) {
	if c.Auth.hasher == nil || c.Auth.tokens == nil {
		return nil, errNotValidated
	}
	return authuc.New(p, r.Users, c.Auth.hasher, c.Auth.tokens), nil
}
