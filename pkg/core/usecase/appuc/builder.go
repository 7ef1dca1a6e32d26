// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/carpool/pkg/core/repo"
	"github.com/momeni/carpool/pkg/core/usecase/authuc"
	"github.com/momeni/carpool/pkg/core/usecase/bookingsuc"
	"github.com/momeni/carpool/pkg/core/usecase/estimateuc"
	"github.com/momeni/carpool/pkg/core/usecase/refdatauc"
	"github.com/momeni/carpool/pkg/core/usecase/tripsuc"
)

// Builder interface represents the expectations from the application
// use case builders. All use cases which can be instantiated by a
// configuration struct have one NewX method here which takes database
// connection pool and their repository packages dependencies. The
// configuration struct must implement this interface, take repository
// packages and create use case objects, passing the relevant settings
// to them as their functional options.
type Builder interface {
	// NewAppUseCase creates a new application use case. This use case
	// needs a SettingsRepo in order to fetch or update mutable settings
	// from the database. It also needs to take all repository instances
	// which may be required by other use cases because it needs to pass
	// them to the Builder instance again after reloading or updating
	// settings, changing the mutable settings in the database and
	// memory.
	//
	// When settings are updated and a new Builder instance is obtained,
	// it can be asked to create new use case objects. They replace their
	// old instances as opaque objects. This replacement strategy requires
	// the resources packages to ask this application UseCase for the
	// actual use case objects, right before using them, so they can be
	// fetched or updated atomically as managed by the application
	// UseCase.
	NewAppUseCase(p repo.Pool, s SettingsRepo, r Repos) (*UseCase, error)

	// NewTripsUseCase creates a new tripsuc UseCase object.
	NewTripsUseCase(p repo.Pool, r Repos) (*tripsuc.UseCase, error)

	// NewBookingsUseCase creates a new bookingsuc UseCase object.
	NewBookingsUseCase(p repo.Pool, r Repos) (*bookingsuc.UseCase, error)

	// NewEstimateUseCase creates a new estimateuc UseCase object which
	// uses the mutable estimator settings.
	NewEstimateUseCase(p repo.Pool, r Repos) (*estimateuc.UseCase, error)

	// NewRefDataUseCase creates a new refdatauc UseCase object.
	NewRefDataUseCase(p repo.Pool, r Repos) (*refdatauc.UseCase, error)

	// NewAuthUseCase creates a new authuc UseCase object having the
	// configured password hasher and token issuer.
	NewAuthUseCase(p repo.Pool, r Repos) (*authuc.UseCase, error)
}
