// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/usecase/authuc"
	"github.com/momeni/carpool/pkg/core/usecase/bookingsuc"
	"github.com/momeni/carpool/pkg/core/usecase/estimateuc"
	"github.com/momeni/carpool/pkg/core/usecase/refdatauc"
	"github.com/momeni/carpool/pkg/core/usecase/tripsuc"
)

// Settings returns a copy of visible settings which are currently in
// effect, in addition to the minimum and maximum boundary values.
// The effective settings and use case objects which are built
// based on them (and other invisible settings) may be updated
// atomically, while they are exposed by a series of getter methods. At
// least one of Reload or UpdateSettings methods must be called before
// this (and other use case objects getter methods) may be called.
// The boundary values are shared and must not be modified.
func (app *UseCase) Settings() (
	vs model.VisibleSettings, minb, maxb *model.Settings,
) {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return *app.settings, app.minb, app.maxb
}

// updateAll atomically updates the visible settings and all other use
// case objects which are built based on these (visible and invisible)
// settings. This method minimizes the scope which needs to take a
// writing lock (after instantiating all relevant use case objects).
func (app *UseCase) updateAll(
	vs *model.VisibleSettings,
	minb, maxb *model.Settings,
	managed managedUseCases,
) {
	app.rwlock.Lock()
	defer app.rwlock.Unlock()
	app.settings = vs
	app.minb, app.maxb = minb, maxb
	app.managed = managed
}

// TripsUseCase returns the currently effective trips use case object.
func (app *UseCase) TripsUseCase() *tripsuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.managed.trips
}

// BookingsUseCase returns the currently effective bookings use case.
func (app *UseCase) BookingsUseCase() *bookingsuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.managed.bookings
}

// EstimateUseCase returns the currently effective estimator use case.
// It is rebuilt whenever the estimator settings are updated.
func (app *UseCase) EstimateUseCase() *estimateuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.managed.estimate
}

// RefDataUseCase returns the currently effective reference data
// (cities and options) use case.
func (app *UseCase) RefDataUseCase() *refdatauc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.managed.refData
}

// AuthUseCase returns the currently effective identity use case.
func (app *UseCase) AuthUseCase() *authuc.UseCase {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.managed.auth
}
