// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carpool/pkg/adapter/config/cfg1"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/citiesrp"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/optionsrp"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/reservationsrp"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/settingsrp"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/tripsrp"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/authrs"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/bearer"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/bookingsrs"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/citiesrs"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/optionsrs"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/settingsrs"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/tripcreationrs"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/tripsrs"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/usersrs"
	"github.com/momeni/carpool/pkg/core/repo"
	"github.com/momeni/carpool/pkg/core/usecase/appuc"
)

// Prefix is the path prefix of all REST APIs.
const Prefix = "/api/carpool/v1"

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. These connections/transactions will be
// passed to the repositories later in order to run relevant queries on
// them and accomplish those use cases. Each use case package is named
// like tripsuc and each repository package is named like tripsrp.
// Register instantiates a series of "resource" structs, from packages
// which are named like tripsrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance.
// The n notifier receives the trip and booking events.
// Possible errors will be returned after possible wrapping.
// Actual instantiation of use case objects are delegated to the
// c Config instance and the appuc use case.
func Register(
	ctx context.Context,
	e *gin.Engine,
	p repo.Pool,
	c *cfg1.Config,
	n repo.Notifier,
) (*appuc.UseCase, error) {
	settingsRepo := settingsrp.New(c)
	repos := appuc.Repos{
		Trips:        tripsrp.New(),
		Reservations: reservationsrp.New(),
		Users:        usersrp.New(),
		Cities:       citiesrp.New(),
		Options:      optionsrp.New(),
		Notifier:     n,
	}
	appUseCase, err := c.NewAppUseCase(p, settingsRepo, repos)
	if err != nil {
		return nil, fmt.Errorf("creating application use case: %w", err)
	}
	err = appUseCase.Reload(ctx)
	if err != nil {
		return nil, fmt.Errorf("reloading use cases based on DB: %w", err)
	}
	r := e.Group(Prefix)
	authrs.Register(r, appUseCase)
	citiesrs.Register(r, appUseCase)
	optionsrs.Register(r, appUseCase)

	ar := r.Group("", bearer.Required(appUseCase.AuthUseCase))
	usersrs.Register(ar, appUseCase)
	tripsrs.Register(ar, appUseCase)
	tripcreationrs.Register(ar, appUseCase)
	bookingsrs.Register(ar, appUseCase)
	settingsrs.Register(ar, appUseCase)
	return appUseCase, nil
}
