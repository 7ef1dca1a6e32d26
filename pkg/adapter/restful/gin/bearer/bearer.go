// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bearer provides the gin middleware which authenticates the
// requests by their bearer tokens and keeps the resolved caller in the
// gin context, so resource packages may pass it to the use cases.
package bearer

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/usecase/authuc"
)

const callerKey = "carpool.caller"

var errMissingToken = errors.New("missing bearer token")

// Required returns a middleware which rejects requests without a valid
// Authorization bearer token. The auth getter is called per request
// because the use case objects may be replaced after settings updates.
func Required(auth func() *authuc.UseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			serdser.SerErr(c, cerr.Authentication(errMissingToken))
			c.Abort()
			return
		}
		caller, err := auth().Authenticate(c, strings.TrimSpace(token))
		if err != nil {
			serdser.SerErr(c, err)
			c.Abort()
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// Caller returns the authenticated caller of the c request. It must
// be called by handlers which are registered after Required.
func Caller(c *gin.Context) model.Caller {
	caller, _ := c.MustGet(callerKey).(model.Caller)
	return caller
}
