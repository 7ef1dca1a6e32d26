// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/carpool/internal/test/dbcontainer"
	"github.com/momeni/carpool/pkg/adapter/config/cfg1"
	"github.com/momeni/carpool/pkg/adapter/config/settings"
	"github.com/momeni/carpool/pkg/adapter/config/vers"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/adapter/db/postgres/migration/settle/stlmig1"
	"github.com/momeni/carpool/pkg/adapter/hash"
	"github.com/momeni/carpool/pkg/adapter/notify/lognotify"
	"github.com/momeni/carpool/pkg/adapter/restful/gin"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/routes"
	"github.com/momeni/carpool/pkg/adapter/restful/gin/settingsrs"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
	"github.com/stretchr/testify/suite"
)

type IntegrationGinTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Gin  *gin.Engine
}

func TestIntegrationGinTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationGinTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
	})
}

func floatAddr(f float64) *float64 {
	return &f
}

func (igts *IntegrationGinTestSuite) SetupSuite() {
	c := &cfg1.Config{
		Auth: cfg1.Auth{
			Secret: "a-test-secret-which-is-long-enough-for-hs256",
		},
		Usecases: cfg1.Usecases{
			Estimator: cfg1.Estimator{
				AverageSpeed:    floatAddr(80),
				MinAverageSpeed: floatAddr(30),
				MaxAverageSpeed: floatAddr(120),
			},
		},
		Vers: vers.Config{
			Versions: vers.Versions{
				Database: model.SemVer{1, 0, 0},
				Config:   cfg1.Version,
			},
		},
	}
	igts.Require().NoError(c.ValidateAndNormalize(), "invalid config")
	ms, err := settings.Adapter[*cfg1.Config, cfg1.Serializable]{
		Config: c,
	}.Serialize()
	igts.Require().NoError(err, "failed to serialize settings")
	h, err := hash.New("")
	igts.Require().NoError(err, "failed to create hasher")
	err = igts.Pool.Conn(
		igts.Ctx, func(ctx context.Context, c repo.Conn) error {
			return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
				sm1 := stlmig1.New(tx, h)
				if err := sm1.InitDevSchema(ctx); err != nil {
					return err
				}
				return sm1.PersistSettings(ctx, ms)
			})
		},
	)
	igts.Require().NoError(err, "failed to create schema contents")

	igts.Gin = gin.New(gin.Logger(), gin.Recovery())
	igts.Require().NotNil(igts.Gin, "cannot instantiate Gin engine")
	_, err = routes.Register(
		igts.Ctx, igts.Gin, igts.Pool, c, lognotify.Notifier{},
	)
	igts.Require().NoError(err, "failed to register Gin routes")
}

// call sends a JSON request, with an optional bearer token, and
// decodes the JSON response into res (if it is not nil).
func (igts *IntegrationGinTestSuite) call(
	method, path, token string, body, res any,
) int {
	var b []byte
	if body != nil {
		var err error
		b, err = json.Marshal(body)
		igts.Require().NoError(err, "cannot encode request body")
	}
	req, err := http.NewRequest(
		method, routes.Prefix+path, bytes.NewReader(b),
	)
	igts.Require().NoError(err, "cannot create request")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	igts.Gin.ServeHTTP(w, req)
	if res != nil && w.Body.Len() > 0 {
		igts.NoError(json.Unmarshal(w.Body.Bytes(), res), "body is not json")
	}
	return w.Code
}

func (igts *IntegrationGinTestSuite) signIn(username string) string {
	s := &model.Session{}
	code := igts.call(http.MethodPost, "/auth/signin", "", map[string]any{
		"username_or_email": username,
		"password":          stlmig1.DevPassword,
	}, s)
	igts.Require().Equal(http.StatusOK, code, "sign in failed")
	igts.Require().NotEmpty(s.Token, "empty token")
	igts.Equal("Bearer", s.Type)
	return s.Token
}

type detailResp struct {
	Detail json.RawMessage `json:"detail"`
}

func (igts *IntegrationGinTestSuite) TestUnauthenticated() {
	for _, token := range []string{"", "not-a-jwt"} {
		res := &detailResp{}
		code := igts.call(http.MethodGet, "/trips/my-trips", token, nil, res)
		igts.Equal(http.StatusUnauthorized, code)
		igts.NotEmpty(res.Detail)
	}
}

func (igts *IntegrationGinTestSuite) TestWrongPassword() {
	res := &detailResp{}
	code := igts.call(http.MethodPost, "/auth/signin", "", map[string]any{
		"username_or_email": stlmig1.DevDriver,
		"password":          "wrong-password",
	}, res)
	igts.Equal(http.StatusUnauthorized, code)
}

func (igts *IntegrationGinTestSuite) TestCities() {
	var cs []model.City
	code := igts.call(http.MethodGet, "/cities", "", nil, &cs)
	igts.Equal(http.StatusOK, code)
	igts.Len(cs, len(stlmig1.Cities))

	city := &model.City{}
	code = igts.call(
		http.MethodGet,
		"/cities/"+stlmig1.SeedID("cities", "Sfax").String(),
		"", nil, city,
	)
	igts.Equal(http.StatusOK, code)
	igts.Equal("Sfax", city.Name)

	code = igts.call(
		http.MethodGet, "/cities/"+uuid.NewString(), "", nil, nil,
	)
	igts.Equal(http.StatusNotFound, code)

	code = igts.call(http.MethodGet, "/cities/search", "", nil, nil)
	igts.Equal(http.StatusBadRequest, code, "name is required")
}

func (igts *IntegrationGinTestSuite) TestEstimate() {
	token := igts.signIn(stlmig1.DevDriver)
	e := &model.Estimate{}
	code := igts.call(
		http.MethodPost, "/trip-creation/estimate", token,
		map[string]any{
			"departure_address": "Tunis",
			"arrival_address":   "Sousse",
		}, e,
	)
	igts.Equal(http.StatusOK, code)
	igts.Equal(model.EstimateResolved, e.Source)
	igts.InDelta(117, e.DistanceKm, 2)
	igts.Equal("TND", e.Currency)
}

func (igts *IntegrationGinTestSuite) tripBody(maxSeats int) map[string]any {
	return map[string]any{
		"departure_time": time.Now().Add(72 * time.Hour),
		"price_per_seat": 12.5,
		"max_seats":      maxSeats,
		"description":    "Morning ride",
		"start_point": map[string]any{
			"latitude": 36.8065, "longitude": 10.1815, "address": "Tunis",
		},
		"end_point": map[string]any{
			"latitude": 34.7406, "longitude": 10.7603, "address": "Sfax",
		},
		"city_ids": []uuid.UUID{
			stlmig1.SeedID("cities", "Tunis"),
			stlmig1.SeedID("cities", "Sfax"),
		},
	}
}

func (igts *IntegrationGinTestSuite) TestTripAndBookingLifecycle() {
	driver := igts.signIn(stlmig1.DevDriver)
	passenger := igts.signIn(stlmig1.DevPassenger)

	tv := &model.TripView{}
	code := igts.call(http.MethodPost, "/trips", driver, igts.tripBody(4), tv)
	igts.Require().Equal(http.StatusCreated, code)
	igts.Equal(4, tv.AvailableSeats)
	igts.Equal(model.TripStatusPlanned, tv.Status)
	igts.Len(tv.Points, 2)
	igts.Len(tv.Cities, 2)
	tripID := tv.ID.String()

	code = igts.call(http.MethodPost, "/trips", passenger, igts.tripBody(4), nil)
	igts.Equal(http.StatusForbidden, code, "passengers may not publish")

	rv := &model.ReservationView{}
	code = igts.call(http.MethodPost, "/bookings", passenger, map[string]any{
		"trip_id":         tv.ID,
		"number_of_seats": 3,
	}, rv)
	igts.Require().Equal(http.StatusCreated, code)
	igts.Equal(model.ReservationStatusPending, rv.Status)
	igts.InDelta(37.5, rv.TotalPrice, 0.001)

	code = igts.call(http.MethodGet, "/trips/"+tripID, "", nil, tv)
	igts.Equal(http.StatusUnauthorized, code)
	code = igts.call(http.MethodGet, "/trips/"+tripID, passenger, nil, tv)
	igts.Equal(http.StatusOK, code)
	igts.Equal(1, tv.AvailableSeats)

	code = igts.call(http.MethodPost, "/bookings", passenger, map[string]any{
		"trip_id":         tv.ID,
		"number_of_seats": 2,
	}, nil)
	igts.Equal(http.StatusConflict, code, "not enough seats")

	bookingID := rv.ID.String()
	code = igts.call(
		http.MethodPost, "/bookings/"+bookingID+"/confirm", passenger, nil, nil,
	)
	igts.Equal(http.StatusForbidden, code, "only the driver confirms")
	code = igts.call(
		http.MethodPost, "/bookings/"+bookingID+"/confirm", driver, nil, rv,
	)
	igts.Equal(http.StatusOK, code)
	igts.Equal(model.ReservationStatusConfirmed, rv.Status)

	var rvs []model.ReservationView
	code = igts.call(http.MethodGet, "/bookings/trip/"+tripID, driver, nil, &rvs)
	igts.Equal(http.StatusOK, code)
	igts.Len(rvs, 1)

	code = igts.call(http.MethodPut, "/trips/"+tripID, driver, igts.tripBody(2), nil)
	igts.Equal(http.StatusConflict, code, "max seats below confirmed")

	code = igts.call(http.MethodDelete, "/trips/"+tripID, driver, nil, nil)
	igts.Equal(http.StatusConflict, code, "trip has bookings")

	code = igts.call(
		http.MethodPost, "/bookings/"+bookingID+"/cancel", passenger, nil, rv,
	)
	igts.Equal(http.StatusOK, code)
	igts.Equal(model.ReservationStatusCancelled, rv.Status)
	code = igts.call(http.MethodGet, "/trips/"+tripID, driver, nil, tv)
	igts.Equal(http.StatusOK, code)
	igts.Equal(4, tv.AvailableSeats)

	code = igts.call(
		http.MethodPost, "/trips/"+tripID+"/complete", driver, nil, nil,
	)
	igts.Equal(http.StatusConflict, code, "planned trips are not complete")
	code = igts.call(http.MethodPost, "/trips/"+tripID+"/start", driver, nil, tv)
	igts.Equal(http.StatusOK, code)
	igts.Equal(model.TripStatusActive, tv.Status)
	code = igts.call(
		http.MethodPost, "/trips/"+tripID+"/complete", driver, nil, tv,
	)
	igts.Equal(http.StatusOK, code)
	igts.Equal(model.TripStatusCompleted, tv.Status)
	code = igts.call(http.MethodPost, "/trips/"+tripID+"/cancel", driver, nil, nil)
	igts.Equal(http.StatusConflict, code, "completed trips stay completed")
}

func (igts *IntegrationGinTestSuite) TestBookingBadRequest() {
	passenger := igts.signIn(stlmig1.DevPassenger)
	res := &struct {
		Detail map[string][]string `json:"detail"`
	}{}
	code := igts.call(http.MethodPost, "/bookings", passenger, map[string]any{
		"number_of_seats": 9,
	}, res)
	igts.Equal(http.StatusBadRequest, code)
	igts.Contains(res.Detail, "TripID")
	igts.Contains(res.Detail, "Seats")

	code = igts.call(http.MethodGet, "/bookings/not-a-uuid", passenger, nil, nil)
	igts.Equal(http.StatusBadRequest, code)
}

func (igts *IntegrationGinTestSuite) TestSearch() {
	passenger := igts.signIn(stlmig1.DevPassenger)
	var tvs []model.TripView
	code := igts.call(http.MethodPost, "/trips/search", passenger, map[string]any{
		"departure_time":  time.Now().Add(time.Hour),
		"number_of_seats": 2,
	}, &tvs)
	igts.Equal(http.StatusOK, code)
	for _, tv := range tvs {
		igts.GreaterOrEqual(tv.AvailableSeats, 2)
		igts.Equal(model.TripStatusPlanned, tv.Status)
	}

	code = igts.call(http.MethodPost, "/trips/search", passenger, map[string]any{
		"departure_time":   time.Now().Add(time.Hour),
		"search_radius_km": 150,
	}, nil)
	igts.Equal(http.StatusBadRequest, code)
}

func (igts *IntegrationGinTestSuite) TestSettings() {
	driver := igts.signIn(stlmig1.DevDriver)
	admin := igts.signIn(stlmig1.DevAdmin)

	res := &settingsrs.SettingsResp{}
	code := igts.call(http.MethodGet, "/settings", driver, nil, res)
	igts.Require().Equal(http.StatusOK, code)
	igts.Require().NotNil(res.Settings.ImmutableSettings)
	igts.Equal("TND", res.Settings.Currency)
	igts.Equal(120.0, *res.MaxBounds.Estimator.AverageSpeed)

	patch := map[string]any{
		"estimator": map[string]any{"average_speed": 95},
	}
	code = igts.call(http.MethodPatch, "/settings", driver, patch, nil)
	igts.Equal(http.StatusForbidden, code)

	code = igts.call(http.MethodPatch, "/settings", admin, patch, res)
	igts.Require().Equal(http.StatusOK, code)
	igts.Equal(95.0, *res.Settings.Estimator.AverageSpeed)

	patch = map[string]any{
		"estimator": map[string]any{"average_speed": 200},
	}
	code = igts.call(http.MethodPatch, "/settings", admin, patch, nil)
	igts.Equal(http.StatusBadRequest, code, "out of bounds")
	code = igts.call(http.MethodGet, "/settings", admin, nil, res)
	igts.Equal(http.StatusOK, code)
	igts.Equal(95.0, *res.Settings.Estimator.AverageSpeed)
}
