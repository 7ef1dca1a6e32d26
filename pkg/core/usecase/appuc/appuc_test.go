package appuc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/carpool/internal/test/memrepo"
	"github.com/momeni/carpool/pkg/core/auth"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
	"github.com/momeni/carpool/pkg/core/usecase/appuc"
	"github.com/momeni/carpool/pkg/core/usecase/authuc"
	"github.com/momeni/carpool/pkg/core/usecase/bookingsuc"
	"github.com/momeni/carpool/pkg/core/usecase/estimateuc"
	"github.com/momeni/carpool/pkg/core/usecase/refdatauc"
	"github.com/momeni/carpool/pkg/core/usecase/tripsuc"
	"github.com/stretchr/testify/suite"
)

// builder mimics a configuration struct which carries the estimator
// average speed as its only mutable setting.
type builder struct {
	speed *float64
}

func (b builder) NewAppUseCase(
	p repo.Pool, s appuc.SettingsRepo, r appuc.Repos,
) (*appuc.UseCase, error) {
	return appuc.New(p, s, r), nil
}

func (b builder) NewTripsUseCase(
	p repo.Pool, r appuc.Repos,
) (*tripsuc.UseCase, error) {
	return tripsuc.New(p, r.Trips, r.Reservations, r.Users)
}

func (b builder) NewBookingsUseCase(
	p repo.Pool, r appuc.Repos,
) (*bookingsuc.UseCase, error) {
	return bookingsuc.New(p, r.Reservations, r.Trips, r.Users)
}

func (b builder) NewEstimateUseCase(
	p repo.Pool, r appuc.Repos,
) (*estimateuc.UseCase, error) {
	var opts []estimateuc.Option
	if b.speed != nil {
		opts = append(opts, estimateuc.WithAverageSpeed(*b.speed))
	}
	return estimateuc.New(p, r.Cities, opts...)
}

func (b builder) NewRefDataUseCase(
	p repo.Pool, r appuc.Repos,
) (*refdatauc.UseCase, error) {
	return refdatauc.New(p, r.Cities, r.Options, "TND"), nil
}

func (b builder) NewAuthUseCase(
	p repo.Pool, r appuc.Repos,
) (*authuc.UseCase, error) {
	return authuc.New(p, r.Users, plainHasher{}, nil), nil
}

type plainHasher struct{}

func (plainHasher) Hash(pass string) (string, error) {
	return "plain$" + pass, nil
}

func (plainHasher) Verify(hashed, pass string) error {
	if hashed != "plain$"+pass {
		return auth.ErrMismatchedPassword
	}
	return nil
}

// settingsRepo keeps the mutable settings in memory.
type settingsRepo struct {
	stored    model.EstimatorSettings
	failWrite bool
}

func (sr *settingsRepo) Conn(repo.Conn) appuc.SettingsConnQueryer {
	return sr
}

func (sr *settingsRepo) Tx(repo.Tx) appuc.SettingsTxQueryer {
	return sr
}

func (sr *settingsRepo) result() (
	appuc.Builder, *model.VisibleSettings, *model.Settings, *model.Settings,
	error,
) {
	minSpeed, maxSpeed := 20.0, 130.0
	minb := &model.Settings{}
	minb.Estimator.AverageSpeed = &minSpeed
	maxb := &model.Settings{}
	maxb.Estimator.AverageSpeed = &maxSpeed
	vs := &model.VisibleSettings{
		Estimator:         sr.stored,
		ImmutableSettings: &model.ImmutableSettings{Currency: "TND"},
	}
	return builder{speed: sr.stored.AverageSpeed}, vs, minb, maxb, nil
}

func (sr *settingsRepo) Fetch(context.Context) (
	appuc.Builder, *model.VisibleSettings, *model.Settings, *model.Settings,
	error,
) {
	return sr.result()
}

func (sr *settingsRepo) Update(_ context.Context, s *model.Settings) (
	appuc.Builder, *model.VisibleSettings, *model.Settings, *model.Settings,
	error,
) {
	if sr.failWrite {
		return nil, nil, nil, nil, errors.New("disk is full")
	}
	sr.stored = s.Estimator
	return sr.result()
}

type AppUseCaseTestSuite struct {
	suite.Suite

	Ctx      context.Context
	Settings *settingsRepo
	App      *appuc.UseCase
}

func TestAppUseCaseTestSuite(t *testing.T) {
	suite.Run(t, &AppUseCaseTestSuite{Ctx: context.Background()})
}

func (as *AppUseCaseTestSuite) SetupTest() {
	s := memrepo.New()
	lat1, lon1 := 36.8065, 10.1815
	lat2, lon2 := 35.8245, 10.6346
	s.SetReferenceData([]model.City{
		{ID: uuid.New(), Name: "Tunis", Lat: &lat1, Lon: &lon1},
		{ID: uuid.New(), Name: "Sousse", Lat: &lat2, Lon: &lon2},
	}, nil)
	as.Settings = &settingsRepo{}
	as.App = appuc.New(s, as.Settings, appuc.Repos{
		Trips:        memrepo.Trips{},
		Reservations: memrepo.Reservations{},
		Users:        memrepo.Users{},
		Cities:       memrepo.Cities{},
		Options:      memrepo.Options{},
	})
	as.Require().NoError(as.App.Reload(as.Ctx))
}

func (as *AppUseCaseTestSuite) durationMinutes() int {
	e, err := as.App.EstimateUseCase().EstimateTrip(as.Ctx, "Tunis", "Sousse")
	as.Require().NoError(err)
	return e.DurationMinutes
}

func (as *AppUseCaseTestSuite) TestReloadBuildsUseCases() {
	as.NotNil(as.App.TripsUseCase())
	as.NotNil(as.App.BookingsUseCase())
	as.NotNil(as.App.EstimateUseCase())
	as.NotNil(as.App.RefDataUseCase())
	as.NotNil(as.App.AuthUseCase())
	vs, minb, maxb := as.App.Settings()
	as.Nil(vs.Estimator.AverageSpeed)
	as.Equal("TND", vs.Currency)
	as.Equal(20.0, *minb.Estimator.AverageSpeed)
	as.Equal(130.0, *maxb.Estimator.AverageSpeed)
	as.Equal(87, as.durationMinutes())
}

func (as *AppUseCaseTestSuite) TestUpdateSwapsUseCases() {
	old := as.App.EstimateUseCase()
	speed := 60.0
	s := &model.Settings{}
	s.Estimator.AverageSpeed = &speed
	vs, _, _, err := as.App.UpdateSettings(as.Ctx, s)
	as.Require().NoError(err)
	as.Equal(60.0, *vs.Estimator.AverageSpeed)
	as.NotSame(old, as.App.EstimateUseCase())
	as.Equal(116, as.durationMinutes())

	current, _, _ := as.App.Settings()
	as.Equal(60.0, *current.Estimator.AverageSpeed)
}

func (as *AppUseCaseTestSuite) TestFailedUpdateKeepsUseCases() {
	old := as.App.EstimateUseCase()
	as.Settings.failWrite = true
	speed := 60.0
	s := &model.Settings{}
	s.Estimator.AverageSpeed = &speed
	_, _, _, err := as.App.UpdateSettings(as.Ctx, s)
	as.Require().Error(err)
	as.Same(old, as.App.EstimateUseCase())
	as.Equal(87, as.durationMinutes())
}
