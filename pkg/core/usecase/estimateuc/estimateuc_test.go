package estimateuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/carpool/internal/test/memrepo"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/usecase/estimateuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func city(name string, coords ...float64) model.City {
	c := model.City{ID: uuid.New(), Name: name, Country: "Tunisie"}
	if len(coords) == 2 {
		c.Lat, c.Lon = &coords[0], &coords[1]
	}
	return c
}

func newStore() *memrepo.Store {
	s := memrepo.New()
	s.SetReferenceData([]model.City{
		city("Tunis Carthage", 36.8510, 10.2272),
		city("Tunis", 36.8065, 10.1815),
		city("Sousse", 35.8245, 10.6346),
		city("Kebili"),
	}, nil)
	return s
}

func TestEstimateTrip(t *testing.T) {
	ctx := context.Background()
	uc, err := estimateuc.New(newStore(), memrepo.Cities{})
	require.NoError(t, err)

	e, err := uc.EstimateTrip(ctx, " tunis ", "Sous")
	require.NoError(t, err)
	assert.Equal(t, model.EstimateResolved, e.Source)
	assert.Equal(t, "tunis", e.From)
	assert.Equal(t, 36.8065, e.FromCoordinate.Lat, "exact match wins")
	assert.Equal(t, 10.6346, e.ToCoordinate.Lon)
	assert.InDelta(t, 116.5, e.DistanceKm, 0.05)
	assert.Equal(t, 87, e.DurationMinutes)
	assert.Equal(t, "1h 27m", e.Duration)
	assert.InDelta(t, 55.92, e.Cost, 0.01)
	assert.Equal(t, "TND", e.Currency)
}

func TestEstimateFallback(t *testing.T) {
	ctx := context.Background()
	uc, err := estimateuc.New(newStore(), memrepo.Cities{})
	require.NoError(t, err)

	for _, to := range []string{"Atlantis", "Kebili"} {
		e, err := uc.EstimateTrip(ctx, "Tunis", to)
		require.NoError(t, err, "to: %s", to)
		assert.Equal(t, model.EstimateFallback, e.Source, "to: %s", to)
		assert.Equal(t, estimateuc.FallbackDistanceKm, e.DistanceKm)
		assert.Equal(t, model.Coordinate{}, e.FromCoordinate)
		assert.Equal(t, model.Coordinate{}, e.ToCoordinate)
		assert.Equal(t, "1h 15m", e.Duration)
		assert.InDelta(t, 48.0, e.Cost, 0.001)
	}

	_, err = uc.EstimateTrip(ctx, "Tunis", "  ")
	var ce *cerr.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusBadRequest, ce.HTTPStatusCode)
}

func TestOptions(t *testing.T) {
	uc, err := estimateuc.New(
		newStore(), memrepo.Cities{},
		estimateuc.WithAverageSpeed(100),
		estimateuc.WithCostPerKm(0.1),
		estimateuc.WithCurrencyRate(1),
		estimateuc.WithCurrency("EUR"),
	)
	require.NoError(t, err)
	e, err := uc.EstimateTrip(context.Background(), "Tunis", "Sousse")
	require.NoError(t, err)
	assert.Equal(t, "1h 9m", e.Duration)
	assert.InDelta(t, 11.65, e.Cost, 0.01)
	assert.Equal(t, "EUR", e.Currency)

	_, err = estimateuc.New(
		newStore(), memrepo.Cities{}, estimateuc.WithAverageSpeed(0),
	)
	assert.Error(t, err)
	_, err = estimateuc.New(
		newStore(), memrepo.Cities{},
		estimateuc.WithCurrency("EUR"), estimateuc.WithCurrency("USD"),
	)
	assert.Error(t, err)
}
