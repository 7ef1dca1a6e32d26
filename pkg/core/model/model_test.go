package model_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momeni/carpool/pkg/core/model"
)

func ExampleFormatDuration() {
	fmt.Println(model.FormatDuration(88))
	fmt.Println(model.FormatDuration(45))
	fmt.Println(model.FormatDuration(120))
	// Output:
	// 1h 28m
	// 45m
	// 2h 0m
}

func TestDistanceKm(t *testing.T) {
	tunis := model.Coordinate{Lat: 36.8065, Lon: 10.1815}
	sousse := model.Coordinate{Lat: 35.8256, Lon: 10.6084}
	paris := model.Coordinate{Lat: 48.8566, Lon: 2.3522}
	london := model.Coordinate{Lat: 51.5074, Lon: -0.1278}

	for _, tc := range []struct {
		name     string
		a, b     model.Coordinate
		expected float64
	}{
		{"same point", tunis, tunis, 0},
		{"tunis to sousse", tunis, sousse, 115.58},
		{"paris to london", paris, london, 343.56},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, tc.a.DistanceKm(tc.b), 0.05)
			assert.InDelta(t, tc.expected, tc.b.DistanceKm(tc.a), 0.05)
		})
	}
}

func TestCoordinateValidate(t *testing.T) {
	assert.NoError(t, model.Coordinate{Lat: 90, Lon: -180}.Validate())
	assert.Error(t, model.Coordinate{Lat: 90.5, Lon: 0}.Validate())
	assert.Error(t, model.Coordinate{Lat: 0, Lon: 181}.Validate())
}

func TestTripStatusText(t *testing.T) {
	for _, s := range []model.TripStatus{
		model.TripStatusPlanned, model.TripStatusActive,
		model.TripStatusCompleted, model.TripStatusCancelled,
	} {
		b, err := s.MarshalText()
		require.NoError(t, err)
		var parsed model.TripStatus
		require.NoError(t, parsed.UnmarshalText(b))
		assert.Equal(t, s, parsed)
	}
	_, err := model.TripStatusInvalid.MarshalText()
	assert.Equal(t, model.TripStatusError(0), err)
	_, err = model.ParseTripStatus("DRAFT")
	assert.ErrorIs(t, err, model.ErrUnknownTripStatus)

	assert.True(t, model.TripStatusCancelled.Terminal())
	assert.True(t, model.TripStatusCompleted.Terminal())
	assert.False(t, model.TripStatusActive.Terminal())
}

func TestTotalPrice(t *testing.T) {
	assert.Equal(t, 37.5, model.TotalPrice(12.5, 3))
	assert.Equal(t, 0.3, model.TotalPrice(0.1, 3))
	assert.Equal(t, 12.35, model.Round2(12.346))
}

func TestSemVerUnmarshalText(t *testing.T) {
	var sv model.SemVer
	require.NoError(t, sv.UnmarshalText([]byte("1.4")))
	assert.Equal(t, model.SemVer{1, 4, 0}, sv)
	assert.Equal(t, "1.4.0", sv.String())

	assert.Error(t, sv.UnmarshalText([]byte("1.x.0")))
	assert.Error(t, sv.UnmarshalText([]byte("1.2.3.4")))
	assert.Error(t, sv.UnmarshalText([]byte("1.-2.0")))
	assert.Equal(t, model.SemVer{1, 4, 0}, sv)
}
