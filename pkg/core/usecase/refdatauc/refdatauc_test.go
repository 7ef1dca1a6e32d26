package refdatauc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/carpool/internal/test/memrepo"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/usecase/refdatauc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*refdatauc.UseCase, []model.City, []model.Option) {
	t.Helper()
	cs := []model.City{
		{ID: uuid.New(), Name: "Monastir", PostalCode: "5000", Country: "Tunisie"},
		{ID: uuid.New(), Name: "Sousse", PostalCode: "4000", Country: "Tunisie"},
		{ID: uuid.New(), Name: "Nice", PostalCode: "06000", Country: "France"},
	}
	opts := []model.Option{
		{ID: uuid.New(), Name: "Pet friendly", Price: 5, Active: true},
		{ID: uuid.New(), Name: "Extra luggage", Price: 10, Active: true},
		{ID: uuid.New(), Name: "Child seat", Price: 8, Active: false},
	}
	s := memrepo.New()
	s.SetReferenceData(cs, opts)
	return refdatauc.New(s, memrepo.Cities{}, memrepo.Options{}, ""), cs, opts
}

func TestCities(t *testing.T) {
	ctx := context.Background()
	rd, cs, _ := setup(t)

	all, err := rd.Cities(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	found, err := rd.SearchCities(ctx, "SOUS")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, cs[1].ID, found[0].ID)

	c, err := rd.CityByName(ctx, "Nice")
	require.NoError(t, err)
	assert.Equal(t, "France", c.Country)
	_, err = rd.CityByName(ctx, "nice")
	var ce *cerr.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusNotFound, ce.HTTPStatusCode)

	found, err = rd.CitiesByCountry(ctx, "Tunisie")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = rd.CitiesByPostalCode(ctx, "5000")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Monastir", found[0].Name)

	c, err = rd.City(ctx, cs[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "Nice", c.Name)

	_, err = rd.SearchCities(ctx, " ")
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusBadRequest, ce.HTTPStatusCode)
}

func TestOptions(t *testing.T) {
	ctx := context.Background()
	rd, _, opts := setup(t)

	active, err := rd.Options(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	o, err := rd.Option(ctx, opts[2].ID)
	require.NoError(t, err, "inactive options are still reachable by id")
	assert.False(t, o.Active)

	found, err := rd.SearchOptions(ctx, "luggage")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, opts[1].ID, found[0].ID)

	found, err = rd.OptionsByPriceRange(ctx, 6, 20)
	require.NoError(t, err)
	require.Len(t, found, 1, "child seat is inactive")
	assert.Equal(t, "Extra luggage", found[0].Name)

	_, err = rd.OptionsByPriceRange(ctx, 20, 6)
	assert.Error(t, err)
}

func TestFormData(t *testing.T) {
	rd, _, _ := setup(t)
	fd, err := rd.FormData(context.Background())
	require.NoError(t, err)
	assert.Len(t, fd.Cities, 3)
	assert.Len(t, fd.Options, 2)
	assert.Equal(t, refdatauc.VehicleTypes, fd.VehicleTypes)
	require.Len(t, fd.PriceRanges, 3)
	assert.Equal(t, model.PriceRange{
		Min: 32, Max: 64, Label: "Standard (32-64 TND)",
	}, fd.PriceRanges[1])
}
