// Package refdatauc contains the reference data UseCase which serves
// the read-mostly cities and ride options lookups and aggregates them
// for presentation in the trip creation forms.
package refdatauc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// VehicleTypes lists the vehicle types which may be chosen by drivers.
var VehicleTypes = []string{"SEDAN", "SUV", "HATCHBACK", "CONVERTIBLE", "TRUCK"}

// UseCase represents the reference data use case.
type UseCase struct {
	pool      repo.Pool
	citiesrp  repo.Cities
	optionsrp repo.Options

	currency string
}

// New instantiates a reference data use case. The currency is used
// for labelling the suggested price ranges and defaults to TND.
func New(
	p repo.Pool, cities repo.Cities, options repo.Options, currency string,
) *UseCase {
	if currency == "" {
		currency = "TND"
	}
	return &UseCase{
		pool:      p,
		citiesrp:  cities,
		optionsrp: options,
		currency:  currency,
	}
}

func (rd *UseCase) cities(
	ctx context.Context, f func(q repo.CitiesQueryer) error,
) error {
	return rd.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return f(rd.citiesrp.Conn(c))
	})
}

func (rd *UseCase) options(
	ctx context.Context, f func(q repo.OptionsQueryer) error,
) error {
	return rd.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return f(rd.optionsrp.Conn(c))
	})
}

// Cities lists all cities ordered by their names.
func (rd *UseCase) Cities(ctx context.Context) (cs []model.City, err error) {
	err = rd.cities(ctx, func(q repo.CitiesQueryer) error {
		cs, err = q.List(ctx)
		return err
	})
	return
}

// City finds the id city.
func (rd *UseCase) City(
	ctx context.Context, id uuid.UUID,
) (c *model.City, err error) {
	err = rd.cities(ctx, func(q repo.CitiesQueryer) error {
		c, err = q.Get(ctx, id)
		return err
	})
	return
}

// SearchCities lists cities whose names contain the name string,
// ignoring the case.
func (rd *UseCase) SearchCities(
	ctx context.Context, name string,
) (cs []model.City, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, cerr.BadRequest(errors.New("name is required"))
	}
	err = rd.cities(ctx, func(q repo.CitiesQueryer) error {
		cs, err = q.SearchByName(ctx, name)
		return err
	})
	return
}

// CityByName finds the city with exactly the given name.
func (rd *UseCase) CityByName(
	ctx context.Context, name string,
) (c *model.City, err error) {
	err = rd.cities(ctx, func(q repo.CitiesQueryer) error {
		c, err = q.ByName(ctx, name)
		return err
	})
	return
}

// CitiesByCountry lists the cities of a country.
func (rd *UseCase) CitiesByCountry(
	ctx context.Context, country string,
) (cs []model.City, err error) {
	err = rd.cities(ctx, func(q repo.CitiesQueryer) error {
		cs, err = q.ByCountry(ctx, country)
		return err
	})
	return
}

// CitiesByPostalCode lists the cities with the given postal code.
func (rd *UseCase) CitiesByPostalCode(
	ctx context.Context, code string,
) (cs []model.City, err error) {
	err = rd.cities(ctx, func(q repo.CitiesQueryer) error {
		cs, err = q.ByPostalCode(ctx, code)
		return err
	})
	return
}

// Options lists the active ride options.
func (rd *UseCase) Options(
	ctx context.Context,
) (opts []model.Option, err error) {
	err = rd.options(ctx, func(q repo.OptionsQueryer) error {
		opts, err = q.ListActive(ctx)
		return err
	})
	return
}

// Option finds the id ride option, active or not.
func (rd *UseCase) Option(
	ctx context.Context, id uuid.UUID,
) (o *model.Option, err error) {
	err = rd.options(ctx, func(q repo.OptionsQueryer) error {
		o, err = q.Get(ctx, id)
		return err
	})
	return
}

// SearchOptions lists options whose names contain the name string,
// ignoring the case.
func (rd *UseCase) SearchOptions(
	ctx context.Context, name string,
) (opts []model.Option, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, cerr.BadRequest(errors.New("name is required"))
	}
	err = rd.options(ctx, func(q repo.OptionsQueryer) error {
		opts, err = q.SearchByName(ctx, name)
		return err
	})
	return
}

// OptionsByPriceRange lists the active options whose prices are in
// the [minPrice, maxPrice] range.
func (rd *UseCase) OptionsByPriceRange(
	ctx context.Context, minPrice, maxPrice float64,
) (opts []model.Option, err error) {
	if minPrice < 0 || maxPrice < minPrice {
		return nil, cerr.BadRequest(fmt.Errorf(
			"invalid price range [%v, %v]", minPrice, maxPrice,
		))
	}
	err = rd.options(ctx, func(q repo.OptionsQueryer) error {
		opts, err = q.ByPriceRange(ctx, minPrice, maxPrice)
		return err
	})
	return
}

// FormData aggregates all cities, the active options, vehicle types,
// and the suggested price ranges which are needed by the trip
// creation forms.
func (rd *UseCase) FormData(
	ctx context.Context,
) (fd *model.FormData, err error) {
	fd = &model.FormData{
		VehicleTypes: VehicleTypes,
		PriceRanges:  PriceRanges(rd.currency),
	}
	err = rd.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if fd.Cities, err = rd.citiesrp.Conn(c).List(ctx); err != nil {
			return fmt.Errorf("listing cities: %w", err)
		}
		if fd.Options, err = rd.optionsrp.Conn(c).ListActive(ctx); err != nil {
			return fmt.Errorf("listing options: %w", err)
		}
		return nil
	})
	if err != nil {
		fd = nil
	}
	return
}

// PriceRanges returns the suggested ranges of the price per seat,
// labelled with the currency code.
func PriceRanges(currency string) []model.PriceRange {
	r := func(minp, maxp float64, label string) model.PriceRange {
		return model.PriceRange{
			Min:   minp,
			Max:   maxp,
			Label: fmt.Sprintf("%s (%v-%v %s)", label, minp, maxp, currency),
		}
	}
	return []model.PriceRange{
		r(16, 32, "Budget"),
		r(32, 64, "Standard"),
		r(64, 160, "Premium"),
	}
}
