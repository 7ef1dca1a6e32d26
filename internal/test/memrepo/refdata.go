package memrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/cerr"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// Cities is the in-memory cities repository. Cities are kept in the
// order which they were given to Store.SetReferenceData.
type Cities struct{}

func (Cities) Conn(c repo.Conn) repo.CitiesQueryer {
	return citiesQueryer{connAccess(c)}
}

type citiesQueryer struct {
	access
}

func (q citiesQueryer) filter(
	keep func(c model.City) bool,
) (cs []model.City, err error) {
	err = q.run(func(st *state) error {
		cs = []model.City{}
		for _, c := range st.cities {
			if keep(c) {
				cs = append(cs, c)
			}
		}
		return nil
	})
	return
}

func (q citiesQueryer) List(context.Context) ([]model.City, error) {
	return q.filter(func(model.City) bool { return true })
}

func (q citiesQueryer) Get(
	_ context.Context, id uuid.UUID,
) (*model.City, error) {
	cs, err := q.filter(func(c model.City) bool { return c.ID == id })
	if err != nil {
		return nil, err
	}
	if len(cs) == 0 {
		return nil, cerr.NotFound(fmt.Errorf("city %s not found", id))
	}
	return &cs[0], nil
}

func (q citiesQueryer) SearchByName(
	_ context.Context, name string,
) ([]model.City, error) {
	name = strings.ToLower(name)
	return q.filter(func(c model.City) bool {
		return strings.Contains(strings.ToLower(c.Name), name)
	})
}

func (q citiesQueryer) ByName(
	_ context.Context, name string,
) (*model.City, error) {
	cs, err := q.filter(func(c model.City) bool { return c.Name == name })
	if err != nil {
		return nil, err
	}
	if len(cs) == 0 {
		return nil, cerr.NotFound(fmt.Errorf("city %q not found", name))
	}
	return &cs[0], nil
}

func (q citiesQueryer) ByCountry(
	_ context.Context, country string,
) ([]model.City, error) {
	return q.filter(func(c model.City) bool { return c.Country == country })
}

func (q citiesQueryer) ByPostalCode(
	_ context.Context, code string,
) ([]model.City, error) {
	return q.filter(func(c model.City) bool { return c.PostalCode == code })
}

// Options is the in-memory ride options repository.
type Options struct{}

func (Options) Conn(c repo.Conn) repo.OptionsQueryer {
	return optionsQueryer{connAccess(c)}
}

type optionsQueryer struct {
	access
}

func (q optionsQueryer) filter(
	keep func(o model.Option) bool,
) (opts []model.Option, err error) {
	err = q.run(func(st *state) error {
		opts = []model.Option{}
		for _, o := range st.options {
			if keep(o) {
				opts = append(opts, o)
			}
		}
		return nil
	})
	return
}

func (q optionsQueryer) ListActive(context.Context) ([]model.Option, error) {
	return q.filter(func(o model.Option) bool { return o.Active })
}

func (q optionsQueryer) Get(
	_ context.Context, id uuid.UUID,
) (*model.Option, error) {
	opts, err := q.filter(func(o model.Option) bool { return o.ID == id })
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, cerr.NotFound(fmt.Errorf("option %s not found", id))
	}
	return &opts[0], nil
}

func (q optionsQueryer) SearchByName(
	_ context.Context, name string,
) ([]model.Option, error) {
	name = strings.ToLower(name)
	return q.filter(func(o model.Option) bool {
		return strings.Contains(strings.ToLower(o.Name), name)
	})
}

func (q optionsQueryer) ByPriceRange(
	_ context.Context, minp, maxp float64,
) ([]model.Option, error) {
	return q.filter(func(o model.Option) bool {
		return o.Active && o.Price >= minp && o.Price <= maxp
	})
}
