package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/core/model"
)

// Cities is the read-only cities repository. Cities are filled by the
// migration use cases, hence, no transactional queryer is needed.
type Cities interface {
	Conn(Conn) CitiesQueryer
}

type CitiesQueryer interface {
	List(ctx context.Context) ([]model.City, error)
	Get(ctx context.Context, id uuid.UUID) (*model.City, error)
	// SearchByName finds cities which their names contain the given
	// name, case-insensitively.
	SearchByName(ctx context.Context, name string) ([]model.City, error)
	// ByName finds the city with exactly the given name.
	ByName(ctx context.Context, name string) (*model.City, error)
	ByCountry(ctx context.Context, country string) ([]model.City, error)
	ByPostalCode(ctx context.Context, code string) ([]model.City, error)
}

// Options is the read-only ride options repository.
type Options interface {
	Conn(Conn) OptionsQueryer
}

type OptionsQueryer interface {
	// ListActive lists active options, ordered by name.
	ListActive(ctx context.Context) ([]model.Option, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Option, error)
	SearchByName(ctx context.Context, name string) ([]model.Option, error)
	// ByPriceRange lists active options with min <= price <= max.
	ByPriceRange(ctx context.Context, min, max float64) ([]model.Option, error)
}
