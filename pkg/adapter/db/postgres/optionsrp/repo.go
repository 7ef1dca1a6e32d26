// Package optionsrp provides a reification of the repo.Options
// interface for the ride options reference data.
package optionsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

// Repo represents the options repository.
type Repo struct {
}

// New instantiates an options Repo struct.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn. Otherwise, it will panic.
func (options *Repo) Conn(c repo.Conn) repo.OptionsQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) ListActive(ctx context.Context) ([]model.Option, error) {
	return ListActive(ctx, cq.Conn)
}

func (cq connQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (*model.Option, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) SearchByName(
	ctx context.Context, name string,
) ([]model.Option, error) {
	return SearchByName(ctx, cq.Conn, name)
}

func (cq connQueryer) ByPriceRange(
	ctx context.Context, minp, maxp float64,
) ([]model.Option, error) {
	return ByPriceRange(ctx, cq.Conn, minp, maxp)
}
