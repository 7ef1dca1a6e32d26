// Package citiesrp provides a reification of the repo.Cities interface.
// Cities are reference data which are inserted during the database
// initialization and are only read by the use cases.
package citiesrp

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/momeni/carpool/pkg/core/repo"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repo represents the cities repository.
type Repo struct {
}

// New instantiates a cities Repo struct.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by this adapter layer.
// Otherwise, it will panic.
func (cities *Repo) Conn(c repo.Conn) repo.CitiesQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) List(ctx context.Context) ([]model.City, error) {
	return List(ctx, cq.Conn)
}

func (cq connQueryer) Get(
	ctx context.Context, id uuid.UUID,
) (*model.City, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) SearchByName(
	ctx context.Context, name string,
) ([]model.City, error) {
	return SearchByName(ctx, cq.Conn, name)
}

func (cq connQueryer) ByName(
	ctx context.Context, name string,
) (*model.City, error) {
	return ByName(ctx, cq.Conn, name)
}

func (cq connQueryer) ByCountry(
	ctx context.Context, country string,
) ([]model.City, error) {
	return ByCountry(ctx, cq.Conn, country)
}

func (cq connQueryer) ByPostalCode(
	ctx context.Context, code string,
) ([]model.City, error) {
	return ByPostalCode(ctx, cq.Conn, code)
}
