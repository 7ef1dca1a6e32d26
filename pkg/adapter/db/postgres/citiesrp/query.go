package citiesrp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/core/model"
)

type gCity struct {
	ID         uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name       string
	PostalCode string
	Country    string
	Lat        *float64
	Lon        *float64
}

func (gc *gCity) TableName() string {
	return "cities"
}

func (gc *gCity) Model() model.City {
	return model.City{
		ID:         gc.ID,
		Name:       gc.Name,
		PostalCode: gc.PostalCode,
		Country:    gc.Country,
		Lat:        gc.Lat,
		Lon:        gc.Lon,
	}
}

// List returns all cities ordered by name.
func List[Q postgres.Queryer](ctx context.Context, q Q) ([]model.City, error) {
	return where(ctx, q, "TRUE")
}

// Get finds the id city.
func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.City, error) {
	var gc gCity
	if err := q.GORM(ctx).Where("id = ?", id).Take(&gc).Error; err != nil {
		return nil, postgres.TranslateError(err, fmt.Sprintf("city %s", id))
	}
	c := gc.Model()
	return &c, nil
}

// SearchByName lists cities which their names contain name, ignoring
// the letter cases.
func SearchByName[Q postgres.Queryer](
	ctx context.Context, q Q, name string,
) ([]model.City, error) {
	return where(ctx, q, "name ILIKE ?", "%"+escapeLike(name)+"%")
}

// ByName finds the city which is exactly named name.
func ByName[Q postgres.Queryer](
	ctx context.Context, q Q, name string,
) (*model.City, error) {
	var gc gCity
	if err := q.GORM(ctx).Where("name = ?", name).Take(&gc).Error; err != nil {
		return nil, postgres.TranslateError(err, fmt.Sprintf("city %q", name))
	}
	c := gc.Model()
	return &c, nil
}

func ByCountry[Q postgres.Queryer](
	ctx context.Context, q Q, country string,
) ([]model.City, error) {
	return where(ctx, q, "country = ?", country)
}

func ByPostalCode[Q postgres.Queryer](
	ctx context.Context, q Q, code string,
) ([]model.City, error) {
	return where(ctx, q, "postal_code = ?", code)
}

// ByIDs lists the cities with the given ids, ordered by name.
func ByIDs[Q postgres.Queryer](
	ctx context.Context, q Q, ids []uuid.UUID,
) ([]model.City, error) {
	if len(ids) == 0 {
		return []model.City{}, nil
	}
	return where(ctx, q, "id IN ?", ids)
}

func where[Q postgres.Queryer](
	ctx context.Context, q Q, cond string, args ...any,
) ([]model.City, error) {
	var gcs []gCity
	err := q.GORM(ctx).Where(cond, args...).Order("name").Find(&gcs).Error
	if err != nil {
		return nil, fmt.Errorf("finding cities: %w", err)
	}
	cs := make([]model.City, 0, len(gcs))
	for i := range gcs {
		cs = append(cs, gcs[i].Model())
	}
	return cs, nil
}

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
