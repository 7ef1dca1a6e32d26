package optionsrp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/adapter/db/postgres"
	"github.com/momeni/carpool/pkg/core/model"
)

type gOption struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name        string
	Description string
	Price       float64
	Active      bool
}

func (gopt *gOption) TableName() string {
	return "options"
}

func (gopt *gOption) Model() model.Option {
	return model.Option{
		ID:          gopt.ID,
		Name:        gopt.Name,
		Description: gopt.Description,
		Price:       gopt.Price,
		Active:      gopt.Active,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListActive lists the active options ordered by name.
func ListActive[Q postgres.Queryer](
	ctx context.Context, q Q,
) ([]model.Option, error) {
	return where(ctx, q, "active")
}

// Get finds the id option, regardless of its active flag.
func Get[Q postgres.Queryer](
	ctx context.Context, q Q, id uuid.UUID,
) (*model.Option, error) {
	var gopt gOption
	if err := q.GORM(ctx).Where("id = ?", id).Take(&gopt).Error; err != nil {
		return nil, postgres.TranslateError(
			err, fmt.Sprintf("option %s", id),
		)
	}
	o := gopt.Model()
	return &o, nil
}

// SearchByName lists options which their names contain name,
// ignoring the letter cases.
func SearchByName[Q postgres.Queryer](
	ctx context.Context, q Q, name string,
) ([]model.Option, error) {
	return where(ctx, q, "name ILIKE ?", "%"+likeEscaper.Replace(name)+"%")
}

// ByPriceRange lists the active options which their prices are in
// the [minp, maxp] range.
func ByPriceRange[Q postgres.Queryer](
	ctx context.Context, q Q, minp, maxp float64,
) ([]model.Option, error) {
	return where(ctx, q, "active AND price BETWEEN ? AND ?", minp, maxp)
}

// ByIDs lists the options with the given ids, ordered by name.
func ByIDs[Q postgres.Queryer](
	ctx context.Context, q Q, ids []uuid.UUID,
) ([]model.Option, error) {
	if len(ids) == 0 {
		return []model.Option{}, nil
	}
	return where(ctx, q, "id IN ?", ids)
}

func where[Q postgres.Queryer](
	ctx context.Context, q Q, cond string, args ...any,
) ([]model.Option, error) {
	var gopts []gOption
	err := q.GORM(ctx).Where(cond, args...).Order("name").Find(&gopts).Error
	if err != nil {
		return nil, fmt.Errorf("finding options: %w", err)
	}
	opts := make([]model.Option, 0, len(gopts))
	for i := range gopts {
		opts = append(opts, gopts[i].Model())
	}
	return opts, nil
}
