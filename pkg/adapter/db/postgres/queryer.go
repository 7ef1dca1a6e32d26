package postgres

import (
	"context"

	"github.com/momeni/carpool/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is the type constraint of the generic query functions in the
// repository packages. It covers both of connections and transactions,
// so each query may be written once and used from both of them.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer

	// GORM returns the embedded *gorm.DB, bound to ctx.
	GORM(ctx context.Context) *gorm.DB
}
