package repo

import "context"

// Queryer runs raw SQL statements. Repositories mostly use the GORM
// APIs of the adapter layer, but the raw methods are kept for schema
// management and migration queries.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
	Values() ([]any, error)
}
