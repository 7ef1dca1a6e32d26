package repo

import "context"

type ConnHandler func(context.Context, Conn) error

// Pool represents a database connection pool. Each use case operation
// acquires one connection by the Conn method and releases it when the
// handler returns.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
	Close() error
}
