package repo

import (
	"context"

	"github.com/momeni/carpool/pkg/core/model"
)

// Notifier publishes fire-and-forget notifications. Use cases call it
// after their transactions are committed and only log its failures.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}
