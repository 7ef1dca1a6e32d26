// Package lognotify provides a repo.Notifier which only logs the
// notifications. It is used when no message broker is configured.
package lognotify

import (
	"context"
	"log/slog"

	"github.com/momeni/carpool/pkg/core/log"
	"github.com/momeni/carpool/pkg/core/model"
)

// Notifier logs each notification at the info level.
type Notifier struct{}

// Notify logs x and never fails.
func (Notifier) Notify(ctx context.Context, x model.Notification) error {
	log.Info(
		ctx, "notification",
		slog.String("kind", string(x.Kind)),
		log.ID("user", x.UserID),
		log.ID("trip", x.TripID),
		log.ID("booking", x.BookingID),
		slog.String("message", x.Message),
	)
	return nil
}
