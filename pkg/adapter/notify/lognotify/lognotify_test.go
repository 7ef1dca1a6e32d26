package lognotify_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/carpool/pkg/adapter/notify/lognotify"
	"github.com/momeni/carpool/pkg/core/model"
	"github.com/stretchr/testify/require"
)

func TestNotifyLogs(t *testing.T) {
	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(old)

	trip := uuid.New()
	err := lognotify.Notifier{}.Notify(context.Background(), model.Notification{
		Kind:    model.NotifyTripCancelled,
		UserID:  uuid.New(),
		TripID:  trip,
		Message: "trip was cancelled",
	})
	require.NoError(t, err)
	out := buf.String()
	require.Contains(t, out, "kind=trip.cancelled")
	require.Contains(t, out, "trip="+trip.String())
	require.Contains(t, out, "booking="+uuid.Nil.String())
}
