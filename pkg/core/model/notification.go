package model

import "github.com/google/uuid"

// NotificationKind names the event which caused a notification. Its
// value is used as the routing key by the broker based notifiers.
type NotificationKind string

// Supported notification kinds.
const (
	NotifyTripCreated      NotificationKind = "trip.created"
	NotifyTripCancelled    NotificationKind = "trip.cancelled"
	NotifyBookingCreated   NotificationKind = "booking.created"
	NotifyBookingConfirmed NotificationKind = "booking.confirmed"
	NotifyBookingCancelled NotificationKind = "booking.cancelled"
)

// Notification is a fire-and-forget message for the UserID recipient.
// The BookingID is uuid.Nil for trip level notifications.
type Notification struct {
	Kind      NotificationKind `json:"kind"`
	UserID    uuid.UUID        `json:"user_id"`
	TripID    uuid.UUID        `json:"trip_id"`
	BookingID uuid.UUID        `json:"booking_id"`
	Message   string           `json:"message"`
}
