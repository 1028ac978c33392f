package model

import (
	"time"

	"permitdesk/pkg/status"
)

// Event types published to and consumed from Kafka.
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status.changed"
	EventAvailabilityUpdated  = "availability.updated"
)

// BookingStatusChanged is emitted after every gate-approved transition and
// every payment recomputation. Keyed by booking ID so per-booking ordering is
// preserved.
type BookingStatusChanged struct {
	BookingID string       `json:"booking_id"`
	Action    string       `json:"action,omitempty"`
	Actor     status.Role  `json:"actor,omitempty"`
	From      status.Tuple `json:"from"`
	To        status.Tuple `json:"to"`
	At        time.Time    `json:"at"`
}

// AvailabilityUpdated carries external-system capacity for one product and
// trekking date. Consumed by the availability worker.
type AvailabilityUpdated struct {
	Product  string    `json:"product"`
	TrekDate time.Time `json:"trek_date"`
	Slots    int       `json:"slots"`
	At       time.Time `json:"at"`
}
