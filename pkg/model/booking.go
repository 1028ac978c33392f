package model

import (
	"time"

	"permitdesk/pkg/status"
)

// Booking is one reservation record for a permit/activity slot. The three
// status dimensions are always populated; defaults come from status.Initial,
// never from absence.
type Booking struct {
	ID               string                  `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name             string                  `json:"name" bson:"name" validate:"required,min=2,max=120"`
	Reference        string                  `json:"reference" bson:"reference" validate:"required,min=2,max=40"`
	HeadOfFile       string                  `json:"head_of_file" bson:"head_of_file" validate:"required,min=2,max=120"`
	Agent            string                  `json:"agent" bson:"agent" validate:"required,min=2,max=120"`
	Product          string                  `json:"product" bson:"product" validate:"required,product"`
	TrekDate         time.Time               `json:"trek_date" bson:"trek_date" validate:"required"`
	Permits          int                     `json:"permits" bson:"permits" validate:"required,min=1,max=500"`
	UnitCost         float64                 `json:"unit_cost" bson:"unit_cost" validate:"gte=0"`
	TotalAmount      float64                 `json:"total_amount" bson:"total_amount" validate:"gte=0"`
	AmountReceived   float64                 `json:"amount_received" bson:"amount_received" validate:"gte=0"`
	Overpaid         bool                    `json:"overpaid,omitempty" bson:"overpaid"`
	AvailableSlots   int                     `json:"available_slots" bson:"available_slots" validate:"gte=0"`
	BookingStatus    status.BookingStatus    `json:"booking_status" bson:"booking_status" validate:"required,booking_status"`
	PaymentStatus    status.PaymentStatus    `json:"payment_status" bson:"payment_status" validate:"required,payment_status"`
	ValidationStatus status.ValidationStatus `json:"validation_status" bson:"validation_status" validate:"required,validation_status"`
	CreatedAt        time.Time               `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt        time.Time               `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Tuple assembles the booking's current status tuple.
func (b *Booking) Tuple() status.Tuple {
	return status.Tuple{
		Booking:    b.BookingStatus,
		Payment:    b.PaymentStatus,
		Validation: b.ValidationStatus,
	}
}

// SetTuple writes a resolved tuple back onto the booking.
func (b *Booking) SetTuple(t status.Tuple) {
	b.BookingStatus = t.Booking
	b.PaymentStatus = t.Payment
	b.ValidationStatus = t.Validation
}

// BookingUpdate carries the amendable descriptive fields. Status dimensions
// are deliberately absent: they change only through gate-approved transitions
// and payment recording.
type BookingUpdate struct {
	Name       string     `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	HeadOfFile string     `json:"head_of_file,omitempty" validate:"omitempty,min=2,max=120"`
	Agent      string     `json:"agent,omitempty" validate:"omitempty,min=2,max=120"`
	Product    string     `json:"product,omitempty" validate:"omitempty,product"`
	TrekDate   *time.Time `json:"trek_date,omitempty" validate:"omitempty"`
	Permits    *int       `json:"permits,omitempty" validate:"omitempty,min=1,max=500"`
	UnitCost   *float64   `json:"unit_cost,omitempty" validate:"omitempty,gte=0"`
}

// HoldLock is a short-lived advisory lock on a (product, trek date) slot,
// preventing two provisional holds from racing the same capacity.
type HoldLock struct {
	ID        string    `json:"id" bson:"_id"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}
