package filter

import (
	"net/url"
	"time"

	"permitdesk/pkg/dates"
	"permitdesk/pkg/model"
	"permitdesk/pkg/status"
)

// fixedPredicate evaluates one of the synthetic, non-user-editable filters.
// Thresholds come from the engine config, never from caller input.
func (e *Engine) fixedPredicate(key Key, b model.Booking) bool {
	switch key {
	case KeyLowAvailability:
		return b.AvailableSlots < e.cfg.LowAvailabilitySlots
	case KeyTopUpDue:
		return TopUpDue(b, e.cfg.Now(), e.cfg.TopUpWindowDays)
	case KeyUnpaid:
		return Unpaid(b)
	}
	return false
}

// TopUpDue reports whether a booking is nearing its trek date without full
// payment or full-purchase approval. Cancelled payments are excluded: there
// is nothing left to top up. The window test is calendar-day based:
// 0 < daysUntil <= windowDays.
func TopUpDue(b model.Booking, now time.Time, windowDays int) bool {
	if !Unpaid(b) {
		return false
	}
	if b.ValidationStatus == status.OkToPurchaseFull {
		return false
	}
	return dates.WithinWindow(now, b.TrekDate, windowDays)
}

// Unpaid reports whether money is still owed on a live booking.
func Unpaid(b model.Booking) bool {
	return b.PaymentStatus != status.PaymentFullyPaid &&
		b.PaymentStatus != status.PaymentCancelled
}

const dateLayout = "2006-01-02"

// FromValues builds an engine from URL query parameters: text and enum keys
// map directly, trek_date_from/trek_date_to bound the date range, and the
// synthetic keys activate on "true" or "1".
func FromValues(cfg Config, values url.Values) *Engine {
	e := New(cfg)
	for _, key := range []Key{KeyName, KeyReference, KeyHeadOfFile, KeyAgent} {
		e.SetText(key, values.Get(string(key)))
	}
	for _, key := range []Key{KeyProduct, KeyBookingStatus, KeyPaymentStatus, KeyValidationStatus} {
		e.SetEnum(key, values.Get(string(key)))
	}
	var r DateRange
	if from, err := time.Parse(dateLayout, values.Get("trek_date_from")); err == nil {
		r.From = &from
	}
	if to, err := time.Parse(dateLayout, values.Get("trek_date_to")); err == nil {
		r.To = &to
	}
	e.SetDateRange(KeyTrekDate, r)
	for _, key := range []Key{KeyLowAvailability, KeyTopUpDue, KeyUnpaid} {
		v := values.Get(string(key))
		e.SetFlag(key, v == "true" || v == "1")
	}
	return e
}
