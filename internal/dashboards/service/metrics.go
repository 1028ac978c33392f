package service

import (
	"time"

	"github.com/samber/lo"

	"permitdesk/pkg/filter"
	"permitdesk/pkg/model"
	"permitdesk/pkg/status"
)

// CountAmount pairs a booking count with the total amount booked across it.
type CountAmount struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// Summary is the aggregate dashboard payload computed from one snapshot.
// Every figure comes from the same pass so the numbers are mutually
// consistent.
type Summary struct {
	TotalBookings int `json:"total_bookings"`

	ByValidation map[status.ValidationStatus]int `json:"by_validation"`

	FullyPaid   CountAmount `json:"fully_paid"`
	DepositPaid CountAmount `json:"deposit_paid"`

	TopUpDue        int `json:"top_up_due"`
	LowAvailability int `json:"low_availability"`

	UnderAmendment int `json:"under_amendment"`
	SettledAmended int `json:"settled_amended"`
	Cancellations  int `json:"cancellations"`

	PermitsByProduct map[string]int `json:"permits_by_product"`

	// Skipped counts records excluded for breaking tuple invariants. Malformed
	// data degrades one figure, never the whole dashboard.
	Skipped int `json:"skipped"`
}

// Aggregate computes the dashboard summary over a booking snapshot. Empty
// input yields an all-zero summary, never an error.
func Aggregate(bookings []model.Booking, cfg filter.Config) Summary {
	now := time.Now()
	if cfg.Now != nil {
		now = cfg.Now()
	}
	lowSlots := cfg.LowAvailabilitySlots
	if lowSlots == 0 {
		lowSlots = filter.DefaultLowAvailabilitySlots
	}
	window := cfg.TopUpWindowDays
	if window == 0 {
		window = filter.DefaultTopUpWindowDays
	}

	valid, skipped := partitionValid(bookings)

	summary := Summary{
		TotalBookings: len(valid),
		ByValidation:  lo.CountValuesBy(valid, func(b model.Booking) status.ValidationStatus { return b.ValidationStatus }),
		Skipped:       skipped,
	}

	fullyPaid := lo.Filter(valid, func(b model.Booking, _ int) bool {
		return b.PaymentStatus == status.PaymentFullyPaid
	})
	summary.FullyPaid = CountAmount{
		Count:  len(fullyPaid),
		Amount: lo.SumBy(fullyPaid, func(b model.Booking) float64 { return b.TotalAmount }),
	}

	depositPaid := lo.Filter(valid, func(b model.Booking, _ int) bool {
		return b.PaymentStatus == status.PaymentDepositPaid
	})
	summary.DepositPaid = CountAmount{
		Count:  len(depositPaid),
		Amount: lo.SumBy(depositPaid, func(b model.Booking) float64 { return b.TotalAmount }),
	}

	summary.TopUpDue = lo.CountBy(valid, func(b model.Booking) bool {
		return filter.TopUpDue(b, now, window)
	})
	summary.LowAvailability = lo.CountBy(valid, func(b model.Booking) bool {
		return b.AvailableSlots < lowSlots
	})

	// Amended bookings split by whether money is still owed: unsettled ones
	// need finance re-validation, settled ones are bookkeeping only.
	summary.UnderAmendment = lo.CountBy(valid, func(b model.Booking) bool {
		return b.BookingStatus == status.Amended && b.PaymentStatus != status.PaymentFullyPaid
	})
	summary.SettledAmended = lo.CountBy(valid, func(b model.Booking) bool {
		return b.BookingStatus == status.Amended && b.PaymentStatus == status.PaymentFullyPaid
	})
	summary.Cancellations = lo.CountBy(valid, func(b model.Booking) bool {
		return b.BookingStatus == status.Rejected
	})

	summary.PermitsByProduct = PermitsByProduct(valid, nil)

	return summary
}

// PermitsByProduct sums permit counts per product over the bookings matching
// the predicate. A nil predicate includes everything.
func PermitsByProduct(bookings []model.Booking, include func(model.Booking) bool) map[string]int {
	if include != nil {
		bookings = lo.Filter(bookings, func(b model.Booking, _ int) bool { return include(b) })
	}
	grouped := lo.GroupBy(bookings, func(b model.Booking) string { return b.Product })
	out := make(map[string]int, len(grouped))
	for product, group := range grouped {
		out[product] = lo.SumBy(group, func(b model.Booking) int { return b.Permits })
	}
	return out
}

func partitionValid(bookings []model.Booking) ([]model.Booking, int) {
	valid := lo.Filter(bookings, func(b model.Booking, _ int) bool {
		return b.Tuple().Validate() == nil
	})
	return valid, len(bookings) - len(valid)
}
