package service

import (
	"testing"
	"time"

	"permitdesk/pkg/filter"
	"permitdesk/pkg/model"
	"permitdesk/pkg/status"
)

var metricsNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func metricsConfig() filter.Config {
	return filter.Config{Now: func() time.Time { return metricsNow }}
}

func metricsFixture() []model.Booking {
	return []model.Booking{
		{
			ID:               "b1",
			Product:          "Bwindi Gorilla Trekking",
			TrekDate:         metricsNow.AddDate(0, 0, 10),
			Permits:          4,
			TotalAmount:      2800,
			AmountReceived:   900,
			AvailableSlots:   12,
			BookingStatus:    status.Confirmed,
			PaymentStatus:    status.PaymentDepositPaid,
			ValidationStatus: status.OkToPurchaseDeposit,
		},
		{
			ID:               "b2",
			Product:          "Bwindi Gorilla Trekking",
			TrekDate:         metricsNow.AddDate(0, 0, 60),
			Permits:          6,
			TotalAmount:      4200,
			AmountReceived:   4200,
			AvailableSlots:   60,
			BookingStatus:    status.Confirmed,
			PaymentStatus:    status.PaymentFullyPaid,
			ValidationStatus: status.OkToPurchaseFull,
		},
		{
			ID:               "b3",
			Product:          "Kibale Chimpanzee Tracking",
			TrekDate:         metricsNow.AddDate(0, 0, 90),
			Permits:          2,
			TotalAmount:      500,
			BookingStatus:    status.Requested,
			AvailableSlots:   80,
			PaymentStatus:    status.PaymentPending,
			ValidationStatus: status.ValidationPending,
		},
		{
			ID:               "b4",
			Product:          "Kibale Chimpanzee Tracking",
			TrekDate:         metricsNow.AddDate(0, 0, 20),
			Permits:          3,
			TotalAmount:      750,
			AmountReceived:   300,
			AvailableSlots:   50,
			BookingStatus:    status.Amended,
			PaymentStatus:    status.PaymentDepositPaid,
			ValidationStatus: status.OkToPurchaseDeposit,
		},
		{
			ID:               "b5",
			Product:          "Bwindi Gorilla Trekking",
			TrekDate:         metricsNow.AddDate(0, 0, 5),
			Permits:          2,
			AvailableSlots:   100,
			BookingStatus:    status.Rejected,
			PaymentStatus:    status.PaymentCancelled,
			ValidationStatus: status.ValidationPending,
		},
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	summary := Aggregate(nil, metricsConfig())

	if summary.TotalBookings != 0 {
		t.Errorf("expected 0 bookings, got %d", summary.TotalBookings)
	}
	if summary.Skipped != 0 {
		t.Errorf("expected 0 skipped, got %d", summary.Skipped)
	}
	if summary.FullyPaid.Count != 0 || summary.FullyPaid.Amount != 0 {
		t.Errorf("expected zero fully paid figures, got %+v", summary.FullyPaid)
	}
	if len(summary.PermitsByProduct) != 0 {
		t.Errorf("expected empty product map, got %+v", summary.PermitsByProduct)
	}
}

func TestAggregate(t *testing.T) {
	summary := Aggregate(metricsFixture(), metricsConfig())

	if summary.TotalBookings != 5 {
		t.Errorf("expected 5 bookings, got %d", summary.TotalBookings)
	}

	if summary.FullyPaid.Count != 1 || summary.FullyPaid.Amount != 4200 {
		t.Errorf("unexpected fully paid figures: %+v", summary.FullyPaid)
	}
	// Deposit rows sum booked totals (2800 + 750), not the 1200 received so far.
	if summary.DepositPaid.Count != 2 || summary.DepositPaid.Amount != 3550 {
		t.Errorf("unexpected deposit paid figures: %+v", summary.DepositPaid)
	}

	// b1 and b4 are inside the window without full payment or full approval.
	if summary.TopUpDue != 2 {
		t.Errorf("expected 2 top-up due, got %d", summary.TopUpDue)
	}

	// Only b1 sits under the default threshold of 40 slots.
	if summary.LowAvailability != 1 {
		t.Errorf("expected 1 low availability, got %d", summary.LowAvailability)
	}

	if summary.UnderAmendment != 1 {
		t.Errorf("expected 1 under amendment, got %d", summary.UnderAmendment)
	}
	if summary.SettledAmended != 0 {
		t.Errorf("expected 0 settled amended, got %d", summary.SettledAmended)
	}
	if summary.Cancellations != 1 {
		t.Errorf("expected 1 cancellation, got %d", summary.Cancellations)
	}

	if got := summary.ByValidation[status.OkToPurchaseDeposit]; got != 2 {
		t.Errorf("expected 2 deposit verdicts, got %d", got)
	}
	if got := summary.ByValidation[status.ValidationPending]; got != 2 {
		t.Errorf("expected 2 pending verdicts, got %d", got)
	}

	if got := summary.PermitsByProduct["Bwindi Gorilla Trekking"]; got != 12 {
		t.Errorf("expected 12 gorilla permits, got %d", got)
	}
	if got := summary.PermitsByProduct["Kibale Chimpanzee Tracking"]; got != 5 {
		t.Errorf("expected 5 chimpanzee permits, got %d", got)
	}
}

func TestAggregateSkipsMalformedRecords(t *testing.T) {
	bookings := metricsFixture()
	bookings = append(bookings, model.Booking{
		ID:               "broken",
		Product:          "Bwindi Gorilla Trekking",
		Permits:          99,
		BookingStatus:    status.Provisional,
		PaymentStatus:    status.PaymentPending,
		ValidationStatus: status.OkToPurchaseFull, // verdict on a provisional booking
	})

	summary := Aggregate(bookings, metricsConfig())

	if summary.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", summary.Skipped)
	}
	if summary.TotalBookings != 5 {
		t.Errorf("malformed record leaked into totals: %d", summary.TotalBookings)
	}
	if got := summary.PermitsByProduct["Bwindi Gorilla Trekking"]; got != 12 {
		t.Errorf("malformed record leaked into permit sums: %d", got)
	}
}

func TestPermitsByProductWithPredicate(t *testing.T) {
	confirmedOnly := PermitsByProduct(metricsFixture(), func(b model.Booking) bool {
		return b.BookingStatus == status.Confirmed
	})

	if got := confirmedOnly["Bwindi Gorilla Trekking"]; got != 10 {
		t.Errorf("expected 10 confirmed gorilla permits, got %d", got)
	}
	if _, ok := confirmedOnly["Kibale Chimpanzee Tracking"]; ok {
		t.Error("unconfirmed product should be absent")
	}
}
