package filter

import (
	"testing"
	"time"

	"permitdesk/pkg/model"
	"permitdesk/pkg/status"
)

func TestTopUpDueWindowBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		trekDate   time.Time
		payment    status.PaymentStatus
		validation status.ValidationStatus
		want       bool
	}{
		{
			name:     "trek day itself is out of window",
			trekDate: now.Add(20 * time.Minute), // later today
			payment:  status.PaymentDepositPaid,
			want:     false,
		},
		{
			name:     "one day out",
			trekDate: now.AddDate(0, 0, 1),
			payment:  status.PaymentDepositPaid,
			want:     true,
		},
		{
			name:     "exactly at the window edge",
			trekDate: now.AddDate(0, 0, DefaultTopUpWindowDays),
			payment:  status.PaymentDepositPaid,
			want:     true,
		},
		{
			name:     "one day past the window edge",
			trekDate: now.AddDate(0, 0, DefaultTopUpWindowDays+1),
			payment:  status.PaymentDepositPaid,
			want:     false,
		},
		{
			name:     "trek date in the past",
			trekDate: now.AddDate(0, 0, -3),
			payment:  status.PaymentDepositPaid,
			want:     false,
		},
		{
			name:     "fully paid is never due",
			trekDate: now.AddDate(0, 0, 10),
			payment:  status.PaymentFullyPaid,
			want:     false,
		},
		{
			name:     "cancelled payment is never due",
			trekDate: now.AddDate(0, 0, 10),
			payment:  status.PaymentCancelled,
			want:     false,
		},
		{
			name:       "full purchase approval is never due",
			trekDate:   now.AddDate(0, 0, 10),
			payment:    status.PaymentDepositPaid,
			validation: status.OkToPurchaseFull,
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := model.Booking{
				TrekDate:         tt.trekDate,
				PaymentStatus:    tt.payment,
				ValidationStatus: tt.validation,
			}
			if got := TopUpDue(b, now, DefaultTopUpWindowDays); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestUnpaid(t *testing.T) {
	tests := []struct {
		payment status.PaymentStatus
		want    bool
	}{
		{status.PaymentPending, true},
		{status.PaymentPartial, true},
		{status.PaymentDepositPaid, true},
		{status.PaymentFullyPaid, false},
		{status.PaymentCancelled, false},
	}

	for _, tt := range tests {
		b := model.Booking{PaymentStatus: tt.payment}
		if got := Unpaid(b); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.payment, tt.want, got)
		}
	}
}
