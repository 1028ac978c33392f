package service

import (
	"context"
	"testing"
	"time"

	"permitdesk/internal/dashboards/refresher"
	"permitdesk/pkg/config"
	apperrors "permitdesk/pkg/errors"
	"permitdesk/pkg/logger"
	"permitdesk/pkg/model"
)

func dashboardConfig() *config.Config {
	return &config.Config{
		LowAvailabilitySlots:     40,
		TopUpWindowDays:          45,
		DashboardRefreshInterval: time.Hour,
		Log:                      logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT}),
	}
}

// seededService builds a dashboard service over a refresher that has already
// loaded the given bookings.
func seededService(t *testing.T, bookings []model.Booking) DashboardService {
	t.Helper()
	cfg := dashboardConfig()
	r := refresher.New(cfg.DashboardRefreshInterval, func(ctx context.Context) ([]model.Booking, error) {
		return bookings, nil
	}, cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = r.Run(ctx)
		close(done)
	}()

	deadline := time.After(time.Second)
	for r.Snapshot().Seq == 0 {
		select {
		case <-deadline:
			t.Fatal("refresher never produced a snapshot")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done

	return NewDashboardService(cfg, r)
}

func TestSummaryFromSnapshot(t *testing.T) {
	svc := seededService(t, metricsFixture())

	summary, snap := svc.Summary(context.Background())
	if summary.TotalBookings != 5 {
		t.Errorf("expected 5 bookings, got %d", summary.TotalBookings)
	}
	if snap.Stale {
		t.Error("snapshot unexpectedly stale")
	}
	if snap.RefreshedAt.IsZero() {
		t.Error("missing refresh timestamp")
	}
}

func TestCardsCountAgainstSnapshot(t *testing.T) {
	svc := seededService(t, metricsFixture())

	cards, _ := svc.Cards(context.Background())
	counts := make(map[string]int, len(cards))
	for _, c := range cards {
		counts[c.ID] = c.Count
	}

	if counts["low_availability"] != 1 {
		t.Errorf("low_availability: expected 1, got %d", counts["low_availability"])
	}
	// b1, b3 and b4 still owe money; the cancelled b5 does not.
	if counts["unpaid"] != 3 {
		t.Errorf("unpaid: expected 3, got %d", counts["unpaid"])
	}
	if counts["amended"] != 1 {
		t.Errorf("amended: expected 1, got %d", counts["amended"])
	}
	if counts["awaiting_validation"] != 0 {
		t.Errorf("awaiting_validation: expected 0, got %d", counts["awaiting_validation"])
	}
}

func TestCardBookings(t *testing.T) {
	svc := seededService(t, metricsFixture())

	bookings, err := svc.CardBookings(context.Background(), "amended")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 1 || bookings[0].ID != "b4" {
		t.Errorf("unexpected card bookings: %+v", bookings)
	}
}

func TestCardBookingsUnknownCard(t *testing.T) {
	svc := seededService(t, metricsFixture())

	_, err := svc.CardBookings(context.Background(), "no_such_card")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestExportCardFlatRecords(t *testing.T) {
	svc := seededService(t, metricsFixture())

	records, err := svc.ExportCard(context.Background(), "low_availability")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	record := records[0]
	if record["product"] != "Bwindi Gorilla Trekking" {
		t.Errorf("unexpected product: %q", record["product"])
	}
	if record["available_slots"] != "12" {
		t.Errorf("unexpected slots: %q", record["available_slots"])
	}
}

func TestPermitsByProductConfirmedOnly(t *testing.T) {
	svc := seededService(t, metricsFixture())

	all := svc.PermitsByProduct(context.Background(), false)
	if all["Bwindi Gorilla Trekking"] != 12 {
		t.Errorf("expected 12 gorilla permits, got %d", all["Bwindi Gorilla Trekking"])
	}

	confirmed := svc.PermitsByProduct(context.Background(), true)
	if confirmed["Bwindi Gorilla Trekking"] != 10 {
		t.Errorf("expected 10 confirmed gorilla permits, got %d", confirmed["Bwindi Gorilla Trekking"])
	}
}

func TestCardEnginesDoNotShareState(t *testing.T) {
	svc := seededService(t, metricsFixture())

	// Evaluate twice; a shared engine accumulating filters would change the
	// second result.
	first, _ := svc.Cards(context.Background())
	second, _ := svc.Cards(context.Background())
	for i := range first {
		if first[i].Count != second[i].Count {
			t.Errorf("card %s count drifted between evaluations: %d then %d",
				first[i].ID, first[i].Count, second[i].Count)
		}
	}
}
