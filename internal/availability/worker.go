// Package availability keeps booking records in step with external park
// capacity. Updates arrive two ways: pushed over Kafka by the capacity
// system, and pulled on an interval for upcoming trek dates as a backstop
// when events are missed.
package availability

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"permitdesk/pkg/client"
	"permitdesk/pkg/config"
	"permitdesk/pkg/dates"
	"permitdesk/pkg/kafka"
	"permitdesk/pkg/logger"
	"permitdesk/pkg/model"
)

// BookingStore is the slice of the bookings repository this worker needs.
type BookingStore interface {
	Snapshot(ctx context.Context) ([]model.Booking, error)
	UpdateAvailability(ctx context.Context, product string, trekDate time.Time, slots int) (int64, error)
}

type Worker struct {
	cfg    *config.Config
	store  BookingStore
	api    *client.AvailabilityClient
	log    *logger.Logger
	synced atomic.Int64 // unix millis of the last applied update
}

func NewWorker(cfg *config.Config, store BookingStore, api *client.AvailabilityClient) *Worker {
	return &Worker{
		cfg:   cfg,
		store: store,
		api:   api,
		log:   cfg.Log,
	}
}

// HandleMessage applies one pushed capacity update. Returning an error sends
// the message through the consumer's retry and DLQ path.
func (w *Worker) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event model.AvailabilityUpdated
	if err := msg.Decode(&event); err != nil {
		return fmt.Errorf("failed to decode availability event: %w", err)
	}
	if !model.ValidProduct(event.Product) {
		return fmt.Errorf("unknown product in availability event: %q", event.Product)
	}
	if event.Slots < 0 {
		return fmt.Errorf("negative slots in availability event: %d", event.Slots)
	}

	updated, err := w.store.UpdateAvailability(ctx, event.Product, event.TrekDate, event.Slots)
	if err != nil {
		return err
	}

	w.markSynced()
	w.log.Info("Availability updated from event",
		"product", event.Product,
		"trek_date", event.TrekDate.Format("2006-01-02"),
		"slots", event.Slots,
		"bookings_updated", updated,
	)
	return nil
}

// Poll periodically re-reads capacity for every upcoming slot with live
// bookings. Per-slot failures are logged and skipped so one flaky product
// cannot stall the sweep.
func (w *Worker) Poll(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.AvailabilityPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

type slot struct {
	product  string
	trekDate time.Time
}

func (w *Worker) sweep(ctx context.Context) {
	snapshot, err := w.store.Snapshot(ctx)
	if err != nil {
		w.log.Error("Availability sweep failed to load bookings", "error", err)
		return
	}

	today := dates.Day(time.Now())
	upcoming := lo.Filter(snapshot, func(b model.Booking, _ int) bool {
		return !dates.Day(b.TrekDate).Before(today)
	})
	slots := lo.Uniq(lo.Map(upcoming, func(b model.Booking, _ int) slot {
		return slot{product: b.Product, trekDate: dates.Day(b.TrekDate)}
	}))

	for _, s := range slots {
		count, err := w.api.Slots(ctx, s.product, s.trekDate)
		if err != nil {
			w.log.Warn("Availability sweep skipped slot",
				"product", s.product,
				"trek_date", s.trekDate.Format("2006-01-02"),
				"error", err,
			)
			continue
		}
		if _, err := w.store.UpdateAvailability(ctx, s.product, s.trekDate, count); err != nil {
			w.log.Error("Availability sweep failed to store update",
				"product", s.product,
				"error", err,
			)
			continue
		}
		w.markSynced()
	}
}

func (w *Worker) markSynced() {
	w.synced.Store(time.Now().UnixMilli())
}

// LastSynced returns the time of the last applied update, zero if none yet.
func (w *Worker) LastSynced() time.Time {
	millis := w.synced.Load()
	if millis == 0 {
		return time.Time{}
	}
	return time.UnixMilli(millis).UTC()
}
