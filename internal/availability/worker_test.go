package availability

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"permitdesk/pkg/config"
	"permitdesk/pkg/kafka"
	"permitdesk/pkg/logger"
	"permitdesk/pkg/model"
)

type mockStore struct {
	snapshotFn func(ctx context.Context) ([]model.Booking, error)
	updates    []update
	updateErr  error
}

type update struct {
	product  string
	trekDate time.Time
	slots    int
}

func (m *mockStore) Snapshot(ctx context.Context) ([]model.Booking, error) {
	if m.snapshotFn != nil {
		return m.snapshotFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) UpdateAvailability(_ context.Context, product string, trekDate time.Time, slots int) (int64, error) {
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	m.updates = append(m.updates, update{product: product, trekDate: trekDate, slots: slots})
	return 1, nil
}

func workerConfig() *config.Config {
	return &config.Config{
		AvailabilityPollInterval: time.Hour,
		Log:                      logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT}),
	}
}

func eventMessage(t *testing.T, event model.AvailabilityUpdated) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return kafka.Message{Key: event.Product, Value: payload}
}

func TestHandleMessageAppliesUpdate(t *testing.T) {
	store := &mockStore{}
	worker := NewWorker(workerConfig(), store, nil)

	trekDate := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	msg := eventMessage(t, model.AvailabilityUpdated{
		Product:  "Bwindi Gorilla Trekking",
		TrekDate: trekDate,
		Slots:    24,
		At:       time.Now().UTC(),
	})

	if err := worker.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(store.updates))
	}
	got := store.updates[0]
	if got.product != "Bwindi Gorilla Trekking" || got.slots != 24 {
		t.Errorf("unexpected update: %+v", got)
	}
	if worker.LastSynced().IsZero() {
		t.Error("sync timestamp not recorded")
	}
}

func TestHandleMessageRejectsBadEvents(t *testing.T) {
	store := &mockStore{}
	worker := NewWorker(workerConfig(), store, nil)

	tests := []struct {
		name string
		msg  kafka.Message
	}{
		{
			name: "malformed payload",
			msg:  kafka.Message{Value: []byte("not json")},
		},
		{
			name: "unknown product",
			msg: eventMessage(t, model.AvailabilityUpdated{
				Product: "Serengeti Lion Walk",
				Slots:   10,
			}),
		},
		{
			name: "negative slots",
			msg: eventMessage(t, model.AvailabilityUpdated{
				Product: "Bwindi Gorilla Trekking",
				Slots:   -1,
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := worker.HandleMessage(context.Background(), tt.msg); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
	if len(store.updates) != 0 {
		t.Errorf("bad events reached the store: %+v", store.updates)
	}
}

func TestHandleMessagePropagatesStoreError(t *testing.T) {
	store := &mockStore{updateErr: errors.New("write failed")}
	worker := NewWorker(workerConfig(), store, nil)

	msg := eventMessage(t, model.AvailabilityUpdated{
		Product: "Bwindi Gorilla Trekking",
		Slots:   10,
	})

	if err := worker.HandleMessage(context.Background(), msg); err == nil {
		t.Fatal("store failure must surface for retry and DLQ handling")
	}
	if !worker.LastSynced().IsZero() {
		t.Error("failed update recorded a sync timestamp")
	}
}

func TestPollStopsOnCancel(t *testing.T) {
	worker := NewWorker(workerConfig(), &mockStore{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := worker.Poll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
