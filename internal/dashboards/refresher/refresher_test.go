package refresher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"permitdesk/pkg/logger"
	"permitdesk/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT})
}

func namedBookings(ids ...string) []model.Booking {
	out := make([]model.Booking, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Booking{ID: id})
	}
	return out
}

func TestRefreshPublishesSnapshot(t *testing.T) {
	r := New(time.Hour, func(ctx context.Context) ([]model.Booking, error) {
		return namedBookings("b1", "b2"), nil
	}, testLogger())

	r.refresh(context.Background())

	snap := r.Snapshot()
	if len(snap.Bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(snap.Bookings))
	}
	if snap.Seq != 1 {
		t.Errorf("expected seq 1, got %d", snap.Seq)
	}
	if snap.Stale {
		t.Error("fresh snapshot marked stale")
	}
	if snap.RefreshedAt.IsZero() {
		t.Error("missing refresh timestamp")
	}
}

func TestRefreshFailureKeepsLastSnapshotAndMarksStale(t *testing.T) {
	calls := 0
	r := New(time.Hour, func(ctx context.Context) ([]model.Booking, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("connection refused")
		}
		return namedBookings("b1"), nil
	}, testLogger())

	r.refresh(context.Background())
	r.refresh(context.Background())

	snap := r.Snapshot()
	if len(snap.Bookings) != 1 || snap.Bookings[0].ID != "b1" {
		t.Fatalf("last good data lost: %+v", snap.Bookings)
	}
	if !snap.Stale {
		t.Error("failed refresh did not mark snapshot stale")
	}
	if snap.LastError == "" {
		t.Error("missing last error")
	}

	// A later successful refresh clears the stale flag.
	calls = 0
	r.refresh(context.Background())
	if snap := r.Snapshot(); snap.Stale {
		t.Error("stale flag survived a successful refresh")
	}
}

func TestRefreshCoalescesConcurrentTicks(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var mu sync.Mutex
	loads := 0

	r := New(time.Hour, func(ctx context.Context) ([]model.Booking, error) {
		mu.Lock()
		loads++
		mu.Unlock()
		once.Do(func() { close(started) })
		<-release
		return namedBookings("b1"), nil
	}, testLogger())

	done := make(chan struct{})
	go func() {
		r.refresh(context.Background())
		close(done)
	}()
	<-started

	// These ticks fire while the first load is in flight and must be skipped.
	r.refresh(context.Background())
	r.refresh(context.Background())

	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	if loads != 1 {
		t.Errorf("expected 1 load, got %d", loads)
	}
}

func TestPublishDiscardsStaleResult(t *testing.T) {
	r := New(time.Hour, nil, testLogger())

	r.publish(Snapshot{Seq: 2, Bookings: namedBookings("fresh")})
	r.publish(Snapshot{Seq: 1, Bookings: namedBookings("stale")})

	snap := r.Snapshot()
	if snap.Seq != 2 {
		t.Fatalf("expected seq 2, got %d", snap.Seq)
	}
	if snap.Bookings[0].ID != "fresh" {
		t.Errorf("stale result overwrote newer snapshot: %s", snap.Bookings[0].ID)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	r := New(10*time.Millisecond, func(ctx context.Context) ([]model.Booking, error) {
		return namedBookings("b1"), nil
	}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Let the initial refresh land, then cancel.
	deadline := time.After(time.Second)
	for r.Snapshot().Seq == 0 {
		select {
		case <-deadline:
			t.Fatal("initial refresh never happened")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestForceRefreshCoalescesWhenQueued(t *testing.T) {
	r := New(time.Hour, nil, testLogger())

	// Both requests must fit into the single-slot kick channel without
	// blocking the caller.
	r.ForceRefresh()
	r.ForceRefresh()

	select {
	case <-r.kick:
	default:
		t.Fatal("kick not queued")
	}
	select {
	case <-r.kick:
		t.Fatal("second force refresh should have coalesced")
	default:
	}
}
