// Package refresher maintains a periodically reloaded booking snapshot for
// the dashboards service. Refresh cycles are coalesced: a tick that fires
// while a reload is in flight is skipped, and a slow reload that completes
// after a newer one is discarded, so the published snapshot only ever moves
// forward.
package refresher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"permitdesk/pkg/logger"
	"permitdesk/pkg/model"
)

// LoadFunc fetches a fresh snapshot from storage.
type LoadFunc func(ctx context.Context) ([]model.Booking, error)

// Snapshot is one published refresh result. Seq increases monotonically with
// each successful publish. Stale marks a snapshot whose most recent reload
// attempt failed; the data shown is the last good one.
type Snapshot struct {
	Bookings    []model.Booking
	Seq         uint64
	RefreshedAt time.Time
	Stale       bool
	LastError   string
}

type Refresher struct {
	interval time.Duration
	load     LoadFunc
	log      *logger.Logger

	seq      atomic.Uint64
	inFlight atomic.Bool

	mu       sync.RWMutex
	snapshot Snapshot

	kick chan struct{}
}

func New(interval time.Duration, load LoadFunc, log *logger.Logger) *Refresher {
	return &Refresher{
		interval: interval,
		load:     load,
		log:      log,
		kick:     make(chan struct{}, 1),
	}
}

// Run refreshes on the configured interval until the context is canceled.
// The first refresh happens immediately.
func (r *Refresher) Run(ctx context.Context) error {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.refresh(ctx)
		case <-r.kick:
			r.refresh(ctx)
		}
	}
}

// ForceRefresh requests an immediate reload. If one is already queued or in
// flight the request coalesces into it.
func (r *Refresher) ForceRefresh() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Snapshot returns the last published snapshot. Safe for concurrent use.
func (r *Refresher) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

func (r *Refresher) refresh(ctx context.Context) {
	if !r.inFlight.CompareAndSwap(false, true) {
		// A reload is already running; this tick is coalesced into it.
		return
	}
	defer r.inFlight.Store(false)

	seq := r.seq.Add(1)
	started := time.Now()

	bookings, err := r.load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.log.Error("Dashboard refresh failed, keeping last snapshot",
			"seq", seq,
			"error", err,
		)
		r.markStale(err)
		return
	}

	r.publish(Snapshot{
		Bookings:    bookings,
		Seq:         seq,
		RefreshedAt: time.Now().UTC(),
	})

	r.log.Debug("Dashboard snapshot refreshed",
		"seq", seq,
		"bookings", len(bookings),
		"elapsed", time.Since(started),
	)
}

// publish installs a snapshot unless a newer one already landed.
func (r *Refresher) publish(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.Seq < r.snapshot.Seq {
		return
	}
	r.snapshot = s
}

// markStale flags the current snapshot without discarding its data.
func (r *Refresher) markStale(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot.Stale = true
	r.snapshot.LastError = err.Error()
}
