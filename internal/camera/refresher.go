package camera

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/camwatch/internal/infrastructure/logging"
)

// defaultRefreshInterval is how often a status refresh cycle fires when no
// interval is configured.
const defaultRefreshInterval = 5 * time.Second

// Refresher drives the engine's status refresh on a fixed-rate ticker.
//
// Ticks fire regardless of whether the previous cycle finished; the engine's
// fan-out widths bound concurrency within a cycle, but two cycles may
// overlap when devices are slow. A stuck device occupies one worker slot
// until its call timeout fires.
type Refresher struct {
	engine   *Engine
	interval time.Duration
	log      *logging.Logger

	// Shutdown coordination (stopOnce prevents double-close panics)
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewRefresher creates a refresher over the engine. An interval of zero
// falls back to the 5-second default.
func NewRefresher(engine *Engine, interval time.Duration, log *logging.Logger) *Refresher {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &Refresher{
		engine:   engine,
		interval: interval,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start begins periodic refreshing. Call Stop to shut down.
func (r *Refresher) Start(ctx context.Context) {
	r.wg.Add(1)
	go r.refreshLoop(ctx)
	r.log.Info("status refresh started", "interval", r.interval)
}

// Stop halts the ticker and waits for the loop to exit. Cycles already in
// flight run to completion on their own goroutines. Safe to call multiple
// times.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
		r.log.Info("status refresh stopped")
	})
}

// refreshLoop fires a cycle on every tick without waiting for the previous
// one.
func (r *Refresher) refreshLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// First cycle runs immediately so callers see status without waiting a
	// full interval.
	go r.engine.RefreshAll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case <-ticker.C:
			go r.engine.RefreshAll(ctx)
		}
	}
}
