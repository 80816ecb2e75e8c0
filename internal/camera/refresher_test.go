package camera

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestRefresher_RunsCycles(t *testing.T) {
	f := fullFake("10.0.0.1:80", "cam-a", "Front")
	e := newTestEngine(f)
	if err := e.Discover(context.Background()); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	var mu sync.Mutex
	updates := 0
	e.OnStatusUpdated(func(Event[DetectionStatus]) {
		mu.Lock()
		updates++
		mu.Unlock()
	})

	r := NewRefresher(e, 20*time.Millisecond, testLogger())
	r.Start(context.Background())

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := updates
		mu.Unlock()
		if n >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("saw %d status updates before deadline, want at least 2", n)
		case <-time.After(5 * time.Millisecond):
		}
	}

	r.Stop()
}

func TestRefresher_StopIsIdempotent(t *testing.T) {
	e := newTestEngine()
	r := NewRefresher(e, 10*time.Millisecond, testLogger())
	r.Start(context.Background())

	r.Stop()
	r.Stop() // must not panic
}

func TestRefresher_DefaultInterval(t *testing.T) {
	r := NewRefresher(newTestEngine(), 0, testLogger())
	if r.interval != defaultRefreshInterval {
		t.Errorf("interval = %v, want %v", r.interval, defaultRefreshInterval)
	}
}

func TestRefresher_ContextCancelStopsLoop(t *testing.T) {
	e := newTestEngine()
	r := NewRefresher(e, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresh loop did not exit on context cancellation")
	}
}
