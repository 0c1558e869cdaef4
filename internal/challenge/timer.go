package challenge

import (
	"context"
	"errors"
	"sync"
	"time"
)

// HintPenalty is added to the total for every hint requested.
const HintPenalty = 120 * time.Second

// ErrTimerRunning is returned by Start when the tick goroutine is already running.
var ErrTimerRunning = errors.New("timer already running")

// Status is a snapshot of the timer. Tier and TimeToNextTier are derived
// from Total on every read.
type Status struct {
	Elapsed        time.Duration
	Penalty        time.Duration
	Total          time.Duration
	Hints          int
	Tier           Tier
	TimeToNextTier time.Duration
}

// Timer tracks elapsed time and hint penalties for one challenge.
// Tick and RequestHint may be driven manually or by Start.
type Timer struct {
	challenge Challenge

	mu      sync.Mutex
	elapsed time.Duration
	hints   int

	cancel context.CancelFunc
	done   chan struct{}
}

// NewTimer creates a stopped timer at zero.
func NewTimer(c Challenge) *Timer {
	return &Timer{challenge: c}
}

// Challenge returns the challenge being timed.
func (t *Timer) Challenge() Challenge {
	return t.challenge
}

// Tick advances elapsed time by one second.
func (t *Timer) Tick() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.elapsed += time.Second
	return t.statusLocked()
}

// RequestHint adds one hint penalty. Hints are unlimited.
func (t *Timer) RequestHint() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hints++
	return t.statusLocked()
}

// Status returns the current snapshot.
func (t *Timer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statusLocked()
}

func (t *Timer) statusLocked() Status {
	penalty := time.Duration(t.hints) * HintPenalty
	total := t.elapsed + penalty
	return Status{
		Elapsed:        t.elapsed,
		Penalty:        penalty,
		Total:          total,
		Hints:          t.hints,
		Tier:           Classify(total, t.challenge),
		TimeToNextTier: TimeToNextTier(total, t.challenge),
	}
}

// Start runs a goroutine that calls Tick every interval and passes the new
// status to fn. fn runs on the tick goroutine and must not block. The
// goroutine ends when ctx is cancelled or Stop is called.
func (t *Timer) Start(ctx context.Context, interval time.Duration, fn func(Status)) error {
	t.mu.Lock()
	if t.runningLocked() {
		t.mu.Unlock()
		return ErrTimerRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel, t.done = cancel, done
	t.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s := t.Tick()
				if fn != nil {
					fn(s)
				}
			}
		}
	}()
	return nil
}

// Stop cancels the tick goroutine and waits for it to exit. It is safe to
// call on a stopped timer and more than once.
func (t *Timer) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel = nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the tick goroutine is alive.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runningLocked()
}

// Done returns a channel closed when the current tick goroutine exits.
// For a timer that was never started the channel is already closed.
func (t *Timer) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return t.done
}

func (t *Timer) runningLocked() bool {
	if t.done == nil {
		return false
	}
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}
