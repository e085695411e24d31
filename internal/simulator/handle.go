package simulator

import (
	"context"
	"sync"
	"sync/atomic"
)

// Outcome is the terminal result of one simulation run.
type Outcome int

const (
	// OutcomeRunning means the run has not finished yet.
	OutcomeRunning Outcome = iota
	// OutcomeCompleted means the final OnProgress(1.0) was delivered.
	OutcomeCompleted
	// OutcomeFailed means OnError was delivered.
	OutcomeFailed
	// OutcomeCanceled means the run was cancelled before reaching either.
	OutcomeCanceled
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailed:
		return "failed"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Callbacks receive the events of one run. Either may be nil.
type Callbacks struct {
	OnProgress func(fraction float64)
	OnError    func()
}

func (c Callbacks) progress(fraction float64) {
	if c.OnProgress != nil {
		c.OnProgress(fraction)
	}
}

func (c Callbacks) fail() {
	if c.OnError != nil {
		c.OnError()
	}
}

// Simulator starts simulated transfers.
type Simulator interface {
	Start(ctx context.Context, id string, cb Callbacks) *Handle
}

// Handle controls one running simulation.
type Handle struct {
	id       string
	cancel   context.CancelFunc
	canceled atomic.Bool
	delivery sync.Mutex // held while a callback runs
	done     chan struct{}
	outcome  Outcome // written once before done is closed
}

func newHandle(id string, cancel context.CancelFunc) *Handle {
	return &Handle{
		id:     id,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// ID returns the task ID the run was started for.
func (h *Handle) ID() string {
	return h.id
}

// Cancel stops the run. Once Cancel returns no callback begins; a callback
// already running is waited for, so Cancel must not be called from the run's
// own callbacks. It does not wait for the run to exit. Calling Cancel more
// than once is safe.
func (h *Handle) Cancel() {
	h.delivery.Lock()
	h.canceled.Store(true)
	h.delivery.Unlock()
	h.cancel()
}

// Canceled reports whether Cancel has been called.
func (h *Handle) Canceled() bool {
	return h.canceled.Load()
}

// Done returns a channel that is closed when the run has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Outcome returns the run's outcome, or OutcomeRunning if it has not exited.
func (h *Handle) Outcome() Outcome {
	select {
	case <-h.done:
		return h.outcome
	default:
		return OutcomeRunning
	}
}

// Wait blocks until the run exits and returns its outcome.
func (h *Handle) Wait() Outcome {
	<-h.done
	return h.outcome
}

// deliver runs f unless the handle was cancelled and reports whether it ran.
func (h *Handle) deliver(f func()) bool {
	h.delivery.Lock()
	defer h.delivery.Unlock()
	if h.canceled.Load() {
		return false
	}
	f()
	return true
}

func (h *Handle) finish(o Outcome) {
	h.outcome = o
	close(h.done)
}
