package simulator

import (
	"context"
	"sync"
)

// Scripted is a Simulator whose runs never tick on their own. Tests drive
// each run through the returned ScriptedRun.
type Scripted struct {
	mu   sync.Mutex
	runs []*ScriptedRun
}

// ScriptedRun is one run started on a Scripted simulator.
type ScriptedRun struct {
	ID     string
	Handle *Handle
	cb     Callbacks
	once   sync.Once
}

// NewScripted creates an empty Scripted simulator.
func NewScripted() *Scripted {
	return &Scripted{}
}

// Start records the run and returns its handle. The run ends as cancelled
// when ctx is done or the handle is cancelled, unless a test finished it first.
func (s *Scripted) Start(ctx context.Context, id string, cb Callbacks) *Handle {
	runCtx, cancel := context.WithCancel(ctx)
	run := &ScriptedRun{ID: id, cb: cb}
	run.Handle = newHandle(id, cancel)

	go func() {
		defer cancel()
		select {
		case <-runCtx.Done():
			run.finish(OutcomeCanceled)
		case <-run.Handle.Done():
		}
	}()

	s.mu.Lock()
	s.runs = append(s.runs, run)
	s.mu.Unlock()
	return run.Handle
}

// Runs returns every run started so far, in start order.
func (s *Scripted) Runs() []*ScriptedRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*ScriptedRun(nil), s.runs...)
}

// Last returns the most recent run started for id.
func (s *Scripted) Last(id string) (*ScriptedRun, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.runs) - 1; i >= 0; i-- {
		if s.runs[i].ID == id {
			return s.runs[i], true
		}
	}
	return nil, false
}

// Progress delivers a progress callback, even if the run was cancelled. This
// models a callback that was already in flight when Cancel was called.
// A fraction of 1 or more finishes the run as completed.
func (r *ScriptedRun) Progress(fraction float64) {
	r.cb.progress(fraction)
	if fraction >= 1 {
		r.finish(OutcomeCompleted)
	}
}

// Fail delivers the error callback and ends the run.
func (r *ScriptedRun) Fail() {
	r.cb.fail()
	r.finish(OutcomeFailed)
}

// Complete drives the run through every step of an n-step transfer.
func (r *ScriptedRun) Complete(steps int) {
	for step := 1; step <= steps; step++ {
		r.Progress(float64(step) / float64(steps))
	}
}

// Stop ends the run as cancelled without delivering anything.
func (r *ScriptedRun) Stop() {
	r.finish(OutcomeCanceled)
}

func (r *ScriptedRun) finish(o Outcome) {
	r.once.Do(func() { r.Handle.finish(o) })
}
