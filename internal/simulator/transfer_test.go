package simulator

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recorder collects the callbacks of one run.
type recorder struct {
	mu       sync.Mutex
	progress []float64
	errors   int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnProgress: func(f float64) {
			r.mu.Lock()
			r.progress = append(r.progress, f)
			r.mu.Unlock()
		},
		OnError: func() {
			r.mu.Lock()
			r.errors++
			r.mu.Unlock()
		},
	}
}

func (r *recorder) snapshot() ([]float64, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.progress...), r.errors
}

func fastConfig(failureRate float64) Config {
	return Config{
		Steps:        20,
		TickInterval: time.Millisecond,
		FailureRate:  failureRate,
		MinFailStep:  5,
	}
}

func waitOutcome(t *testing.T, h *Handle) Outcome {
	t.Helper()
	select {
	case <-h.Done():
		return h.Outcome()
	case <-time.After(5 * time.Second):
		t.Fatal("simulation did not finish in time")
		return OutcomeRunning
	}
}

func TestTransfer_SuccessfulRun(t *testing.T) {
	sim := New(fastConfig(0), WithSeed(1))
	rec := &recorder{}

	h := sim.Start(context.Background(), "task-1", rec.callbacks())
	if got := waitOutcome(t, h); got != OutcomeCompleted {
		t.Fatalf("outcome = %s, want completed", got)
	}

	progress, errs := rec.snapshot()
	if errs != 0 {
		t.Errorf("OnError called %d times on a successful run", errs)
	}
	if len(progress) != 20 {
		t.Fatalf("got %d progress ticks, want 20", len(progress))
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] <= progress[i-1] {
			t.Errorf("progress not strictly increasing at %d: %v <= %v", i, progress[i], progress[i-1])
		}
	}
	if progress[len(progress)-1] != 1.0 {
		t.Errorf("final progress = %v, want exactly 1.0", progress[len(progress)-1])
	}
	if h.ID() != "task-1" {
		t.Errorf("ID() = %q, want task-1", h.ID())
	}
}

func TestTransfer_FailingRun(t *testing.T) {
	sim := New(fastConfig(1), WithSeed(7))

	for i := 0; i < 10; i++ {
		rec := &recorder{}
		h := sim.Start(context.Background(), "task", rec.callbacks())
		if got := waitOutcome(t, h); got != OutcomeFailed {
			t.Fatalf("run %d outcome = %s, want failed", i, got)
		}

		progress, errs := rec.snapshot()
		if errs != 1 {
			t.Errorf("run %d: OnError called %d times, want 1", i, errs)
		}
		if len(progress) < 5 {
			t.Errorf("run %d: failed after %d ticks, want at least 5 visible ticks", i, len(progress))
		}
		for _, f := range progress {
			if f >= 1.0 {
				t.Errorf("run %d: failing run reported completion", i)
			}
		}
	}
}

func TestTransfer_ExactlyOneTerminalSignal(t *testing.T) {
	sim := New(fastConfig(0.5), WithSeed(42))

	type run struct {
		h   *Handle
		rec *recorder
	}
	var runs []run
	for i := 0; i < 40; i++ {
		rec := &recorder{}
		runs = append(runs, run{h: sim.Start(context.Background(), "t", rec.callbacks()), rec: rec})
	}
	sim.Wait()

	for i, r := range runs {
		progress, errs := r.rec.snapshot()
		completed := len(progress) > 0 && progress[len(progress)-1] == 1.0
		if completed == (errs == 1) {
			t.Errorf("run %d: completed=%v errors=%d, want exactly one terminal signal", i, completed, errs)
		}
		if errs > 1 {
			t.Errorf("run %d: OnError called %d times", i, errs)
		}
		want := OutcomeFailed
		if completed {
			want = OutcomeCompleted
		}
		if got := r.h.Outcome(); got != want {
			t.Errorf("run %d: outcome = %s, want %s", i, got, want)
		}
	}
}

func TestTransfer_Cancel(t *testing.T) {
	cfg := fastConfig(0)
	cfg.TickInterval = 50 * time.Millisecond
	sim := New(cfg)
	rec := &recorder{}

	h := sim.Start(context.Background(), "task", rec.callbacks())
	h.Cancel()
	h.Cancel()

	if got := h.Wait(); got != OutcomeCanceled {
		t.Fatalf("outcome = %s, want canceled", got)
	}
	if !h.Canceled() {
		t.Error("Canceled() should report true")
	}

	time.Sleep(120 * time.Millisecond)
	progress, errs := rec.snapshot()
	if len(progress) != 0 || errs != 0 {
		t.Errorf("callbacks after cancel: progress=%v errors=%d", progress, errs)
	}
}

func TestTransfer_CancelMidRun(t *testing.T) {
	cfg := fastConfig(0)
	cfg.TickInterval = 20 * time.Millisecond
	sim := New(cfg, WithSeed(4))

	ticked := make(chan struct{}, cfg.Steps)
	rec := &recorder{}
	cb := rec.callbacks()
	onProgress := cb.OnProgress
	cb.OnProgress = func(f float64) {
		onProgress(f)
		ticked <- struct{}{}
	}

	h := sim.Start(context.Background(), "task", cb)
	for range 3 {
		select {
		case <-ticked:
		case <-time.After(5 * time.Second):
			t.Fatal("run did not tick")
		}
	}

	h.Cancel()
	atCancel, _ := rec.snapshot()

	if got := waitOutcome(t, h); got != OutcomeCanceled {
		t.Fatalf("outcome = %s, want canceled", got)
	}
	time.Sleep(3 * cfg.TickInterval)

	progress, errs := rec.snapshot()
	if len(progress) < 3 || len(progress) >= cfg.Steps {
		t.Errorf("delivered %d ticks, want a partial run", len(progress))
	}
	if len(progress) != len(atCancel) || errs != 0 {
		t.Errorf("callbacks after Cancel returned: %d ticks before, %d after, %d errors",
			len(atCancel), len(progress), errs)
	}
}

func TestHandle_CancelWaitsForInFlightCallback(t *testing.T) {
	h := newHandle("task", func() {})

	entered := make(chan struct{})
	release := make(chan struct{})
	go h.deliver(func() {
		close(entered)
		<-release
	})
	<-entered

	canceled := make(chan struct{})
	go func() {
		h.Cancel()
		close(canceled)
	}()

	select {
	case <-canceled:
		t.Fatal("Cancel returned while a callback was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	select {
	case <-canceled:
	case <-time.After(5 * time.Second):
		t.Fatal("Cancel did not return after the callback finished")
	}

	if h.deliver(func() { t.Error("callback ran after Cancel returned") }) {
		t.Error("deliver() = true after Cancel")
	}
}

func TestTransfer_NoCallbackBeginsAfterCancel(t *testing.T) {
	cfg := fastConfig(0.5)
	cfg.TickInterval = 0
	cfg.MinFailStep = 0
	sim := New(cfg, WithSeed(11))

	for i := 0; i < 200; i++ {
		var mu sync.Mutex
		returned := false
		late := 0
		check := func() {
			mu.Lock()
			defer mu.Unlock()
			if returned {
				late++
			}
		}

		h := sim.Start(context.Background(), "task", Callbacks{
			OnProgress: func(float64) { check() },
			OnError:    check,
		})
		h.Cancel()
		mu.Lock()
		returned = true
		mu.Unlock()
		h.Wait()

		mu.Lock()
		if late > 0 {
			t.Fatalf("run %d: %d callbacks began after Cancel returned", i, late)
		}
		mu.Unlock()
	}
	sim.Wait()
}

func TestTransfer_ParentContextCancel(t *testing.T) {
	cfg := fastConfig(0)
	cfg.TickInterval = 50 * time.Millisecond
	sim := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	h := sim.Start(ctx, "task", Callbacks{})
	cancel()

	if got := waitOutcome(t, h); got != OutcomeCanceled {
		t.Errorf("outcome = %s, want canceled", got)
	}
}

func TestTransfer_MinFailStepBeyondStepsNeverFails(t *testing.T) {
	cfg := fastConfig(1)
	cfg.Steps = 4
	cfg.MinFailStep = 4
	sim := New(cfg, WithSeed(3))

	h := sim.Start(context.Background(), "task", Callbacks{})
	if got := waitOutcome(t, h); got != OutcomeCompleted {
		t.Errorf("outcome = %s, want completed when no step can fail", got)
	}
}

func TestTransfer_PlanIsReproducibleWithSeed(t *testing.T) {
	cfg := fastConfig(0.5)
	cfg.TickJitter = 10 * time.Millisecond

	a := New(cfg, WithSeed(99))
	b := New(cfg, WithSeed(99))

	for i := 0; i < 20; i++ {
		pa, pb := a.plan(), b.plan()
		if pa.failStep != pb.failStep {
			t.Fatalf("plan %d: failStep %d != %d", i, pa.failStep, pb.failStep)
		}
		for j := range pa.delays {
			if pa.delays[j] != pb.delays[j] {
				t.Fatalf("plan %d: delay %d differs", i, j)
			}
			if pa.delays[j] < cfg.TickInterval || pa.delays[j] > cfg.TickInterval+cfg.TickJitter {
				t.Errorf("delay %v outside [%v, %v]", pa.delays[j], cfg.TickInterval, cfg.TickInterval+cfg.TickJitter)
			}
		}
		if pa.failStep != 0 && (pa.failStep <= cfg.MinFailStep || pa.failStep > cfg.Steps) {
			t.Errorf("failStep %d outside (%d, %d]", pa.failStep, cfg.MinFailStep, cfg.Steps)
		}
	}
}

func TestTransfer_PlanCanFailOnLastStep(t *testing.T) {
	cfg := fastConfig(1)
	cfg.MinFailStep = cfg.Steps - 1

	sim := New(cfg, WithSeed(5))
	for i := 0; i < 10; i++ {
		if got := sim.plan().failStep; got != cfg.Steps {
			t.Fatalf("plan %d: failStep = %d, want %d", i, got, cfg.Steps)
		}
	}

	rec := &recorder{}
	h := sim.Start(context.Background(), "last", rec.callbacks())
	if got := waitOutcome(t, h); got != OutcomeFailed {
		t.Fatalf("outcome = %v, want failed", got)
	}
	progress, errs := rec.snapshot()
	if len(progress) != cfg.Steps-1 || errs != 1 {
		t.Errorf("got %d ticks and %d errors, want %d ticks and 1 error", len(progress), errs, cfg.Steps-1)
	}
}

func TestNew_DefaultsSteps(t *testing.T) {
	sim := New(Config{})
	if sim.Config().Steps != DefaultConfig().Steps {
		t.Errorf("Steps = %d, want default %d", sim.Config().Steps, DefaultConfig().Steps)
	}
}

func TestOutcome_String(t *testing.T) {
	tests := map[Outcome]string{
		OutcomeRunning:   "running",
		OutcomeCompleted: "completed",
		OutcomeFailed:    "failed",
		OutcomeCanceled:  "canceled",
		Outcome(42):      "unknown",
	}
	for o, want := range tests {
		if o.String() != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", o, o.String(), want)
		}
	}
}

func TestScripted(t *testing.T) {
	sim := NewScripted()
	rec := &recorder{}

	h := sim.Start(context.Background(), "a", rec.callbacks())
	run, ok := sim.Last("a")
	if !ok || run.Handle != h {
		t.Fatal("Last should return the started run")
	}
	if h.Outcome() != OutcomeRunning {
		t.Errorf("scripted run should be running until driven")
	}

	run.Complete(4)
	if h.Wait() != OutcomeCompleted {
		t.Errorf("outcome = %s, want completed", h.Outcome())
	}
	progress, _ := rec.snapshot()
	if len(progress) != 4 || progress[3] != 1.0 {
		t.Errorf("progress = %v, want 4 ticks ending at 1.0", progress)
	}

	sim.Start(context.Background(), "b", Callbacks{})
	if len(sim.Runs()) != 2 {
		t.Errorf("Runs() = %d, want 2", len(sim.Runs()))
	}
	if _, ok := sim.Last("missing"); ok {
		t.Error("Last(missing) should fail")
	}
}

func TestScripted_CancelFinishesRun(t *testing.T) {
	sim := NewScripted()
	rec := &recorder{}

	h := sim.Start(context.Background(), "a", rec.callbacks())
	run, _ := sim.Last("a")
	h.Cancel()

	if got := waitOutcome(t, h); got != OutcomeCanceled {
		t.Fatalf("outcome = %s, want canceled", got)
	}

	// A late callback is still delivered; the consumer must discard it.
	run.Progress(0.5)
	progress, _ := rec.snapshot()
	if len(progress) != 1 {
		t.Errorf("late progress not delivered: %v", progress)
	}
	if h.Outcome() != OutcomeCanceled {
		t.Errorf("outcome changed after late callback: %s", h.Outcome())
	}
}
