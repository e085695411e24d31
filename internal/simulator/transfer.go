package simulator

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/Iron-Ham/uploadsim/internal/logging"
)

// Config shapes every run started by a Transfer.
type Config struct {
	// Steps is the number of progress ticks in a successful run.
	Steps int
	// TickInterval is the base delay before each tick.
	TickInterval time.Duration
	// TickJitter is the maximum random delay added to each tick.
	TickJitter time.Duration
	// FailureRate is the probability in [0, 1] that a run is destined to fail.
	FailureRate float64
	// MinFailStep is the last step that can never fail; failures happen on a
	// later step so some progress is always visible first.
	MinFailStep int
}

// DefaultConfig returns 20 steps of 150-200ms with a 20% failure rate.
func DefaultConfig() Config {
	return Config{
		Steps:        20,
		TickInterval: 150 * time.Millisecond,
		TickJitter:   50 * time.Millisecond,
		FailureRate:  0.2,
		MinFailStep:  5,
	}
}

// Option configures a Transfer.
type Option func(*Transfer)

// WithSeed makes the failure and jitter decisions reproducible.
func WithSeed(seed uint64) Option {
	return func(t *Transfer) {
		t.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets the logger used for run lifecycle messages.
func WithLogger(logger *logging.Logger) Option {
	return func(t *Transfer) {
		if logger != nil {
			t.logger = logger.WithComponent("simulator")
		}
	}
}

// Transfer is the timer-driven Simulator. It is safe for concurrent use.
type Transfer struct {
	cfg    Config
	logger *logging.Logger

	mu  sync.Mutex // protects rng
	rng *rand.Rand

	runs conc.WaitGroup
}

// New creates a Transfer. Non-positive Steps fall back to the default.
func New(cfg Config, opts ...Option) *Transfer {
	if cfg.Steps <= 0 {
		cfg.Steps = DefaultConfig().Steps
	}
	t := &Transfer{
		cfg:    cfg,
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		seed := uint64(time.Now().UnixNano())
		t.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return t
}

// Config returns the configuration runs are started with.
func (t *Transfer) Config() Config {
	return t.cfg
}

// plan holds the decisions made up front for one run.
type plan struct {
	failStep int // 0 when the run succeeds
	delays   []time.Duration
}

func (t *Transfer) plan() plan {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := plan{delays: make([]time.Duration, t.cfg.Steps)}
	for i := range p.delays {
		p.delays[i] = t.cfg.TickInterval
		if t.cfg.TickJitter > 0 {
			p.delays[i] += time.Duration(t.rng.Int64N(int64(t.cfg.TickJitter) + 1))
		}
	}

	if t.cfg.FailureRate > 0 && t.rng.Float64() < t.cfg.FailureRate {
		lo := max(t.cfg.MinFailStep+1, 1)
		if lo <= t.cfg.Steps {
			p.failStep = lo + t.rng.IntN(t.cfg.Steps-lo+1)
		}
	}
	return p
}

// Start launches a run for id and returns immediately.
// Cancelling ctx cancels the run as if Handle.Cancel had been called.
func (t *Transfer) Start(ctx context.Context, id string, cb Callbacks) *Handle {
	runCtx, cancel := context.WithCancel(ctx)
	h := newHandle(id, cancel)
	p := t.plan()

	t.logger.Debug("simulation started", "task_id", id, "fail_step", p.failStep)

	t.runs.Go(func() {
		outcome := OutcomeCanceled
		defer func() {
			cancel()
			h.finish(outcome)
		}()
		outcome = t.run(runCtx, h, p, cb)
		t.logger.Debug("simulation finished", "task_id", id, "outcome", outcome.String())
	})
	return h
}

func (t *Transfer) run(ctx context.Context, h *Handle, p plan, cb Callbacks) Outcome {
	timer := time.NewTimer(p.delays[0])
	defer timer.Stop()

	for step := 1; step <= t.cfg.Steps; step++ {
		if step > 1 {
			timer.Reset(p.delays[step-1])
		}
		select {
		case <-ctx.Done():
			return OutcomeCanceled
		case <-timer.C:
		}
		if ctx.Err() != nil {
			return OutcomeCanceled
		}

		if step == p.failStep {
			if !h.deliver(cb.fail) {
				return OutcomeCanceled
			}
			return OutcomeFailed
		}
		fraction := float64(step) / float64(t.cfg.Steps)
		if !h.deliver(func() { cb.progress(fraction) }) {
			return OutcomeCanceled
		}
	}
	return OutcomeCompleted
}

// Wait blocks until every run started so far has exited. A panic raised by
// a callback is re-raised here.
func (t *Transfer) Wait() {
	t.runs.Wait()
}
