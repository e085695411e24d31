package registry

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Iron-Ham/uploadsim/internal/event"
	"github.com/Iron-Ham/uploadsim/internal/logging"
	"github.com/Iron-Ham/uploadsim/internal/simulator"
	"github.com/Iron-Ham/uploadsim/internal/upload"
)

// Option configures a Registry.
type Option func(*Registry)

// WithBus publishes snapshots and task events on bus instead of a private one.
func WithBus(bus *event.Bus) Option {
	return func(r *Registry) {
		r.bus = bus
	}
}

// WithLogger sets the logger for task lifecycle messages.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger.WithComponent("registry")
		}
	}
}

// WithClock replaces time.Now for task and snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// run ties a live simulation to the generation it was started for.
type run struct {
	gen    uint64
	handle *simulator.Handle // nil until Start has returned
}

// Registry owns the ordered task collection. All methods are safe for
// concurrent use.
type Registry struct {
	sim    simulator.Simulator
	bus    *event.Bus
	logger *logging.Logger
	now    func() time.Time

	ctx    context.Context // parent of every simulation
	cancel context.CancelFunc

	mu      sync.Mutex
	tasks   []upload.Task
	index   map[string]int // task ID -> position in tasks
	runs    map[string]run // task ID -> live simulation
	nextGen uint64
	version uint64
	closed  bool

	latest atomic.Pointer[upload.Snapshot]
}

// New creates an empty Registry that starts transfers on sim.
func New(sim simulator.Simulator, opts ...Option) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		sim:    sim,
		logger: logging.NopLogger(),
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
		index:  make(map[string]int),
		runs:   make(map[string]run),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.bus == nil {
		r.bus = event.NewBus(r.logger)
	}

	r.latest.Store(&upload.Snapshot{At: r.now()})
	return r
}

// Bus returns the bus snapshots and task events are published on.
func (r *Registry) Bus() *event.Bus {
	return r.bus
}

// AddFiles creates one waiting task per file, in input order, publishes a
// single snapshot and then starts a simulation for each new task. It returns
// the new task IDs without waiting for any transfer.
func (r *Registry) AddFiles(files []upload.File) []string {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.logger.Warn("files added after close were ignored", "count", len(files))
		return nil
	}

	now := r.now()
	ids := make([]string, 0, len(files))
	gens := make([]uint64, 0, len(files))
	added := make([]event.Event, 0, len(files))
	for _, f := range files {
		f = upload.Normalize(f)
		task := upload.Task{
			ID:        r.newIDLocked(f.Name, now),
			File:      f,
			Status:    upload.StatusWaiting,
			Attempt:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.index[task.ID] = len(r.tasks)
		r.tasks = append(r.tasks, task)

		gen := r.beginRunLocked(task.ID)
		ids = append(ids, task.ID)
		gens = append(gens, gen)
		added = append(added, event.NewTaskAddedEvent(task))

		r.logger.WithTask(task.ID).Info("task added", "name", f.Name, "size", f.Size)
	}
	r.publishLocked(added...)
	r.mu.Unlock()

	for i, id := range ids {
		r.start(id, gens[i])
	}
	return ids
}

// RetryUpload resets the task to waiting with zero progress and starts a
// fresh simulation, superseding any run still tied to the task. Unknown IDs
// are ignored.
func (r *Registry) RetryUpload(id string) {
	r.mu.Lock()
	gen, prev, ok := r.retryLocked(id)
	r.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}
	if ok {
		r.start(id, gen)
	}
}

// RetryFailed retries every task currently in the error state and returns
// how many were retried.
func (r *Registry) RetryFailed() int {
	r.mu.Lock()
	var failed []string
	for _, t := range r.tasks {
		if t.Status == upload.StatusError {
			failed = append(failed, t.ID)
		}
	}
	gens := make([]uint64, 0, len(failed))
	var superseded []*simulator.Handle
	for _, id := range failed {
		gen, prev, _ := r.retryLocked(id)
		gens = append(gens, gen)
		if prev != nil {
			superseded = append(superseded, prev)
		}
	}
	r.mu.Unlock()

	for _, h := range superseded {
		h.Cancel()
	}
	for i, id := range failed {
		r.start(id, gens[i])
	}
	return len(failed)
}

// retryLocked resets the task and returns the generation of its new run
// together with the handle of the run it supersedes, if any. The caller
// cancels that handle after releasing r.mu, since a callback in flight on it
// may be waiting for the lock. Must be called while r.mu is held.
func (r *Registry) retryLocked(id string) (uint64, *simulator.Handle, bool) {
	if r.closed {
		return 0, nil, false
	}
	idx, ok := r.index[id]
	if !ok {
		r.logger.WithTask(id).Debug("retry ignored for unknown task")
		return 0, nil, false
	}

	var superseded *simulator.Handle
	if prev, ok := r.runs[id]; ok {
		superseded = prev.handle
	}
	gen := r.beginRunLocked(id)

	prev := r.tasks[idx]
	task := prev.Reset(r.now())
	r.tasks[idx] = task

	r.logger.WithTask(id).Info("task retried", "attempt", task.Attempt, "previous_status", prev.Status.String())
	events := []event.Event{event.NewTaskRetriedEvent(task)}
	if prev.Status != task.Status {
		events = append(events, event.NewStatusChangedEvent(task, prev.Status))
	}
	r.publishLocked(events...)
	return gen, superseded, true
}

// beginRunLocked reserves a new generation for id, superseding any earlier run.
// Must be called while r.mu is held.
func (r *Registry) beginRunLocked(id string) uint64 {
	r.nextGen++
	r.runs[id] = run{gen: r.nextGen}
	return r.nextGen
}

// start launches the simulation for generation gen of task id. It runs
// without r.mu so a simulator that reports synchronously cannot deadlock.
func (r *Registry) start(id string, gen uint64) {
	h := r.sim.Start(r.ctx, id, simulator.Callbacks{
		OnProgress: func(fraction float64) { r.onProgress(id, gen, fraction) },
		OnError:    func() { r.onError(id, gen) },
	})

	r.mu.Lock()
	cur, ok := r.runs[id]
	live := ok && cur.gen == gen
	if live {
		cur.handle = h
		r.runs[id] = cur
	}
	r.mu.Unlock()

	if !live {
		// Finished already, superseded by a retry, or closed meanwhile.
		h.Cancel()
	}
}

// currentLocked returns the position of id if gen is its live run.
// Must be called while r.mu is held.
func (r *Registry) currentLocked(id string, gen uint64) (int, bool) {
	if r.closed {
		return 0, false
	}
	idx, ok := r.index[id]
	if !ok {
		r.logger.WithTask(id).Debug("callback dropped for unknown task")
		return 0, false
	}
	if cur, ok := r.runs[id]; !ok || cur.gen != gen {
		r.logger.WithTask(id).Debug("callback dropped for superseded run", "generation", gen)
		return 0, false
	}
	return idx, true
}

func (r *Registry) onProgress(id string, gen uint64, fraction float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.currentLocked(id, gen)
	if !ok {
		return
	}
	prev := r.tasks[idx]
	task := prev.WithProgress(fraction, r.now())
	r.tasks[idx] = task

	var events []event.Event
	if task.Status != prev.Status {
		events = append(events, event.NewStatusChangedEvent(task, prev.Status))
	}
	if task.Status == upload.StatusCompleted {
		delete(r.runs, id)
		r.logger.WithTask(id).Info("task completed", "attempt", task.Attempt)
	}
	r.publishLocked(events...)
}

func (r *Registry) onError(id string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.currentLocked(id, gen)
	if !ok {
		return
	}
	prev := r.tasks[idx]
	task := prev.WithError(r.now())
	r.tasks[idx] = task
	delete(r.runs, id)

	r.logger.WithTask(id).Info("task failed", "attempt", task.Attempt, "progress", task.Progress)
	r.publishLocked(event.NewStatusChangedEvent(task, prev.Status))
}

// publishLocked stores a new snapshot and delivers it, followed by events,
// to subscribers. Must be called while r.mu is held.
func (r *Registry) publishLocked(events ...event.Event) {
	r.version++
	snap := &upload.Snapshot{
		Version: r.version,
		Tasks:   slices.Clone(r.tasks),
		At:      r.now(),
	}
	r.latest.Store(snap)

	r.bus.Publish(event.NewTasksUpdatedEvent(*snap))
	for _, e := range events {
		r.bus.Publish(e)
	}
}

// newIDLocked returns an ID not yet used by any task.
func (r *Registry) newIDLocked(name string, now time.Time) string {
	for {
		id := upload.NewID(name, now)
		if _, taken := r.index[id]; !taken {
			return id
		}
	}
}

// Subscribe registers handler for every snapshot published from now on, in
// publish order. Handlers run while the registry's update lock is held: they
// may call Snapshot or Task but must not call mutating methods synchronously.
func (r *Registry) Subscribe(handler func(upload.Snapshot)) string {
	return r.bus.Subscribe(event.TypeTasksUpdated, func(e event.Event) {
		if u, ok := e.(event.TasksUpdatedEvent); ok {
			handler(u.Snapshot)
		}
	})
}

// Unsubscribe removes a subscription created by Subscribe.
func (r *Registry) Unsubscribe(id string) bool {
	return r.bus.Unsubscribe(id)
}

// Snapshot returns the most recently published snapshot. It never blocks on
// the update lock.
func (r *Registry) Snapshot() upload.Snapshot {
	return *r.latest.Load()
}

// Task returns the current state of one task.
func (r *Registry) Task(id string) (upload.Task, bool) {
	return r.Snapshot().Find(id)
}

// Wait blocks until no task is waiting or uploading, or ctx is done.
func (r *Registry) Wait(ctx context.Context) error {
	changed := make(chan struct{}, 1)
	sub := r.Subscribe(func(upload.Snapshot) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer r.Unsubscribe(sub)

	for {
		if upload.Summarize(r.Snapshot().Tasks).Done() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// Close cancels every live simulation and waits for them to exit. Tasks keep
// their last state; later AddFiles and RetryUpload calls are ignored.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	handles := make([]*simulator.Handle, 0, len(r.runs))
	for _, cur := range r.runs {
		if cur.handle != nil {
			handles = append(handles, cur.handle)
		}
	}
	clear(r.runs)
	r.mu.Unlock()

	r.cancel()
	for _, h := range handles {
		h.Cancel()
		h.Wait()
	}
	r.logger.Debug("registry closed", "canceled_runs", len(handles))
}
