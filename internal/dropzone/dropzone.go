// Package dropzone watches a folder and adds every file dropped into it to
// the upload registry. It is the terminal counterpart of a drag-and-drop
// target: copy or move a file into the folder and it starts uploading.
package dropzone

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/Iron-Ham/uploadsim/internal/errors"
	"github.com/Iron-Ham/uploadsim/internal/logging"
	"github.com/Iron-Ham/uploadsim/internal/picker"
	"github.com/Iron-Ham/uploadsim/internal/upload"
)

// DefaultDebounce is how long a file must stay quiet before it is picked up.
// Copies arrive as a create followed by several writes.
const DefaultDebounce = 150 * time.Millisecond

// Sink receives the files picked up from the folder.
type Sink interface {
	AddFiles(files []upload.File) []string
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// Watcher turns files dropped into a directory into new upload tasks.
type Watcher struct {
	dir      string
	matchers []glob.Glob
	sink     Sink
	logger   *logging.Logger
	debounce time.Duration

	ready     chan struct{}
	readyOnce sync.Once

	mu   sync.Mutex
	seen map[string]struct{} // absolute paths already handed to the sink
}

// New creates a Watcher for dir. A file is accepted when its base name
// matches any of patterns, or always when patterns is empty.
func New(dir string, patterns []string, sink Sink, logger *logging.Logger, opts ...Option) (*Watcher, error) {
	if dir == "" {
		return nil, errors.NewValidationError("drop folder path cannot be empty").WithField("dir")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.NewFileError("resolve", dir, err)
	}

	matchers := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.NewValidationError("invalid glob pattern: " + err.Error()).
				WithField("patterns").WithValue(p)
		}
		matchers = append(matchers, g)
	}

	if logger == nil {
		logger = logging.NopLogger()
	}
	w := &Watcher{
		dir:      abs,
		matchers: matchers,
		sink:     sink,
		logger:   logger.WithComponent("dropzone").With("dir", abs),
		debounce: DefaultDebounce,
		ready:    make(chan struct{}),
		seen:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the absolute path being watched.
func (w *Watcher) Dir() string {
	return w.dir
}

// Ready is closed once Run has started watching the folder.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Matches reports whether a file name passes the include patterns.
func (w *Watcher) Matches(name string) bool {
	if len(w.matchers) == 0 {
		return true
	}
	for _, g := range w.matchers {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Run watches the folder until ctx is done. Files present before Run starts
// are ignored; only files created or moved in afterwards are added.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return errors.NewFileError("mkdir", w.dir, err).WithSeverity(errors.SeverityError)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(w.dir); err != nil {
		return errors.NewFileError("watch", w.dir, err).WithSeverity(errors.SeverityError)
	}
	w.markExisting()
	w.readyOnce.Do(func() { close(w.ready) })
	w.logger.Info("watching drop folder", "patterns", len(w.matchers))

	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer
	defer debounce.Stop()

	pending := make(map[string]struct{})
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return w.closedError()
			}
			// Rename-into shows up as Create on the destination
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			pending[ev.Name] = struct{}{}
			debounce.Reset(w.debounce)

		case <-debounce.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			w.handle(paths)

		case err, ok := <-watcher.Errors:
			if !ok {
				return w.closedError()
			}
			w.logger.Warn("watcher error", "error", err.Error())
		}
	}
}

// closedError reports that fsnotify shut its channels. It is a warning: the
// drop folder stops feeding uploads but the rest of the session carries on.
func (w *Watcher) closedError() error {
	return errors.NewFileError("watch", w.dir, errors.ErrWatcherClosed)
}

// markExisting records files already in the folder so they are not added.
func (w *Watcher) markExisting() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, e := range entries {
		w.seen[filepath.Join(w.dir, e.Name())] = struct{}{}
	}
}

// handle adds the unseen, matching regular files among paths in one batch.
func (w *Watcher) handle(paths []string) {
	slices.Sort(paths)

	var files []upload.File
	w.mu.Lock()
	for _, p := range paths {
		if _, ok := w.seen[p]; ok {
			continue
		}
		if !w.Matches(filepath.Base(p)) {
			w.logger.Debug("ignored file not matching patterns", "path", p)
			continue
		}
		f, err := picker.Describe(p)
		if err != nil {
			// Deleted again or a directory; neither is an upload.
			w.logger.Debug("ignored dropped path", "path", p, "error", err.Error())
			continue
		}
		w.seen[p] = struct{}{}
		files = append(files, f)
	}
	w.mu.Unlock()

	if len(files) == 0 {
		return
	}
	ids := w.sink.AddFiles(files)
	w.logger.Info("dropped files added", "count", len(files), "task_ids", ids)
}
