package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/Iron-Ham/uploadsim/internal/config"
	"github.com/Iron-Ham/uploadsim/internal/tui/styles"
	"github.com/Iron-Ham/uploadsim/internal/upload"
)

// TaskSource is the part of the registry the dashboard drives.
type TaskSource interface {
	Snapshot() upload.Snapshot
	AddFiles(files []upload.File) []string
	RetryUpload(id string)
	RetryFailed() int
}

// Options configure the dashboard.
type Options struct {
	// Layout is config.LayoutList or config.LayoutGrid.
	Layout string
	// ShowSummary shows the summary overlay on startup.
	ShowSummary bool
	// GridMinCellWidth is the narrowest grid cell in columns.
	GridMinCellWidth int
	// WatchDir is shown in the empty state when a drop folder is active.
	WatchDir string
}

// OptionsFromConfig builds dashboard options from the TUI config section.
func OptionsFromConfig(cfg config.TUIConfig, watchDir string) Options {
	return Options{
		Layout:           cfg.Layout,
		ShowSummary:      cfg.ShowSummary,
		GridMinCellWidth: cfg.GridMinCellWidth,
		WatchDir:         watchDir,
	}
}

// Model holds the TUI state. Task state is never cached beyond the latest
// snapshot; every tick re-reads it from the source.
type Model struct {
	source TaskSource
	snap   upload.Snapshot

	// Terminal dimensions
	width  int
	height int
	ready  bool

	// View state
	layout       string
	grouped      bool
	showSummary  bool
	minCellWidth int
	watchDir     string

	// Selection follows the task, not the position, across regrouping.
	selectedID string
	offset     int // first visible row

	// Path input
	adding bool
	input  textinput.Model

	bar  progress.Model
	keys keyMap
	help help.Model

	infoMessage  string
	errorMessage string
	quitting     bool
}

// NewModel creates a dashboard reading from source.
func NewModel(source TaskSource, opts Options) Model {
	if opts.Layout != config.LayoutGrid {
		opts.Layout = config.LayoutList
	}
	if opts.GridMinCellWidth <= 0 {
		opts.GridMinCellWidth = config.Default().TUI.GridMinCellWidth
	}

	input := textinput.New()
	input.Placeholder = "path/to/file.png other/dir"
	input.Prompt = styles.InputPrompt.Render("add › ")
	input.CharLimit = 4096

	m := Model{
		source:       source,
		layout:       opts.Layout,
		showSummary:  opts.ShowSummary,
		minCellWidth: opts.GridMinCellWidth,
		watchDir:     opts.WatchDir,
		input:        input,
		bar: progress.New(
			progress.WithGradient(styles.BarStartColor, styles.BarEndColor),
			progress.WithoutPercentage(),
		),
		keys: newKeyMap(),
		help: help.New(),
	}
	m.refresh()
	return m
}

// refresh pulls the latest snapshot and keeps the selection valid.
func (m *Model) refresh() {
	m.snap = m.source.Snapshot()
	tasks := m.displayTasks()
	if len(tasks) == 0 {
		m.selectedID = ""
		m.offset = 0
		return
	}
	if m.selectedIndex() < 0 {
		m.selectedID = tasks[0].ID
	}
}

// displayTasks returns tasks in the order they are drawn.
func (m Model) displayTasks() []upload.Task {
	if m.grouped {
		return upload.GroupByStatus(m.snap.Tasks)
	}
	return m.snap.Tasks
}

// selectedIndex returns the display position of the selected task, or -1.
func (m Model) selectedIndex() int {
	for i, t := range m.displayTasks() {
		if t.ID == m.selectedID {
			return i
		}
	}
	return -1
}

// selectedTask returns the selected task, if any.
func (m Model) selectedTask() (upload.Task, bool) {
	if m.selectedID == "" {
		return upload.Task{}, false
	}
	return m.snap.Find(m.selectedID)
}

// moveSelection moves the selection by delta display positions, clamped.
func (m *Model) moveSelection(delta int) {
	tasks := m.displayTasks()
	if len(tasks) == 0 {
		return
	}
	idx := max(m.selectedIndex(), 0) + delta
	idx = min(max(idx, 0), len(tasks)-1)
	m.selectedID = tasks[idx].ID
}

// summary returns the aggregate view of the current snapshot.
func (m Model) summary() upload.Summary {
	return upload.Summarize(m.snap.Tasks)
}
