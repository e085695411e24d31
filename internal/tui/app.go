package tui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/Iron-Ham/uploadsim/internal/config"
	"github.com/Iron-Ham/uploadsim/internal/picker"
	"github.com/Iron-Ham/uploadsim/internal/upload"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
}

// New creates a new TUI application
func New(source TaskSource, opts Options) *App {
	model := NewModel(source, opts)
	// Size the first frame before the first WindowSizeMsg arrives
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		model.width, model.height = w, h
		model.ready = true
	}
	return &App{model: model}
}

// Run starts the TUI application and blocks until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-sigChan:
		case <-ctx.Done():
		case <-stop:
			return
		}
		a.program.Quit()
	}()

	_, err := a.program.Run()
	return err
}

// Messages

type tickMsg time.Time

// Commands

// tickInterval is how often the dashboard re-reads the registry snapshot.
const tickInterval = 100 * time.Millisecond

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.ensureSelectedVisible()
		return m, nil

	case tickMsg:
		m.refresh()
		m.ensureSelectedVisible()
		return m, tick()
	}

	return m, nil
}

// handleKeypress processes keyboard input
func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adding {
		return m.handleInput(msg)
	}

	m.errorMessage = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-m.verticalStep())
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(m.verticalStep())
	case key.Matches(msg, m.keys.Left):
		if m.layout == config.LayoutGrid {
			m.moveSelection(-1)
		}
	case key.Matches(msg, m.keys.Right):
		if m.layout == config.LayoutGrid {
			m.moveSelection(1)
		}

	case key.Matches(msg, m.keys.Retry):
		m.retrySelected()
	case key.Matches(msg, m.keys.RetryAll):
		n := m.source.RetryFailed()
		if n == 0 {
			m.infoMessage = "No failed uploads to retry"
		} else {
			m.infoMessage = fmt.Sprintf("Retrying %d failed %s", n, plural(n, "upload", "uploads"))
		}
		m.refresh()

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.infoMessage = ""
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Layout):
		if m.layout == config.LayoutGrid {
			m.layout = config.LayoutList
		} else {
			m.layout = config.LayoutGrid
		}
		m.offset = 0
	case key.Matches(msg, m.keys.Group):
		m.grouped = !m.grouped
		m.offset = 0
	case key.Matches(msg, m.keys.Summary):
		m.showSummary = !m.showSummary
	}

	m.ensureSelectedVisible()
	return m, nil
}

// handleInput routes keys to the path input while it is focused.
func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CancelInput):
		m.adding = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		value := m.input.Value()
		m.adding = false
		m.input.Blur()
		m.addPaths(strings.Fields(value))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// addPaths describes the given paths and adds every readable file.
func (m *Model) addPaths(paths []string) {
	expanded, err := picker.Expand(paths)
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	files, err := picker.FromPaths(expanded)
	if err != nil {
		m.errorMessage = err.Error()
	}
	if len(files) == 0 {
		return
	}

	ids := m.source.AddFiles(files)
	m.infoMessage = fmt.Sprintf("Added %d %s", len(ids), plural(len(ids), "file", "files"))
	m.refresh()
	if len(ids) > 0 {
		m.selectedID = ids[0]
	}
}

// retrySelected retries the selected task if it failed.
func (m *Model) retrySelected() {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	if task.Status != upload.StatusError {
		m.infoMessage = "Only failed uploads can be retried"
		return
	}
	m.source.RetryUpload(task.ID)
	m.infoMessage = "Retrying " + task.File.Name
	m.refresh()
}

// verticalStep is how far up/down moves: one row in the list, one grid row in the grid.
func (m Model) verticalStep() int {
	if m.layout == config.LayoutGrid {
		return m.gridColumns()
	}
	return 1
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
