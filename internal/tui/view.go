package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/uploadsim/internal/config"
	"github.com/Iron-Ham/uploadsim/internal/tui/styles"
	"github.com/Iron-Ham/uploadsim/internal/upload"
	"github.com/Iron-Ham/uploadsim/internal/util"
)

// failedBar draws the frozen bar of a failed task.
var failedBar = progress.New(
	progress.WithSolidFill(string(styles.ErrorColor)),
	progress.WithoutPercentage(),
)

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.showSummary {
		b.WriteString(m.renderSummary())
		b.WriteString("\n")
	}

	tasks := m.displayTasks()
	switch {
	case len(tasks) == 0:
		b.WriteString(m.renderEmpty())
	case m.layout == config.LayoutGrid:
		b.WriteString(m.renderGrid(tasks))
	default:
		b.WriteString(m.renderList(tasks))
	}
	b.WriteString("\n")

	if m.adding {
		b.WriteString(styles.InputBox.Width(m.widthOrDefault() - 4).Render(m.input.View()))
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the title line with the active view modes.
func (m Model) renderHeader() string {
	s := m.summary()
	modes := []string{m.layout}
	if m.grouped {
		modes = append(modes, "grouped")
	}
	sub := fmt.Sprintf("%d %s · %d active · %s",
		s.Total, plural(s.Total, "upload", "uploads"), s.Waiting+s.Uploading, strings.Join(modes, ", "))

	title := styles.Primary.Bold(true).Render("uploadsim")
	return styles.Header.Width(m.widthOrDefault()).Render(title + "  " + styles.Subtitle.Render(sub))
}

// renderSummary renders the aggregate overlay.
func (m Model) renderSummary() string {
	s := m.summary()
	label := styles.SummaryLabel.Render

	counts := strings.Join([]string{
		label("Total ") + fmt.Sprint(s.Total),
		styles.Status(upload.StatusCompleted, fmt.Sprintf("%s %d done", styles.StatusIcon(upload.StatusCompleted), s.Completed)),
		styles.Status(upload.StatusError, fmt.Sprintf("%s %d failed", styles.StatusIcon(upload.StatusError), s.Failed)),
		styles.Status(upload.StatusUploading, fmt.Sprintf("%s %d uploading", styles.StatusIcon(upload.StatusUploading), s.Uploading)),
		styles.Status(upload.StatusWaiting, fmt.Sprintf("%s %d waiting", styles.StatusIcon(upload.StatusWaiting), s.Waiting)),
	}, "   ")

	barWidth := max(min(m.widthOrDefault()-30, 50), MinBarWidth)
	bar := m.bar
	bar.Width = barWidth
	avg := label("Average progress ") + bar.ViewAs(s.AverageProgress) + " " + util.FormatPercent(s.AverageProgress)

	return styles.SummaryBox.Render(counts + "\n" + avg)
}

// renderEmpty renders the hint shown before any file is added.
func (m Model) renderEmpty() string {
	hint := "No uploads yet. Press " + styles.HelpKey.Render("a") + " to add files"
	if m.watchDir != "" {
		hint += ", or drop them into " + styles.Text.Render(m.watchDir)
	}
	return styles.EmptyState.Render(hint + ".")
}

// renderList renders one row per visible task.
func (m Model) renderList(tasks []upload.Task) string {
	nameWidth, barWidth := ListColumns(m.widthOrDefault())
	start := min(m.offset, len(tasks))
	end := min(start+m.visibleRows(), len(tasks))

	rows := make([]string, 0, end-start)
	for _, t := range tasks[start:end] {
		rows = append(rows, m.renderRow(t, t.ID == m.selectedID, nameWidth, barWidth))
	}
	return strings.Join(rows, "\n") + m.scrollHint(len(tasks), end)
}

// renderRow renders a single list row.
func (m Model) renderRow(t upload.Task, selected bool, nameWidth, barWidth int) string {
	icon := styles.Status(t.Status, styles.StatusIcon(t.Status))
	name := lipgloss.NewStyle().Width(nameWidth).Render(util.TruncateFileName(t.File.Name, nameWidth))
	size := lipgloss.NewStyle().Width(RowSizeWidth).Align(lipgloss.Right).Render(util.FormatBytes(t.File.Size))
	pct := lipgloss.NewStyle().Width(RowPercentWidth).Align(lipgloss.Right).Render(util.FormatPercent(t.Progress))
	status := lipgloss.NewStyle().Width(RowStatusWidth).Foreground(styles.StatusColor(t.Status)).Render(styles.StatusLabel(t.Status))

	line := strings.Join([]string{icon, name, size, m.barView(t, barWidth), pct, status}, " ")
	if selected {
		return styles.RowSelected.Render(line)
	}
	return styles.Row.Render(line)
}

// renderGrid renders tasks as cells, row by row.
func (m Model) renderGrid(tasks []upload.Task) string {
	cols := m.gridColumns()
	cellWidth := m.widthOrDefault() / cols

	totalRows := (len(tasks) + cols - 1) / cols
	startRow := min(m.offset, totalRows)
	endRow := min(startRow+m.visibleRows(), totalRows)

	rows := make([]string, 0, endRow-startRow)
	for r := startRow; r < endRow; r++ {
		cells := make([]string, 0, cols)
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(tasks) {
				break
			}
			cells = append(cells, m.renderCell(tasks[i], tasks[i].ID == m.selectedID, cellWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...) + m.scrollHint(totalRows, endRow)
}

// renderCell renders a single grid cell of total width cellWidth.
func (m Model) renderCell(t upload.Task, selected bool, cellWidth int) string {
	// Border takes 2 columns and padding another 2
	inner := max(cellWidth-4, 8)
	name := styles.Status(t.Status, styles.StatusIcon(t.Status)) + " " +
		util.TruncateFileName(t.File.Name, inner-2)
	meta := fmt.Sprintf("%s · %s · %s",
		util.FormatPercent(t.Progress), styles.Status(t.Status, styles.StatusLabel(t.Status)), util.FormatBytes(t.File.Size))

	content := name + "\n" + m.barView(t, inner) + "\n" + util.TruncateANSI(meta, inner)
	style := styles.Cell
	if selected {
		style = styles.CellSelected
	}
	return style.Width(cellWidth - 2).Render(content)
}

// barView draws a progress bar of the given width for t.
func (m Model) barView(t upload.Task, width int) string {
	bar := m.bar
	if t.Status == upload.StatusError {
		bar = failedBar
	}
	bar.Width = width
	return bar.ViewAs(t.Progress)
}

// scrollHint notes how many rows are below the visible window.
func (m Model) scrollHint(total, end int) string {
	if end >= total {
		return ""
	}
	return "\n" + styles.Muted.Render(fmt.Sprintf("  ↓ %d more", total-end))
}

// renderFooter renders the message line and the help bar.
func (m Model) renderFooter() string {
	var msg string
	switch {
	case m.errorMessage != "":
		msg = styles.ErrorMsg.Render(util.TruncateANSI(m.errorMessage, m.widthOrDefault()))
	case m.infoMessage != "":
		msg = styles.SuccessMsg.Render(m.infoMessage)
	}

	h := m.help
	h.Width = m.widthOrDefault()
	bindings := m.keys.ShortHelp()
	if m.adding {
		bindings = m.keys.inputHelp()
	}
	return msg + "\n" + styles.HelpBar.Render(h.ShortHelpView(bindings))
}
