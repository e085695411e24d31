// Package tui provides the terminal dashboard for uploadsim.
// This file contains layout-related constants and dimension calculation functions.
package tui

import "github.com/Iron-Ham/uploadsim/internal/config"

// Layout offsets - these represent the space taken by fixed UI elements
const (
	// ChromeHeight accounts for header (2 + margin), info line and help bar (2).
	ChromeHeight = 6

	// SummaryHeight is the height of the summary overlay including border and margin.
	SummaryHeight = 6

	// InputHeight is the height of the path input box including border and margin.
	InputHeight = 4

	// GridCellHeight is the height of one grid cell: border (2) + name, bar and status lines.
	GridCellHeight = 5

	// DefaultWidth is used before the terminal reports its size.
	DefaultWidth = 80
)

// List row dimensions
const (
	// RowIconWidth covers the status icon and its trailing space.
	RowIconWidth = 2
	// RowSizeWidth fits the widest FormatBytes output ("999 kB").
	RowSizeWidth = 8
	// RowPercentWidth fits "100%".
	RowPercentWidth = 5
	// RowStatusWidth fits the widest status label ("Uploading").
	RowStatusWidth = 10
	// RowPadding is the horizontal padding of a row plus column gaps.
	RowPadding = 6
	// MinBarWidth is the narrowest progress bar drawn.
	MinBarWidth = 10
)

// GridColumns returns how many cells of at least minCell columns fit in width.
// At least one column is always returned.
func GridColumns(width, minCell int) int {
	if minCell <= 0 || width < minCell {
		return 1
	}
	return width / minCell
}

// ListColumns splits a list row into name and bar widths for the terminal width.
func ListColumns(width int) (nameWidth, barWidth int) {
	avail := width - RowIconWidth - RowSizeWidth - RowPercentWidth - RowStatusWidth - RowPadding
	if avail < MinBarWidth+8 {
		return 8, MinBarWidth
	}
	nameWidth = avail * 2 / 5
	barWidth = avail - nameWidth
	return nameWidth, barWidth
}

// ScrollOffset returns the first visible row so that row selected is within a
// window of capacity rows starting near offset.
func ScrollOffset(offset, selected, capacity, total int) int {
	if capacity <= 0 || total <= capacity {
		return 0
	}
	if selected < offset {
		offset = selected
	}
	if selected >= offset+capacity {
		offset = selected - capacity + 1
	}
	return min(max(offset, 0), total-capacity)
}

// widthOrDefault returns the usable terminal width.
func (m Model) widthOrDefault() int {
	if m.width <= 0 {
		return DefaultWidth
	}
	return m.width
}

// gridColumns returns the number of grid columns for the current width.
func (m Model) gridColumns() int {
	return GridColumns(m.widthOrDefault(), m.minCellWidth)
}

// bodyHeight returns the lines available for task rows or cells.
func (m Model) bodyHeight() int {
	h := m.height - ChromeHeight
	if m.showSummary {
		h -= SummaryHeight
	}
	if m.adding {
		h -= InputHeight
	}
	return max(h, 1)
}

// visibleRows returns how many list rows or grid rows fit on screen.
func (m Model) visibleRows() int {
	if m.layout == config.LayoutGrid {
		return max(m.bodyHeight()/GridCellHeight, 1)
	}
	return m.bodyHeight()
}

// ensureSelectedVisible scrolls so the selected task is on screen.
func (m *Model) ensureSelectedVisible() {
	idx := max(m.selectedIndex(), 0)
	total := len(m.snap.Tasks)
	if m.layout == config.LayoutGrid {
		cols := m.gridColumns()
		idx /= cols
		total = (total + cols - 1) / cols
	}
	if m.height <= 0 {
		m.offset = 0
		return
	}
	m.offset = ScrollOffset(m.offset, idx, m.visibleRows(), total)
}
