// Package util provides shared formatting helpers for the TUI and CLI.
package util

import (
	"math"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// TruncateANSI truncates a string to maxWidth visual columns, adding "..." if truncated.
// ANSI escape codes and wide characters are measured by their rendered width.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate includes the tail in the final width calculation
	return ansi.Truncate(s, maxWidth, "...")
}

// TruncateFileName shortens a file name to maxWidth columns while keeping its
// extension visible, e.g. "holiday-photos-2024.jpeg" -> "holiday-p....jpeg".
// Names whose extension alone would not fit fall back to TruncateANSI.
func TruncateFileName(name string, maxWidth int) string {
	if lipgloss.Width(name) <= maxWidth {
		return name
	}
	ext := filepath.Ext(name)
	stemWidth := maxWidth - lipgloss.Width(ext)
	if ext == "" || ext == name || stemWidth <= 4 {
		return TruncateANSI(name, maxWidth)
	}
	return ansi.Truncate(name[:len(name)-len(ext)], stemWidth, "...") + ext
}

// FormatBytes renders a byte count for display ("0 B", "1.5 kB", "83 MB").
// Negative sizes render as zero.
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// FormatPercent renders a progress fraction in [0, 1] as a whole percentage.
// Only a fraction of exactly 1 renders as 100%.
func FormatPercent(fraction float64) string {
	switch {
	case fraction <= 0:
		return "0%"
	case fraction >= 1:
		return "100%"
	}
	return strconv.Itoa(min(int(math.Round(fraction*100)), 99)) + "%"
}
