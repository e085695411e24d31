package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/uploadsim/internal/upload"
)

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple (violet-400)
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red (red-400)
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray (gray-500)

	// Progress bar gradient
	BarStartColor = "#60A5FA" // Blue
	BarEndColor   = "#A78BFA" // Purple

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Status colors
	StatusWaiting   = lipgloss.Color("#9CA3AF") // Gray
	StatusUploading = lipgloss.Color("#60A5FA") // Blue
	StatusCompleted = lipgloss.Color("#10B981") // Green
	StatusFailed    = lipgloss.Color("#F87171") // Red

	// Header
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(BorderColor).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// Task rows
	Row = lipgloss.NewStyle().
		Padding(0, 1)

	RowSelected = lipgloss.NewStyle().
			Bold(true).
			Background(SurfaceColor).
			Padding(0, 1)

	// Grid cells
	Cell = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)

	CellSelected = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 1)

	// Summary overlay
	SummaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 2).
			MarginBottom(1)

	SummaryLabel = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Path input
	InputBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 1).
			MarginTop(1)

	InputPrompt = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	// Error message
	ErrorMsg = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Success message
	SuccessMsg = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	EmptyState = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(1, 2)
)

// StatusColor returns the color for a given task status
func StatusColor(status upload.Status) lipgloss.Color {
	switch status {
	case upload.StatusWaiting:
		return StatusWaiting
	case upload.StatusUploading:
		return StatusUploading
	case upload.StatusCompleted:
		return StatusCompleted
	case upload.StatusError:
		return StatusFailed
	default:
		return MutedColor
	}
}

// StatusIcon returns an icon for a given task status
func StatusIcon(status upload.Status) string {
	switch status {
	case upload.StatusWaiting:
		return "○"
	case upload.StatusUploading:
		return "◐"
	case upload.StatusCompleted:
		return "✓"
	case upload.StatusError:
		return "✗"
	default:
		return "?"
	}
}

// StatusLabel returns the user-facing label for a task status
func StatusLabel(status upload.Status) string {
	switch status {
	case upload.StatusWaiting:
		return "Waiting"
	case upload.StatusUploading:
		return "Uploading"
	case upload.StatusCompleted:
		return "Done"
	case upload.StatusError:
		return "Failed"
	default:
		return string(status)
	}
}

// Status renders text in the color of status
func Status(status upload.Status, text string) string {
	return lipgloss.NewStyle().Foreground(StatusColor(status)).Render(text)
}
