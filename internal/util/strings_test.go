package util

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestTruncateANSI(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("uploading-file")

	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string // plain text after stripping styles
	}{
		{"fits unchanged", "a.png", 10, "a.png"},
		{"exact width unchanged", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"tiny width is ellipsis", "hello", 3, "..."},
		{"negative width is ellipsis", "hello", -1, "..."},
		{"wide runes measured by columns", "日本語のファイル", 9, "日本語..."},
		{"styled text", styled, 10, "uploadi..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateANSI(tt.input, tt.maxWidth)
			if plain := ansi.Strip(got); plain != tt.want {
				t.Errorf("TruncateANSI(%q, %d) = %q, want %q", tt.input, tt.maxWidth, plain, tt.want)
			}
			if tt.maxWidth >= 3 && lipgloss.Width(got) > tt.maxWidth {
				t.Errorf("width %d exceeds %d", lipgloss.Width(got), tt.maxWidth)
			}
		})
	}
}

func TestTruncateFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"fits unchanged", "a.png", 10, "a.png"},
		{"keeps extension", "holiday-photos-2024.jpeg", 17, "holiday-p....jpeg"},
		{"no extension", "README-and-more", 10, "README-..."},
		{"dotfile", ".bashrc-backup", 10, ".bashrc..."},
		{"extension too long", "a-file.verylongextension", 10, "a-file...."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateFileName(tt.input, tt.maxWidth)
			if got != tt.expected {
				t.Errorf("TruncateFileName(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
			}
			if lipgloss.Width(got) > tt.maxWidth {
				t.Errorf("width %d exceeds %d", lipgloss.Width(got), tt.maxWidth)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{-1, "0 B"},
		{0, "0 B"},
		{999, "999 B"},
		{1000, "1.0 kB"},
		{1500, "1.5 kB"},
		{2_500_000, "2.5 MB"},
		{83_000_000, "83 MB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.input); got != tt.expected {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{-0.5, "0%"},
		{0, "0%"},
		{0.05, "5%"},
		{0.29, "29%"},
		{0.5, "50%"},
		{0.996, "99%"},
		{1, "100%"},
		{1.2, "100%"},
	}

	for _, tt := range tests {
		if got := FormatPercent(tt.input); got != tt.expected {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
