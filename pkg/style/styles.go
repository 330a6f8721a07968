package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)

	// DiffAddStyle and DiffDelStyle color unified diff lines.
	DiffAddStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	DiffDelStyle = lipgloss.NewStyle().Foreground(ErrorColor)
)

// Bold renders text in bold.
func Bold(text string) string {
	return lipgloss.NewStyle().Bold(true).Render(text)
}

// Indent prefixes every line with level*2 spaces.
func Indent(text string, level int) string {
	prefix := strings.Repeat("  ", level)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// Diff colors a unified diff line by line.
func Diff(diff string) string {
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+"):
			lines[i] = DiffAddStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = DiffDelStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = InfoStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
