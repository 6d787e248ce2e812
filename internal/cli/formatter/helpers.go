package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Wrap word-wraps text to width columns.
func Wrap(text string, width int) string {
	if width <= 0 {
		return strings.TrimSpace(text)
	}
	return lipgloss.NewStyle().Width(width).Render(strings.TrimSpace(text))
}

// HumanTimestamp returns a human-friendly timestamp relative to now.
func HumanTimestamp(t time.Time) string {
	return HumanTimestampFrom(t, time.Now())
}

// HumanTimestampFrom is HumanTimestamp against a fixed reference time.
func HumanTimestampFrom(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Local().Format("Jan 2, 2006 15:04")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Local().Format("Jan 2, 2006 15:04")
	}
}

// TruncID shortens a UUID to its first 8 characters.
func TruncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Minutes renders a minute count with one decimal.
func Minutes(m float64) string {
	return fmt.Sprintf("%.1f min", m)
}

// Pct renders a fraction as a percentage.
func Pct(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
