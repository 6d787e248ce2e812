package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/roaster/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// UsageStyle colors a usage bucket from calm to alarming.
func UsageStyle(c domain.UsageCategory) lipgloss.Style {
	switch c {
	case domain.UsageLight:
		return StyleGreen
	case domain.UsageModerate:
		return StyleBlue
	case domain.UsageHeavy:
		return StyleYellow
	case domain.UsageExtreme:
		return StyleRed
	default:
		return StyleDim
	}
}

// IntensityBadge renders a roast intensity such as "● BRUTAL".
func IntensityBadge(intensity string) string {
	label := "● " + strings.ToUpper(intensity)
	switch domain.Intensity(intensity) {
	case domain.IntensityLight:
		return StyleGreen.Render(label)
	case domain.IntensityMedium:
		return StyleYellow.Render(label)
	case domain.IntensityBrutal:
		return StyleRed.Render(label)
	default:
		return StyleDim.Render(label)
	}
}

// Check renders a pass or fail marker.
func Check(ok bool) string {
	if ok {
		return StyleGreen.Render("✓")
	}
	return StyleRed.Render("✗")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
