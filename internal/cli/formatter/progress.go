package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBar renders a fraction as a bar like [████░░░░]  45%.
// The bar is green above 66%, yellow from 33% and red below.
func RenderBar(frac float64, width int) string {
	frac = min(max(frac, 0), 1)
	width = max(width, 2)

	filled := min(int(frac*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if frac < 0.33 {
		style = StyleRed
	} else if frac < 0.66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), frac*100)
}

// RenderShare renders a neutral bar for shares such as feature weights,
// where a small value is not bad news.
func RenderShare(frac float64, width int) string {
	frac = min(max(frac, 0), 1)
	width = max(width, 2)
	filled := min(int(frac*float64(width)+0.5), width)
	return StyleBlue.Render(strings.Repeat(filledBlock, filled)) +
		StyleDim.Render(strings.Repeat(emptyBlock, width-filled)) +
		fmt.Sprintf(" %5.1f%%", frac*100)
}
