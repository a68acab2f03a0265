package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	heartsdto "finquest/internal/modules/hearts/dto"
	"finquest/internal/ui/theme"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	sepStyle = lipgloss.NewStyle().Foreground(theme.Surface1)
)

// HeartMeter renders the hearts as filled/empty glyphs with the countdown to
// the next regeneration tick.
func HeartMeter(state heartsdto.StateOutput) string {
	if !state.Known {
		return theme.Muted.Render("♥ —")
	}
	var b strings.Builder
	for i := 0; i < state.MaxHearts; i++ {
		if i < state.Hearts {
			b.WriteString("♥")
		} else {
			b.WriteString("♡")
		}
	}
	meter := theme.Hearts.Render(b.String())
	if state.SecondsUntilNext != nil {
		meter += theme.Muted.Render(fmt.Sprintf(" +1 in %s", FormatSeconds(*state.SecondsUntilNext)))
	}
	return meter
}

// StatusBar joins segments with a muted separator.
func StatusBar(width int, segments ...string) string {
	joined := strings.Join(segments, sepStyle.Render("  │  "))
	return barStyle.Width(width).Render(joined)
}

// FormatSeconds renders a second count as m:ss.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
