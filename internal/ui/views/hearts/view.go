package hearts

import (
	"fmt"
	"strings"

	heartsdto "finquest/internal/modules/hearts/dto"
	"finquest/internal/ui/components"
	"finquest/internal/ui/theme"
)

type Model struct {
	State heartsdto.StateOutput
	width int
}

func New() Model {
	return Model{}
}

func (m *Model) SetSize(width, _ int) {
	m.width = width
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Hearts"))
	b.WriteString("\n\n")
	if !m.State.Known {
		b.WriteString(theme.Muted.Render("Waiting for the server…"))
	} else {
		b.WriteString(components.HeartMeter(m.State))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%d of %d hearts", m.State.Hearts, m.State.MaxHearts))
		b.WriteString("\n")
		switch {
		case m.State.SecondsUntilNext != nil:
			b.WriteString(theme.Muted.Render(fmt.Sprintf("next heart in %s", components.FormatSeconds(*m.State.SecondsUntilNext))))
			if m.State.FullHeartsAt != nil {
				b.WriteString(theme.Muted.Render(fmt.Sprintf(" · full at %s", m.State.FullHeartsAt.Local().Format("15:04"))))
			}
		case m.State.Hearts >= m.State.MaxHearts:
			b.WriteString(theme.Good.Render("all hearts full"))
		default:
			b.WriteString(theme.Muted.Render("regeneration paused"))
		}
		if !m.State.FetchedAt.IsZero() {
			b.WriteString("\n\n")
			b.WriteString(theme.Muted.Render(fmt.Sprintf("synced %s", m.State.FetchedAt.Local().Format("15:04:05"))))
		}
	}
	pane := theme.Pane.Width(max(40, m.width-4))
	return pane.Render(b.String())
}
