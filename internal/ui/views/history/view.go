package history

import (
	"fmt"
	"strings"

	sessiondto "finquest/internal/modules/session/dto"
	"finquest/internal/ui/theme"
)

type Model struct {
	Results []sessiondto.ResultOutput
	Err     string
	width   int
}

func New() Model {
	return Model{}
}

func (m *Model) SetSize(width, _ int) {
	m.width = width
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("History"))
	b.WriteString("\n\n")
	switch {
	case m.Err != "":
		b.WriteString(theme.Bad.Render(m.Err))
	case len(m.Results) == 0:
		b.WriteString(theme.Muted.Render("No finished lessons yet."))
	default:
		for _, r := range m.Results {
			b.WriteString(fmt.Sprintf("%s  %s %s  %s\n",
				theme.Muted.Render(r.FinishedAt.Local().Format("Jan 02 15:04")),
				theme.Good.Render(fmt.Sprintf("✓%d", r.Correct)),
				theme.Bad.Render(fmt.Sprintf("✗%d", r.Incorrect)),
				theme.XPBadge.Render(fmt.Sprintf("+%d XP", r.XPEarned))))
		}
	}
	pane := theme.Pane.Width(max(40, m.width-4))
	return pane.Render(b.String())
}
