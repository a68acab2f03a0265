package lesson

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	recordingdomain "finquest/internal/modules/recording/domain"
	recordingdto "finquest/internal/modules/recording/dto"
	sessiondomain "finquest/internal/modules/session/domain"
	sessiondto "finquest/internal/modules/session/dto"
	"finquest/internal/ui/components"
	"finquest/internal/ui/theme"
)

// Phase is the display phase of the lesson flow; the engine owns the truth,
// this only tracks what is on screen.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseQuestion
	PhaseFeedback
	PhaseComplete
	PhaseSummary
)

type Model struct {
	Phase      Phase
	Progress   sessiondto.ProgressOutput
	Current    sessiondto.CurrentOutput
	Selected   int
	WasRight   bool
	LastXP     int
	Result     sessiondto.ResultOutput
	Recorder   recordingdto.StatusOutput
	Submitting bool
	Err        string
	width      int
	height     int
}

func New() Model {
	return Model{Phase: PhaseIdle}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) View() string {
	var body string
	switch m.Phase {
	case PhaseIdle:
		body = theme.Muted.Render("No lesson in progress.\n\nPress ") +
			theme.Hot.Render("s") + theme.Muted.Render(" to start one.")
	case PhaseLoading:
		body = theme.Muted.Render("Fetching a fresh batch of questions…")
	case PhaseQuestion:
		body = m.questionView()
	case PhaseFeedback:
		body = m.feedbackView()
	case PhaseComplete:
		body = theme.Title.Render("Lesson complete!") + "\n\n" +
			m.scoreLine() + "\n\n" +
			theme.Muted.Render("Press ") + theme.Hot.Render("enter") +
			theme.Muted.Render(" to finish and save the result.")
	case PhaseSummary:
		body = m.summaryView()
	}
	if m.Err != "" {
		body += "\n\n" + theme.Bad.Render(m.Err)
	}
	pane := theme.PaneActive.Width(max(40, m.width-4))
	return pane.Render(body)
}

func (m Model) questionView() string {
	var b strings.Builder
	b.WriteString(theme.Muted.Render(fmt.Sprintf("Question %d of %d", m.Progress.CurrentIndex+1, m.Progress.Total)))
	b.WriteString("   ")
	b.WriteString(m.scoreLine())
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Render(m.Current.Item.Prompt))
	b.WriteString("\n\n")

	if m.Current.Item.Kind == sessiondomain.ItemVoice {
		b.WriteString(m.recorderView())
		return b.String()
	}

	for i, choice := range m.Current.Item.Choices {
		cursor := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == m.Selected {
			cursor = theme.Hot.Render("❯ ")
			style = style.Foreground(theme.Lavender).Bold(true)
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, theme.Muted.Render(fmt.Sprintf("%d.", i+1)), style.Render(choice)))
	}
	b.WriteString("\n")
	b.WriteString(theme.Muted.Render("↑/↓ choose · enter answer"))
	return b.String()
}

func (m Model) recorderView() string {
	var b strings.Builder
	switch m.Recorder.State {
	case recordingdomain.StateIdle:
		b.WriteString(theme.Muted.Render("Say your answer out loud.\n\n"))
		b.WriteString(theme.Hot.Render("r") + theme.Muted.Render(" start recording"))
	case recordingdomain.StateRecording:
		b.WriteString(theme.Bad.Render("● REC ") + components.FormatSeconds(m.Recorder.ElapsedSeconds))
		b.WriteString("\n\n")
		b.WriteString(theme.Muted.Render("r stop · p pause"))
	case recordingdomain.StatePaused:
		b.WriteString(theme.Hot.Render("⏸ paused ") + components.FormatSeconds(m.Recorder.ElapsedSeconds))
		b.WriteString("\n\n")
		b.WriteString(theme.Muted.Render("p resume · r stop"))
	case recordingdomain.StateRecorded:
		b.WriteString(theme.Good.Render("✓ recorded"))
		if m.Recorder.ClipMillis > 0 {
			b.WriteString(theme.Muted.Render(fmt.Sprintf(" (%.1fs)", float64(m.Recorder.ClipMillis)/1000)))
		}
		b.WriteString("\n\n")
		if m.Submitting {
			b.WriteString(theme.Muted.Render("Checking your answer…"))
		} else {
			b.WriteString(theme.Muted.Render("enter submit · x discard and retry"))
		}
	case recordingdomain.StateFailed:
		b.WriteString(theme.Bad.Render(m.Recorder.Message))
		b.WriteString("\n\n")
		b.WriteString(theme.Muted.Render("r try again"))
	}
	return b.String()
}

func (m Model) feedbackView() string {
	var b strings.Builder
	if m.WasRight {
		b.WriteString(theme.Good.Render("✓ Correct!"))
		if m.LastXP > 0 {
			b.WriteString("  " + theme.XPBadge.Render(fmt.Sprintf("+%d XP", m.LastXP)))
		}
	} else {
		b.WriteString(theme.Bad.Render("✗ Not quite."))
		if m.Current.Item.Kind == sessiondomain.ItemChoice &&
			m.Current.Item.CorrectIndex >= 0 && m.Current.Item.CorrectIndex < len(m.Current.Item.Choices) {
			b.WriteString("\n\n" + theme.Muted.Render("Answer: ") +
				theme.Good.Render(m.Current.Item.Choices[m.Current.Item.CorrectIndex]))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(m.scoreLine())
	b.WriteString("\n\n")
	b.WriteString(theme.Muted.Render("Press ") + theme.Hot.Render("enter") + theme.Muted.Render(" to continue."))
	return b.String()
}

func (m Model) summaryView() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Session summary"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %d   %s %d   %s\n",
		theme.Good.Render("correct"), m.Result.Correct,
		theme.Bad.Render("missed"), m.Result.Incorrect,
		theme.XPBadge.Render(fmt.Sprintf("+%d XP", m.Result.XPEarned))))
	if !m.Result.FinishedAt.IsZero() && !m.Result.StartedAt.IsZero() {
		b.WriteString(theme.Muted.Render(fmt.Sprintf("took %s", m.Result.FinishedAt.Sub(m.Result.StartedAt).Round(time.Second))))
		b.WriteString("\n")
	}
	b.WriteString("\n" + theme.Muted.Render("Press ") + theme.Hot.Render("s") + theme.Muted.Render(" for another round."))
	return b.String()
}

func (m Model) scoreLine() string {
	return theme.Good.Render(fmt.Sprintf("✓ %d", m.Progress.Score.Correct)) + "  " +
		theme.Bad.Render(fmt.Sprintf("✗ %d", m.Progress.Score.Incorrect))
}
