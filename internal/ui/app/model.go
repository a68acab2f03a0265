package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	heartsdto "finquest/internal/modules/hearts/dto"
	profiledomain "finquest/internal/modules/profile/domain"
	recordingdomain "finquest/internal/modules/recording/domain"
	recordingdto "finquest/internal/modules/recording/dto"
	sessiondomain "finquest/internal/modules/session/domain"
	sessiondto "finquest/internal/modules/session/dto"
	"finquest/internal/ui/components"
	"finquest/internal/ui/theme"
	heartsview "finquest/internal/ui/views/hearts"
	historyview "finquest/internal/ui/views/history"
	lessonview "finquest/internal/ui/views/lesson"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface this orchestration layer requires.

type enginePort interface {
	StartLesson(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error)
	Current() (sessiondto.CurrentOutput, error)
	NextQuestion() (sessiondto.ProgressOutput, error)
	SubmitAnswer(ctx context.Context, input sessiondto.SubmitAnswerInput) (sessiondto.SubmitAnswerOutput, error)
	SubmitVoiceAnswer(ctx context.Context, input sessiondto.VoiceAnswerInput) (*sessiondto.VoiceAnswerOutput, error)
	Progress() (sessiondto.ProgressOutput, error)
	EndLesson(ctx context.Context) (sessiondto.ResultOutput, error)
	History(ctx context.Context, limit int) ([]sessiondto.ResultOutput, error)
}

type heartsPort interface {
	State() heartsdto.StateOutput
	Fetch(ctx context.Context) error
}

type recorderPort interface {
	Start(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
	Reset(ctx context.Context)
	Base64() (string, error)
	Status() recordingdto.StatusOutput
}

type profilePort interface {
	Snapshot() profiledomain.Profile
	ToggleSound() bool
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabLearn tabID = iota
	tabHearts
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Learn", "Hearts", "History"}

// ─── async messages ──────────────────────────────────────────────────────────

type tickMsg time.Time

type lessonStartedMsg struct {
	out sessiondto.StartOutput
	err error
}

type voiceResultMsg struct {
	out *sessiondto.VoiceAnswerOutput
	err error
}

type lessonEndedMsg struct {
	result sessiondto.ResultOutput
	err    error
}

type historyLoadedMsg struct {
	results []sessiondto.ResultOutput
	err     error
}

type recorderOpMsg struct{ err error }

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab    key.Binding
	Help   key.Binding
	Quit   key.Binding
	Start  key.Binding
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Record key.Binding
	Pause  key.Binding
	Reset  key.Binding
	Sound  key.Binding
	End    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start lesson")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Record: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "record")),
		Pause:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
		Reset:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "discard take")),
		Sound:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "sound on/off")),
		End:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end lesson")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Start, k.Enter, k.Record, k.Sound, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Start, k.End},
		{k.Up, k.Down, k.Enter},
		{k.Record, k.Pause, k.Reset},
		{k.Sound, k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	engine   enginePort
	hearts   heartsPort
	recorder recorderPort
	profile  profilePort

	tab        tabID
	keys       keyMap
	help       help.Model
	lesson     lessonview.Model
	heartsView heartsview.Model
	history    historyview.Model

	lessonLength  int
	questionShown time.Time
	width         int
	height        int
}

func NewModel(engine enginePort, hearts heartsPort, recorder recorderPort, profile profilePort, lessonLength int) Model {
	return Model{
		engine:       engine,
		hearts:       hearts,
		recorder:     recorder,
		profile:      profile,
		keys:         defaultKeys(),
		help:         help.New(),
		lesson:       lessonview.New(),
		heartsView:   heartsview.New(),
		history:      historyview.New(),
		lessonLength: lessonLength,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.lesson.SetSize(msg.Width, msg.Height)
		m.heartsView.SetSize(msg.Width, msg.Height)
		m.history.SetSize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		m.heartsView.State = m.hearts.State()
		m.lesson.Recorder = m.recorder.Status()
		return m, tick()

	case lessonStartedMsg:
		if msg.err != nil {
			m.lesson.Phase = lessonview.PhaseIdle
			m.lesson.Err = msg.err.Error()
			return m, nil
		}
		m.lesson.Err = ""
		return m.showCurrent()

	case voiceResultMsg:
		m.lesson.Submitting = false
		if msg.err != nil {
			m.lesson.Err = "Couldn't check that answer. Submit again when you're ready."
			return m, nil
		}
		m.recorder.Reset(context.Background())
		m.lesson.Err = ""
		m.lesson.Phase = lessonview.PhaseFeedback
		m.lesson.WasRight = msg.out.IsCorrect
		m.lesson.LastXP = msg.out.XPEarned
		if progress, err := m.engine.Progress(); err == nil {
			m.lesson.Progress = progress
		}
		return m, nil

	case lessonEndedMsg:
		if msg.err != nil {
			m.lesson.Err = msg.err.Error()
			return m, nil
		}
		m.lesson.Err = ""
		m.lesson.Phase = lessonview.PhaseSummary
		m.lesson.Result = msg.result
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.history.Err = msg.err.Error()
		} else {
			m.history.Err = ""
			m.history.Results = msg.results
		}
		return m, nil

	case recorderOpMsg:
		m.lesson.Recorder = m.recorder.Status()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		m.tab = (m.tab + 1) % tabCount
		if m.tab == tabHistory {
			return m, m.loadHistoryCmd()
		}
		return m, nil
	case key.Matches(msg, m.keys.Sound):
		m.profile.ToggleSound()
		return m, nil
	}
	if m.tab != tabLearn {
		return m, nil
	}
	return m.handleLearnKey(msg)
}

func (m Model) handleLearnKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Start):
		if m.lesson.Phase == lessonview.PhaseIdle || m.lesson.Phase == lessonview.PhaseSummary {
			m.lesson = lessonview.New()
			m.lesson.SetSize(m.width, m.height)
			m.lesson.Phase = lessonview.PhaseLoading
			return m, m.startLessonCmd()
		}

	case key.Matches(msg, m.keys.End):
		if m.lesson.Phase == lessonview.PhaseQuestion || m.lesson.Phase == lessonview.PhaseFeedback ||
			m.lesson.Phase == lessonview.PhaseComplete {
			m.recorder.Reset(context.Background())
			return m, m.endLessonCmd()
		}

	case key.Matches(msg, m.keys.Up):
		if m.onChoices() && m.lesson.Selected > 0 {
			m.lesson.Selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.onChoices() && m.lesson.Selected < len(m.lesson.Current.Item.Choices)-1 {
			m.lesson.Selected++
		}
		return m, nil

	case key.Matches(msg, m.keys.Record):
		return m.handleRecordKey()

	case key.Matches(msg, m.keys.Pause):
		switch m.recorder.Status().State {
		case recordingdomain.StateRecording:
			return m, m.recorderCmd(m.recorder.Pause)
		case recordingdomain.StatePaused:
			return m, m.recorderCmd(m.recorder.Resume)
		}
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		if m.onVoice() && !m.lesson.Submitting {
			m.recorder.Reset(context.Background())
			m.lesson.Recorder = m.recorder.Status()
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		return m.handleEnter()
	}

	// number keys select a choice directly
	if m.onChoices() && len(msg.String()) == 1 {
		if n := int(msg.String()[0] - '1'); n >= 0 && n < len(m.lesson.Current.Item.Choices) {
			m.lesson.Selected = n
		}
	}
	return m, nil
}

func (m Model) handleRecordKey() (tea.Model, tea.Cmd) {
	if !m.onVoice() || m.lesson.Submitting {
		return m, nil
	}
	switch m.recorder.Status().State {
	case recordingdomain.StateIdle, recordingdomain.StateFailed, recordingdomain.StateRecorded:
		return m, m.recorderCmd(m.recorder.Start)
	case recordingdomain.StateRecording, recordingdomain.StatePaused:
		return m, m.recorderCmd(m.recorder.Stop)
	}
	return m, nil
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.lesson.Phase {
	case lessonview.PhaseQuestion:
		if m.lesson.Current.Item.Kind == sessiondomain.ItemVoice {
			if m.recorder.Status().State == recordingdomain.StateRecorded && !m.lesson.Submitting {
				m.lesson.Submitting = true
				m.lesson.Err = ""
				return m, m.submitVoiceCmd(int(time.Since(m.questionShown).Milliseconds()))
			}
			return m, nil
		}
		return m.submitChoice()

	case lessonview.PhaseFeedback:
		progress, err := m.engine.NextQuestion()
		if err != nil {
			m.lesson.Err = err.Error()
			return m, nil
		}
		m.lesson.Progress = progress
		if progress.Complete {
			m.lesson.Phase = lessonview.PhaseComplete
			return m, nil
		}
		return m.showCurrent()

	case lessonview.PhaseComplete:
		return m, m.endLessonCmd()
	}
	return m, nil
}

// submitChoice grades the selection locally; the engine applies the
// optimistic effects and logs the interaction in the background.
func (m Model) submitChoice() (tea.Model, tea.Cmd) {
	item := m.lesson.Current.Item
	correct := m.lesson.Selected == item.CorrectIndex
	response := ""
	if m.lesson.Selected >= 0 && m.lesson.Selected < len(item.Choices) {
		response = item.Choices[m.lesson.Selected]
	}
	out, err := m.engine.SubmitAnswer(context.Background(), sessiondto.SubmitAnswerInput{
		IsCorrect:      correct,
		ResponseValue:  response,
		ResponseTimeMs: int(time.Since(m.questionShown).Milliseconds()),
	})
	if err != nil {
		m.lesson.Err = err.Error()
		return m, nil
	}
	if progress, perr := m.engine.Progress(); perr == nil {
		m.lesson.Progress = progress
	}
	m.lesson.Err = ""
	m.lesson.Phase = lessonview.PhaseFeedback
	m.lesson.WasRight = correct
	m.lesson.LastXP = out.XPEarned
	return m, nil
}

func (m Model) showCurrent() (tea.Model, tea.Cmd) {
	current, err := m.engine.Current()
	if err != nil {
		m.lesson.Phase = lessonview.PhaseIdle
		m.lesson.Err = err.Error()
		return m, nil
	}
	if progress, perr := m.engine.Progress(); perr == nil {
		m.lesson.Progress = progress
	}
	m.recorder.Reset(context.Background())
	m.lesson.Current = current
	m.lesson.Selected = 0
	m.lesson.Phase = lessonview.PhaseQuestion
	m.lesson.Recorder = m.recorder.Status()
	m.questionShown = time.Now()
	return m, nil
}

func (m Model) onChoices() bool {
	return m.lesson.Phase == lessonview.PhaseQuestion &&
		m.lesson.Current.Item.Kind == sessiondomain.ItemChoice
}

func (m Model) onVoice() bool {
	return m.lesson.Phase == lessonview.PhaseQuestion &&
		m.lesson.Current.Item.Kind == sessiondomain.ItemVoice
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) startLessonCmd() tea.Cmd {
	length := m.lessonLength
	return func() tea.Msg {
		out, err := m.engine.StartLesson(context.Background(), sessiondto.StartInput{Length: length})
		return lessonStartedMsg{out: out, err: err}
	}
}

func (m Model) submitVoiceCmd(responseTimeMs int) tea.Cmd {
	return func() tea.Msg {
		audio, err := m.recorder.Base64()
		if err != nil {
			return voiceResultMsg{err: err}
		}
		out, err := m.engine.SubmitVoiceAnswer(context.Background(), sessiondto.VoiceAnswerInput{
			AudioBase64:    audio,
			ResponseTimeMs: responseTimeMs,
		})
		return voiceResultMsg{out: out, err: err}
	}
}

func (m Model) endLessonCmd() tea.Cmd {
	return func() tea.Msg {
		result, err := m.engine.EndLesson(context.Background())
		return lessonEndedMsg{result: result, err: err}
	}
}

func (m Model) loadHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		results, err := m.engine.History(context.Background(), 20)
		return historyLoadedMsg{results: results, err: err}
	}
}

func (m Model) recorderCmd(op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return recorderOpMsg{err: op(context.Background())}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var tabs []string
	for i, label := range tabLabels {
		style := theme.Muted
		if tabID(i) == m.tab {
			style = theme.Hot
		}
		tabs = append(tabs, style.Render(label))
	}
	header := theme.Title.Render("finquest") + "   " + strings.Join(tabs, theme.Muted.Render(" · "))

	var body string
	switch m.tab {
	case tabLearn:
		body = m.lesson.View()
	case tabHearts:
		body = m.heartsView.View()
	case tabHistory:
		body = m.history.View()
	}

	profile := m.profile.Snapshot()
	sound := "sound on"
	if !profile.SoundEnabled {
		sound = "sound off"
	}
	status := components.StatusBar(max(0, m.width-4),
		components.HeartMeter(m.heartsView.State),
		theme.XPBadge.Render(fmt.Sprintf("%d XP", profile.XP)),
		theme.Muted.Render(sound),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		status,
		m.help.View(m.keys),
	)
}
