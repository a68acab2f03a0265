package domain

import "time"

// XPPerCorrect is the fixed optimistic XP reward for a locally verified
// correct answer. Voice answers earn whatever the server says instead.
const XPPerCorrect = 10

type ItemKind string

const (
	ItemChoice ItemKind = "choice"
	ItemVoice  ItemKind = "voice"
)

type InputMode string

const (
	InputChoice InputMode = "choice"
	InputVoice  InputMode = "voice"
)

// Item is one question unit. Content is server-owned; the engine forwards
// it and, for choice items, compares against the already-known correct index.
type Item struct {
	ID           string
	KCID         string
	Kind         ItemKind
	Prompt       string
	Choices      []string
	CorrectIndex int
}

type Score struct {
	Correct   int
	Incorrect int
}

func (s Score) Total() int {
	return s.Correct + s.Incorrect
}

// Lesson is one run-through of an ordered item batch. The index is never
// clamped: completion is always derived as CurrentIndex >= len(Items), so the
// derived boolean cannot desync from the pointer. Each item carries an
// answered shadow flag making "one answer per item" an engine invariant
// rather than a UI convention.
type Lesson struct {
	ID           string
	Items        []Item
	CurrentIndex int
	Score        Score
	StartedAt    time.Time
	XPEarned     int
	answered     []bool
}

func NewLesson(id string, items []Item, startedAt time.Time) Lesson {
	copied := make([]Item, len(items))
	copy(copied, items)
	return Lesson{
		ID:        id,
		Items:     copied,
		StartedAt: startedAt,
		answered:  make([]bool, len(items)),
	}
}

func (l *Lesson) Complete() bool {
	return l.CurrentIndex >= len(l.Items)
}

func (l *Lesson) Current() (Item, bool) {
	if l.Complete() {
		return Item{}, false
	}
	return l.Items[l.CurrentIndex], true
}

func (l *Lesson) Answered(index int) bool {
	return index >= 0 && index < len(l.answered) && l.answered[index]
}

// AnswerAt records a graded answer for the item at index. The score counters
// only ever grow.
func (l *Lesson) AnswerAt(index int, correct bool) error {
	if index < 0 || index >= len(l.Items) {
		return ErrIndexOutOfRange
	}
	if l.answered[index] {
		return ErrItemAnswered
	}
	l.answered[index] = true
	if correct {
		l.Score.Correct++
	} else {
		l.Score.Incorrect++
	}
	return nil
}

// Advance moves the pointer forward without bounds checking; over-advancing
// is tolerated, not an error.
func (l *Lesson) Advance() int {
	l.CurrentIndex++
	return l.CurrentIndex
}

// Result is the snapshot captured when a lesson ends.
type Result struct {
	SessionID  string
	Correct    int
	Incorrect  int
	XPEarned   int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Interaction is one best-effort telemetry record. AttemptID makes retries
// and reordering idempotent on the collaborator side.
type Interaction struct {
	AttemptID      string
	LearnerID      string
	ItemID         string
	KCID           string
	SessionID      string
	IsCorrect      bool
	ResponseValue  string
	ResponseTimeMs int
	InputMode      InputMode
}

// VoiceSubmission carries a recorded answer to the collaborator, which is
// the sole authority on its correctness.
type VoiceSubmission struct {
	LearnerID   string
	ItemID      string
	SessionID   string
	AudioBase64 string
}

type VoiceResult struct {
	IsCorrect bool
	XPEarned  int
}

type Cue string

const (
	CueCorrect   Cue = "correct"
	CueIncorrect Cue = "incorrect"
	CueFinished  Cue = "finished"
)
