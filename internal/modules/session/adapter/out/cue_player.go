package out

import (
	"io"

	"finquest/internal/modules/session/domain"
	sessionout "finquest/internal/modules/session/port/out"
)

// SoundToggle gates cue output on the learner's preference.
type SoundToggle interface {
	SoundEnabled() bool
}

// BellCuePlayer rings the terminal bell for reward/penalty cues. Real audio
// playback is out of scope; the bell is the terminal-native cue.
type BellCuePlayer struct {
	w      io.Writer
	toggle SoundToggle
}

func NewBellCuePlayer(w io.Writer, toggle SoundToggle) sessionout.CuePlayer {
	return &BellCuePlayer{w: w, toggle: toggle}
}

func (p *BellCuePlayer) Play(cue domain.Cue) {
	if p.toggle != nil && !p.toggle.SoundEnabled() {
		return
	}
	switch cue {
	case domain.CueCorrect, domain.CueIncorrect, domain.CueFinished:
		_, _ = p.w.Write([]byte("\a"))
	}
}

// NoopCuePlayer is for contexts with no terminal, such as tests.
type NoopCuePlayer struct{}

func (NoopCuePlayer) Play(domain.Cue) {}
