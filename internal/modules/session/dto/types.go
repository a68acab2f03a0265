package dto

import (
	"time"

	"finquest/internal/modules/session/domain"
)

type StartInput struct {
	Length int
}

type StartOutput struct {
	SessionID string
	Items     int
	StartedAt time.Time
	First     domain.Item
}

type CurrentOutput struct {
	Item     domain.Item
	Index    int
	Answered bool
}

type ProgressOutput struct {
	SessionID    string
	CurrentIndex int
	Total        int
	Complete     bool
	Score        domain.Score
	XPEarned     int
	StartedAt    time.Time
}

type SubmitAnswerInput struct {
	IsCorrect      bool
	ResponseValue  string
	ResponseTimeMs int
}

type SubmitAnswerOutput struct {
	Score    domain.Score
	XPEarned int
}

type VoiceAnswerInput struct {
	AudioBase64    string
	ResponseTimeMs int
}

type VoiceAnswerOutput struct {
	IsCorrect bool
	XPEarned  int
	Score     domain.Score
}

type ResultOutput struct {
	SessionID  string
	Correct    int
	Incorrect  int
	XPEarned   int
	StartedAt  time.Time
	FinishedAt time.Time
}
