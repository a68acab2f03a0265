package apperrors

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrNoActiveLesson  = errors.New("no active lesson")
	ErrLessonComplete  = errors.New("lesson already complete")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNoRecording     = errors.New("no audio available")
	ErrDeviceHeld      = errors.New("capture device already held")
)
