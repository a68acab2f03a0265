package service

import (
	"sync"

	"finquest/internal/modules/session/domain"
	"finquest/internal/modules/session/dto"
	"finquest/internal/platform/clock"
	apperrors "finquest/internal/platform/errors"
)

// LessonService is the session state machine. Starting a lesson always fully
// replaces the previous one and bumps a generation counter; in-flight work
// from a superseded lesson carries its generation and is rejected here, so a
// stale completion can never mutate the replacement.
type LessonService struct {
	clock clock.Clock

	mu         sync.Mutex
	lesson     *domain.Lesson
	generation int
}

func NewLessonService(clk clock.Clock) *LessonService {
	return &LessonService{clock: clk}
}

// Start installs a fresh lesson and returns its generation tag.
func (s *LessonService) Start(sessionID string, items []domain.Item) (int, error) {
	if sessionID == "" || len(items) == 0 {
		return 0, domain.ErrEmptyBatch
	}
	lesson := domain.NewLesson(sessionID, items, s.clock.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.lesson = &lesson
	return s.generation, nil
}

func (s *LessonService) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Answer grades the current item. Pure local mutation, no I/O.
func (s *LessonService) Answer(correct bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lesson == nil {
		return apperrors.ErrNoActiveLesson
	}
	if s.lesson.Complete() {
		return apperrors.ErrLessonComplete
	}
	if s.lesson.Answered(s.lesson.CurrentIndex) {
		return apperrors.ErrAlreadyAnswered
	}
	return s.lesson.AnswerAt(s.lesson.CurrentIndex, correct)
}

// AnswerAt grades the item at index, but only if the lesson with the given
// generation is still the active one.
func (s *LessonService) AnswerAt(generation, index int, correct bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lesson == nil || generation != s.generation {
		return apperrors.ErrNoActiveLesson
	}
	if s.lesson.Answered(index) {
		return apperrors.ErrAlreadyAnswered
	}
	return s.lesson.AnswerAt(index, correct)
}

// CreditXP tallies XP earned within the lesson, generation-guarded.
func (s *LessonService) CreditXP(generation, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lesson == nil || generation != s.generation {
		return
	}
	s.lesson.XPEarned += amount
}

// Advance moves to the next item without clamping.
func (s *LessonService) Advance() (dto.ProgressOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lesson == nil {
		return dto.ProgressOutput{}, apperrors.ErrNoActiveLesson
	}
	s.lesson.Advance()
	return s.progressLocked(), nil
}

func (s *LessonService) Current() (dto.CurrentOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lesson == nil {
		return dto.CurrentOutput{}, apperrors.ErrNoActiveLesson
	}
	item, ok := s.lesson.Current()
	if !ok {
		return dto.CurrentOutput{}, apperrors.ErrLessonComplete
	}
	return dto.CurrentOutput{
		Item:     item,
		Index:    s.lesson.CurrentIndex,
		Answered: s.lesson.Answered(s.lesson.CurrentIndex),
	}, nil
}

func (s *LessonService) Progress() (dto.ProgressOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lesson == nil {
		return dto.ProgressOutput{}, apperrors.ErrNoActiveLesson
	}
	return s.progressLocked(), nil
}

// End returns the final snapshot and resets to the empty state.
func (s *LessonService) End() (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lesson == nil {
		return domain.Result{}, apperrors.ErrNoActiveLesson
	}
	result := domain.Result{
		SessionID:  s.lesson.ID,
		Correct:    s.lesson.Score.Correct,
		Incorrect:  s.lesson.Score.Incorrect,
		XPEarned:   s.lesson.XPEarned,
		StartedAt:  s.lesson.StartedAt,
		FinishedAt: s.clock.Now(),
	}
	s.lesson = nil
	s.generation++
	return result, nil
}

// Reset discards the active lesson without persistence.
func (s *LessonService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lesson != nil {
		s.lesson = nil
		s.generation++
	}
}

func (s *LessonService) progressLocked() dto.ProgressOutput {
	return dto.ProgressOutput{
		SessionID:    s.lesson.ID,
		CurrentIndex: s.lesson.CurrentIndex,
		Total:        len(s.lesson.Items),
		Complete:     s.lesson.Complete(),
		Score:        s.lesson.Score,
		XPEarned:     s.lesson.XPEarned,
		StartedAt:    s.lesson.StartedAt,
	}
}
