package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"finquest/internal/modules/profile/domain"
	profileout "finquest/internal/modules/profile/port/out"
)

// State is the explicitly constructed learner state container. Everything
// that used to be ambient (XP total, hearts mirror, sound toggle) lives here
// and is injected into the modules that need it.
type State struct {
	mu          sync.Mutex
	profile     domain.Profile
	store       profileout.SettingsStore
	logger      *zap.Logger
	subscribers []func(domain.Profile)
}

func NewState(learnerID string, store profileout.SettingsStore, logger *zap.Logger) *State {
	s := &State{
		profile: domain.Profile{LearnerID: learnerID, SoundEnabled: true},
		store:   store,
		logger:  logger,
	}
	if store != nil {
		settings, err := store.Load(context.Background())
		if err != nil {
			logger.Warn("load learner settings", zap.Error(err))
		} else {
			if settings.LearnerID != "" && learnerID == "" {
				s.profile.LearnerID = settings.LearnerID
			}
			s.profile.XP = settings.XP
			s.profile.SoundEnabled = settings.SoundEnabled
		}
	}
	return s
}

func (s *State) Snapshot() domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Subscribe registers a callback invoked after every mutation. Callbacks run
// outside the container lock.
func (s *State) Subscribe(fn func(domain.Profile)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// AddXP credits earned XP and returns the new total.
func (s *State) AddXP(amount int) int {
	s.mu.Lock()
	s.profile.XP += amount
	snapshot := s.profile
	s.mu.Unlock()
	s.persist(snapshot)
	s.notify(snapshot)
	return snapshot.XP
}

// SetHearts mirrors the server-authoritative hearts value for display.
func (s *State) SetHearts(hearts, maxHearts int) {
	s.mu.Lock()
	s.profile.Hearts = hearts
	s.profile.MaxHearts = maxHearts
	snapshot := s.profile
	s.mu.Unlock()
	s.notify(snapshot)
}

// ToggleSound flips the cue preference and returns the new value.
func (s *State) ToggleSound() bool {
	s.mu.Lock()
	s.profile.SoundEnabled = !s.profile.SoundEnabled
	snapshot := s.profile
	s.mu.Unlock()
	s.persist(snapshot)
	s.notify(snapshot)
	return snapshot.SoundEnabled
}

func (s *State) SoundEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.SoundEnabled
}

func (s *State) persist(snapshot domain.Profile) {
	if s.store == nil {
		return
	}
	settings := domain.Settings{
		LearnerID:    snapshot.LearnerID,
		XP:           snapshot.XP,
		SoundEnabled: snapshot.SoundEnabled,
	}
	if err := s.store.Save(context.Background(), settings); err != nil {
		s.logger.Warn("save learner settings", zap.Error(err))
	}
}

func (s *State) notify(snapshot domain.Profile) {
	s.mu.Lock()
	subs := make([]func(domain.Profile), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}
