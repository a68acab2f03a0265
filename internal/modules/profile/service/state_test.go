package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	profileout "finquest/internal/modules/profile/adapter/out"
	"finquest/internal/modules/profile/domain"
	"finquest/internal/modules/profile/service"
)

func TestStatePersistsXPAndSoundAcrossRestarts(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	store := profileout.NewFileSettingsStore(path)

	state := service.NewState("learner-1", store, zap.NewNop())
	if state.AddXP(25) != 25 {
		t.Fatalf("expected XP total 25")
	}
	if state.ToggleSound() {
		t.Fatalf("expected sound toggled off")
	}

	reloaded := service.NewState("learner-1", store, zap.NewNop())
	snapshot := reloaded.Snapshot()
	if snapshot.XP != 25 || snapshot.SoundEnabled {
		t.Fatalf("expected persisted XP 25 with sound off, got %+v", snapshot)
	}
}

func TestSetHeartsMirrorsWithoutPersisting(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	store := profileout.NewFileSettingsStore(path)

	state := service.NewState("learner-1", store, zap.NewNop())
	var seen []domain.Profile
	state.Subscribe(func(p domain.Profile) { seen = append(seen, p) })

	state.SetHearts(2, 5)
	snapshot := state.Snapshot()
	if snapshot.Hearts != 2 || snapshot.MaxHearts != 5 {
		t.Fatalf("expected hearts mirror 2/5, got %+v", snapshot)
	}
	if len(seen) != 1 || seen[0].Hearts != 2 {
		t.Fatalf("expected one notification with hearts 2, got %+v", seen)
	}

	// Hearts are a display mirror of server truth, never written to disk.
	settings, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if settings.XP != 0 || !settings.SoundEnabled {
		t.Fatalf("set hearts must not persist anything, got %+v", settings)
	}
}

func TestMissingSettingsFileYieldsDefaults(t *testing.T) {
	t.Parallel()
	store := profileout.NewFileSettingsStore(filepath.Join(t.TempDir(), "missing.yaml"))
	state := service.NewState("learner-1", store, zap.NewNop())
	snapshot := state.Snapshot()
	if snapshot.LearnerID != "learner-1" || snapshot.XP != 0 || !snapshot.SoundEnabled {
		t.Fatalf("unexpected defaults: %+v", snapshot)
	}
}
