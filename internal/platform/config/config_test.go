package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"finquest/internal/platform/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:8080" || cfg.LessonLength != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RequestTimeout != 10*time.Second || cfg.HeartsResync != time.Minute {
		t.Fatalf("unexpected timing defaults: %+v", cfg)
	}
	if cfg.DBPath() != filepath.Join(dir, "finquest.db") {
		t.Fatalf("unexpected db path: %s", cfg.DBPath())
	}
}

func TestLoadReadsFileAndResolvesPluginPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	payload := []byte(`
api_base_url: https://api.example.com
learner_id: learner-1
lesson_length: 5
capture_plugin: plugins/capture
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), payload, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.com" || cfg.LearnerID != "learner-1" || cfg.LessonLength != 5 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.CapturePlugin != filepath.Join(dir, "plugins", "capture") {
		t.Fatalf("expected plugin path under data dir, got %s", cfg.CapturePlugin)
	}
}

func TestLoadRejectsEmptyDataDir(t *testing.T) {
	t.Parallel()
	if _, err := config.Load(""); err == nil {
		t.Fatalf("expected error for empty data dir")
	}
}
