package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIBaseURL     string        `yaml:"api_base_url"`
	LearnerID      string        `yaml:"learner_id"`
	DataDir        string        `yaml:"data_dir"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	HeartsResync   time.Duration `yaml:"hearts_resync"`
	LessonLength   int           `yaml:"lesson_length"`
	CapturePlugin  string        `yaml:"capture_plugin"`
}

// DBPath locates the local history projection inside the data dir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "finquest.db")
}

// SettingsPath locates the learner settings file inside the data dir.
func (c Config) SettingsPath() string {
	return filepath.Join(c.DataDir, "settings.yaml")
}

// Load reads config.yaml from dataDir when present and fills defaults for
// anything left unset. A missing file is not an error; the defaults stand.
func Load(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Config{
		APIBaseURL:     "http://localhost:8080",
		DataDir:        dataDir,
		RequestTimeout: 10 * time.Second,
		HeartsResync:   60 * time.Second,
		LessonLength:   10,
	}
	raw, err := os.ReadFile(filepath.Join(dataDir, "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.HeartsResync <= 0 {
		cfg.HeartsResync = 60 * time.Second
	}
	if cfg.LessonLength <= 0 {
		cfg.LessonLength = 10
	}
	if cfg.CapturePlugin != "" && !filepath.IsAbs(cfg.CapturePlugin) {
		cfg.CapturePlugin = filepath.Clean(filepath.Join(dataDir, cfg.CapturePlugin))
	}
	return cfg, nil
}
