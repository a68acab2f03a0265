package domain

// Profile is the shared learner state surfaced across views: XP and the
// hearts mirror are display caches of server truth, the sound toggle is a
// purely local preference.
type Profile struct {
	LearnerID    string
	XP           int
	Hearts       int
	MaxHearts    int
	SoundEnabled bool
}

// Settings is the locally persisted slice of Profile.
type Settings struct {
	LearnerID    string `yaml:"learner_id"`
	XP           int    `yaml:"xp"`
	SoundEnabled bool   `yaml:"sound_enabled"`
}
