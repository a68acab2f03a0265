package domain

import "time"

// State mirrors the server-authoritative hearts resource. SecondsUntilNext
// is nil at max hearts or when regeneration is paused server-side. The client
// never decides regeneration timing; it only displays a countdown and re-asks
// the server when it elapses.
type State struct {
	Hearts           int
	MaxHearts        int
	SecondsUntilNext *int
	NextHeartAt      *time.Time
	FullHeartsAt     *time.Time
	FetchedAt        time.Time
}

func (s State) AtMax() bool {
	return s.MaxHearts > 0 && s.Hearts >= s.MaxHearts
}
