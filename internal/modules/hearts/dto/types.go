package dto

import "time"

type StateOutput struct {
	Known            bool
	Hearts           int
	MaxHearts        int
	SecondsUntilNext *int
	NextHeartAt      *time.Time
	FullHeartsAt     *time.Time
	FetchedAt        time.Time
}
