package id

import "github.com/google/uuid"

// Generator creates opaque identifiers. Attempt ids sent with interaction
// logs must be unique per call so the collaborator can deduplicate.
type Generator interface {
	New() string
}

type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}
