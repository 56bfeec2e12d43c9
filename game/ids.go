package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// newID draws an entity id from the match generator so seeded runs repeat
// their ids too
func newID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
