package game

import (
	"math/rand"

	"digdug/server/models"
)

// Rock falls south through open passage, hovering briefly over the digger
// before crushing it
type Rock struct {
	Character
	id        string
	fallDelay int
}

// NewRock creates a rock with a fresh fall delay
func NewRock(pos models.Position, rng *rand.Rand) *Rock {
	return &Rock{
		Character: newCharacter(pos),
		id:        newID(rng),
		fallDelay: randFallDelay(rng),
	}
}

func randFallDelay(rng *rand.Rand) int {
	return RockFallMin + rng.Intn(RockFallMax-RockFallMin+1)
}

func (r *Rock) ID() string { return r.id }

// FallDelay is the number of ticks the rock still hovers over the digger
func (r *Rock) FallDelay() int { return r.fallDelay }

// Move advances the rock by one tick
func (r *Rock) Move(grid *Grid, digger *Digger, rocks []*Rock, rng *rand.Rand) {
	below := grid.Step(r.pos, models.South, false)
	if other := rockAt(rocks, below); other != nil {
		return
	}
	if digger.Position() == below && r.fallDelay > 0 {
		r.fallDelay--
		return
	}
	if r.MoveTo(below) {
		r.fallDelay = randFallDelay(rng)
	}
}

func (r *Rock) String() string { return "Rock" }

func rockAt(rocks []*Rock, p models.Position) *Rock {
	for _, r := range rocks {
		if r.pos == p {
			return r
		}
	}
	return nil
}
