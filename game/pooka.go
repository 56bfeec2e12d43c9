package game

import (
	"math/rand"

	"digdug/server/models"
)

// movePooka runs the generic policy in open terrain and may turn the Pooka
// into a ghost afterwards. A ghost heads for its target corridor through
// stone until it lands on passage again.
func (e *Enemy) movePooka(grid *Grid, digger models.Position, enemies []*Enemy, rocks []*Rock, rng *rand.Rand) {
	if !e.wallpass {
		e.moveGeneric(grid, digger, enemies, rocks, rng)
		e.wallpass = rng.Float64() < wallpassOdd[e.smart]
		return
	}

	candidates := e.candidates(grid, rocks, nil)
	if len(candidates) == 0 {
		e.advance(e.fallback())
	} else {
		e.advance(nearest(candidates, e.target))
	}

	if !grid.IsBlocked(e.pos, false) {
		e.wallpass = false
		if spawns := grid.EnemySpawns(); len(spawns) > 0 {
			e.target = spawns[rng.Intn(len(spawns))]
		}
	}
}
