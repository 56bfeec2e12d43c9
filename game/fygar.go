package game

import (
	"math/rand"

	"digdug/server/models"
)

func (e *Enemy) moveFygar(grid *Grid, digger models.Position, enemies []*Enemy, rocks []*Rock, rng *rand.Rand) {
	e.moveGeneric(grid, digger, enemies, rocks, rng)
	e.breathe(grid, digger, rocks, rng)
}

// fireOdd is the chance of breathing fire on a tick the Fygar moved
func (e *Enemy) fireOdd(digger models.Position) float64 {
	if digger.Y == e.pos.Y {
		return FireOddAligned
	}
	return FireOddUnaligned
}

// breathe may project fire up to FireRange cells along the last horizontal
// move. The fire stops at walls, rocks and its own cells, and breathing
// always costs a frozen tick. The fire stays up until the Fygar next acts,
// which at SLOW speed is two ticks later.
func (e *Enemy) breathe(grid *Grid, digger models.Position, rocks []*Rock, rng *rand.Rand) {
	if e.freeze || !e.lastDir.Horizontal() {
		return
	}
	if rng.Float64() >= e.fireOdd(digger) {
		return
	}

	p := e.pos
	for i := 0; i < FireRange; i++ {
		p = grid.Step(p, e.lastDir, false)
		if p == e.pos || p.In(e.fire) || rockAt(rocks, p) != nil {
			break
		}
		e.fire = append(e.fire, p)
	}
	e.freeze = true
}
