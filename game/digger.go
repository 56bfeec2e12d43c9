package game

import "digdug/server/models"

// Digger is the player controlled character
type Digger struct {
	Character
	lives int
	aim   models.Direction
}

// NewDigger creates a digger at pos with the given number of lives
func NewDigger(pos models.Position, lives int) *Digger {
	return &Digger{
		Character: newCharacter(pos),
		lives:     lives,
		aim:       models.East,
	}
}

func (d *Digger) Lives() int { return d.lives }

// Aim is the direction of the last attempted move, used to point the rope.
// Unlike Facing it is updated even when the move was rejected.
func (d *Digger) Aim() models.Direction { return d.aim }

// Kill takes one life. Lives never drop below zero.
func (d *Digger) Kill() {
	if d.lives > 0 {
		d.lives--
	}
}

// Move steps the digger, digging through stone. Rocks block the move.
func (d *Digger) Move(grid *Grid, dir models.Direction, rocks []*Rock) {
	d.aim = dir
	next := grid.Step(d.pos, dir, true)
	if rockAt(rocks, next) != nil {
		return
	}
	d.MoveTo(next)
	grid.Dig(next)
}
