package game

import "digdug/server/models"

// Rope is the digger's weapon: a straight, direction locked line of at most
// MaxRopeLen cells anchored at its tip
type Rope struct {
	grid   *Grid
	cells  []models.Position
	dir    models.Direction
	locked bool
}

// NewRope creates a retracted rope on the grid
func NewRope(grid *Grid) *Rope {
	return &Rope{grid: grid}
}

// Extended reports whether the rope occupies any cell
func (r *Rope) Extended() bool {
	return len(r.cells) > 0
}

// Cells returns the occupied cells, oldest first
func (r *Rope) Cells() []models.Position {
	return r.cells
}

// Direction returns the locked direction, if the rope is out
func (r *Rope) Direction() (models.Direction, bool) {
	return r.dir, r.locked
}

func (r *Rope) retract() {
	r.cells = nil
	r.locked = false
}

// Shoot extends the rope one cell from its tip, or from origin when it is
// retracted. Changing direction, hitting a rock or running into itself
// retracts it instead.
func (r *Rope) Shoot(origin models.Position, dir models.Direction, rocks []*Rock) {
	if r.locked && dir != r.dir {
		r.retract()
		return
	}

	from := origin
	if len(r.cells) > 0 {
		from = r.cells[len(r.cells)-1]
	}
	next := r.grid.Step(from, dir, false)

	if rockAt(rocks, next) != nil || next.In(r.cells) {
		r.retract()
		return
	}

	r.cells = append(r.cells, next)
	r.dir = dir
	r.locked = true
	if len(r.cells) > MaxRopeLen {
		r.cells = r.cells[1:]
	}
}

// Hit kills the first living enemy caught on the rope and shortens the rope
// to end at that enemy
func (r *Rope) Hit(enemies []*Enemy) bool {
	if !r.Extended() {
		return false
	}

	for _, e := range enemies {
		if !e.Alive() {
			continue
		}
		for i, cell := range r.cells {
			if cell == e.Position() {
				e.Kill(false)
				r.cells = r.cells[:i+1]
				return true
			}
		}
	}
	return false
}
