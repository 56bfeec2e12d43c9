package game

import (
	"math/rand"

	"digdug/server/models"
)

// EnemyKind is the closed set of enemy archetypes
type EnemyKind int

const (
	KindPooka EnemyKind = iota
	KindFygar
)

func (k EnemyKind) String() string {
	switch k {
	case KindPooka:
		return "Pooka"
	case KindFygar:
		return "Fygar"
	}
	return "Unknown"
}

func (k EnemyKind) speed() Speed {
	if k == KindFygar {
		return SpeedSlow
	}
	return SpeedFast
}

// Enemy is an autonomous creature hunting the digger. Pooka and Fygar share
// the core movement routine and differ through the hooks in pooka.go and
// fygar.go.
type Enemy struct {
	Character
	kind  EnemyKind
	id    string
	speed Speed
	smart Smart

	wallpass   bool
	stepAcc    int
	lastDir    models.Direction
	lastPos    models.Position
	hasLastPos bool
	freeze     bool
	life       int
	exited     bool

	rockKilled bool
	dead       bool // set by the fatal hit, never cleared
	scored     bool

	// Pooka: corridor entrance chased while wallpassing
	target models.Position
	// Fygar: cells covered by the current fire breath
	fire []models.Position
}

// NewEnemy creates an enemy of the given kind at its spawn point
func NewEnemy(kind EnemyKind, pos models.Position, level int, smart Smart, rng *rand.Rand) *Enemy {
	e := &Enemy{
		Character: newCharacter(pos),
		kind:      kind,
		id:        newID(rng),
		speed:     kind.speed(),
		smart:     smart,
		lastDir:   models.East,
		life:      MinEnemyLife + level/10,
		target:    pos,
	}
	charLog.Debugf("Enemy %s created at %v with Smart.%s", kind, pos, smart)
	return e
}

func NewPooka(pos models.Position, level int, smart Smart, rng *rand.Rand) *Enemy {
	return NewEnemy(KindPooka, pos, level, smart, rng)
}

func NewFygar(pos models.Position, level int, smart Smart, rng *rand.Rand) *Enemy {
	return NewEnemy(KindFygar, pos, level, smart, rng)
}

func (e *Enemy) ID() string                      { return e.id }
func (e *Enemy) Kind() EnemyKind                 { return e.kind }
func (e *Enemy) Name() string                    { return e.kind.String() }
func (e *Enemy) Smart() Smart                    { return e.smart }
func (e *Enemy) Wallpassing() bool               { return e.wallpass }
func (e *Enemy) LastDirection() models.Direction { return e.lastDir }
func (e *Enemy) Frozen() bool                    { return e.freeze }
func (e *Enemy) Life() int                       { return e.life }
func (e *Enemy) Exited() bool                    { return e.exited }
func (e *Enemy) Fire() []models.Position         { return e.fire }

// Alive reports whether the enemy still counts as being on the board
func (e *Enemy) Alive() bool { return e.life > 0 }

func (e *Enemy) String() string { return e.kind.String() }

// Breathes reports whether the enemy's fire covers p
func (e *Enemy) Breathes(p models.Position) bool {
	return p.In(e.fire)
}

// Kill hits the enemy once, or flattens it when a rock fell on it. It reports
// true only for the hit that first drives the life counter below zero.
func (e *Enemy) Kill(byRock bool) bool {
	if byRock {
		e.rockKilled = true
		e.life = 0
	}
	e.life--
	e.freeze = true
	if e.life < 0 {
		e.life = 0
		if e.dead {
			return false
		}
		e.dead = true
		return true
	}
	return false
}

// Points is the score for taking the enemy out at its current depth
func (e *Enemy) Points(mapHeight int) int {
	points := e.depthPoints(mapHeight)
	if e.kind == KindFygar && e.lastDir.Horizontal() {
		points *= 2
	}
	return points
}

func (e *Enemy) depthPoints(mapHeight int) int {
	if e.rockKilled {
		return RockKillPoints
	}
	y, h := float64(e.pos.Y), float64(mapHeight)
	switch {
	case y < h/4:
		return GroundPoints
	case y < h/2:
		return MiddlePoints
	case y < h*3/4:
		return BottomPoints
	}
	return BedPoints
}

// Move advances the enemy by one tick
func (e *Enemy) Move(grid *Grid, digger models.Position, enemies []*Enemy, rocks []*Rock, rng *rand.Rand) {
	if !e.ready() {
		return
	}

	if e.life < MinEnemyLife {
		if rng.Float64() < EnemyHealOdd {
			e.life++
		}
		return
	}

	if e.freeze {
		e.freeze = false
		e.fire = nil
		return
	}

	switch e.kind {
	case KindPooka:
		e.movePooka(grid, digger, enemies, rocks, rng)
	case KindFygar:
		e.moveFygar(grid, digger, enemies, rocks, rng)
	}

	if e.pos.Dist(models.Pos(0, 0)) < 1 {
		e.exited = true
		charLog.Debugf("%s has EXITED through %v", e.id, e.pos)
	}
}

// ready throttles the enemy to its speed
func (e *Enemy) ready() bool {
	e.stepAcc += int(e.speed)
	if e.stepAcc >= stepThreshold {
		e.stepAcc = 0
		return true
	}
	return false
}

// moveGeneric applies the smart level movement policy
func (e *Enemy) moveGeneric(grid *Grid, digger models.Position, enemies []*Enemy, rocks []*Rock, rng *rand.Rand) {
	var next models.Position

	switch e.smart {
	case SmartLow:
		next = grid.Step(e.pos, e.lastDir, e.wallpass)
		if rockAt(rocks, next) != nil {
			next = e.pos
		}
		if next == e.pos {
			e.lastDir = e.lastDir.Rotate(1 + rng.Intn(4))
		}

	case SmartNormal:
		candidates := e.candidates(grid, rocks, nil)
		if len(candidates) == 0 {
			next = e.fallback()
		} else {
			next = farthest(candidates, digger)
		}

	case SmartHigh:
		candidates := e.candidates(grid, rocks, enemies)
		if len(candidates) == 0 {
			next = e.fallback()
		} else {
			next = nearest(candidates, digger)
		}
	}

	e.advance(next)
}

// candidates lists the neighbour cells the enemy may step to. Blocked
// directions yield the current cell, so standing still is a candidate too.
func (e *Enemy) candidates(grid *Grid, rocks []*Rock, enemies []*Enemy) []models.Position {
	out := make([]models.Position, 0, len(models.Directions))
	for _, d := range models.Directions {
		p := grid.Step(e.pos, d, e.wallpass)
		if e.hasLastPos && p == e.lastPos {
			continue
		}
		if rockAt(rocks, p) != nil {
			continue
		}
		if occupiedByOther(enemies, e, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (e *Enemy) fallback() models.Position {
	if e.hasLastPos {
		return e.lastPos
	}
	return e.pos
}

// advance records the previous cell and moves to next
func (e *Enemy) advance(next models.Position) {
	e.lastPos = e.pos
	e.hasLastPos = true
	if e.MoveTo(next) && e.smart != SmartLow {
		e.lastDir = e.facing
	}
}

// respawn puts the enemy back on its spawn point, dropping any fire
func (e *Enemy) respawn() {
	e.Respawn()
	e.fire = nil
}

func occupiedByOther(enemies []*Enemy, self *Enemy, p models.Position) bool {
	for _, other := range enemies {
		if other != self && other.pos == p {
			return true
		}
	}
	return false
}

// farthest returns the first candidate with the largest distance to target
func farthest(candidates []models.Position, target models.Position) models.Position {
	best := candidates[0]
	bestDist := best.Dist(target)
	for _, p := range candidates[1:] {
		if d := p.Dist(target); d > bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// nearest returns the first candidate with the smallest distance to target
func nearest(candidates []models.Position, target models.Position) models.Position {
	best := candidates[0]
	bestDist := best.Dist(target)
	for _, p := range candidates[1:] {
		if d := p.Dist(target); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}
