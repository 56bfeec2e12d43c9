package game

import "digdug/server/models"

const (
	DefaultLevel   = 1
	DefaultLives   = 3
	DefaultTimeout = 3000
	DefaultFPS     = 10
	DefaultWidth   = 48
	DefaultHeight  = 24

	// VitalSpace keeps hazards away from the digger spawn
	VitalSpace     = 3
	MinCorridorLen = 4

	MaxRopeLen = 3
	MinEnemies = 3
	// MinEnemyLife is the life floor; below it an enemy sits in the reviving state
	MinEnemyLife = 3
	EnemyHealOdd = 0.05

	FireRange        = 3
	FireOddAligned   = 0.5
	FireOddUnaligned = 0.1

	RockFallMin = 3
	RockFallMax = 9

	GroundPoints   = 200
	MiddlePoints   = 300
	BottomPoints   = 400
	BedPoints      = 500
	RockKillPoints = 1000

	// HistoryLen bounds the per-entity position history
	HistoryLen = 10

	maxPlacementAttempts = 1000
	maxLayoutAttempts    = 10
)

var diggerSpawn = models.Pos(1, 1)

// Speed is how much an enemy advances its step accumulator per tick
type Speed int

const (
	SpeedSlowest Speed = iota + 1
	SpeedSlow
	SpeedNormal
	SpeedFast
)

// stepThreshold is the accumulator value at which an enemy acts
const stepThreshold = int(SpeedFast)

// Smart is an enemy AI policy tier
type Smart int

const (
	SmartLow Smart = iota + 1
	SmartNormal
	SmartHigh
)

func (s Smart) String() string {
	switch s {
	case SmartLow:
		return "LOW"
	case SmartNormal:
		return "NORMAL"
	case SmartHigh:
		return "HIGH"
	}
	return "UNKNOWN"
}

// wallpassOdd is the per-move chance of a Pooka turning into a ghost
var wallpassOdd = map[Smart]float64{
	SmartLow:    0.01,
	SmartNormal: 0.02,
	SmartHigh:   0.04,
}
