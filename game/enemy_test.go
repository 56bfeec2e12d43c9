package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digdug/server/models"
)

func TestEnemyKill(t *testing.T) {
	e := NewPooka(models.Pos(5, 5), 1, SmartLow, newRand(1))
	require.Equal(t, MinEnemyLife, e.Life())

	for i := 0; i < MinEnemyLife; i++ {
		assert.False(t, e.Kill(false))
		assert.True(t, e.Frozen())
	}
	assert.Equal(t, 0, e.Life())
	assert.False(t, e.Alive())

	assert.True(t, e.Kill(false), "the hit below zero is fatal")
	assert.Equal(t, 0, e.Life())
	assert.False(t, e.Kill(false), "dead enemies die only once")
	assert.False(t, e.Kill(true))
	assert.Equal(t, 0, e.Life())

	e.respawn()
	assert.False(t, e.Kill(false), "sending a dead enemy home does not revive it")
}

func TestEnemyKillByRock(t *testing.T) {
	e := NewFygar(models.Pos(5, 2), 1, SmartLow, newRand(1))
	assert.True(t, e.Kill(true))
	assert.Equal(t, 0, e.Life())
	assert.Equal(t, RockKillPoints, e.Points(24))
}

func TestEnemyPoints(t *testing.T) {
	rng := newRand(1)
	for _, tc := range []struct {
		y    int
		want int
	}{
		{2, GroundPoints},
		{8, MiddlePoints},
		{14, BottomPoints},
		{20, BedPoints},
	} {
		pooka := NewPooka(models.Pos(3, tc.y), 1, SmartLow, rng)
		assert.Equal(t, tc.want, pooka.Points(24), "pooka at depth %d", tc.y)

		fygar := NewFygar(models.Pos(3, tc.y), 1, SmartLow, rng)
		assert.Equal(t, 2*tc.want, fygar.Points(24), "fygar facing east at depth %d", tc.y)
		fygar.lastDir = models.South
		assert.Equal(t, tc.want, fygar.Points(24), "fygar facing south at depth %d", tc.y)
	}
}

func TestEnemySpeed(t *testing.T) {
	grid := openGrid(t, 12, 12)
	rng := newRand(5)
	digger := models.Pos(1, 10)

	pooka := NewPooka(models.Pos(5, 5), 1, SmartLow, rng)
	pooka.Move(grid, digger, nil, nil, rng)
	assert.Equal(t, models.Pos(6, 5), pooka.Position(), "pookas act every tick")

	fygar := NewFygar(models.Pos(5, 3), 1, SmartLow, rng)
	fygar.Move(grid, digger, nil, nil, rng)
	assert.Equal(t, models.Pos(5, 3), fygar.Position(), "fygars act every other tick")
	fygar.Move(grid, digger, nil, nil, rng)
	assert.Equal(t, models.Pos(6, 3), fygar.Position())
}

func TestEnemyPolicies(t *testing.T) {
	grid := openGrid(t, 12, 12)
	digger := models.Pos(3, 5)

	t.Run("low wanders along its heading", func(t *testing.T) {
		rng := newRand(1)
		e := NewPooka(models.Pos(5, 5), 1, SmartLow, rng)
		e.Move(grid, digger, nil, nil, rng)
		assert.Equal(t, models.Pos(6, 5), e.Position())
		assert.Equal(t, models.East, e.Facing())

		blocked := NewPooka(models.Pos(10, 5), 1, SmartLow, rng)
		blocked.Move(grid, digger, nil, nil, rng)
		assert.Equal(t, models.Pos(10, 5), blocked.Position())
	})

	t.Run("normal flees", func(t *testing.T) {
		rng := newRand(1)
		e := NewPooka(models.Pos(5, 5), 1, SmartNormal, rng)
		e.Move(grid, digger, nil, nil, rng)
		assert.Equal(t, models.Pos(6, 5), e.Position())
		assert.Equal(t, models.East, e.LastDirection())
	})

	t.Run("high pursues", func(t *testing.T) {
		rng := newRand(1)
		e := NewPooka(models.Pos(5, 5), 1, SmartHigh, rng)
		e.Move(grid, digger, nil, nil, rng)
		assert.Equal(t, models.Pos(4, 5), e.Position())
		assert.Equal(t, models.West, e.LastDirection())
		assert.Equal(t, models.West, e.Facing())
	})

	t.Run("high avoids other enemies", func(t *testing.T) {
		rng := newRand(1)
		e := NewPooka(models.Pos(5, 5), 1, SmartHigh, rng)
		other := NewPooka(models.Pos(4, 5), 1, SmartLow, rng)
		e.Move(grid, digger, []*Enemy{e, other}, nil, rng)
		assert.NotEqual(t, models.Pos(4, 5), e.Position())
	})

	t.Run("rocks are avoided", func(t *testing.T) {
		rng := newRand(1)
		e := NewPooka(models.Pos(5, 5), 1, SmartHigh, rng)
		rocks := []*Rock{NewRock(models.Pos(4, 5), rng)}
		e.Move(grid, digger, nil, rocks, rng)
		assert.NotEqual(t, models.Pos(4, 5), e.Position())
	})
}

func TestEnemyRevives(t *testing.T) {
	grid := openGrid(t, 12, 12)
	rng := newRand(9)
	e := NewPooka(models.Pos(5, 5), 1, SmartLow, rng)
	e.Kill(false)

	for i := 0; i < 10000 && e.Life() < MinEnemyLife; i++ {
		e.Move(grid, models.Pos(1, 1), nil, nil, rng)
		require.Equal(t, models.Pos(5, 5), e.Position(), "weakened enemies stay put")
	}
	require.Equal(t, MinEnemyLife, e.Life())

	// one frozen tick left from the hit
	require.True(t, e.Frozen())
	e.Move(grid, models.Pos(1, 1), nil, nil, rng)
	assert.False(t, e.Frozen())
	assert.Equal(t, models.Pos(5, 5), e.Position())

	e.Move(grid, models.Pos(1, 1), nil, nil, rng)
	assert.Equal(t, models.Pos(6, 5), e.Position())
}

func TestEnemyExits(t *testing.T) {
	grid, err := NewGrid(openTiles(6, 6), 1, nil, nil)
	require.NoError(t, err)
	rng := newRand(1)

	e := NewPooka(models.Pos(1, 0), 1, SmartHigh, rng)
	e.Move(grid, models.Pos(0, 0), nil, nil, rng)
	assert.Equal(t, models.Pos(0, 0), e.Position())
	assert.True(t, e.Exited())
}

func TestPookaWallpass(t *testing.T) {
	grid := newTestGrid(t)
	rng := newRand(2)

	e := NewPooka(models.Pos(1, 1), 1, SmartHigh, rng)
	e.wallpass = true
	e.target = models.Pos(1, 4)

	e.Move(grid, models.Pos(9, 9), nil, nil, rng)
	assert.Equal(t, models.Pos(1, 2), e.Position(), "ghosts cut through stone")
	assert.True(t, e.Wallpassing())

	e.Move(grid, models.Pos(9, 9), nil, nil, rng)
	assert.Equal(t, models.Pos(1, 3), e.Position())
	assert.False(t, e.Wallpassing(), "back on passage")
	assert.Contains(t, grid.EnemySpawns(), e.target)
}

func TestPookaEntersWallpass(t *testing.T) {
	grid := openGrid(t, 12, 12)
	rng := newRand(4)
	e := NewPooka(models.Pos(5, 5), 1, SmartHigh, rng)

	entered := false
	for i := 0; i < 2000 && !entered; i++ {
		e.Move(grid, models.Pos(1, 1), nil, nil, rng)
		entered = e.Wallpassing()
	}
	assert.True(t, entered)
}

func TestFygarFireLine(t *testing.T) {
	grid := openGrid(t, 12, 12)
	rng := newRand(3)

	e := NewFygar(models.Pos(3, 5), 1, SmartLow, rng)
	for i := 0; i < 200 && !e.Frozen(); i++ {
		e.breathe(grid, models.Pos(1, 5), nil, rng)
	}
	require.True(t, e.Frozen())
	assert.Equal(t, []models.Position{models.Pos(4, 5), models.Pos(5, 5), models.Pos(6, 5)}, e.Fire())
	assert.True(t, e.Breathes(models.Pos(5, 5)))

	// frozen fygars keep their fire for one tick and then drop it
	e.Move(grid, models.Pos(1, 5), nil, nil, rng)
	e.Move(grid, models.Pos(1, 5), nil, nil, rng)
	assert.False(t, e.Frozen())
	assert.Empty(t, e.Fire())
}

func TestFygarFireStops(t *testing.T) {
	grid := openGrid(t, 12, 12)
	rng := newRand(3)

	nearWall := NewFygar(models.Pos(9, 5), 1, SmartLow, rng)
	for i := 0; i < 200 && !nearWall.Frozen(); i++ {
		nearWall.breathe(grid, models.Pos(1, 5), nil, rng)
	}
	assert.Equal(t, []models.Position{models.Pos(10, 5)}, nearWall.Fire())

	nearRock := NewFygar(models.Pos(3, 5), 1, SmartLow, rng)
	rocks := []*Rock{NewRock(models.Pos(5, 5), rng)}
	for i := 0; i < 200 && !nearRock.Frozen(); i++ {
		nearRock.breathe(grid, models.Pos(1, 5), rocks, rng)
	}
	assert.Equal(t, []models.Position{models.Pos(4, 5)}, nearRock.Fire())

	vertical := NewFygar(models.Pos(3, 5), 1, SmartLow, rng)
	vertical.lastDir = models.North
	for i := 0; i < 200; i++ {
		vertical.breathe(grid, models.Pos(3, 1), nil, rng)
	}
	assert.Empty(t, vertical.Fire())
	assert.False(t, vertical.Frozen())
}

func TestFygarFireOdds(t *testing.T) {
	grid := openGrid(t, 12, 12)
	const trials = 4000

	rate := func(digger models.Position, seed int64) float64 {
		rng := newRand(seed)
		e := NewFygar(models.Pos(5, 5), 1, SmartLow, rng)
		fired := 0
		for i := 0; i < trials; i++ {
			e.freeze = false
			e.fire = nil
			e.breathe(grid, digger, nil, rng)
			if e.freeze {
				fired++
			}
		}
		return float64(fired) / trials
	}

	for seed := int64(1); seed <= 5; seed++ {
		assert.InDelta(t, FireOddAligned, rate(models.Pos(1, 5), seed), 0.04, "aligned, seed %d", seed)
		assert.InDelta(t, FireOddUnaligned, rate(models.Pos(1, 9), seed), 0.03, "unaligned, seed %d", seed)
	}
}

func openTiles(w, h int) [][]models.Tile {
	tiles := make([][]models.Tile, w)
	for x := range tiles {
		tiles[x] = make([]models.Tile, h)
	}
	return tiles
}
