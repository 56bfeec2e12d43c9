package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digdug/server/models"
)

func TestRopeExtends(t *testing.T) {
	grid := openGrid(t, 12, 12)
	rope := NewRope(grid)
	origin := models.Pos(2, 5)

	assert.False(t, rope.Extended())
	rope.Shoot(origin, models.East, nil)
	rope.Shoot(origin, models.East, nil)
	assert.Equal(t, []models.Position{models.Pos(3, 5), models.Pos(4, 5)}, rope.Cells())

	dir, locked := rope.Direction()
	assert.True(t, locked)
	assert.Equal(t, models.East, dir)
}

func TestRopeSlidingWindow(t *testing.T) {
	grid := openGrid(t, 12, 12)
	rope := NewRope(grid)
	origin := models.Pos(2, 5)

	for i := 0; i < 6; i++ {
		rope.Shoot(origin, models.East, nil)
		assert.LessOrEqual(t, len(rope.Cells()), MaxRopeLen)
	}
	assert.Equal(t, []models.Position{models.Pos(6, 5), models.Pos(7, 5), models.Pos(8, 5)}, rope.Cells())
}

func TestRopeRetracts(t *testing.T) {
	grid := openGrid(t, 12, 12)

	t.Run("direction change", func(t *testing.T) {
		rope := NewRope(grid)
		rope.Shoot(models.Pos(2, 5), models.East, nil)
		rope.Shoot(models.Pos(2, 5), models.South, nil)
		assert.False(t, rope.Extended())
		_, locked := rope.Direction()
		assert.False(t, locked)
	})

	t.Run("rock", func(t *testing.T) {
		rope := NewRope(grid)
		rocks := []*Rock{NewRock(models.Pos(4, 5), newRand(1))}
		rope.Shoot(models.Pos(2, 5), models.East, rocks)
		require.True(t, rope.Extended())
		rope.Shoot(models.Pos(2, 5), models.East, rocks)
		assert.Empty(t, rope.Cells())
	})

	t.Run("wall", func(t *testing.T) {
		rope := NewRope(grid)
		origin := models.Pos(9, 5)
		rope.Shoot(origin, models.East, nil)
		require.Equal(t, []models.Position{models.Pos(10, 5)}, rope.Cells())
		rope.Shoot(origin, models.East, nil)
		assert.Empty(t, rope.Cells())
	})
}

func TestRopeHit(t *testing.T) {
	grid := openGrid(t, 12, 12)
	rope := NewRope(grid)
	rng := newRand(1)
	origin := models.Pos(2, 5)

	assert.False(t, rope.Hit(nil))

	far := NewPooka(models.Pos(7, 5), 1, SmartLow, rng)
	near := NewPooka(models.Pos(4, 5), 1, SmartLow, rng)
	enemies := []*Enemy{far, near}

	rope.Shoot(origin, models.East, nil)
	assert.False(t, rope.Hit(enemies))

	rope.Shoot(origin, models.East, nil)
	rope.Shoot(origin, models.East, nil)
	require.Len(t, rope.Cells(), 3)

	assert.True(t, rope.Hit(enemies))
	assert.Equal(t, []models.Position{models.Pos(3, 5), models.Pos(4, 5)}, rope.Cells())
	assert.Equal(t, MinEnemyLife-1, near.Life())
	assert.True(t, near.Frozen())
	assert.Equal(t, MinEnemyLife, far.Life())
}
