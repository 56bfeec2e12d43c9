package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"digdug/server/models"
)

func TestLevelEnemies(t *testing.T) {
	rng := newRand(1)
	for level := 1; level <= 30; level++ {
		roster := LevelEnemies(level, rng)
		assert.Len(t, roster, level+MinEnemies)

		fygars := 0
		for i, kind := range roster {
			if kind == KindFygar {
				fygars++
				assert.Equal(t, i+1, fygars, "fygars lead the roster")
			}
		}
		assert.GreaterOrEqual(t, fygars, 1, "level %d", level)
		if limit := len(roster) / 2; limit > 1 {
			assert.Less(t, fygars, limit, "level %d", level)
		}
	}
}

func TestLevelEnemiesIsReproducible(t *testing.T) {
	for level := 1; level <= 10; level++ {
		assert.Equal(t, LevelEnemies(level, newRand(int64(level))), LevelEnemies(level, newRand(int64(level))))
	}
}

func TestSmartFor(t *testing.T) {
	rng := newRand(1)
	for i := 0; i < 100; i++ {
		assert.Equal(t, SmartLow, SmartFor(1, rng), "early levels are always low")
	}

	seen := map[Smart]int{}
	for i := 0; i < 1000; i++ {
		seen[SmartFor(40, rng)]++
	}
	// weights 1:4:2
	assert.Greater(t, seen[SmartNormal], seen[SmartHigh])
	assert.Greater(t, seen[SmartHigh], seen[SmartLow])
}

func TestSpawnEnemies(t *testing.T) {
	spawns := []models.Position{models.Pos(8, 8), models.Pos(7, 8)}
	enemies := spawnEnemies(4, spawns, newRand(1))

	assert.Len(t, enemies, 2, "surplus roster entries are dropped")
	assert.Equal(t, KindFygar, enemies[0].Kind())
	for i, e := range enemies {
		assert.Equal(t, spawns[i], e.Position())
		assert.Equal(t, spawns[i], e.Spawn())
	}
}
