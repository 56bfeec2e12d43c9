package game

import (
	"math/rand"

	"digdug/server/models"
)

// LevelEnemies returns the enemy roster for a level: at least one Fygar up
// front, Pookas for the rest
func LevelEnemies(level int, rng *rand.Rand) []EnemyKind {
	size := level + MinEnemies
	fygars := 1
	if limit := size / 2; limit > 1 {
		fygars = 1 + rng.Intn(limit-1)
	}

	roster := make([]EnemyKind, 0, size)
	for i := 0; i < size; i++ {
		if i < fygars {
			roster = append(roster, KindFygar)
		} else {
			roster = append(roster, KindPooka)
		}
	}
	return roster
}

// SmartFor draws an AI tier with weights [1, level/10, level/20]
func SmartFor(level int, rng *rand.Rand) Smart {
	weights := []int{1, level / 10, level / 20}
	total := 0
	for _, w := range weights {
		total += w
	}

	pick := rng.Intn(total)
	for i, w := range weights {
		if pick < w {
			return Smart(i + 1)
		}
		pick -= w
	}
	return SmartLow
}

// spawnEnemies pairs the roster with the grid's spawn points; surplus roster
// entries without a spawn point are dropped
func spawnEnemies(level int, spawns []models.Position, rng *rand.Rand) []*Enemy {
	roster := LevelEnemies(level, rng)
	enemies := make([]*Enemy, 0, len(spawns))
	for i, kind := range roster {
		if i >= len(spawns) {
			break
		}
		enemies = append(enemies, NewEnemy(kind, spawns[i], level, SmartFor(level, rng), rng))
	}
	return enemies
}
