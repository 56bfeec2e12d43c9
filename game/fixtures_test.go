package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"digdug/server/models"
)

// board13 is a walled 13x13 cave, open inside except for the cell right
// below the digger spawn
const board13 = `
seed: 7
level: 1
board:
- "#############"
- "#...........#"
- "##..........#"
- "#...........#"
- "#...........#"
- "#...........#"
- "#...........#"
- "#...........#"
- "#...........#"
- "#...........#"
- "#...........#"
- "#...........#"
- "#############"
spawns:
- [8, 8]
- [7, 8]
- [8, 7]
rocks:
- [1, 11]
`

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func newTestGrid(t *testing.T) *Grid {
	t.Helper()
	snap, err := LoadMapSnapshot([]byte(board13))
	require.NoError(t, err)
	grid, err := snap.Grid()
	require.NoError(t, err)
	return grid
}

// openGrid is a fully open w x h grid with stone borders
func openGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	tiles := make([][]models.Tile, w)
	for x := range tiles {
		tiles[x] = make([]models.Tile, h)
		for y := range tiles[x] {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				tiles[x][y] = models.TileStone
			}
		}
	}
	grid, err := NewGrid(tiles, 1, nil, nil)
	require.NoError(t, err)
	return grid
}
