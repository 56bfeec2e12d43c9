package game

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"digdug/server/models"
)

var mapLog = logrus.WithField("logger", "map")

// GridConfig controls procedural cave generation
type GridConfig struct {
	Level         int
	Width, Height int
	VitalSpace    int
	// Empty skips the random stone fill, used for the placeholder grid that
	// exists before the first real level
	Empty bool
}

// DefaultGridConfig returns the configuration for a level on the standard map size
func DefaultGridConfig(level int) GridConfig {
	return GridConfig{
		Level:      level,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		VitalSpace: VitalSpace,
	}
}

// Grid owns the tile matrix of one level
type Grid struct {
	width, height int
	level         int
	tiles         [][]models.Tile // [x][y]

	enemySpawns []models.Position
	rockSpawns  []models.Position
	digged      []models.Position
}

// GenerateGrid builds a random cave for the configured level. The whole layout
// is regenerated when rocks cannot be placed, and an error is returned once
// that has failed repeatedly.
func GenerateGrid(cfg GridConfig, rng *rand.Rand) (*Grid, error) {
	if cfg.Level < 1 {
		cfg.Level = 1
	}
	if cfg.Width <= cfg.VitalSpace+9 || cfg.Height <= cfg.VitalSpace+9 {
		return nil, fmt.Errorf("%w: %dx%d with vital space %d", ErrGridTooSmall, cfg.Width, cfg.Height, cfg.VitalSpace)
	}

	var lastErr error
	for attempt := 0; attempt < maxLayoutAttempts; attempt++ {
		grid := newEmptyGrid(cfg.Width, cfg.Height, cfg.Level)
		grid.fill(cfg, rng)
		grid.carveCorridors(cfg, rng)

		if err := grid.placeRocks(cfg, rng); err != nil {
			mapLog.WithError(err).WithField("attempt", attempt).Debug("Regenerating layout")
			lastErr = err
			continue
		}

		mapLog.WithFields(logrus.Fields{
			"game_level": cfg.Level,
			"size":       fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
			"spawns":     len(grid.enemySpawns),
			"rocks":      len(grid.rockSpawns),
			"attempt":    attempt,
		}).Info("Generated map")
		return grid, nil
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrLayoutExhausted, maxLayoutAttempts, lastErr)
}

// NewGrid wraps a fixed tile layout, indexed [x][y]
func NewGrid(tiles [][]models.Tile, level int, enemySpawns, rocks []models.Position) (*Grid, error) {
	if len(tiles) == 0 || len(tiles[0]) == 0 {
		return nil, fmt.Errorf("%w: empty tile matrix", ErrGridTooSmall)
	}
	height := len(tiles[0])
	grid := newEmptyGrid(len(tiles), height, level)
	for x, column := range tiles {
		if len(column) != height {
			return nil, fmt.Errorf("%w: column %d has %d tiles, want %d", ErrBadSnapshot, x, len(column), height)
		}
		copy(grid.tiles[x], column)
	}
	grid.enemySpawns = append(grid.enemySpawns, enemySpawns...)
	grid.rockSpawns = append(grid.rockSpawns, rocks...)
	return grid, nil
}

func newEmptyGrid(width, height, level int) *Grid {
	tiles := make([][]models.Tile, width)
	for x := range tiles {
		tiles[x] = make([]models.Tile, height)
	}
	return &Grid{
		width:  width,
		height: height,
		level:  level,
		tiles:  tiles,
	}
}

func (g *Grid) fill(cfg GridConfig, rng *rand.Rand) {
	stoneOdd := 70 + 25/float64(cfg.Level)
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			switch {
			case y < 2:
				g.tiles[x][y] = models.TilePassage
			case x == 0 || x == g.width-1 || y == g.height-1:
				g.tiles[x][y] = models.TileStone
			case x%2 == 0 && y%2 == 0:
				g.tiles[x][y] = models.TileStone
			case x < cfg.VitalSpace || y < cfg.VitalSpace:
				// the margin around the spawn stays solid until dug
				g.tiles[x][y] = models.TileStone
			case !cfg.Empty && rng.Float64()*100 < stoneOdd:
				g.tiles[x][y] = models.TileStone
			default:
				g.tiles[x][y] = models.TilePassage
			}
		}
	}
}

// carveCorridors opens level+2 straight caves; each start cell becomes an
// enemy spawn point
func (g *Grid) carveCorridors(cfg GridConfig, rng *rand.Rand) {
	for i := 0; i < cfg.Level+2; i++ {
		var start models.Position
		if rng.Intn(2) == 0 {
			line := randRange(rng, cfg.VitalSpace+1, g.height-1)
			offset := randRange(rng, 1, g.width-1-MinCorridorLen)
			for x := 0; x < MinCorridorLen; x++ {
				g.tiles[offset+x][line] = models.TilePassage
			}
			start = models.Pos(offset, line)
		} else {
			column := randRange(rng, 1, g.width-1)
			offset := randRange(rng, 3, g.height-1-MinCorridorLen)
			for y := 0; y < MinCorridorLen; y++ {
				g.tiles[column][offset+y] = models.TilePassage
			}
			start = models.Pos(column, offset)
		}
		g.enemySpawns = append(g.enemySpawns, start)
		mapLog.Debugf("Spawn enemy at %v", start)
	}
}

func (g *Grid) placeRocks(cfg GridConfig, rng *rand.Rand) error {
	for r := 0; r < cfg.Level; r++ {
		placed := false
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			pos := models.Pos(
				randRange(rng, 1, g.width-1),
				randRange(rng, cfg.VitalSpace+1, g.height-cfg.VitalSpace),
			)
			if g.tiles[pos.X][pos.Y] != models.TileStone || pos.In(g.rockSpawns) {
				continue
			}
			g.rockSpawns = append(g.rockSpawns, pos)
			placed = true
			break
		}
		if !placed {
			return fmt.Errorf("%w: rock %d of %d", ErrRockPlacement, r+1, cfg.Level)
		}
	}
	return nil
}

// randRange returns a value in [lo, hi), or lo when the range is empty
func randRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo)
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }
func (g *Grid) Level() int  { return g.level }

// DiggerSpawn is always the top-left passage cell
func (g *Grid) DiggerSpawn() models.Position { return diggerSpawn }

func (g *Grid) EnemySpawns() []models.Position { return g.enemySpawns }
func (g *Grid) RockSpawns() []models.Position  { return g.rockSpawns }

// Digged returns every cell excavated so far, in dig order
func (g *Grid) Digged() []models.Position { return g.digged }

// InBounds reports whether the position lies on the map
func (g *Grid) InBounds(p models.Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Tile returns the tile at the position; out of bounds reads as stone
func (g *Grid) Tile(p models.Position) models.Tile {
	if !g.InBounds(p) {
		return models.TileStone
	}
	return g.tiles[p.X][p.Y]
}

// IsBlocked reports whether the cell cannot be entered. Stone only blocks
// movers that cannot traverse it.
func (g *Grid) IsBlocked(p models.Position, traverse bool) bool {
	if !g.InBounds(p) {
		return true
	}
	if g.tiles[p.X][p.Y] == models.TilePassage {
		return false
	}
	return !traverse
}

// Step returns the neighbour in the given direction, or from itself when the
// neighbour is blocked
func (g *Grid) Step(from models.Position, d models.Direction, traverse bool) models.Position {
	next := from.Add(d)
	if g.IsBlocked(next, traverse) {
		return from
	}
	return next
}

// Dig turns stone into passage and records it. Digging a passage is a no-op.
func (g *Grid) Dig(p models.Position) {
	if !g.InBounds(p) || g.tiles[p.X][p.Y] != models.TileStone {
		return
	}
	g.tiles[p.X][p.Y] = models.TilePassage
	g.digged = append(g.digged, p)
}

// Tiles returns a copy of the tile matrix, indexed [x][y]
func (g *Grid) Tiles() [][]models.Tile {
	out := make([][]models.Tile, g.width)
	for x := range g.tiles {
		out[x] = append([]models.Tile(nil), g.tiles[x]...)
	}
	return out
}

// ToModel converts the grid into its persisted form
func (g *Grid) ToModel() *models.GameMap {
	return &models.GameMap{
		Width:       g.width,
		Height:      g.height,
		Level:       g.level,
		Tiles:       g.Tiles(),
		EnemySpawns: append([]models.Position(nil), g.enemySpawns...),
		Rocks:       append([]models.Position(nil), g.rockSpawns...),
		Digged:      append([]models.Position(nil), g.digged...),
	}
}

// GridFromModel rebuilds a grid from its persisted form
func GridFromModel(m *models.GameMap) (*Grid, error) {
	grid, err := NewGrid(m.Tiles, m.Level, m.EnemySpawns, m.Rocks)
	if err != nil {
		return nil, err
	}
	if grid.width != m.Width || grid.height != m.Height {
		return nil, fmt.Errorf("%w: tiles are %dx%d, header says %dx%d", ErrBadSnapshot, grid.width, grid.height, m.Width, m.Height)
	}
	grid.digged = append(grid.digged, m.Digged...)
	return grid, nil
}
