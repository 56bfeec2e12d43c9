package game

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"

	"digdug/server/models"
)

const (
	boardStone   = '#'
	boardPassage = '.'
)

// MapSnapshotEnemy records where an enemy stood when the snapshot was taken
type MapSnapshotEnemy struct {
	Name string          `yaml:"name"`
	Pos  models.Position `yaml:"pos"`
}

// MapSnapshot is a human readable dump of a level, one board row per line
type MapSnapshot struct {
	Seed    int64              `yaml:"seed"`
	Level   int                `yaml:"level"`
	Board   []string           `yaml:"board"`
	Spawns  []models.Position  `yaml:"spawns"`
	Rocks   []models.Position  `yaml:"rocks"`
	Digged  []models.Position  `yaml:"digged,omitempty"`
	Digger  *models.Position   `yaml:"digger,omitempty"`
	Enemies []MapSnapshotEnemy `yaml:"enemies,omitempty"`
}

// NewMapSnapshot captures the layout of a grid
func NewMapSnapshot(grid *Grid) *MapSnapshot {
	snap := &MapSnapshot{
		Level:  grid.Level(),
		Board:  make([]string, grid.Height()),
		Spawns: append([]models.Position(nil), grid.EnemySpawns()...),
		Rocks:  append([]models.Position(nil), grid.RockSpawns()...),
		Digged: append([]models.Position(nil), grid.Digged()...),
	}

	var row strings.Builder
	for y := 0; y < grid.Height(); y++ {
		row.Reset()
		for x := 0; x < grid.Width(); x++ {
			if grid.tiles[x][y] == models.TileStone {
				row.WriteByte(boardStone)
			} else {
				row.WriteByte(boardPassage)
			}
		}
		snap.Board[y] = row.String()
	}
	return snap
}

// MapSnapshot captures the current level including live positions
func (m *Match) MapSnapshot() *MapSnapshot {
	snap := NewMapSnapshot(m.grid)
	snap.Rocks = snap.Rocks[:0]
	for _, r := range m.rocks {
		snap.Rocks = append(snap.Rocks, r.Position())
	}
	pos := m.digger.Position()
	snap.Digger = &pos
	for _, e := range m.enemies {
		snap.Enemies = append(snap.Enemies, MapSnapshotEnemy{Name: e.Name(), Pos: e.Position()})
	}
	return snap
}

// Serialize encodes the snapshot as YAML
func (s *MapSnapshot) Serialize() ([]byte, error) {
	return yaml.Marshal(s)
}

// LoadMapSnapshot decodes a YAML snapshot
func LoadMapSnapshot(data []byte) (*MapSnapshot, error) {
	var snap MapSnapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if len(snap.Board) == 0 {
		return nil, fmt.Errorf("%w: empty board", ErrBadSnapshot)
	}
	if snap.Level < 1 {
		snap.Level = 1
	}
	return &snap, nil
}

// Grid rebuilds the playable grid described by the snapshot
func (s *MapSnapshot) Grid() (*Grid, error) {
	height := len(s.Board)
	if height == 0 {
		return nil, fmt.Errorf("%w: empty board", ErrBadSnapshot)
	}
	width := len(s.Board[0])

	tiles := make([][]models.Tile, width)
	for x := range tiles {
		tiles[x] = make([]models.Tile, height)
	}
	for y, row := range s.Board {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBadSnapshot, y, len(row), width)
		}
		for x := 0; x < width; x++ {
			switch row[x] {
			case boardStone:
				tiles[x][y] = models.TileStone
			case boardPassage:
				tiles[x][y] = models.TilePassage
			default:
				return nil, fmt.Errorf("%w: unknown cell %q at (%d,%d)", ErrBadSnapshot, row[x], x, y)
			}
		}
	}

	grid, err := NewGrid(tiles, s.Level, s.Spawns, s.Rocks)
	if err != nil {
		return nil, err
	}
	grid.digged = append(grid.digged, s.Digged...)
	return grid, nil
}
