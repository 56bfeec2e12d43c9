package models

import "time"

// Tile is a single map cell type. The numeric values are part of the wire format.
type Tile int

const (
	TilePassage Tile = iota
	TileStone
)

func (t Tile) String() string {
	if t == TileStone {
		return "STONE"
	}
	return "PASSAGE"
}

// GameMap is the persisted form of a cave layout
type GameMap struct {
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Level       int        `json:"level"`
	Tiles       [][]Tile   `json:"tiles"` // indexed [x][y]
	EnemySpawns []Position `json:"enemy_spawns"`
	Rocks       []Position `json:"rocks"`
	Digged      []Position `json:"digged,omitempty"`
}

// Highscore is a single entry of the highscore table
type Highscore struct {
	Player string `json:"player"`
	Score  int    `json:"score"`
}

// MarshalJSON keeps the [name, score] pair layout viewers expect
func (h Highscore) MarshalJSON() ([]byte, error) {
	return marshalPair(h.Player, h.Score)
}

// UnmarshalJSON accepts both the [name, score] pair and the object form
func (h *Highscore) UnmarshalJSON(data []byte) error {
	return unmarshalPair(data, h)
}

// GameRecord describes a finished game, as submitted for grading
type GameRecord struct {
	Player    string    `json:"player"`
	Level     int       `json:"level"`
	Score     int       `json:"score"`
	Seed      int64     `json:"seed"`
	Timestamp time.Time `json:"timestamp"`
}
