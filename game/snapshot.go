package game

import "digdug/server/models"

// EnemyState is the per-tick view of an enemy
type EnemyState struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Pos      models.Position   `json:"pos"`
	Dir      models.Direction  `json:"dir"`
	Fire     []models.Position `json:"fire,omitempty"`
	Traverse bool              `json:"traverse,omitempty"`
}

// RockState is the per-tick view of a rock
type RockState struct {
	ID  string          `json:"id"`
	Pos models.Position `json:"pos"`
}

// RopeState is the per-tick view of an extended rope
type RopeState struct {
	Dir models.Direction  `json:"dir"`
	Pos []models.Position `json:"pos"`
}

// State is the authoritative world state emitted every tick
type State struct {
	Level   int             `json:"level"`
	Step    int             `json:"step"`
	Timeout int             `json:"timeout"`
	Player  string          `json:"player"`
	Score   int             `json:"score"`
	Lives   int             `json:"lives"`
	Digdug  models.Position `json:"digdug"`
	Enemies []EnemyState    `json:"enemies"`
	Rocks   []RockState     `json:"rocks"`
	Rope    *RopeState      `json:"rope,omitempty"`
	Ts      float64         `json:"ts,omitempty"`
}

// Info is what a renderer needs to draw a level from scratch
type Info struct {
	Size       [2]int             `json:"size"`
	Map        [][]models.Tile    `json:"map"`
	FPS        int                `json:"fps"`
	Timeout    int                `json:"timeout"`
	Lives      int                `json:"lives"`
	Score      int                `json:"score"`
	Level      int                `json:"level"`
	Player     string             `json:"player,omitempty"`
	Highscores []models.Highscore `json:"highscores,omitempty"`
}

func enemyState(e *Enemy) EnemyState {
	state := EnemyState{
		ID:       e.ID(),
		Name:     e.Name(),
		Pos:      e.Position(),
		Dir:      e.Facing(),
		Traverse: e.Wallpassing(),
	}
	if len(e.fire) > 0 {
		state.Fire = append([]models.Position(nil), e.fire...)
	}
	return state
}
