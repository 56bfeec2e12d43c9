package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"digdug/server/models"
)

// MatchState is the lifecycle state of a match
type MatchState int

const (
	StateIdle MatchState = iota
	StateRunning
	// StateRespawning grants the digger one tick of grace before it is put
	// back on its spawn point
	StateRespawning
	StateStopped
)

func (s MatchState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateRespawning:
		return "respawning"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("MatchState(%d)", int(s))
}

// Config holds the tunables of a match
type Config struct {
	Level   int
	Lives   int
	Timeout int
	FPS     int
	Width   int
	Height  int
}

// DefaultConfig returns the standard match settings
func DefaultConfig() Config {
	return Config{
		Level:   DefaultLevel,
		Lives:   DefaultLives,
		Timeout: DefaultTimeout,
		FPS:     DefaultFPS,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
	}
}

func (c Config) validate() error {
	switch {
	case c.Level < 1:
		return fmt.Errorf("level must be positive, got %d", c.Level)
	case c.Lives < 1:
		return fmt.Errorf("lives must be positive, got %d", c.Lives)
	case c.Timeout < 1:
		return fmt.Errorf("timeout must be positive, got %d", c.Timeout)
	case c.FPS < 1:
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	return nil
}

// Option customises a match
type Option func(*Match)

// WithRand sets the random source every random decision of the match draws from
func WithRand(rng *rand.Rand) Option {
	return func(m *Match) { m.rng = rng }
}

// WithLogger replaces the match logger
func WithLogger(log *logrus.Entry) Option {
	return func(m *Match) { m.log = log }
}

// WithGrid plays the first level on a fixed layout instead of a generated one
func WithGrid(grid *Grid) Option {
	return func(m *Match) { m.fixed = grid }
}

// Match runs the authoritative simulation, one tick per NextFrame call. It is
// not safe for concurrent use except for Keypress.
type Match struct {
	cfg Config
	rng *rand.Rand
	log *logrus.Entry

	state  MatchState
	player string

	grid    *Grid
	fixed   *Grid
	digger  *Digger
	enemies []*Enemy
	rocks   []*Rock
	rope    *Rope
	input   InputSlot

	score      int
	step       int
	totalSteps int
}

// NewMatch creates an idle match
func NewMatch(cfg Config, opts ...Option) (*Match, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	m := &Match{
		cfg: cfg,
		log: logrus.WithField("logger", "match"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if m.fixed != nil {
		m.grid = m.fixed
	} else {
		gridCfg := DefaultGridConfig(1)
		gridCfg.Width, gridCfg.Height = cfg.Width, cfg.Height
		gridCfg.Empty = true
		grid, err := GenerateGrid(gridCfg, m.rng)
		if err != nil {
			return nil, err
		}
		m.grid = grid
	}
	m.digger = NewDigger(m.grid.DiggerSpawn(), cfg.Lives)
	m.rope = NewRope(m.grid)

	m.log.Infof("Match(level=%d, lives=%d)", cfg.Level, cfg.Lives)
	return m, nil
}

func (m *Match) State() MatchState { return m.state }
func (m *Match) Player() string    { return m.player }
func (m *Match) Step() int         { return m.step }
func (m *Match) Level() int        { return m.grid.Level() }
func (m *Match) Grid() *Grid       { return m.grid }
func (m *Match) Digger() *Digger   { return m.digger }
func (m *Match) Enemies() []*Enemy { return m.enemies }
func (m *Match) Rocks() []*Rock    { return m.rocks }
func (m *Match) Rope() *Rope       { return m.rope }
func (m *Match) Config() Config    { return m.cfg }

// Running reports whether ticks are being processed
func (m *Match) Running() bool {
	return m.state == StateRunning || m.state == StateRespawning
}

// TotalSteps counts every tick played across all levels
func (m *Match) TotalSteps() int {
	return m.totalSteps + m.step
}

// Score is the running score plus the efficiency and survival bonus
func (m *Match) Score() int {
	bonus := floorDiv(m.Level()*m.cfg.Timeout-m.TotalSteps(), 10) + m.digger.Lives()*1000
	return m.score + bonus
}

// Start resets the world and begins the first level
func (m *Match) Start(player string) error {
	m.log.Debug("Reset world")
	m.player = player
	m.state = StateRunning
	m.score = 0
	m.step = 0
	m.totalSteps = 0
	m.digger = NewDigger(m.grid.DiggerSpawn(), m.cfg.Lives)

	if err := m.nextLevel(m.cfg.Level); err != nil {
		m.state = StateStopped
		return err
	}
	return nil
}

// Stop ends the match
func (m *Match) Stop() {
	if m.state == StateStopped {
		return
	}
	m.log.WithField("score", m.Score()).Info("GAME OVER")
	m.state = StateStopped
}

// Keypress stores the command for the next tick. It may be called from any
// goroutine; the last command before a tick wins.
func (m *Match) Keypress(key string) {
	m.input.Put(key)
}

func (m *Match) nextLevel(level int) error {
	var grid *Grid
	if m.fixed != nil {
		grid, m.fixed = m.fixed, nil
		grid.level = level
	} else {
		gridCfg := DefaultGridConfig(level)
		gridCfg.Width, gridCfg.Height = m.cfg.Width, m.cfg.Height
		generated, err := GenerateGrid(gridCfg, m.rng)
		if err != nil {
			return fmt.Errorf("failed to generate level %d: %w", level, err)
		}
		grid = generated
	}

	m.log.WithField("game_level", level).Info("NEXT LEVEL")
	m.grid = grid
	m.digger.Respawn()
	m.totalSteps += m.step
	m.step = 0
	m.rope = NewRope(grid)
	m.input.Take()

	m.enemies = spawnEnemies(level, grid.EnemySpawns(), m.rng)
	m.rocks = make([]*Rock, 0, len(grid.RockSpawns()))
	for _, p := range grid.RockSpawns() {
		m.rocks = append(m.rocks, NewRock(p, m.rng))
	}
	m.log.Debugf("Enemies: %v", m.enemies)
	return nil
}

// NextFrame runs one tick and returns the resulting state. It returns nil
// when the match is not running and on level transition ticks. An error means
// the match could not continue and has been stopped.
func (m *Match) NextFrame() (*State, error) {
	if !m.Running() {
		m.log.Debug("Waiting for player")
		return nil, nil
	}

	if m.state == StateRespawning {
		m.respawnDigger()
	}

	m.step++
	if m.step >= m.cfg.Timeout {
		m.log.WithField("step", m.step).Info("Timeout reached")
		m.Stop()
		return m.Snapshot(), nil
	}
	if m.step%100 == 0 {
		m.log.Debugf("[%d] SCORE %d - LIVES %d", m.step, m.score, m.digger.Lives())
	}

	m.updateDigger()

	if len(m.enemies) == 0 {
		return nil, m.completeLevel()
	}

	m.collide()

	for _, e := range m.enemies {
		if e.Alive() {
			e.Move(m.grid, m.digger.Position(), m.enemies, m.rocks, m.rng)
		}
	}
	for _, r := range m.rocks {
		r.Move(m.grid, m.digger, m.rocks, m.rng)
	}

	m.reap()
	m.collide()

	return m.Snapshot(), nil
}

func (m *Match) respawnDigger() {
	m.digger.Respawn()
	for _, e := range m.enemies {
		if e.Position().Dist(m.digger.Position()) < VitalSpace {
			m.log.Debugf("Respawn camper %s", e)
			e.respawn()
		}
	}
	m.state = StateRunning
}

func (m *Match) updateDigger() {
	key := m.input.Take()
	if err := ValidateKey(key); err != nil {
		m.log.WithError(err).Warn("Ignoring key")
		return
	}

	if isAction(key) {
		m.rope.Shoot(m.digger.Position(), m.digger.Aim(), m.rocks)
		if m.rope.Hit(m.enemies) {
			m.log.Debugf("[step=%d] Enemy hit with rope %v", m.step, m.rope.Cells())
		}
		return
	}

	if dir, ok := keyDirection(key); ok {
		// moving lets go of the rope
		m.rope = NewRope(m.grid)
		m.digger.Move(m.grid, dir, m.rocks)
	}
}

func (m *Match) completeLevel() error {
	level := m.Level()
	m.log.Infof("Level %d completed", level)
	m.score += floorDiv(level*m.cfg.Timeout-m.TotalSteps(), 10)

	if err := m.nextLevel(level + 1); err != nil {
		m.log.WithError(err).Error("Could not start next level")
		m.Stop()
		return err
	}
	return nil
}

// collide resolves contacts between the digger, enemies, fire and rocks
func (m *Match) collide() {
	if !m.Running() {
		return
	}

	digger := m.digger.Position()
	for _, e := range m.enemies {
		if !e.Alive() {
			continue
		}
		if e.Position() == digger {
			m.log.Debugf("[step=%d] %s has killed the digger", m.step, e)
			m.killDigger()
			e.respawn()
		}
		if e.Breathes(digger) {
			m.log.Debugf("[step=%d] %s has killed the digger with fire", m.step, e)
			m.killDigger()
		}
	}

	for _, r := range m.rocks {
		if r.Position() == digger {
			m.log.Debugf("[step=%d] %s has killed the digger", m.step, r)
			m.killDigger()
		}
		for _, e := range m.enemies {
			if e.Alive() && e.Position() == r.Position() {
				e.Kill(true)
				m.award(e)
			}
		}
	}
}

// killDigger takes a life. A second hazard in the same tick is ignored.
func (m *Match) killDigger() {
	if m.state != StateRunning {
		return
	}

	m.digger.Kill()
	m.log.WithField("lives", m.digger.Lives()).Infof("[step=%d] Digger has died", m.step)
	if m.digger.Lives() > 0 {
		m.state = StateRespawning
	} else {
		m.Stop()
	}
}

func (m *Match) award(e *Enemy) {
	if e.scored {
		return
	}
	e.scored = true
	m.score += e.Points(m.grid.Height())
}

// reap scores enemies that died this tick and drops dead or exited ones
func (m *Match) reap() {
	kept := make([]*Enemy, 0, len(m.enemies))
	for _, e := range m.enemies {
		if !e.Alive() {
			m.award(e)
			continue
		}
		if e.Exited() {
			continue
		}
		kept = append(kept, e)
	}
	m.enemies = kept
}

// Snapshot returns the current world state
func (m *Match) Snapshot() *State {
	state := &State{
		Level:   m.Level(),
		Step:    m.step,
		Timeout: m.cfg.Timeout,
		Player:  m.player,
		Score:   m.score,
		Lives:   m.digger.Lives(),
		Digdug:  m.digger.Position(),
		Enemies: make([]EnemyState, 0, len(m.enemies)),
		Rocks:   make([]RockState, 0, len(m.rocks)),
	}
	for _, e := range m.enemies {
		state.Enemies = append(state.Enemies, enemyState(e))
	}
	for _, r := range m.rocks {
		state.Rocks = append(state.Rocks, RockState{ID: r.ID(), Pos: r.Position()})
	}
	if dir, ok := m.rope.Direction(); ok && m.rope.Extended() {
		state.Rope = &RopeState{
			Dir: dir,
			Pos: append([]models.Position(nil), m.rope.Cells()...),
		}
	}
	return state
}

// Info describes the current level for renderers
func (m *Match) Info() *Info {
	return &Info{
		Size:    [2]int{m.grid.Width(), m.grid.Height()},
		Map:     m.grid.Tiles(),
		FPS:     m.cfg.FPS,
		Timeout: m.cfg.Timeout,
		Lives:   m.cfg.Lives,
		Score:   m.Score(),
		Level:   m.Level(),
	}
}

// floorDiv divides rounding toward negative infinity
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
