package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"digdug/server/config"
	"digdug/server/game"
	"digdug/server/messages"
	"digdug/server/models"
	"digdug/server/persistence"
)

// ErrNotPlaying is returned for keys sent by anyone but the current player
var ErrNotPlaying = errors.New("not the current player")

// Broadcaster delivers messages to every viewer
type Broadcaster interface {
	BroadcastToAll(msg interface{})
}

// MatchService runs one match at a time for the players in the queue and
// streams every tick to the player and the viewers
type MatchService struct {
	cfg     *config.Config
	players *PlayerService
	viewers Broadcaster
	db      persistence.Storage
	grading *GradingClient
	log     *logrus.Entry

	mutex   sync.RWMutex
	match   *game.Match
	current *Player
}

// NewMatchService creates the game loop service. grading may be nil.
func NewMatchService(cfg *config.Config, players *PlayerService, viewers Broadcaster, db persistence.Storage, grading *GradingClient) *MatchService {
	return &MatchService{
		cfg:     cfg,
		players: players,
		viewers: viewers,
		db:      db,
		grading: grading,
		log:     logrus.WithField("logger", "server"),
	}
}

// Run plays queued players until ctx is done
func (s *MatchService) Run(ctx context.Context) error {
	for {
		s.log.Info("Waiting for player")
		p, err := s.players.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		if p.Conn.Closed() {
			s.log.Errorf("<%s> disconnect while waiting", p.Name)
			continue
		}

		s.play(ctx, p)

		if ctx.Err() != nil {
			return nil
		}
	}
}

// CurrentInfo describes the level being played, or nil between matches
func (s *MatchService) CurrentInfo() *game.Info {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.match == nil || !s.match.Running() {
		return nil
	}
	return s.match.Info()
}

// Keypress forwards a command from client to the running match. Invalid keys
// are still forwarded, the match treats them as no input.
func (s *MatchService) Keypress(client Client, key string) error {
	s.mutex.RLock()
	match, current := s.match, s.current
	s.mutex.RUnlock()

	if match == nil || current == nil || current.Conn.ID() != client.ID() {
		return ErrNotPlaying
	}

	match.Keypress(key)
	return game.ValidateKey(key)
}

func (s *MatchService) newMatch(p *Player, seed int64) (*game.Match, error) {
	log := s.log.WithField("player", p.Name)
	opts := []game.Option{
		game.WithRand(rand.New(rand.NewSource(seed))),
		game.WithLogger(logrus.WithFields(logrus.Fields{"logger": "match", "player": p.Name})),
	}

	if name := s.cfg.MapName; name != "" {
		grid, err := s.loadGrid(name)
		if err != nil {
			log.WithError(err).Warnf("Map %s is unusable, generating one", name)
		} else {
			opts = append(opts, game.WithGrid(grid))
		}
	}

	return game.NewMatch(s.cfg.MatchConfig(), opts...)
}

// loadGrid reads a YAML map snapshot when name is a .yaml file, otherwise a
// map saved in storage
func (s *MatchService) loadGrid(name string) (*game.Grid, error) {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		snap, err := game.LoadMapSnapshot(data)
		if err != nil {
			return nil, err
		}
		return snap.Grid()
	}

	gameMap, err := s.db.LoadMap(name)
	if err != nil {
		return nil, err
	}
	return game.GridFromModel(gameMap)
}

func (s *MatchService) play(ctx context.Context, p *Player) {
	log := s.log.WithField("player", p.Name)
	log.Infof("Starting game for <%s>", p.Name)

	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	match, err := s.newMatch(p, seed)
	if err == nil {
		err = match.Start(p.Name)
	}
	if err != nil {
		log.WithError(err).Error("Could not start match")
		p.Conn.SendMessage(messages.NewError(messages.CodeMatchFailed, err.Error()))
		p.Conn.Close()
		return
	}
	firstMap := match.Grid().ToModel()

	s.mutex.Lock()
	s.match, s.current = match, p
	s.mutex.Unlock()
	defer func() {
		s.mutex.Lock()
		s.match, s.current = nil, nil
		s.mutex.Unlock()
	}()

	aborted := s.loop(ctx, p, match, seed)

	score := match.Score()
	if aborted {
		s.mutex.Lock()
		match.Stop()
		s.mutex.Unlock()
		if ctx.Err() != nil {
			p.Conn.SendMessage(messages.NewError(messages.CodeServerShutdown, "server is shutting down"))
			p.Conn.Close()
		}
	} else {
		if err := s.players.RecordScore(p.Name, score); err != nil {
			log.WithError(err).Error("Could not save highscore")
		}
		log.Infof("Saving: %s <%d>", p.Name, score)

		info := match.Info()
		info.Player = p.Name
		info.Highscores = s.players.Highscores()
		s.sendInfo(p, info)
		p.Conn.Close()
	}

	s.finish(ctx, p, match, seed, firstMap)
}

// loop ticks the match at the configured rate and reports whether it ended
// early because the player left or the server is stopping
func (s *MatchService) loop(ctx context.Context, p *Player, match *game.Match, seed int64) bool {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()

	for match.Running() {
		if match.Step() == 0 {
			s.mutex.RLock()
			info := match.Info()
			s.mutex.RUnlock()
			s.sendInfo(p, info)
		}

		select {
		case <-ctx.Done():
			return true
		case <-p.Conn.Done():
			s.log.WithField("player", p.Name).Info("Player disconnected")
			return true
		case <-ticker.C:
		}

		s.mutex.Lock()
		state, err := match.NextFrame()
		respawning := match.State() == game.StateRespawning
		s.mutex.Unlock()

		if err != nil {
			s.log.WithError(err).Error("Match aborted")
			return false
		}
		if state == nil {
			continue
		}

		state.Player = p.Name
		state.Ts = float64(time.Now().UnixNano()) / float64(time.Second)
		msg := messages.NewState(state)
		if err := p.Conn.SendMessage(msg); err != nil {
			s.log.WithError(err).WithField("player", p.Name).Info("Player connection lost")
			return true
		}
		s.viewers.BroadcastToAll(msg)

		if s.cfg.Debug && respawning {
			s.dumpMap(match, seed, state.Lives)
		}
	}
	return false
}

func (s *MatchService) sendInfo(p *Player, info *game.Info) {
	msg := messages.NewInfo(info)
	s.viewers.BroadcastToAll(msg)
	if err := p.Conn.SendMessage(msg); err != nil {
		s.log.WithError(err).WithField("player", p.Name).Warn("Could not send info")
	}
}

// dumpMap writes the level as YAML so a death can be replayed as a fixed map
func (s *MatchService) dumpMap(match *game.Match, seed int64, lives int) {
	snap := match.MapSnapshot()
	snap.Seed = seed

	data, err := snap.Serialize()
	if err != nil {
		s.log.WithError(err).Error("Could not serialize map snapshot")
		return
	}
	path := filepath.Join(s.cfg.DebugDir, fmt.Sprintf("lives_%d.yaml", lives))
	if err := os.WriteFile(path, data, 0644); err != nil {
		s.log.WithError(err).Error("Could not write map snapshot")
		return
	}
	s.log.WithField("file", path).Debug("Map snapshot written")
}

// finish stores the game and submits it for grading. It runs for aborted
// games too.
func (s *MatchService) finish(ctx context.Context, p *Player, match *game.Match, seed int64, firstMap *models.GameMap) {
	record := &models.GameRecord{
		Player:    p.Name,
		Level:     match.Level(),
		Score:     match.Score(),
		Seed:      seed,
		Timestamp: time.Now().UTC(),
	}

	if s.cfg.SaveMaps {
		name := fmt.Sprintf("%s-%d", p.Name, seed)
		if err := s.db.SaveMap(name, firstMap); err != nil {
			s.log.WithError(err).Error("Could not save map")
		}
	}

	if err := s.db.SaveGameRecord(record); err != nil {
		s.log.WithError(err).Error("Could not save game record")
	}

	if s.grading != nil {
		if err := s.grading.Submit(context.WithoutCancel(ctx), record); err != nil {
			s.log.WithError(err).Error("Could not save score to server")
		}
	}
}
