package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/gammazero/deque"

	"digdug/server/models"
	"digdug/server/persistence"
)

// Client is the connection of a player or viewer
type Client interface {
	ID() string
	SendMessage(msg interface{}) error
	Close()
	Closed() bool
	Done() <-chan struct{}
}

// Player is someone waiting for, or playing, a match
type Player struct {
	Name string
	Conn Client
}

// PlayerService manages the queue of players and the highscore table
type PlayerService struct {
	waiting *deque.Deque[*Player]
	ready   chan struct{}
	db      persistence.Storage

	highscores []models.Highscore
	mutex      sync.RWMutex
}

// NewPlayerService creates a new player service with the stored highscores
func NewPlayerService(db persistence.Storage) (*PlayerService, error) {
	ps := &PlayerService{
		waiting: deque.New[*Player](),
		ready:   make(chan struct{}, 1),
		db:      db,
	}

	scores, err := db.LoadHighscores(persistence.MaxHighscores)
	if err != nil {
		return nil, fmt.Errorf("failed to load highscores: %w", err)
	}
	ps.highscores = scores

	return ps, nil
}

// Enqueue adds a player to the back of the queue
func (ps *PlayerService) Enqueue(p *Player) {
	ps.mutex.Lock()
	ps.waiting.PushBack(p)
	ps.mutex.Unlock()

	select {
	case ps.ready <- struct{}{}:
	default:
	}
}

// Waiting is the number of queued players
func (ps *PlayerService) Waiting() int {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()
	return ps.waiting.Len()
}

// Next blocks until a player is queued or ctx is done
func (ps *PlayerService) Next(ctx context.Context) (*Player, error) {
	for {
		ps.mutex.Lock()
		if ps.waiting.Len() > 0 {
			p := ps.waiting.PopFront()
			ps.mutex.Unlock()
			return p, nil
		}
		ps.mutex.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ps.ready:
		}
	}
}

// RecordScore stores a finished game and refreshes the highscore table
func (ps *PlayerService) RecordScore(name string, score int) error {
	if err := ps.db.AddHighscore(models.Highscore{Player: name, Score: score}); err != nil {
		return err
	}

	scores, err := ps.db.LoadHighscores(persistence.MaxHighscores)
	if err != nil {
		return err
	}

	ps.mutex.Lock()
	ps.highscores = scores
	ps.mutex.Unlock()
	return nil
}

// Highscores returns the best scores, highest first
func (ps *PlayerService) Highscores() []models.Highscore {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()
	return append([]models.Highscore(nil), ps.highscores...)
}
