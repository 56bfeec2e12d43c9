package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"digdug/server/messages"
	"digdug/server/models"
	"digdug/server/persistence"
)

var errGone = errors.New("gone")

// fakeClient records every message it is sent
type fakeClient struct {
	id string

	mu     sync.Mutex
	msgs   []messages.BaseMessage
	closed bool
	done   chan struct{}
}

func newFakeClient(id string) *fakeClient {
	return &fakeClient{id: id, done: make(chan struct{})}
}

func (c *fakeClient) ID() string { return c.id }

func (c *fakeClient) SendMessage(msg interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errGone
	}
	c.msgs = append(c.msgs, msg.(messages.BaseMessage))
	return nil
}

func (c *fakeClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
}

func (c *fakeClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeClient) Done() <-chan struct{} { return c.done }

func (c *fakeClient) messages() []messages.BaseMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]messages.BaseMessage(nil), c.msgs...)
}

func (c *fakeClient) count(t messages.MessageType) int {
	n := 0
	for _, m := range c.messages() {
		if m.Type == t {
			n++
		}
	}
	return n
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	msgs []interface{}
}

func (b *fakeBroadcaster) BroadcastToAll(msg interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, msg)
}

func (b *fakeBroadcaster) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.msgs)
}

// memStore keeps everything in memory
type memStore struct {
	mu         sync.Mutex
	highscores []models.Highscore
	games      []models.GameRecord
	maps       map[string][]byte
}

var _ persistence.Storage = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{maps: make(map[string][]byte)}
}

func (s *memStore) AddHighscore(score models.Highscore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highscores = append(s.highscores, score)
	return nil
}

func (s *memStore) LoadHighscores(limit int) ([]models.Highscore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.highscores) {
		limit = len(s.highscores)
	}
	return append([]models.Highscore(nil), s.highscores[:limit]...), nil
}

func (s *memStore) SaveGameRecord(record *models.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = append(s.games, *record)
	return nil
}

func (s *memStore) SaveMap(name string, gameMap *models.GameMap) error {
	data, err := json.Marshal(gameMap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maps[name] = data
	return nil
}

func (s *memStore) LoadMap(name string) (*models.GameMap, error) {
	s.mu.Lock()
	data, ok := s.maps[name]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("map %s: %w", name, persistence.ErrNotFound)
	}
	var gameMap models.GameMap
	if err := json.Unmarshal(data, &gameMap); err != nil {
		return nil, err
	}
	return &gameMap, nil
}

func (s *memStore) Close() error { return nil }

func (s *memStore) records() []models.GameRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.GameRecord(nil), s.games...)
}
