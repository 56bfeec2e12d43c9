package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"digdug/server/models"
)

// JSONStore handles data persistence using a local JSON file
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *JSONData
}

// JSONData represents the structure of the JSON database
type JSONData struct {
	Highscores []models.Highscore         `json:"highscores"`
	Games      []*models.GameRecord       `json:"games"`
	Maps       map[string]*models.GameMap `json:"maps"`
}

// NewJSONStore creates a new JSON storage manager
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data: &JSONData{
			Maps: make(map[string]*models.GameMap),
		},
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	} else {
		store.mutex.Lock()
		err := store.saveLocked()
		store.mutex.Unlock()
		if err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %w", err)
		}
	}

	log.WithField("file", filePath).Info("Using JSON persistence")
	return store, nil
}

// loadFromFile loads data from the JSON file
func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	if js.data.Maps == nil {
		js.data.Maps = make(map[string]*models.GameMap)
	}
	return nil
}

// saveLocked writes the data to the JSON file; the caller holds the lock
func (js *JSONStore) saveLocked() error {
	data, err := json.MarshalIndent(js.data, "", "  ")
	if err != nil {
		return err
	}

	tmp := js.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, js.filePath)
}

// AddHighscore inserts the score and keeps the best MaxHighscores entries
func (js *JSONStore) AddHighscore(score models.Highscore) error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	js.data.Highscores = append(js.data.Highscores, score)
	sort.SliceStable(js.data.Highscores, func(i, j int) bool {
		return js.data.Highscores[i].Score > js.data.Highscores[j].Score
	})
	if len(js.data.Highscores) > MaxHighscores {
		js.data.Highscores = js.data.Highscores[:MaxHighscores]
	}
	return js.saveLocked()
}

// LoadHighscores returns up to limit scores, highest first
func (js *JSONStore) LoadHighscores(limit int) ([]models.Highscore, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	n := len(js.data.Highscores)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]models.Highscore(nil), js.data.Highscores[:n]...), nil
}

// SaveGameRecord appends a finished game to the ledger
func (js *JSONStore) SaveGameRecord(record *models.GameRecord) error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	js.data.Games = append(js.data.Games, record)
	return js.saveLocked()
}

// SaveMap saves a map layout under name
func (js *JSONStore) SaveMap(name string, gameMap *models.GameMap) error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	js.data.Maps[name] = gameMap
	return js.saveLocked()
}

// LoadMap loads a map layout by name
func (js *JSONStore) LoadMap(name string) (*models.GameMap, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	gameMap, exists := js.data.Maps[name]
	if !exists {
		return nil, fmt.Errorf("map %s: %w", name, ErrNotFound)
	}
	return gameMap, nil
}

// Close closes the store (no-op for JSON store)
func (js *JSONStore) Close() error {
	return nil
}
