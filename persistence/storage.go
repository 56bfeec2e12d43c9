package persistence

import (
	"errors"

	"github.com/sirupsen/logrus"

	"digdug/server/models"
)

// MaxHighscores is the size of the highscore table
const MaxHighscores = 10

// ErrNotFound is returned when a named record does not exist
var ErrNotFound = errors.New("not found")

var log = logrus.WithField("logger", "persistence")

// Storage defines the interface for data persistence
type Storage interface {
	// AddHighscore records a finished game in the highscore table
	AddHighscore(score models.Highscore) error
	// LoadHighscores returns the best scores, highest first
	LoadHighscores(limit int) ([]models.Highscore, error)
	SaveGameRecord(record *models.GameRecord) error
	SaveMap(name string, gameMap *models.GameMap) error
	LoadMap(name string) (*models.GameMap, error)
	Close() error
}
