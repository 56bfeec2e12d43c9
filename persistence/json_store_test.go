package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digdug/server/models"
)

func newStore(t *testing.T) (*JSONStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	store, err := NewJSONStore(path)
	require.NoError(t, err)
	return store, path
}

func TestHighscoresAreTrimmedAndSorted(t *testing.T) {
	store, path := newStore(t)

	for i := 0; i < MaxHighscores+5; i++ {
		require.NoError(t, store.AddHighscore(models.Highscore{Player: fmt.Sprintf("p%d", i), Score: i * 100}))
	}
	require.NoError(t, store.AddHighscore(models.Highscore{Player: "late", Score: 1400}))

	scores, err := store.LoadHighscores(0)
	require.NoError(t, err)
	require.Len(t, scores, MaxHighscores)
	assert.Equal(t, models.Highscore{Player: "p14", Score: 1400}, scores[0])
	assert.Equal(t, models.Highscore{Player: "late", Score: 1400}, scores[1], "ties keep arrival order")
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1].Score, scores[i].Score)
	}

	top, err := store.LoadHighscores(3)
	require.NoError(t, err)
	assert.Len(t, top, 3)

	// highscores persist as [name, score] pairs
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var file struct {
		Highscores [][]interface{} `json:"highscores"`
	}
	require.NoError(t, json.Unmarshal(raw, &file))
	assert.Equal(t, []interface{}{"p14", 1400.0}, file.Highscores[0])
}

func TestStoreReopens(t *testing.T) {
	store, path := newStore(t)

	gameMap := &models.GameMap{
		Width:       2,
		Height:      2,
		Level:       3,
		Tiles:       [][]models.Tile{{models.TilePassage, models.TileStone}, {models.TileStone, models.TileStone}},
		EnemySpawns: []models.Position{models.Pos(1, 1)},
		Rocks:       []models.Position{models.Pos(0, 1)},
	}
	require.NoError(t, store.SaveMap("tiny", gameMap))
	require.NoError(t, store.AddHighscore(models.Highscore{Player: "ana", Score: 3300}))
	require.NoError(t, store.SaveGameRecord(&models.GameRecord{
		Player:    "ana",
		Level:     1,
		Score:     3300,
		Seed:      7,
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}))
	require.NoError(t, store.Close())

	reopened, err := NewJSONStore(path)
	require.NoError(t, err)

	loaded, err := reopened.LoadMap("tiny")
	require.NoError(t, err)
	assert.Equal(t, gameMap, loaded)

	scores, err := reopened.LoadHighscores(10)
	require.NoError(t, err)
	assert.Equal(t, []models.Highscore{{Player: "ana", Score: 3300}}, scores)
	require.Len(t, reopened.data.Games, 1)
	assert.Equal(t, int64(7), reopened.data.Games[0].Seed)
}

func TestLoadMissingMap(t *testing.T) {
	store, _ := newStore(t)
	_, err := store.LoadMap("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := NewJSONStore(path)
	assert.Error(t, err)
}
