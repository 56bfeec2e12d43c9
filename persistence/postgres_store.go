package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"digdug/server/models"
)

// PostgresStore handles database operations using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage manager
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Info("Using PostgreSQL persistence")
	return store, nil
}

// initSchema initializes the database schema
func (dm *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS highscores (
		id SERIAL PRIMARY KEY,
		player TEXT NOT NULL,
		score INTEGER NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS highscores_score_idx ON highscores (score DESC);

	CREATE TABLE IF NOT EXISTS games (
		id SERIAL PRIMARY KEY,
		player TEXT NOT NULL,
		level INTEGER NOT NULL,
		score INTEGER NOT NULL,
		seed BIGINT NOT NULL,
		played_at TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE TABLE IF NOT EXISTS maps (
		id SERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		level INTEGER NOT NULL,
		tiles JSONB NOT NULL,
		enemy_spawns JSONB NOT NULL,
		rocks JSONB NOT NULL,
		digged JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := dm.db.Exec(schema)
	return err
}

// AddHighscore inserts a score. Only the best rows are ever read back, so the
// table is not trimmed.
func (dm *PostgresStore) AddHighscore(score models.Highscore) error {
	_, err := dm.db.Exec(`INSERT INTO highscores (player, score) VALUES ($1, $2)`, score.Player, score.Score)
	if err != nil {
		return fmt.Errorf("failed to save highscore: %w", err)
	}
	return nil
}

// LoadHighscores returns up to limit scores, highest first, oldest first on ties
func (dm *PostgresStore) LoadHighscores(limit int) ([]models.Highscore, error) {
	if limit <= 0 {
		limit = MaxHighscores
	}

	rows, err := dm.db.Query(`SELECT player, score FROM highscores ORDER BY score DESC, id ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load highscores: %w", err)
	}
	defer rows.Close()

	var scores []models.Highscore
	for rows.Next() {
		var h models.Highscore
		if err := rows.Scan(&h.Player, &h.Score); err != nil {
			return nil, fmt.Errorf("failed to scan highscore: %w", err)
		}
		scores = append(scores, h)
	}
	return scores, rows.Err()
}

// SaveGameRecord appends a finished game to the ledger
func (dm *PostgresStore) SaveGameRecord(record *models.GameRecord) error {
	query := `INSERT INTO games (player, level, score, seed, played_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := dm.db.Exec(query, record.Player, record.Level, record.Score, record.Seed, record.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to save game record: %w", err)
	}
	return nil
}

// SaveMap saves a map layout under name
func (dm *PostgresStore) SaveMap(name string, gameMap *models.GameMap) error {
	columns := make([]interface{}, 0, 4)
	for _, v := range []interface{}{gameMap.Tiles, gameMap.EnemySpawns, gameMap.Rocks, gameMap.Digged} {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal map %s: %w", name, err)
		}
		columns = append(columns, string(data))
	}

	query := `
	INSERT INTO maps (name, width, height, level, tiles, enemy_spawns, rocks, digged)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (name)
	DO UPDATE SET
		width = $2, height = $3, level = $4,
		tiles = $5, enemy_spawns = $6, rocks = $7, digged = $8,
		updated_at = NOW()
	`

	args := append([]interface{}{name, gameMap.Width, gameMap.Height, gameMap.Level}, columns...)
	if _, err := dm.db.Exec(query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			log.WithField("code", pqErr.Code.Name()).Errorf("Saving map %s failed", name)
		}
		return fmt.Errorf("failed to save map: %w", err)
	}
	return nil
}

// LoadMap loads a map layout by name
func (dm *PostgresStore) LoadMap(name string) (*models.GameMap, error) {
	query := `SELECT width, height, level, tiles, enemy_spawns, rocks, digged FROM maps WHERE name = $1`

	var gameMap models.GameMap
	var tiles, spawns, rocks, digged string

	err := dm.db.QueryRow(query, name).Scan(
		&gameMap.Width, &gameMap.Height, &gameMap.Level,
		&tiles, &spawns, &rocks, &digged,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("map %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load map: %w", err)
	}

	for _, col := range []struct {
		raw string
		dst interface{}
	}{
		{tiles, &gameMap.Tiles},
		{spawns, &gameMap.EnemySpawns},
		{rocks, &gameMap.Rocks},
		{digged, &gameMap.Digged},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dst); err != nil {
			return nil, fmt.Errorf("failed to unmarshal map %s: %w", name, err)
		}
	}

	return &gameMap, nil
}

// Close closes the database connection
func (dm *PostgresStore) Close() error {
	log.Info("Closing database connection...")
	return dm.db.Close()
}
