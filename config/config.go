package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"digdug/server/game"
)

const (
	DefaultPort        = 8000
	DefaultDBFile      = "db.json"
	DefaultDatabaseURL = "host=localhost user=digdug password=digdug dbname=digdug sslmode=disable"
	DefaultGradingURL  = ""
	DefaultDebugDir    = "."

	DBTypeJSON     = "json"
	DBTypePostgres = "postgres"
)

// Config holds every server setting. Values are layered: defaults, then the
// YAML file, then environment variables, then command-line flags.
type Config struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
	// Seed makes every match reproducible; 0 picks a fresh seed per match
	Seed int64 `yaml:"seed"`

	Level   int `yaml:"level"`
	Lives   int `yaml:"lives"`
	Timeout int `yaml:"timeout"`
	FPS     int `yaml:"fps"`
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`

	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`

	GradingURL string `yaml:"grading_url"`

	DBType      string `yaml:"db_type"`
	DatabaseURL string `yaml:"database_url"`
	DBFile      string `yaml:"db_file"`

	LogLevel string `yaml:"log_level"`

	// MapName loads a saved layout for the first level
	MapName  string `yaml:"map_name"`
	SaveMaps bool   `yaml:"save_maps"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Port:        DefaultPort,
		Level:       game.DefaultLevel,
		Lives:       game.DefaultLives,
		Timeout:     game.DefaultTimeout,
		FPS:         game.DefaultFPS,
		Width:       game.DefaultWidth,
		Height:      game.DefaultHeight,
		DebugDir:    DefaultDebugDir,
		GradingURL:  DefaultGradingURL,
		DBType:      DBTypeJSON,
		DatabaseURL: DefaultDatabaseURL,
		DBFile:      DefaultDBFile,
		LogLevel:    logrus.InfoLevel.String(),
	}
}

// Load reads defaults, the optional YAML file at path and the environment
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := getenv("DB_TYPE"); v != "" {
		c.DBType = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv("DB_FILE"); v != "" {
		c.DBFile = v
	}
	if v := getenv("GRADING_URL"); v != "" {
		c.GradingURL = v
	}
	return nil
}

// Validate rejects settings a match cannot run with
func (c *Config) Validate() error {
	minSide := game.VitalSpace + 10
	switch {
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("invalid port %d", c.Port)
	case c.Level < 1:
		return fmt.Errorf("level must be positive, got %d", c.Level)
	case c.Lives < 1:
		return fmt.Errorf("lives must be positive, got %d", c.Lives)
	case c.Timeout < 1:
		return fmt.Errorf("timeout must be positive, got %d", c.Timeout)
	case c.FPS < 1:
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	case c.Width < minSide || c.Height < minSide:
		return fmt.Errorf("map %dx%d is too small, need at least %dx%d", c.Width, c.Height, minSide, minSide)
	case c.DBType != DBTypeJSON && c.DBType != DBTypePostgres:
		return fmt.Errorf("unknown db type %q", c.DBType)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Addr is the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// MatchConfig extracts the simulation settings
func (c *Config) MatchConfig() game.Config {
	return game.Config{
		Level:   c.Level,
		Lives:   c.Lives,
		Timeout: c.Timeout,
		FPS:     c.FPS,
		Width:   c.Width,
		Height:  c.Height,
	}
}

// dbTypeValue restricts --db-type to the known storage backends
type dbTypeValue string

func (v *dbTypeValue) String() string { return string(*v) }

func (v *dbTypeValue) Set(value string) error {
	if value != DBTypeJSON && value != DBTypePostgres {
		return fmt.Errorf("invalid db type, want %s or %s", DBTypeJSON, DBTypePostgres)
	}
	*v = dbTypeValue(value)
	return nil
}

func (v *dbTypeValue) Type() string { return "dbType" }

// RegisterFlags defines the server flags on fs. Flag defaults mirror Default;
// only flags set explicitly override the file and environment.
func RegisterFlags(fs *pflag.FlagSet) {
	def := Default()
	dbType := dbTypeValue(def.DBType)

	fs.String("config", "", "YAML configuration file")
	fs.String("bind", def.Bind, "IP address to bind to")
	fs.Int("port", def.Port, "TCP port")
	fs.Int64("seed", def.Seed, "Seed number, 0 for a random seed per match")
	fs.Int("level", def.Level, "Starting level")
	fs.Int("lives", def.Lives, "Digger lives per match")
	fs.Int("timeout", def.Timeout, "Ticks per level before the match times out")
	fs.Int("fps", def.FPS, "Ticks per second")
	fs.Int("width", def.Width, "Map width in cells")
	fs.Int("height", def.Height, "Map height in cells")
	fs.Bool("debug", def.Debug, "Dump a map snapshot every time the digger dies")
	fs.String("debug-dir", def.DebugDir, "Directory for debug map snapshots")
	fs.String("grading-server", def.GradingURL, "URL of the grading server")
	fs.Var(&dbType, "db-type", "Storage backend: json or postgres")
	fs.String("database-url", def.DatabaseURL, "PostgreSQL connection string")
	fs.String("db-file", def.DBFile, "JSON store file")
	fs.String("log-level", def.LogLevel, "Log level")
	fs.String("map", def.MapName, "Saved map to play the first level on")
	fs.Bool("save-maps", def.SaveMaps, "Save every played first-level map")
}

// ApplyFlags copies the flags that were set explicitly on fs
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "bind":
			c.Bind = f.Value.String()
		case "port":
			c.Port, err = fs.GetInt(f.Name)
		case "seed":
			c.Seed, err = fs.GetInt64(f.Name)
		case "level":
			c.Level, err = fs.GetInt(f.Name)
		case "lives":
			c.Lives, err = fs.GetInt(f.Name)
		case "timeout":
			c.Timeout, err = fs.GetInt(f.Name)
		case "fps":
			c.FPS, err = fs.GetInt(f.Name)
		case "width":
			c.Width, err = fs.GetInt(f.Name)
		case "height":
			c.Height, err = fs.GetInt(f.Name)
		case "debug":
			c.Debug, err = fs.GetBool(f.Name)
		case "debug-dir":
			c.DebugDir = f.Value.String()
		case "grading-server":
			c.GradingURL = f.Value.String()
		case "db-type":
			c.DBType = f.Value.String()
		case "database-url":
			c.DatabaseURL = f.Value.String()
		case "db-file":
			c.DBFile = f.Value.String()
		case "log-level":
			c.LogLevel = f.Value.String()
		case "map":
			c.MapName = f.Value.String()
		case "save-maps":
			c.SaveMaps, err = fs.GetBool(f.Name)
		}
	})
	return err
}
