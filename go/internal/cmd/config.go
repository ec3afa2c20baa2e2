package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mcdev12/mafia/go/internal/game/orchestrator"
	"github.com/mcdev12/mafia/go/internal/models"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port              string        `env:"PORT"                 envDefault:"8080"`
	LogLevel          string        `env:"LOG_LEVEL"            envDefault:"info"`
	StoreDriver       string        `env:"STORE_DRIVER"         envDefault:"postgres"`
	StoreTimeout      time.Duration `env:"STORE_TIMEOUT"        envDefault:"5s"`
	Workers           int           `env:"ORCHESTRATOR_WORKERS" envDefault:"10"`
	NATSURL           string        `env:"NATS_URL"`
	NATSStream        string        `env:"NATS_STREAM"          envDefault:"GAME_EVENTS"`
	NATSSubjectPrefix string        `env:"NATS_SUBJECT_PREFIX"  envDefault:"game.events"`
	GameConfigPath    string        `env:"GAME_CONFIG_PATH"     envDefault:"config/game.yaml"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	switch cfg.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}

// GameConfig is the game tuning file.
type GameConfig struct {
	Game struct {
		Durations models.PhaseDurations `yaml:"durations"`
		Retry     struct {
			MaxAttempts *int          `yaml:"max_attempts"`
			Delay       time.Duration `yaml:"delay"`
		} `yaml:"retry"`
	} `yaml:"game"`
}

// loadGameConfig reads the tuning file at path. A missing file yields the built-in
// defaults; zero values in the file keep their defaults.
func loadGameConfig(path string) (orchestrator.Config, error) {
	cfg := orchestrator.DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("game config not found, using defaults")
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read game config: %w", err)
	}

	var file GameConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse game config: %w", err)
	}

	cfg.Durations = cfg.Durations.Overlay(file.Game.Durations)
	if file.Game.Retry.MaxAttempts != nil {
		cfg.RetryMaxAttempts = *file.Game.Retry.MaxAttempts
	}
	if file.Game.Retry.Delay > 0 {
		cfg.RetryDelay = file.Game.Retry.Delay
	}
	return cfg, nil
}
