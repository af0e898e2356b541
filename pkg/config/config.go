// Package config loads the tournament configuration: defaults, then an optional
// YAML or JSON file, then SZEMEREDI_* environment variables, then validation.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/IlikeChooros/go-szemeredi/pkg/game"
	"github.com/IlikeChooros/go-szemeredi/pkg/mcts"
)

var ErrInvalid = errors.New("invalid config")

const (
	DefaultMovesDir = "saved_runs_moves"
	DefaultStatsDir = "saved_games"
)

var validate = validator.New()

type Tournament struct {
	game.Settings `yaml:",inline"`

	// Games per ordered pair of strategies
	NumGames  int  `json:"num_games" yaml:"num_games" validate:"gte=1"`
	SaveMoves bool `json:"save_moves" yaml:"save_moves"`

	// Strategies taking part, every registered one when empty
	Strategies []string `json:"strategies,omitempty" yaml:"strategies,omitempty" validate:"omitempty,unique,dive,required"`
	// Games played concurrently
	Workers int `json:"workers" yaml:"workers" validate:"gte=1,lte=1024"`
	// MCTS cycles per decision
	Iterations uint32 `json:"iterations" yaml:"iterations" validate:"gte=1"`
	// Seed of the whole tournament, 0 picks one from the clock
	Seed int64 `json:"seed" yaml:"seed"`

	MovesDir string `json:"moves_dir" yaml:"moves_dir" validate:"required"`
	StatsDir string `json:"stats_dir" yaml:"stats_dir" validate:"required"`
	// Prometheus text file with the run's metrics, skipped when empty
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`
}

func Default() Tournament {
	return Tournament{
		Settings:   game.Settings{K: 4, X: 30, Lower: 1, Bound: 100},
		NumGames:   10,
		SaveMoves:  false,
		Workers:    1,
		Iterations: mcts.DefaultIterations,
		MovesDir:   DefaultMovesDir,
		StatsDir:   DefaultStatsDir,
	}
}

func (t Tournament) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := t.Settings.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Load configuration with priority: env > file > defaults.
// An empty path skips the file.
func Load(path string) (Tournament, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loadEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Tournament) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadEnv(cfg *Tournament) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"SZEMEREDI_K", &cfg.K},
		{"SZEMEREDI_X", &cfg.X},
		{"SZEMEREDI_LOWER", &cfg.Lower},
		{"SZEMEREDI_BOUND", &cfg.Bound},
		{"SZEMEREDI_NUM_GAMES", &cfg.NumGames},
		{"SZEMEREDI_WORKERS", &cfg.Workers},
	}
	for _, e := range ints {
		if v := os.Getenv(e.name); v != "" {
			i, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, e.name, v, err)
			}
			*e.dst = i
		}
	}

	if v := os.Getenv("SZEMEREDI_ITERATIONS"); v != "" {
		i, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: SZEMEREDI_ITERATIONS=%q: %v", ErrInvalid, v, err)
		}
		cfg.Iterations = uint32(i)
	}
	if v := os.Getenv("SZEMEREDI_SEED"); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: SZEMEREDI_SEED=%q: %v", ErrInvalid, v, err)
		}
		cfg.Seed = i
	}
	if v := os.Getenv("SZEMEREDI_SAVE_MOVES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: SZEMEREDI_SAVE_MOVES=%q: %v", ErrInvalid, v, err)
		}
		cfg.SaveMoves = b
	}
	return nil
}
