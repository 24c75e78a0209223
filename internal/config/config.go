// Package config provides YAML-based configuration loading and difficulty
// presets for the chain reaction tools.
package config

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chain-reaction/internal/agent"
	"github.com/vovakirdan/chain-reaction/internal/heuristic"
)

// Game modes offered by the play command.
const (
	ModeHumanAI  = "human-ai"
	ModeAIAI     = "ai-ai"
	ModeRandomAI = "random-ai"
)

// Limits checked by Validate.
const (
	MaxBoardSize = 20
	MaxDepth     = 8
)

// Config contains all configuration sections.
type Config struct {
	Board      BoardConfig      `yaml:"board"`
	AI         AIConfig         `yaml:"ai"`
	Game       GameConfig       `yaml:"game"`
	Tournament TournamentConfig `yaml:"tournament"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// BoardConfig defines the grid size.
type BoardConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// AIConfig defines how computer players search.
type AIConfig struct {
	Depth      int              `yaml:"depth"`
	Heuristic  string           `yaml:"heuristic"`  // first AI (Blue in human-ai)
	Heuristic2 string           `yaml:"heuristic2"` // second AI in ai-ai mode
	Difficulty DifficultyPreset `yaml:"difficulty"` // overrides depth unless empty or "fixed"
	Seed       uint64           `yaml:"seed"`
}

// GameConfig defines interactive and headless game settings.
type GameConfig struct {
	Mode         string `yaml:"mode"`
	MaxPlies     int    `yaml:"max_plies"` // 0 = unlimited
	SnapshotPath string `yaml:"snapshot_path"`
}

// TournamentConfig defines round-robin settings.
type TournamentConfig struct {
	Agents     []string `yaml:"agents"`
	Games      int      `yaml:"games"`   // per ordered pairing
	Workers    int      `yaml:"workers"` // concurrent games
	ExportPath string   `yaml:"export_path"`
}

// StorageConfig defines where match results are kept.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Validate checks every section for out-of-range values.
func (c Config) Validate() error {
	if c.Board.Rows < 2 || c.Board.Rows > MaxBoardSize || c.Board.Cols < 2 || c.Board.Cols > MaxBoardSize {
		return fmt.Errorf("config: board %dx%d: rows and cols must be between 2 and %d",
			c.Board.Rows, c.Board.Cols, MaxBoardSize)
	}
	if c.AI.Depth < 1 || c.AI.Depth > MaxDepth {
		return fmt.Errorf("config: ai.depth %d: must be between 1 and %d", c.AI.Depth, MaxDepth)
	}
	if _, err := heuristic.Parse(c.AI.Heuristic); err != nil {
		return fmt.Errorf("config: ai.heuristic: %w", err)
	}
	if c.AI.Heuristic2 != "" {
		if _, err := heuristic.Parse(c.AI.Heuristic2); err != nil {
			return fmt.Errorf("config: ai.heuristic2: %w", err)
		}
	}
	if !ValidPreset(c.AI.Difficulty) {
		return fmt.Errorf("config: ai.difficulty %q: unknown preset", c.AI.Difficulty)
	}

	switch c.Game.Mode {
	case ModeHumanAI, ModeAIAI, ModeRandomAI:
	default:
		return fmt.Errorf("config: game.mode %q: want %s, %s or %s", c.Game.Mode, ModeHumanAI, ModeAIAI, ModeRandomAI)
	}
	if c.Game.MaxPlies < 0 {
		return fmt.Errorf("config: game.max_plies %d: must not be negative", c.Game.MaxPlies)
	}

	if c.Tournament.Games < 1 {
		return fmt.Errorf("config: tournament.games %d: must be at least 1", c.Tournament.Games)
	}
	if c.Tournament.Workers < 0 {
		return fmt.Errorf("config: tournament.workers %d: must not be negative", c.Tournament.Workers)
	}
	for _, s := range c.Tournament.Agents {
		if _, err := agent.ParseSpec(s, c.AgentSettings()); err != nil {
			return fmt.Errorf("config: tournament.agents: %w", err)
		}
	}

	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("config: log.level: %w", err)
		}
	}
	return nil
}

// AgentSettings returns registry settings for the first AI.
// Call Validate first; an unparsable heuristic falls back to simple.
func (c Config) AgentSettings() agent.Settings {
	k, err := heuristic.Parse(c.AI.Heuristic)
	if err != nil {
		k = heuristic.Simple
	}
	return agent.Settings{
		Depth:     c.AI.Depth,
		Heuristic: k,
		Seed:      c.AI.Seed,
	}
}

// SecondAgentSettings is AgentSettings with heuristic2 when it is set.
func (c Config) SecondAgentSettings() agent.Settings {
	s := c.AgentSettings()
	if c.AI.Heuristic2 != "" {
		if k, err := heuristic.Parse(c.AI.Heuristic2); err == nil {
			s.Heuristic = k
		}
	}
	s.Seed++
	return s
}
