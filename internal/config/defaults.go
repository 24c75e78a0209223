package config

import (
	_ "embed"
)

//go:embed defaults/chainreaction.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Rows: 9,
			Cols: 6,
		},
		AI: AIConfig{
			Depth:      3,
			Heuristic:  "simple",
			Heuristic2: "edge-priority",
			Seed:       1,
		},
		Game: GameConfig{
			Mode:         ModeHumanAI,
			MaxPlies:     500,
			SnapshotPath: "gamestate.txt",
		},
		Tournament: TournamentConfig{
			Agents: []string{
				"minimax:2:simple",
				"minimax:2:edge-priority",
				"minimax:2:critical-mass",
				"random",
			},
			Games:   2,
			Workers: 4,
		},
		Storage: StorageConfig{
			DBPath: "~/.chainreaction/matches.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
