// chainreaction plays and studies the chain reaction board game in the
// terminal.
//
// Usage:
//
//	chainreaction play                 - Play in the terminal UI
//	chainreaction match                - Play one headless game
//	chainreaction tournament           - Run a round robin between agents
//	chainreaction stats                - Show the stored leaderboard
//	chainreaction suggest <snapshot>   - Search a snapshot for the best move
//	chainreaction heuristics           - List heuristics and agents
//	chainreaction config init|path|show
//
// Global flags:
//
//	--config <path>     - Config file (default: XDG config, then ./configs)
//	--db <path>         - Match database (default from config)
//	--log-level <level> - debug, info, warn or error
//	--seed <value>      - Seed for random agents
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/chain-reaction/internal/config"
	"github.com/vovakirdan/chain-reaction/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagSeed     uint64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chainreaction",
	Short: "Chain Reaction - play and analyse the orb explosion game",
	Long: `Chain Reaction is a two-player strategy game on a grid. Players drop
orbs into cells; a cell that reaches its critical mass explodes into its
neighbours and captures them. A player with no orbs left loses.

Available commands:
  play        - Play in the terminal UI (human vs AI, AI vs AI, random vs AI)
  match       - Play one game without the UI and print the result
  tournament  - Round robin between agent specs, optionally exported to Parquet
  stats       - Leaderboard of stored matches
  suggest     - Best move for a saved snapshot
  heuristics  - List evaluators and agents
  config      - Create or inspect the config file

Examples:
  chainreaction play
  chainreaction play --mode ai-ai --difficulty hard
  chainreaction match --red minimax:4:aggressive --blue random
  chainreaction tournament --games 4 --export plies.parquet
  chainreaction suggest gamestate.txt --depth 5`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to match database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Seed for random agents (0 = from config)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(tournamentCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(heuristicsCmd)
	rootCmd.AddCommand(configCmd)
}

// fatalf prints an error and exits.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the configuration and applies the global flags.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatalf("%v", err)
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagSeed != 0 {
		cfg.AI.Seed = flagSeed
	}
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}
	return cfg
}

// newLogger builds the stderr logger for a command.
func newLogger(cfg config.Config, prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if cfg.Log.Level != "" {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			logger.SetLevel(level)
		}
	}
	return logger
}

// openStore opens the match database, or returns nil with a warning.
func openStore(cfg config.Config) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open match database: %v\n", err)
		return nil
	}
	return store
}
