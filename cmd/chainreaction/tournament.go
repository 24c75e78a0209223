package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chain-reaction/internal/export"
	"github.com/vovakirdan/chain-reaction/internal/tournament"
)

var (
	flagAgents  []string
	flagGames   int
	flagWorkers int
	flagExport  string
)

var tournamentCmd = &cobra.Command{
	Use:   "tournament",
	Short: "Run a round robin between agents",
	Long: `Every ordered pair of agents plays --games games, so each agent plays
both colours. Games run in parallel. Results are stored in the match
database and can be exported as Parquet training rows (one row per ply).

Examples:
  chainreaction tournament
  chainreaction tournament --agents minimax:3:simple,minimax:3:aggressive,random
  chainreaction tournament --games 10 --workers 8 --export plies.parquet`,
	Args: cobra.NoArgs,
	Run:  runTournament,
}

func init() {
	tournamentCmd.Flags().StringSliceVar(&flagAgents, "agents", nil, "Agent specs (default from config)")
	tournamentCmd.Flags().IntVar(&flagGames, "games", 0, "Games per ordered pairing (default from config)")
	tournamentCmd.Flags().IntVar(&flagWorkers, "workers", -1, "Concurrent games (default from config)")
	tournamentCmd.Flags().StringVar(&flagExport, "export", "", "Write per-ply training rows to this Parquet file")
	tournamentCmd.Flags().IntVar(&flagRows, "rows", 0, "Board rows (overrides the config)")
	tournamentCmd.Flags().IntVar(&flagCols, "cols", 0, "Board columns (overrides the config)")
	tournamentCmd.Flags().IntVar(&flagMaxPlies, "max-plies", -1, "Draw after this many plies (0 = no limit)")
	tournamentCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store results")
}

func runTournament(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	applyGameFlags(cmd, &cfg)
	flags := cmd.Flags()
	if flags.Changed("agents") {
		cfg.Tournament.Agents = flagAgents
	}
	if flags.Changed("games") {
		cfg.Tournament.Games = flagGames
	}
	if flags.Changed("workers") {
		cfg.Tournament.Workers = flagWorkers
	}
	if flags.Changed("export") {
		cfg.Tournament.ExportPath = flagExport
	}
	if flags.Changed("max-plies") {
		cfg.Game.MaxPlies = flagMaxPlies
	}
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}
	logger := newLogger(cfg, "tournament")

	tcfg := tournament.Config{
		Agents:      cfg.Tournament.Agents,
		Defaults:    cfg.AgentSettings(),
		Games:       cfg.Tournament.Games,
		Workers:     cfg.Tournament.Workers,
		Rows:        cfg.Board.Rows,
		Cols:        cfg.Board.Cols,
		MaxPlies:    cfg.Game.MaxPlies,
		KeepRecords: cfg.Tournament.ExportPath != "",
		Logger:      logger,
	}
	if !flagNoSave {
		if store := openStore(cfg); store != nil {
			defer store.Close()
			tcfg.Saver = store
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := tournament.Run(ctx, tcfg)
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("Round robin: %d games on %dx%d in %s\n\n",
		len(report.Results), cfg.Board.Rows, cfg.Board.Cols, report.Duration.Round(time.Millisecond))
	printStandings(report.Standings)

	if cfg.Tournament.ExportPath != "" {
		rows, err := export.FromResults(report.Results)
		if err != nil {
			fatalf("%v", err)
		}
		if err := export.WriteFile(cfg.Tournament.ExportPath, rows); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("\nWrote %d plies to %s\n", len(rows), cfg.Tournament.ExportPath)
	}
}

// printStandings prints the tournament table, best first.
func printStandings(standings []tournament.Standing) {
	maxName := len("Agent")
	for _, s := range standings {
		maxName = max(maxName, len(s.Agent))
	}

	fmt.Printf("  %-4s  %-*s  %5s  %4s  %6s  %5s  %6s\n", "Rank", maxName, "Agent", "Games", "Wins", "Losses", "Draws", "Points")
	fmt.Printf("  %-4s  %-*s  %5s  %4s  %6s  %5s  %6s\n", "----", maxName, "-----", "-----", "----", "------", "-----", "------")
	for i, s := range standings {
		fmt.Printf("  %-4d  %-*s  %5d  %4d  %6d  %5d  %6.1f\n",
			i+1, maxName, s.Agent, s.Games, s.Wins, s.Losses, s.Draws, s.Points())
	}
}
