package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/chain-reaction/internal/agent"
	"github.com/vovakirdan/chain-reaction/internal/config"
	"github.com/vovakirdan/chain-reaction/internal/platform/tui"
)

var (
	flagMode       string
	flagDifficulty string
	flagDepth      int
	flagHeuristic  string
	flagHeuristic2 string
	flagRows       int
	flagCols       int
	flagSnapshot   string
	flagDelay      time.Duration
	flagLogFile    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play chain reaction in the terminal",
	Long: `Start the terminal UI. Without --mode a setup menu lets you pick the
mode, difficulty and heuristics; after a game you return to the menu.

Modes:
  human-ai   - You play Red and move first against the AI
  ai-ai      - Two AIs play each other (heuristic vs heuristic2)
  random-ai  - A random mover plays Red against the AI

Controls:
  Arrows/hjkl  - Move the cursor
  Enter/Space  - Place an orb
  R            - Play again (after game over)
  B/Esc        - Back to the menu
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Search depth 1
  normal - Search depth 3
  hard   - Search depth 5
  fixed  - Keep the configured depth

Examples:
  chainreaction play
  chainreaction play --mode human-ai --difficulty hard
  chainreaction play --mode ai-ai --heuristic aggressive --heuristic2 edge-priority
  chainreaction play --rows 5 --cols 5 --snapshot ./state.txt`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Game mode: human-ai, ai-ai, random-ai (skips the menu)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().IntVar(&flagDepth, "depth", 0, "AI search depth (overrides the config)")
	playCmd.Flags().StringVar(&flagHeuristic, "heuristic", "", "AI heuristic name or number")
	playCmd.Flags().StringVar(&flagHeuristic2, "heuristic2", "", "Second AI heuristic in ai-ai mode")
	playCmd.Flags().IntVar(&flagRows, "rows", 0, "Board rows (overrides the config)")
	playCmd.Flags().IntVar(&flagCols, "cols", 0, "Board columns (overrides the config)")
	playCmd.Flags().StringVar(&flagSnapshot, "snapshot", "", "Snapshot file written after every move")
	playCmd.Flags().DurationVar(&flagDelay, "delay", 300*time.Millisecond, "Pause before each AI move")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file while the UI runs")
}

// applyGameFlags copies the game flags the user set into cfg.
func applyGameFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Game.Mode = flagMode
	}
	if flags.Changed("depth") {
		cfg.AI.Depth = flagDepth
		cfg.AI.Difficulty = config.DifficultyFixed
	}
	if flags.Changed("difficulty") {
		config.ApplyPreset(cfg, config.DifficultyPreset(flagDifficulty))
	}
	if flags.Changed("heuristic") {
		cfg.AI.Heuristic = flagHeuristic
	}
	if flags.Changed("heuristic2") {
		cfg.AI.Heuristic2 = flagHeuristic2
	}
	if flags.Changed("rows") {
		cfg.Board.Rows = flagRows
	}
	if flags.Changed("cols") {
		cfg.Board.Cols = flagCols
	}
	if flags.Changed("snapshot") {
		cfg.Game.SnapshotPath = flagSnapshot
	}
}

// sidesForMode builds the Red and Blue players for cfg.Game.Mode.
func sidesForMode(cfg config.Config) (red, blue tui.Side, err error) {
	first, err := agent.NewMinimax(cfg.AI.Depth, cfg.AgentSettings().Heuristic)
	if err != nil {
		return tui.Side{}, tui.Side{}, err
	}

	switch cfg.Game.Mode {
	case config.ModeHumanAI:
		return tui.Side{}, tui.Side{Agent: first}, nil
	case config.ModeAIAI:
		second, err := agent.NewMinimax(cfg.AI.Depth, cfg.SecondAgentSettings().Heuristic)
		if err != nil {
			return tui.Side{}, tui.Side{}, err
		}
		return tui.Side{Agent: first}, tui.Side{Agent: second}, nil
	case config.ModeRandomAI:
		return tui.Side{Agent: agent.NewRandom(cfg.AI.Seed)}, tui.Side{Agent: first}, nil
	default:
		return tui.Side{}, tui.Side{}, fmt.Errorf("unknown mode %q", cfg.Game.Mode)
	}
}

// uiLogger returns a logger that does not draw over the UI.
func uiLogger(cfg config.Config) (*log.Logger, io.Closer) {
	if flagLogFile == "" {
		return log.New(io.Discard), io.NopCloser(nil)
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fatalf("cannot open log file: %v", err)
	}
	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "play"})
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger, f
}

func runPlay(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	applyGameFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fatalf("play needs a terminal; use 'chainreaction match' for headless games")
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}
	logger, closer := uiLogger(cfg)
	defer closer.Close()

	useMenu := !cmd.Flags().Changed("mode")

	for {
		if useMenu {
			menuResult, err := tui.RunMenu(cfg, width, height)
			if err != nil {
				fatalf("%v", err)
			}
			width, height = menuResult.Width, menuResult.Height

			if menuResult.Quit {
				return
			}
			if menuResult.WantsLeaderboard {
				goBack, err := tui.RunLeaderboard(store, width, height)
				if err != nil {
					fatalf("%v", err)
				}
				if goBack {
					continue // Back to menu
				}
				return
			}

			menuResult.Selection.Apply(&cfg)
			if err := cfg.Validate(); err != nil {
				fatalf("%v", err)
			}
		}

		red, blue, err := sidesForMode(cfg)
		if err != nil {
			fatalf("%v", err)
		}
		opts := tui.Options{
			Rows:         cfg.Board.Rows,
			Cols:         cfg.Board.Cols,
			Red:          red,
			Blue:         blue,
			MaxPlies:     cfg.Game.MaxPlies,
			SnapshotPath: cfg.Game.SnapshotPath,
			Delay:        flagDelay,
			Logger:       logger,
		}
		if store != nil {
			opts.Saver = store
		}

		result, err := tui.RunPlay(opts)
		if err != nil {
			fatalf("%v", err)
		}
		if !useMenu || !result.GoBack {
			return
		}
	}
}
