package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/chain-reaction/internal/agent"
	"github.com/vovakirdan/chain-reaction/internal/board"
	"github.com/vovakirdan/chain-reaction/internal/match"
)

// humanSpec selects a stdin player in --red/--blue.
const humanSpec = "human"

var (
	flagRed      string
	flagBlue     string
	flagVerbose  bool
	flagNoSave   bool
	flagMaxPlies int
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Play one game without the UI",
	Long: `Play a single game between two agents and print the final board.

Agents are given as specs: "minimax[:depth[:heuristic]]", "random" or
"human". A human player types moves as "row col" on stdin.

Examples:
  chainreaction match
  chainreaction match --red minimax:4:aggressive --blue random -v
  chainreaction match --red human --blue minimax:2 --rows 5 --cols 5`,
	Args: cobra.NoArgs,
	Run:  runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&flagRed, "red", "", "Red agent spec (default: minimax with ai.heuristic)")
	matchCmd.Flags().StringVar(&flagBlue, "blue", "", "Blue agent spec (default: minimax with ai.heuristic2)")
	matchCmd.Flags().IntVar(&flagRows, "rows", 0, "Board rows (overrides the config)")
	matchCmd.Flags().IntVar(&flagCols, "cols", 0, "Board columns (overrides the config)")
	matchCmd.Flags().IntVar(&flagMaxPlies, "max-plies", -1, "Draw after this many plies (0 = no limit, default from config)")
	matchCmd.Flags().StringVar(&flagSnapshot, "snapshot", "", "Snapshot file written after every move")
	matchCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print the board after every ply")
	matchCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store the result")
}

// parseMoveLine reads "row col" or "row,col".
func parseMoveLine(line string) (board.Move, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if len(fields) != 2 {
		return board.Move{}, fmt.Errorf("want \"row col\", got %q", line)
	}
	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return board.Move{}, fmt.Errorf("bad row %q", fields[0])
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return board.Move{}, fmt.Errorf("bad column %q", fields[1])
	}
	return board.Move{Row: row, Col: col}, nil
}

// readMoves feeds moves typed on r into a channel, closing it at EOF.
func readMoves(r io.Reader, prompt io.Writer) <-chan board.Move {
	moves := make(chan board.Move)
	go func() {
		defer close(moves)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			m, err := parseMoveLine(line)
			if err != nil {
				fmt.Fprintf(prompt, "%v\n", err)
				continue
			}
			moves <- m
		}
	}()
	return moves
}

// matchAgent creates the agent for spec, or the default minimax player.
func matchAgent(spec string, defaults agent.Settings, moves func() <-chan board.Move) (agent.Agent, error) {
	switch spec {
	case "":
		return agent.NewMinimax(defaults.Depth, defaults.Heuristic)
	case humanSpec:
		h := agent.NewHuman(humanSpec, moves())
		h.Reject = func(m board.Move, reason error) {
			fmt.Fprintf(os.Stderr, "%v: %v, try again\n", m, reason)
		}
		return h, nil
	default:
		return agent.New(spec, defaults)
	}
}

func runMatch(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	applyGameFlags(cmd, &cfg)
	if cmd.Flags().Changed("max-plies") {
		cfg.Game.MaxPlies = flagMaxPlies
	}
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}
	logger := newLogger(cfg, "match")

	var stdinMoves <-chan board.Move
	moves := func() <-chan board.Move {
		if stdinMoves == nil {
			stdinMoves = readMoves(os.Stdin, os.Stderr)
		}
		return stdinMoves
	}

	red, err := matchAgent(flagRed, cfg.AgentSettings(), moves)
	if err != nil {
		fatalf("red: %v", err)
	}
	blue, err := matchAgent(flagBlue, cfg.SecondAgentSettings(), moves)
	if err != nil {
		fatalf("blue: %v", err)
	}

	m, err := match.New(red, blue, match.Config{
		Rows:     cfg.Board.Rows,
		Cols:     cfg.Board.Cols,
		MaxPlies: cfg.Game.MaxPlies,
		Logger:   logger,
	})
	if err != nil {
		fatalf("%v", err)
	}

	interactive := flagRed == humanSpec || flagBlue == humanSpec
	if cmd.Flags().Changed("snapshot") {
		m.Observe(match.SnapshotWriter{Path: cfg.Game.SnapshotPath})
	}
	if flagVerbose || interactive {
		m.Observe(match.ObserverFunc(func(rec match.Record) error {
			if rec.Passed {
				fmt.Printf("Ply %d: %v (%s) passes\n", rec.Ply, rec.Player, rec.Agent)
			} else {
				fmt.Printf("Ply %d: %v (%s) plays %v\n", rec.Ply, rec.Player, rec.Agent, rec.Move)
			}
			fmt.Println(rec.After)
			return nil
		}))
	}
	if interactive && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Enter moves as \"row col\".")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := m.Run(ctx)
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Println("Final board:")
	fmt.Println(res.Final)
	printResult(res)

	if !flagNoSave {
		if store := openStore(cfg); store != nil {
			defer store.Close()
			if err := store.SaveMatchResult(res); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not save result: %v\n", err)
			}
		}
	}
}

// printResult prints the outcome line of a finished match.
func printResult(res match.Result) {
	switch {
	case res.Winner != board.NoPlayer:
		fmt.Printf("%v (%s) wins after %d plies in %s\n",
			res.Winner, res.WinnerName(), res.Plies, res.Duration.Round(time.Millisecond))
	default:
		fmt.Printf("Draw (%s) after %d plies in %s\n", res.Reason, res.Plies, res.Duration.Round(time.Millisecond))
	}
	fmt.Printf("Match ID: %s\n", res.ID)
}
