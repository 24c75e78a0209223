package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chain-reaction/internal/board"
	"github.com/vovakirdan/chain-reaction/internal/heuristic"
	"github.com/vovakirdan/chain-reaction/internal/search"
	"github.com/vovakirdan/chain-reaction/internal/snapshot"
)

var (
	flagPlayer      string
	flagMovesPlayed int
	flagShowStats   bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <snapshot>",
	Short: "Search a snapshot file for the best move",
	Long: `Load a snapshot written by play or match and run the minimax search
for the player to move.

The player to move follows the snapshot label: after "AI Move" Red moves,
after any other label Blue moves. Use --player to override it.

Examples:
  chainreaction suggest gamestate.txt
  chainreaction suggest gamestate.txt --depth 5 --heuristic aggressive --stats
  chainreaction suggest gamestate.txt --player red`,
	Args: cobra.ExactArgs(1),
	Run:  runSuggest,
}

func init() {
	suggestCmd.Flags().IntVar(&flagDepth, "depth", 0, "Search depth (default from config)")
	suggestCmd.Flags().StringVar(&flagHeuristic, "heuristic", "", "Heuristic name or number (default from config)")
	suggestCmd.Flags().StringVar(&flagPlayer, "player", "", "Player to move: red or blue (default from the label)")
	suggestCmd.Flags().IntVar(&flagMovesPlayed, "moves-played", -1, "Plies already played (default: orbs on the board)")
	suggestCmd.Flags().BoolVar(&flagShowStats, "stats", false, "Print search statistics")
}

// parsePlayer reads "red"/"blue" or their tags.
func parsePlayer(s string) (board.Player, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return board.Red, nil
	case "blue", "b":
		return board.Blue, nil
	}
	return board.NoPlayer, fmt.Errorf("unknown player %q: want red or blue", s)
}

func runSuggest(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	applyGameFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}

	label, b, err := snapshot.ReadFile(args[0])
	if err != nil {
		fatalf("%v", err)
	}

	player := snapshot.NextPlayer(label)
	if flagPlayer != "" {
		if player, err = parsePlayer(flagPlayer); err != nil {
			fatalf("%v", err)
		}
	}
	movesPlayed := b.TotalOrbs()
	if flagMovesPlayed >= 0 {
		movesPlayed = flagMovesPlayed
	}
	kind, err := heuristic.Parse(cfg.AI.Heuristic)
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("%s (%dx%d)\n", label, b.Rows(), b.Cols())
	fmt.Println(b)
	fmt.Println()

	if movesPlayed > 1 && b.IsGameOver() {
		winner, _ := b.Winner()
		fmt.Printf("Game over: %v wins\n", winner)
		return
	}

	var s search.Searcher
	res, err := s.BestMove(b, cfg.AI.Depth, player, movesPlayed, kind.Func())
	if err != nil {
		fatalf("%v", err)
	}

	if !res.HasMove {
		fmt.Printf("%v has no legal move\n", player)
	} else {
		fmt.Printf("Best move for %v: %v (score %.2f, depth %d, %s)\n",
			player, res.Move, res.Score, cfg.AI.Depth, kind)
	}

	if flagShowStats {
		st := s.Stats
		fmt.Printf("Nodes: %d  Leaves: %d  Prunes: %d  Time: %s\n", st.Nodes, st.Leaves, st.Prunes, st.Elapsed)
	}
}
