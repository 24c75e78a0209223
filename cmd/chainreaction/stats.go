package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/chain-reaction/internal/platform/tui"
	"github.com/vovakirdan/chain-reaction/internal/storage"
)

var (
	flagStatsTUI bool
	flagRecent   int
	flagClear    bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the leaderboard of stored matches",
	Long: `Show wins, losses and draws per agent across every stored match.

Examples:
  chainreaction stats
  chainreaction stats --recent 20
  chainreaction stats --tui
  chainreaction stats --clear`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagStatsTUI, "tui", false, "Browse the leaderboard in the terminal UI")
	statsCmd.Flags().IntVar(&flagRecent, "recent", 0, "Also list this many recent matches")
	statsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all stored matches")
}

func runStats(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fatalf("opening match database: %v", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearMatches(); err != nil {
			fatalf("%v", err)
		}
		fmt.Println("All matches deleted.")
		return
	}

	if flagStatsTUI {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
			height = h
		}
		if _, err := tui.RunLeaderboard(store, width, height); err != nil {
			fatalf("%v", err)
		}
		return
	}

	total, err := store.CountMatches()
	if err != nil {
		fatalf("%v", err)
	}
	standings, err := store.Leaderboard()
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("Leaderboard - %d matches\n", total)
	fmt.Println()

	if len(standings) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Run 'chainreaction play' or 'chainreaction tournament' to record some!")
		return
	}

	maxName := len("Agent")
	for _, s := range standings {
		maxName = max(maxName, len(s.Agent))
	}
	fmt.Printf("  %-4s  %-*s  %5s  %4s  %6s  %5s\n", "Rank", maxName, "Agent", "Games", "Wins", "Losses", "Draws")
	fmt.Printf("  %-4s  %-*s  %5s  %4s  %6s  %5s\n", "----", maxName, "-----", "-----", "----", "------", "-----")
	for i, s := range standings {
		fmt.Printf("  %-4d  %-*s  %5d  %4d  %6d  %5d\n", i+1, maxName, s.Agent, s.Games, s.Wins, s.Losses, s.Draws)
	}

	if flagRecent <= 0 {
		return
	}
	recent, err := store.RecentMatches(flagRecent)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Println()
	fmt.Println("Recent matches:")
	for _, r := range recent {
		winner := r.WinnerName()
		if winner == "" {
			winner = "draw (" + r.Reason + ")"
		}
		fmt.Printf("  %s  %s vs %s  %dx%d  %d plies  winner: %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Red, r.Blue, r.Rows, r.Cols, r.Plies, winner)
	}
}
