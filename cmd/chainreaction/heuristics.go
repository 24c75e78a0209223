package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chain-reaction/internal/agent"
	"github.com/vovakirdan/chain-reaction/internal/heuristic"
)

var heuristicsCmd = &cobra.Command{
	Use:   "heuristics",
	Short: "List heuristics and agents",
	Long:  `Shows the evaluation functions and agent kinds that can be used in specs.`,
	Run:   runHeuristics,
}

func runHeuristics(_ *cobra.Command, _ []string) {
	fmt.Println("Heuristics:")
	fmt.Println()
	fmt.Printf("  %-2s  %s\n", "#", "Name")
	fmt.Printf("  %-2s  %s\n", "-", "----")
	for _, k := range heuristic.Kinds() {
		fmt.Printf("  %-2d  %s\n", int(k), k)
	}

	agents := agent.List()
	maxIDLen := 2 // "ID" header
	for _, a := range agents {
		maxIDLen = max(maxIDLen, len(a.ID))
	}

	fmt.Println()
	fmt.Println("Agents:")
	fmt.Println()
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, a := range agents {
		fmt.Printf("  %-*s  %s\n", maxIDLen, a.ID, a.Title)
	}

	fmt.Println()
	fmt.Println("Agent specs look like 'minimax:3:edge-priority' or 'random'.")
}
