// Package tui provides the Bubble Tea front end for chain reaction: the
// setup menu, the board screen and the leaderboard.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg wakes the board screen when a computer player is due to move.
type TickMsg time.Time

// tickCmd returns a command that sends a TickMsg after delay.
func tickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
