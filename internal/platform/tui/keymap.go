package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a board screen command derived from a key press.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionPlace
	ActionRestart
	ActionBack
	ActionQuit
)

// KeyMapper translates Bubble Tea key messages to actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a board action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action Action, isQuit bool) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return ActionQuit, true
	}

	switch key {
	case "w", "up", "k":
		return ActionUp, false
	case "s", "down", "j":
		return ActionDown, false
	case "a", "left", "h":
		return ActionLeft, false
	case "d", "right", "l":
		return ActionRight, false
	case "enter", " ":
		return ActionPlace, false
	case "r":
		return ActionRestart, false
	case "b", "esc":
		return ActionBack, false
	}

	return ActionNone, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionPrev
	MenuActionNext
	MenuActionSelect
	MenuActionLeaderboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q", "esc":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionPrev
	case "d", "right", "l":
		return MenuActionNext
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionLeaderboard
	}

	return MenuActionNone
}
