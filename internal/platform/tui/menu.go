package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chain-reaction/internal/config"
	"github.com/vovakirdan/chain-reaction/internal/heuristic"
)

// Menu rows, top to bottom.
const (
	menuMode = iota
	menuDifficulty
	menuHeuristic
	menuHeuristic2
	menuStart
)

// menuOption is one row of the setup menu with its cycle of values.
type menuOption struct {
	label  string
	values []string
	index  int
}

func (o menuOption) value() string {
	return o.values[o.index]
}

// newOption builds an option with current preselected, falling back to the
// first value when current is not offered.
func newOption(label string, values []string, current string) menuOption {
	idx := max(slices.Index(values, current), 0)
	return menuOption{label: label, values: values, index: idx}
}

// Selection is what the player chose in the setup menu.
type Selection struct {
	Mode       string
	Difficulty config.DifficultyPreset
	Heuristic  string
	Heuristic2 string
}

// Apply copies the selection into cfg.
func (s Selection) Apply(cfg *config.Config) {
	cfg.Game.Mode = s.Mode
	cfg.AI.Heuristic = s.Heuristic
	cfg.AI.Heuristic2 = s.Heuristic2
	config.ApplyPreset(cfg, s.Difficulty)
}

// MenuModel is the Bubble Tea model for the game setup menu.
type MenuModel struct {
	options         []menuOption
	cursor          int
	width           int
	height          int
	keyMapper       *KeyMapper
	quitting        bool
	selected        bool
	openLeaderboard bool
}

// NewMenuModel creates a menu preset from cfg.
func NewMenuModel(cfg config.Config, width, height int) MenuModel {
	kinds := heuristic.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	presets := config.Presets()
	levels := make([]string, len(presets))
	for i, p := range presets {
		levels[i] = string(p)
	}
	difficulty := string(cfg.AI.Difficulty)
	if difficulty == "" {
		difficulty = string(config.DifficultyFixed)
	}
	heuristic2 := cfg.AI.Heuristic2
	if heuristic2 == "" {
		heuristic2 = cfg.AI.Heuristic
	}

	return MenuModel{
		options: []menuOption{
			menuMode:       newOption("Mode", []string{config.ModeHumanAI, config.ModeAIAI, config.ModeRandomAI}, cfg.Game.Mode),
			menuDifficulty: newOption("Difficulty", levels, difficulty),
			menuHeuristic:  newOption("Heuristic", names, canonicalHeuristic(cfg.AI.Heuristic)),
			menuHeuristic2: newOption("Heuristic 2", names, canonicalHeuristic(heuristic2)),
		},
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// canonicalHeuristic maps aliases such as "3" to the heuristic's name.
func canonicalHeuristic(s string) string {
	k, err := heuristic.Parse(s)
	if err != nil {
		return s
	}
	return k.String()
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < menuStart {
			m.cursor++
		}

	case MenuActionPrev:
		m.cycle(-1)

	case MenuActionNext:
		m.cycle(1)

	case MenuActionSelect:
		if m.cursor == menuStart {
			m.selected = true
			return m, tea.Quit
		}
		m.cycle(1)

	case MenuActionLeaderboard:
		m.openLeaderboard = true
		return m, tea.Quit
	}

	return m, nil
}

// cycle steps the value of the option under the cursor.
func (m *MenuModel) cycle(step int) {
	if m.cursor >= len(m.options) {
		return
	}
	o := &m.options[m.cursor]
	n := len(o.values)
	o.index = ((o.index+step)%n + n) % n
}

// Selection returns the values currently shown.
func (m MenuModel) Selection() Selection {
	return Selection{
		Mode:       m.options[menuMode].value(),
		Difficulty: config.DifficultyPreset(m.options[menuDifficulty].value()),
		Heuristic:  m.options[menuHeuristic].value(),
		Heuristic2: m.options[menuHeuristic2].value(),
	}
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("C H A I N   R E A C T I O N"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Set up a game", m.width))
	b.WriteString("\n\n")

	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	var rows []string
	for i, o := range m.options {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = active
		}
		if i == menuHeuristic2 && m.options[menuMode].value() != config.ModeAIAI {
			style = helpStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-12s < %-14s >", cursor, o.label, o.value())))
	}
	start := "  Start"
	if m.cursor == menuStart {
		start = active.Render("> Start")
	}
	rows = append(rows, "", start)
	b.WriteString(centerBlock(strings.Join(rows, "\n"), m.width))
	b.WriteString("\n\n")

	controls := "Up/Down: Navigate  |  Left/Right: Change  |  Enter: Start  |  Tab: Leaderboard  |  Q: Quit"
	b.WriteString(centerText(helpStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsLeaderboard returns true if user requested the leaderboard.
func (m MenuModel) WantsLeaderboard() bool {
	return m.openLeaderboard
}

// Selected returns true once the user chose Start.
func (m MenuModel) Selected() bool {
	return m.selected
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Selection        Selection
	Width            int
	Height           int
	WantsLeaderboard bool
	Quit             bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(cfg config.Config, width, height int) (MenuResult, error) {
	model := NewMenuModel(cfg, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Width: width, Height: height}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Width: width, Height: height, Quit: true}, nil
	}

	result := MenuResult{
		Selection: m.Selection(),
		Width:     m.width,
		Height:    m.height,
	}

	switch {
	case m.WantsLeaderboard():
		result.WantsLeaderboard = true
	case m.IsQuitting(), !m.Selected():
		result.Quit = true
	}

	return result, nil
}
