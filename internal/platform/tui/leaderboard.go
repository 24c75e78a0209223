package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chain-reaction/internal/storage"
)

// Leaderboard layout constants
const (
	maxRecent = 100 // Max recent matches to load
)

// Leaderboard views, cycled with tab.
const (
	viewStandings = iota
	viewRecent
	viewCount
)

var viewTitles = [viewCount]string{"Standings", "Recent matches"}

// LeaderboardKeyMap defines the key bindings for the leaderboard.
type LeaderboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextView key.Binding
	PrevView key.Binding
	Reload   key.Binding
	Back     key.Binding
	Quit     key.Binding
	Help     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LeaderboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.Back, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k LeaderboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView},
		{k.Reload, k.Back, k.Quit, k.Help},
	}
}

// DefaultLeaderboardKeyMap returns default key bindings.
func DefaultLeaderboardKeyMap() LeaderboardKeyMap {
	return LeaderboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev view"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
	}
}

// LeaderboardModel is the Bubble Tea model for stored match statistics.
type LeaderboardModel struct {
	store     *storage.Store
	view      int
	standings []storage.Standing
	recent    []storage.MatchRecord
	loadErr   error
	table     table.Model
	help      help.Model
	keys      LeaderboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool // True if user pressed back (not quit)
}

// NewLeaderboardModel creates a leaderboard over store, which may be nil.
func NewLeaderboardModel(store *storage.Store, width, height int) LeaderboardModel {
	h := help.New()
	h.ShowAll = false

	m := LeaderboardModel{
		store:  store,
		keys:   DefaultLeaderboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.load()
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// load reads standings and recent matches from the store.
func (m *LeaderboardModel) load() {
	m.standings, m.recent, m.loadErr = nil, nil, nil
	if m.store == nil {
		return
	}
	standings, err := m.store.Leaderboard()
	if err != nil {
		m.loadErr = err
		return
	}
	recent, err := m.store.RecentMatches(maxRecent)
	if err != nil {
		m.loadErr = err
		return
	}
	m.standings, m.recent = standings, recent
}

// columns returns the table columns of the current view.
func (m *LeaderboardModel) columns() []table.Column {
	if m.view == viewRecent {
		return []table.Column{
			{Title: "Date", Width: 12},
			{Title: "Red", Width: 24},
			{Title: "Blue", Width: 24},
			{Title: "Winner", Width: 7},
			{Title: "Reason", Width: 10},
			{Title: "Plies", Width: 6},
		}
	}
	return []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Agent", Width: 28},
		{Title: "Games", Width: 7},
		{Title: "Wins", Width: 6},
		{Title: "Losses", Width: 7},
		{Title: "Draws", Width: 6},
		{Title: "Win %", Width: 7},
	}
}

// createTable creates a new table with appropriate columns.
func (m *LeaderboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 5)), // Leave room for header, help, and margins
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// tableRows builds the rows of the current view.
func (m *LeaderboardModel) tableRows() []table.Row {
	if m.view == viewRecent {
		rows := make([]table.Row, len(m.recent))
		for i, r := range m.recent {
			winner := r.Winner
			if winner == "" {
				winner = "draw"
			}
			rows[i] = table.Row{
				r.CreatedAt.Format("Jan 02 15:04"),
				r.Red,
				r.Blue,
				winner,
				r.Reason,
				fmt.Sprintf("%d", r.Plies),
			}
		}
		return rows
	}

	rows := make([]table.Row, len(m.standings))
	for i, s := range m.standings {
		pct := 0.0
		if s.Games > 0 {
			pct = 100 * float64(s.Wins) / float64(s.Games)
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			s.Agent,
			fmt.Sprintf("%d", s.Games),
			fmt.Sprintf("%d", s.Wins),
			fmt.Sprintf("%d", s.Losses),
			fmt.Sprintf("%d", s.Draws),
			fmt.Sprintf("%.1f", pct),
		}
	}
	return rows
}

// updateTableRows updates the table with the current view's data.
func (m *LeaderboardModel) updateTableRows() {
	// Rows must never be wider than the columns, so clear them first.
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	m.table.SetRows(m.tableRows())

	// Reset cursor to top
	m.table.GotoTop()
}

// switchView moves to another view and refreshes the table.
func (m *LeaderboardModel) switchView(step int) {
	m.view = ((m.view+step)%viewCount + viewCount) % viewCount
	m.updateTableRows()
}

// Init initializes the leaderboard model.
func (m LeaderboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the leaderboard.
func (m LeaderboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView):
			m.switchView(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevView):
			m.switchView(-1)
			return m, nil

		case key.Matches(msg, m.keys.Reload):
			m.load()
			m.updateTableRows()
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the leaderboard.
func (m LeaderboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	// Title
	title := titleStyle.MarginBottom(1).Render("LEADERBOARD")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")

	// View tabs
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, viewCount)
	for i, t := range viewTitles {
		if i == m.view {
			tabs[i] = activeTabStyle.Render(t)
		} else {
			tabs[i] = tabStyle.Render(" " + t + " ")
		}
	}
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	// Table
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerBlock(tableStyle.Render(m.renderTableContent()), m.width))

	// Help bar
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m LeaderboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	if m.loadErr != nil {
		return emptyStyle.Render(fmt.Sprintf("Could not read results:\n%v", m.loadErr))
	}
	if len(m.table.Rows()) == 0 {
		return emptyStyle.Render("No matches recorded yet.\nPlay a game or run a tournament!")
	}

	return m.table.View()
}

// RowCount returns the number of rows in the current view.
func (m LeaderboardModel) RowCount() int {
	return len(m.table.Rows())
}

// IsGoingBack returns true if user wants to go back to menu.
func (m LeaderboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m LeaderboardModel) IsQuitting() bool {
	return m.quitting
}

// RunLeaderboard runs the leaderboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunLeaderboard(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewLeaderboardModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(LeaderboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
