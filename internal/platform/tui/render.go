package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chain-reaction/internal/board"
)

// playerStyles colours orbs by owner; the bright variants mark cells one
// orb away from exploding.
var (
	playerStyles = map[board.Player]lipgloss.Style{
		board.NoPlayer: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		board.Red:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		board.Blue:     lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	}
	criticalStyles = map[board.Player]lipgloss.Style{
		board.Red:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		board.Blue: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	}
	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("57"))
	lastStyle   = lipgloss.NewStyle().Underline(true)
	axisStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// cellWidth is the printed width of one cell.
const cellWidth = 4

// RenderOptions controls the overlays drawn on the board.
type RenderOptions struct {
	Cursor     board.Move
	ShowCursor bool
	Last       board.Move
	ShowLast   bool
}

// cellText returns the fixed-width text for a cell.
func cellText(c board.Cell) string {
	if c.Empty() {
		return "  · "
	}
	return fmt.Sprintf("%3d%c", c.Count, c.Owner.Tag())
}

// cellStyle picks the style for the cell at (row, col).
func cellStyle(b *board.Board, row, col int, opts RenderOptions) lipgloss.Style {
	c := b.At(row, col)
	style := playerStyles[c.Owner]
	if !c.Empty() && c.Count >= b.CriticalMass(row, col) {
		style = criticalStyles[c.Owner]
	}
	if opts.ShowLast && opts.Last.Row == row && opts.Last.Col == col {
		style = style.Inherit(lastStyle)
	}
	if opts.ShowCursor && opts.Cursor.Row == row && opts.Cursor.Col == col {
		style = style.Inherit(cursorStyle)
	}
	return style
}

// RenderBoard draws the board with column and row numbers.
func RenderBoard(b *board.Board, opts RenderOptions) string {
	var sb strings.Builder
	sb.Grow((b.Rows() + 1) * (b.Cols()*cellWidth + 4))

	header := strings.Builder{}
	header.WriteString("   ")
	for col := range b.Cols() {
		header.WriteString(fmt.Sprintf("%*d", cellWidth, col))
	}
	sb.WriteString(axisStyle.Render(header.String()))

	for row := range b.Rows() {
		sb.WriteRune('\n')
		sb.WriteString(axisStyle.Render(fmt.Sprintf("%2d ", row)))
		for col := range b.Cols() {
			style := cellStyle(b, row, col, opts)
			sb.WriteString(style.Render(cellText(b.At(row, col))))
		}
	}

	return sb.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// centerBlock centers a multi-line block as a unit.
func centerBlock(block string, width int) string {
	if lipgloss.Width(block) >= width {
		return block
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}
