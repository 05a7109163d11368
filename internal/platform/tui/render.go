package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	core.ColorBrightWhite:  lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Bold(true),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("215")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	core.ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("197")),
	core.ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[color]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
