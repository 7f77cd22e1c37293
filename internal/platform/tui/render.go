package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mindora-runner/internal/core"
)

// colorStyles maps core.Color roles to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:   lipgloss.NewStyle(),
	core.ColorSky:       lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
	core.ColorGround:    lipgloss.NewStyle().Foreground(lipgloss.Color("94")),
	core.ColorGrass:     lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	core.ColorPlayer:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	core.ColorCoin:      lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	core.ColorSpike:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorPit:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorBlock:     lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
	core.ColorWall:      lipgloss.NewStyle().Foreground(lipgloss.Color("135")),
	core.ColorHUD:       lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorGood:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBad:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	core.ColorMuted:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorHighlight: lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// drawStatus right-aligns text on the bottom row of the screen.
func drawStatus(s *core.Screen, text string, color core.Color) {
	n := len([]rune(text))
	x := s.Width() - n - 1
	if x < 0 {
		x = 0
	}
	s.DrawText(x, s.Height()-1, text, color)
}
