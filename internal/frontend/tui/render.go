package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cory-johannsen/dinnerroulette/internal/backdrop"
	"github.com/cory-johannsen/dinnerroulette/internal/roulette"
)

const (
	titleText   = "Dinner Roulette"
	rollingText = "Rolling..."
	spinText    = "Spin the Wheel!"
	helpText    = "space/enter: spin  q: quit"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	pickedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	rollingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	cyclingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	buttonStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 2).
			Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("33"))
	disabledStyle = buttonStyle.Background(lipgloss.Color("244"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cardStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 4).
			Align(lipgloss.Center)
	backdropStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// rotationGlyphs are arrows for each 45° sector, starting at 0° (pointing right)
// and turning clockwise.
var rotationGlyphs = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// RotationGlyph returns the arrow closest to the given angle in degrees.
func RotationGlyph(degrees float64) rune {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	sector := int(math.Round(d/45)) % len(rotationGlyphs)
	return rotationGlyphs[sector]
}

// RenderCard renders the picker panel for the given controller state.
func RenderCard(snap roulette.Snapshot) string {
	var heading, display string
	if snap.HasSelection() {
		heading = headingStyle.Render("How about ") + pickedStyle.Render(snap.Selected) + headingStyle.Render("?")
		display = pickedStyle.Render(snap.Selected)
	} else {
		heading = rollingStyle.Render(rollingText)
		if snap.State == roulette.StateRolling {
			display = cyclingStyle.Render(snap.Cycling())
		}
	}

	button := buttonStyle.Render(spinText)
	if !snap.TriggerEnabled() {
		button = disabledStyle.Render(rollingText)
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		heading,
		"",
		display,
		"",
		button,
	)
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(titleText),
		"",
		cardStyle.Render(body),
		helpStyle.Render(helpText),
	)
}

// backdropGrid lays the labels onto a width×height grid of runes. Each label is
// prefixed with its rotation glyph and clipped at the right edge.
func backdropGrid(labels []string, positions []backdrop.Position, width, height int) [][]rune {
	grid := make([][]rune, height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", width))
	}
	for i, p := range positions {
		if i >= len(labels) {
			break
		}
		row := int(p.Y / 100 * float64(height))
		col := int(p.X / 100 * float64(width))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		text := append([]rune{RotationGlyph(p.Rotation), ' '}, []rune(labels[i])...)
		for j, r := range text {
			if col+j >= width {
				break
			}
			grid[row][col+j] = r
		}
	}
	return grid
}

// RenderScreen composes the backdrop and the centered card into a full
// width×height frame. With an unknown size only the card is rendered.
func RenderScreen(snap roulette.Snapshot, labels []string, positions []backdrop.Position, width, height int) string {
	card := RenderCard(snap)
	if width <= 0 || height <= 0 {
		return card
	}

	cardLines := strings.Split(card, "\n")
	cardW := lipgloss.Width(card)
	cardH := len(cardLines)
	if cardW > width || cardH > height {
		return card
	}
	x0 := (width - cardW) / 2
	y0 := (height - cardH) / 2

	grid := backdropGrid(labels, positions, width, height)

	var b strings.Builder
	for y := 0; y < height; y++ {
		if y > 0 {
			b.WriteString("\n")
		}
		row := grid[y]
		if y < y0 || y >= y0+cardH {
			b.WriteString(backdropStyle.Render(string(row)))
			continue
		}
		line := cardLines[y-y0]
		pad := cardW - lipgloss.Width(line)
		b.WriteString(backdropStyle.Render(string(row[:x0])))
		b.WriteString(line)
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(backdropStyle.Render(string(row[x0+cardW:])))
	}
	return b.String()
}
