package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(34)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
)

const fallbackColor = "#cccccc"

var space = colorful.Color{R: 0.02, G: 0.02, B: 0.05}

// Palette holds the body and trail colour of one body.
type Palette struct {
	Body  lipgloss.Color
	Trail lipgloss.Color
}

// NewPalette derives a palette from a hex colour. Trails are the body colour
// faded halfway towards the background.
func NewPalette(hex string) Palette {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(fallbackColor)
	}
	return Palette{
		Body:  lipgloss.Color(c.Hex()),
		Trail: lipgloss.Color(c.BlendLab(space, 0.5).Clamped().Hex()),
	}
}
