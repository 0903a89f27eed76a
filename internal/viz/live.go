package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/metrics"
	"github.com/san-kum/solarsim/internal/physics"
	"github.com/san-kum/solarsim/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 300
	maxStepsPerTick = 1024
	zoomFactor      = 1.25
)

type TickMsg time.Time

// Model drives a simulator from the Bubble Tea event loop. Stepping and
// drawing happen on the program goroutine only.
type Model struct {
	sim           *sim.Simulator
	dt            float64
	epoch         time.Time
	name          string
	display       config.DisplayConfig
	stepsPerFrame int
	canvas        *Canvas
	proj          Projection
	palettes      []Palette
	running       bool
	showTrails    bool
	drift         *metrics.EnergyDrift
	driftHistory  []float64
	err           error
}

func NewModel(s *sim.Simulator, cfg *config.Config) Model {
	canvas := NewCanvas(canvasWidth, canvasHeight)
	snaps := s.Snapshots()

	palettes := make([]Palette, len(snaps))
	for i, b := range snaps {
		palettes[i] = NewPalette(b.Color)
	}

	drift := metrics.NewEnergyDrift(s.Law())
	drift.Observe(s.Frame())
	s.AddMetric(drift)

	return Model{
		sim:           s,
		dt:            cfg.Dt,
		epoch:         cfg.Epoch,
		name:          cfg.Name,
		display:       cfg.Display,
		stepsPerFrame: max(1, cfg.Display.StepsPerFrame),
		canvas:        canvas,
		proj:          NewProjection(cfg.Display, canvas.DotsX(), canvas.DotsY(), snaps),
		palettes:      palettes,
		running:       true,
		showTrails:    true,
		drift:         drift,
		driftHistory:  make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	fps := max(1, m.display.FPS)
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "+", "=":
			m.stepsPerFrame = min(maxStepsPerTick, m.stepsPerFrame*2)
		case "-", "_":
			m.stepsPerFrame = max(1, m.stepsPerFrame/2)
		case "z":
			m.proj = m.proj.Zoom(zoomFactor)
		case "x":
			m.proj = m.proj.Zoom(1 / zoomFactor)
		case "t":
			m.showTrails = !m.showTrails
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance performs one frame's worth of engine steps. A failed step stops
// the viewer; the error stays on screen.
func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame; i++ {
		if err := m.sim.Step(m.dt); err != nil {
			m.err = err
			m.running = false
			return
		}
	}

	m.driftHistory = append(m.driftHistory, m.drift.Drift())
	if len(m.driftHistory) > historyCapacity {
		m.driftHistory = m.driftHistory[1:]
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	snaps := m.sim.Snapshots()

	if m.showTrails {
		for i, b := range snaps {
			if len(b.Trail) < 2 {
				continue
			}
			px, py := m.proj.Project(b.Trail[0])
			for _, p := range b.Trail[1:] {
				x, y := m.proj.Project(p)
				if x != px || y != py {
					m.canvas.DrawLine(px, py, x, y, m.palettes[i].Trail)
					px, py = x, y
				}
			}
		}
	}

	for i, b := range snaps {
		x, y := m.proj.Project(b.Position)
		m.canvas.Disc(x, y, m.proj.Radius(b.Radius), m.palettes[i].Body)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render("STOPPED") + "\n\n")
	case m.running:
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	date := sim.Date(m.epoch, m.sim.Time())
	s.WriteString(labelStyle.Render("Date") + valueStyle.Render(date.Format("2006-01-02")) + "\n")
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", m.sim.StepCount())) + "\n")
	s.WriteString(labelStyle.Render("Steps/frame") + valueStyle.Render(fmt.Sprintf("%d", m.stepsPerFrame)) + "\n")
	s.WriteString(labelStyle.Render("Scale") + valueStyle.Render(fmt.Sprintf("%.1f dots/AU", m.proj.Scale*physics.AU)) + "\n")
	s.WriteString(labelStyle.Render("Law") + valueStyle.Render(m.sim.Law().Name()) + "\n")

	if len(m.driftHistory) > 1 {
		chart := asciigraph.Plot(m.driftHistory, asciigraph.Height(4), asciigraph.Width(24), asciigraph.Caption("Energy drift"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause +/-:Speed Q:Quit\nZ/X:Zoom T:Trails"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

func (m Model) Err() error { return m.err }

// Run opens the viewer full screen and blocks until the user quits.
func Run(s *sim.Simulator, cfg *config.Config) error {
	_, err := tea.NewProgram(NewModel(s, cfg), tea.WithAltScreen()).Run()
	return err
}
