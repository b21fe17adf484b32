// Package viz provides the live terminal telemetry view: a bubbletea model
// that steps the simulator at frame cadence and renders position, attitude
// and an altitude history. Proper 3D rendering is an external concern;
// this is a flight-telemetry readout.
package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/bobwilson3/skydio-quadrotor/internal/quad"
	"github.com/bobwilson3/skydio-quadrotor/internal/sim"
)

const historyCapacity = 600

type TickMsg time.Time

// Model holds the running simulation and its telemetry buffers.
type Model struct {
	simulator *sim.Simulator
	cfg       sim.Config

	state    quad.State
	initial  quad.State
	commands quad.Commands
	t        float64

	altHistory []float64
	running    bool
	err        error
	frameRate  int
}

func NewModel(simulator *sim.Simulator, x0 quad.State, cfg sim.Config, frameRate int) Model {
	return Model{
		simulator:  simulator,
		cfg:        cfg,
		state:      x0,
		initial:    x0,
		commands:   make(quad.Commands, quad.NumRotors),
		altHistory: make([]float64, 0, historyCapacity),
		running:    true,
		frameRate:  frameRate,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.state = m.initial
			m.t = 0
			m.altHistory = m.altHistory[:0]
			m.err = nil
			m.running = true
		}
	case TickMsg:
		if m.running && m.err == nil && m.t < m.cfg.Duration {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances enough macro-steps to keep simulated time tracking wall
// time at the configured frame rate.
func (m *Model) step() {
	perFrame := int(math.Max(1, 1/(float64(m.frameRate)*m.cfg.Dt)))
	for i := 0; i < perFrame && m.t < m.cfg.Duration; i++ {
		next, u, _, err := m.simulator.Step(m.state, m.t, m.cfg)
		if err != nil {
			m.err = fmt.Errorf("t=%.3f: %w", m.t, err)
			m.running = false
			return
		}
		m.state = next
		m.commands = u
		m.t += m.cfg.Dt
	}
	m.altHistory = append(m.altHistory, m.state.Position.Z)
	if len(m.altHistory) > historyCapacity {
		m.altHistory = m.altHistory[1:]
	}
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("quadsim live telemetry"))
	sb.WriteString("\n")

	s := m.state
	yaw, pitch, roll := quad.ToEuler(s.Orientation)

	stats := strings.Join([]string{
		row("time", fmt.Sprintf("%7.2f s", m.t)),
		row("position", fmt.Sprintf("%7.2f %7.2f %7.2f m", s.Position.X, s.Position.Y, s.Position.Z)),
		row("velocity", fmt.Sprintf("%7.2f %7.2f %7.2f m/s", s.Velocity.X, s.Velocity.Y, s.Velocity.Z)),
		row("yaw/pitch/roll", fmt.Sprintf("%7.1f %7.1f %7.1f deg", deg(yaw), deg(pitch), deg(roll))),
		row("body rates", fmt.Sprintf("%7.2f %7.2f %7.2f rad/s", s.AngularVelocity.X, s.AngularVelocity.Y, s.AngularVelocity.Z)),
		row("rotors", fmt.Sprintf("%6.0f %6.0f %6.0f %6.0f rad/s", cmd(m.commands, 0), cmd(m.commands, 1), cmd(m.commands, 2), cmd(m.commands, 3))),
	}, "\n")
	sb.WriteString(statsStyle.Render(stats))
	sb.WriteString("\n")

	if len(m.altHistory) > 1 {
		graph := asciigraph.Plot(m.altHistory,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption("altitude (m)"),
		)
		sb.WriteString(graphStyle.Render(graph))
		sb.WriteString("\n")
	}

	if m.err != nil {
		sb.WriteString(errorStyle.Render("run aborted: " + m.err.Error()))
		sb.WriteString("\n")
	} else if m.t >= m.cfg.Duration {
		sb.WriteString(valueStyle.Render("run complete"))
		sb.WriteString("\n")
	}

	sb.WriteString(helpStyle.Render("space pause · r reset · q quit"))
	return sb.String()
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

func deg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func cmd(c quad.Commands, i int) float64 {
	if i < len(c) {
		return c[i]
	}
	return 0
}
