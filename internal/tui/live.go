// Package tui is the terminal live view: it steps the scene on a frame
// timer and plots the tracked entity's height over time.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rigidsim/internal/constraint"
	"github.com/san-kum/rigidsim/internal/scene"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const historyLen = 120

type tickMsg time.Time

type model struct {
	sc     *scene.Scene
	joints []*constraint.Point

	track    string
	dt       float64
	duration float64

	elapsed float64
	history []float64
	paused  bool
	done    bool
}

// Run steps the scene live until the duration elapses or the user
// quits. The tracked entity's Y coordinate is plotted.
func Run(sc *scene.Scene, joints []*constraint.Point, track string, dt, duration float64) error {
	sc.Start()
	m := model{
		sc:       sc,
		joints:   joints,
		track:    track,
		dt:       dt,
		duration: duration,
		history:  make([]float64, 0, historyLen),
	}
	_, err := tea.NewProgram(m).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

func (m model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.dt*float64(time.Second)), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		}
	case tickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			for _, j := range m.joints {
				j.ApplyTension()
			}
			m.sc.Tick(m.dt)
			m.elapsed += m.dt

			if e := m.sc.Entity(m.track); e != nil {
				m.history = append(m.history, e.Transform().Position().Y())
				if len(m.history) > historyLen {
					m.history = m.history[1:]
				}
			}
			if m.elapsed >= m.duration {
				m.done = true
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(cyan.Render("rigidsim live") + dim.Render(fmt.Sprintf("  t=%.2fs / %.2fs", m.elapsed, m.duration)))
	if m.paused {
		b.WriteString(yellow.Render("  [paused]"))
	}
	if m.done {
		b.WriteString(green.Render("  [done]"))
	}
	b.WriteString("\n\n")

	if len(m.history) > 1 {
		b.WriteString(asciigraph.Plot(m.history, asciigraph.Height(14), asciigraph.Caption(m.track+" height")))
		b.WriteString("\n\n")
	}

	if e := m.sc.Entity(m.track); e != nil {
		p := e.Transform().Position()
		b.WriteString(dim.Render(fmt.Sprintf("%s  x=%7.3f  y=%7.3f  z=%7.3f", m.track, p.X(), p.Y(), p.Z())))
		b.WriteString("\n")
	}

	b.WriteString(dim.Render("\nspace pause · q quit\n"))
	return b.String()
}
