package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"runtracker/internal/analysis"
	"runtracker/internal/session"
	"runtracker/internal/store"
)

const (
	refreshInterval = 500 * time.Millisecond
	speedStep       = 0.5
)

// RunController is the part of a session the run screen drives.
// Stop records the finished run itself.
type RunController interface {
	StartOutdoor(territory string) error
	StartTreadmill() error
	Stop() *store.RunSummary
	SetTreadmillSpeed(kmh float64) error
	Active() bool
	Snapshot() session.Snapshot
}

// RunModel is the live run screen model
type RunModel struct {
	ctl   RunController
	units Units

	snap      session.Snapshot
	territory textinput.Model
	editing   bool
	last      *store.RunSummary
	err       error
}

// NewRunModel creates a new run screen model
func NewRunModel(ctl RunController, units Units) RunModel {
	ti := textinput.New()
	ti.Placeholder = session.UnknownTerritory
	ti.CharLimit = 64
	ti.Width = 32

	return RunModel{
		ctl:       ctl,
		units:     units,
		territory: ti,
		snap:      ctl.Snapshot(),
	}
}

type runTickMsg time.Time

type runStoppedMsg struct {
	summary *store.RunSummary
}

func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return runTickMsg(t)
	})
}

// Init starts the refresh loop
func (m RunModel) Init() tea.Cmd {
	return refresh()
}

// Editing reports whether the territory prompt has keyboard focus
func (m RunModel) Editing() bool {
	return m.editing
}

// Update handles messages
func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runTickMsg:
		m.snap = m.ctl.Snapshot()
		return m, refresh()

	case runStoppedMsg:
		m.snap = m.ctl.Snapshot()
		m.last = msg.summary
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateTerritory(msg)
		}
		switch msg.String() {
		case "o":
			if !m.ctl.Active() {
				m.editing = true
				m.err = nil
				m.territory.SetValue("")
				return m, m.territory.Focus()
			}
		case "t":
			if !m.ctl.Active() {
				m.err = m.ctl.StartTreadmill()
				m.last = nil
				m.snap = m.ctl.Snapshot()
			}
		case "x", "enter":
			if m.ctl.Active() {
				return m, m.stop
			}
		case "+", "=":
			m.err = m.ctl.SetTreadmillSpeed(m.snap.TreadmillSpeed + speedStep)
			m.snap = m.ctl.Snapshot()
		case "-", "_":
			speed := m.snap.TreadmillSpeed - speedStep
			if speed < 0 {
				speed = 0
			}
			m.err = m.ctl.SetTreadmillSpeed(speed)
			m.snap = m.ctl.Snapshot()
		}
	}
	return m, nil
}

func (m RunModel) updateTerritory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.territory.Blur()
		return m, nil
	case tea.KeyEnter:
		m.editing = false
		m.territory.Blur()
		m.err = m.ctl.StartOutdoor(strings.TrimSpace(m.territory.Value()))
		m.last = nil
		m.snap = m.ctl.Snapshot()
		return m, nil
	}

	var cmd tea.Cmd
	m.territory, cmd = m.territory.Update(msg)
	return m, cmd
}

func (m RunModel) stop() tea.Msg {
	return runStoppedMsg{summary: m.ctl.Stop()}
}

// View renders the run screen
func (m RunModel) View() string {
	var sections []string

	if m.editing {
		sections = append(sections,
			cardTitleStyle.Render("Outdoor Run"),
			"  Territory: "+m.territory.View(),
			statusStyle.Render("  enter: start  esc: cancel"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
	}

	if !m.snap.Stats.IsRunning {
		sections = append(sections, m.renderIdle())
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	stats := cardStyle.Width(44).Render(m.renderStats())
	heart := cardStyle.Width(30).Render(m.renderHeart())
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, stats, "  ", heart))
	sections = append(sections, m.renderGoal())

	if m.snap.Mode == store.ModeOutdoor {
		sections = append(sections, m.renderGPS())
	}
	if m.snap.LastAnnouncement != "" {
		sections = append(sections, mutedStyle.Render("  \""+m.snap.LastAnnouncement+"\""))
	}

	help := "  x: stop"
	if m.snap.Mode == store.ModeTreadmill {
		help += "  +/-: treadmill speed"
	}
	sections = append(sections, statusStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RunModel) renderIdle() string {
	var lines []string
	lines = append(lines, cardTitleStyle.Render("Ready to run"))

	if m.last != nil {
		lines = append(lines, successStyle.Render("  Run saved"))
		lines = append(lines,
			"  "+RenderMetric("Distance", m.units.FormatDistance(m.last.DistanceKm)),
			"  "+RenderMetric("Time", formatDuration(m.last.ElapsedSeconds)),
			"  "+RenderMetric("Avg pace", m.units.FormatPaceWithUnit(m.last.AvgPaceMinPerKm)),
			"  "+RenderMetric("Calories", fmt.Sprintf("%d kcal", m.last.Calories)),
			"",
		)
	}

	lines = append(lines,
		"  "+RenderKeyHelp("o", "start an outdoor run"),
		"  "+RenderKeyHelp("t", fmt.Sprintf("start a treadmill run (%s)", m.units.FormatSpeed(m.snap.TreadmillSpeed))),
		"  "+RenderKeyHelp("+/-", "adjust treadmill speed"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m RunModel) renderStats() string {
	st := m.snap.Stats

	title := m.snap.Territory
	if m.snap.Mode == store.ModeTreadmill {
		title = fmt.Sprintf("%s @ %s", session.TreadmillTerritory, m.units.FormatSpeed(m.snap.TreadmillSpeed))
	}

	pace := "-"
	if st.AvgPaceMinPerKm != nil {
		pace = m.units.FormatPaceWithUnit(*st.AvgPaceMinPerKm)
	}
	calories := "-"
	if st.Calories != nil {
		calories = fmt.Sprintf("%d kcal", *st.Calories)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render(title),
		RenderMetric("Distance", m.units.FormatDistance(st.DistanceKm)),
		RenderMetric("Time", formatDuration(st.ElapsedSeconds)),
		RenderMetric("Speed", m.units.FormatSpeed(st.SpeedKmh)),
		RenderMetric("Avg pace", pace),
		RenderMetric("Calories", calories),
	)
}

func (m RunModel) renderHeart() string {
	title := cardTitleStyle.Render("Heart Rate")
	if m.snap.HeartRate == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("waiting..."))
	}

	style := zoneStyle(m.snap.Zone)
	lines := []string{
		title,
		style.Render(fmt.Sprintf("%d bpm", m.snap.HeartRate)),
		style.Render(fmt.Sprintf("Z%d %s", m.snap.Zone, m.snap.Zone.Name())),
	}

	history := m.snap.HeartRateHistory
	if len(history) > 5 {
		data := make([]float64, len(history))
		for i, hr := range history {
			data[i] = float64(hr)
		}
		if len(data) > 40 {
			data = data[len(data)-40:]
		}
		lines = append(lines, "", asciigraph.Plot(data, asciigraph.Height(4), asciigraph.Width(20)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m RunModel) renderGoal() string {
	progress := m.snap.Stats.DistanceKm / analysis.GoalKm
	label := fmt.Sprintf(" %.0f%% of %.0f km goal", min(progress, 1)*100, analysis.GoalKm)
	return "  " + RenderProgressBar(progress, 40) + mutedStyle.Render(label)
}

func (m RunModel) renderGPS() string {
	if m.snap.GPSError != "" {
		return warningStyle.Render("  GPS: " + m.snap.GPSError)
	}
	if !m.snap.GPSEnabled {
		return mutedStyle.Render("  GPS: off")
	}
	return successStyle.Render(fmt.Sprintf("  GPS: on (%d fixes)", len(m.snap.Samples)))
}
