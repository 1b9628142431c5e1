package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"runtracker/internal/analysis"
	"runtracker/internal/store"
)

// OpenRunDetailMsg asks the app to show one run
type OpenRunDetailMsg struct {
	Run store.RunSummary
}

// RunDetailModel is the run detail screen model
type RunDetailModel struct {
	units    Units
	run      store.RunSummary
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewRunDetailModel creates a new run detail model
func NewRunDetailModel(run store.RunSummary, units Units, width, height int) RunDetailModel {
	m := RunDetailModel{
		units:  units,
		run:    run,
		width:  width,
		height: height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // Reserve space for header/footer
		m.viewport.SetContent(m.renderContent())
		m.ready = true
	}

	return m
}

// Init initializes the run detail screen
func (m RunDetailModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m RunDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		m.viewport.SetContent(m.renderContent())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the run detail screen
func (m RunDetailModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  esc: back to list  j/k or arrows: scroll")
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m RunDetailModel) renderContent() string {
	sections := []string{m.renderHeader(), m.renderSummary()}

	if m.run.HeartRateZones != nil {
		sections = append(sections, m.renderZones())
	}

	if splits := analysis.Splits(m.run.Samples); len(splits) > 1 {
		sections = append(sections, m.renderSplits(splits))
	}

	if efforts := analysis.BestEfforts(m.run.Samples); len(efforts) > 0 {
		sections = append(sections, m.renderEfforts(efforts))
	}

	speeds := analysis.SegmentSpeeds(m.run.Samples)
	if len(speeds) > 2 {
		sections = append(sections, m.renderSpeedChart(speeds))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RunDetailModel) renderHeader() string {
	r := m.run
	title := cardTitleStyle.Render(r.Territory)

	date := r.Date.Local().Format("Monday, January 2, 2006 at 3:04 PM")
	subtitle := mutedStyle.Render(date)

	stats := fmt.Sprintf("%s  •  %s  •  %s",
		m.units.FormatDistance(r.DistanceKm),
		formatDuration(r.ElapsedSeconds),
		m.units.FormatPaceWithUnit(r.AvgPaceMinPerKm))
	statsLine := lipgloss.NewStyle().Foreground(textColor).Bold(true).Render(stats)

	return lipgloss.JoinVertical(lipgloss.Left, "", title, subtitle, statsLine, "")
}

func (m RunDetailModel) renderSummary() string {
	r := m.run
	lines := []string{sectionStyle.Render("Summary")}

	mode := string(r.Mode)
	if mode == "" {
		mode = string(store.ModeOutdoor)
	}
	lines = append(lines,
		"  "+RenderMetric("Mode", mode),
		"  "+RenderMetric("Average speed", m.units.FormatSpeed(r.AvgSpeedKmh)),
		"  "+RenderMetric("Max speed", m.units.FormatSpeed(r.MaxSpeedKmh)),
		"  "+RenderMetric("Calories", fmt.Sprintf("%d kcal", r.Calories)),
	)
	if r.AvgHeartRate != nil {
		lines = append(lines, "  "+RenderMetric("Average HR", fmt.Sprintf("%d bpm", *r.AvgHeartRate)))
	}
	if len(r.Samples) > 0 {
		lines = append(lines, "  "+RenderMetric("GPS positions", fmt.Sprintf("%d", len(r.Samples))))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m RunDetailModel) renderZones() string {
	lines := []string{sectionStyle.Render("Heart Rate Zones")}

	maxBarWidth := 30
	for z := analysis.ZoneWarmUp; z <= analysis.ZoneMaximum; z++ {
		pct := m.run.HeartRateZones.Percent(int(z))
		barWidth := pct * maxBarWidth / 100
		if barWidth < 1 && pct > 0 {
			barWidth = 1
		}

		label := fmt.Sprintf("  Z%d %-16s", z, z.Name())
		bar := zoneStyle(z).Render(strings.Repeat("█", barWidth))
		lines = append(lines, fmt.Sprintf("%s%s %3d%%", label, bar, pct))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m RunDetailModel) renderSplits(splits []analysis.Split) string {
	lines := []string{sectionStyle.Render("Kilometer Splits")}

	header := fmt.Sprintf("  %-4s  %8s  %8s  %14s", "Km", "Distance", "Time", "Pace")
	lines = append(lines, lipgloss.NewStyle().Foreground(primaryColor).Render(header))

	// Find fastest full split for highlighting
	fastest := -1
	for i, s := range splits {
		if s.DistanceKm < 1 {
			continue
		}
		if fastest < 0 || s.PaceMinPerKm() < splits[fastest].PaceMinPerKm() {
			fastest = i
		}
	}

	for i, s := range splits {
		row := fmt.Sprintf("  %-4d  %8s  %8s  %14s",
			s.Km,
			m.units.FormatDistance(s.DistanceKm),
			formatDuration(s.DurationSeconds),
			m.units.FormatPaceWithUnit(s.PaceMinPerKm()))
		if i == fastest {
			row = successStyle.Bold(true).Render(row)
		}
		lines = append(lines, row)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m RunDetailModel) renderEfforts(efforts []analysis.BestEffort) string {
	lines := []string{sectionStyle.Render("Best Efforts")}
	for _, e := range efforts {
		lines = append(lines, fmt.Sprintf("  %-8s %8s  %s",
			analysis.EffortLabel(e.TargetKm),
			formatDuration(e.DurationSeconds),
			mutedStyle.Render(m.units.FormatPaceWithUnit(e.PaceMinPerKm()))))
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m RunDetailModel) renderSpeedChart(speeds []float64) string {
	unit := "km/h"
	if m.units.IsMiles() {
		unit = "mph"
	}
	lines := []string{sectionStyle.Render(fmt.Sprintf("Speed Over Time (%s)", unit))}

	data := m.units.ConvertSpeeds(speeds)
	if len(data) > 60 {
		// Downsample for very long runs
		data = downsample(data, 60)
	}

	lines = append(lines, asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(50),
	))

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func downsample(data []float64, targetLen int) []float64 {
	if len(data) <= targetLen {
		return data
	}

	result := make([]float64, targetLen)
	ratio := float64(len(data)) / float64(targetLen)

	for i := 0; i < targetLen; i++ {
		start := int(float64(i) * ratio)
		end := min(int(float64(i+1)*ratio), len(data))

		sum := 0.0
		for j := start; j < end; j++ {
			sum += data[j]
		}
		if end > start {
			result[i] = sum / float64(end-start)
		}
	}

	return result
}
