package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"runtracker/internal/store"
)

const loadTimeout = 30 * time.Second

// RunHistory is the run history the list screen reads
type RunHistory interface {
	Runs() []store.RunSummary
	LoadAll(ctx context.Context) []store.RunSummary
}

// HistoryModel is the run history list screen model
type HistoryModel struct {
	history  RunHistory
	units    Units
	runs     []store.RunSummary
	cursor   int
	offset   int
	pageSize int
	loading  bool
}

// NewHistoryModel creates a new history model
func NewHistoryModel(h RunHistory, units Units) HistoryModel {
	return HistoryModel{
		history:  h,
		units:    units,
		runs:     h.Runs(),
		pageSize: 15,
	}
}

// Init shows the in-memory history without touching persistence
func (m HistoryModel) Init() tea.Cmd {
	return func() tea.Msg {
		return historyLoadedMsg{runs: m.history.Runs()}
	}
}

type historyLoadedMsg struct {
	runs []store.RunSummary
}

func (m HistoryModel) reload() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	return historyLoadedMsg{runs: m.history.LoadAll(ctx)}
}

// Update handles messages
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loading = false
		m.runs = msg.runs
		if m.cursor >= len(m.runs) {
			m.cursor = max(len(m.runs)-1, 0)
		}
		m.offset = m.cursor / m.pageSize * m.pageSize

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.runs)-1 {
				m.cursor++
			}
		case "pgup":
			m.cursor = max(m.cursor-m.pageSize, 0)
		case "pgdown":
			m.cursor = max(min(m.cursor+m.pageSize, len(m.runs)-1), 0)
		case "r":
			m.loading = true
			return m, m.reload
		case "enter":
			if m.cursor < len(m.runs) {
				run := m.runs[m.cursor]
				return m, func() tea.Msg {
					return OpenRunDetailMsg{Run: run}
				}
			}
		}
		m.offset = m.cursor / m.pageSize * m.pageSize
	}
	return m, nil
}

// View renders the history list
func (m HistoryModel) View() string {
	if m.loading {
		return "\n  Loading runs..."
	}

	if len(m.runs) == 0 {
		return "\n  No runs yet. Press '1' and start one."
	}

	var sections []string

	end := min(m.offset+m.pageSize, len(m.runs))
	title := cardTitleStyle.Render(fmt.Sprintf("Runs (%d-%d of %d)", m.offset+1, end, len(m.runs)))
	sections = append(sections, title, m.renderTotals())

	header := tableHeaderStyle.Render(fmt.Sprintf("  %-12s  %-22s  %10s  %8s  %12s  %6s",
		"Date", "Territory", "Distance", "Time", "Pace", "HR"))
	sections = append(sections, header)

	for i := m.offset; i < end; i++ {
		r := m.runs[i]

		hr := "-"
		if r.AvgHeartRate != nil {
			hr = fmt.Sprintf("%d", *r.AvgHeartRate)
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-12s  %-22s  %10s  %8s  %12s  %6s",
			cursor,
			r.Date.Local().Format("Jan 02 15:04"),
			truncateName(r.Territory, 22),
			m.units.FormatDistance(r.DistanceKm),
			formatDuration(r.ElapsedSeconds),
			m.units.FormatPaceWithUnit(r.AvgPaceMinPerKm),
			hr,
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	help := statusStyle.Render("  enter: view details  j/k: navigate  pgup/pgdn: page  r: reload")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m HistoryModel) renderTotals() string {
	var km float64
	var seconds, calories int
	for _, r := range m.runs {
		km += r.DistanceKm
		seconds += r.ElapsedSeconds
		calories += r.Calories
	}
	return mutedStyle.Render(fmt.Sprintf("  Total %s  •  %s  •  %d kcal",
		m.units.FormatDistance(km), formatDuration(seconds), calories))
}

func truncateName(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
