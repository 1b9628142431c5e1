package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"runtracker/internal/analysis"
)

// RecordsModel is the personal records screen model
type RecordsModel struct {
	history RunHistory
	units   Units
	records analysis.Records
	preds   []analysis.RacePrediction
	runs    int
}

// NewRecordsModel creates a new records model
func NewRecordsModel(h RunHistory, units Units) RecordsModel {
	return RecordsModel{history: h, units: units}
}

type recordsLoadedMsg struct {
	records analysis.Records
	preds   []analysis.RacePrediction
	runs    int
}

// Init computes records from the in-memory history
func (m RecordsModel) Init() tea.Cmd {
	return func() tea.Msg {
		runs := m.history.Runs()
		recs := analysis.PersonalRecords(runs)
		return recordsLoadedMsg{records: recs, preds: analysis.Predict(recs, time.Now()), runs: len(runs)}
	}
}

// Update handles messages
func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(recordsLoadedMsg); ok {
		m.records = msg.records
		m.preds = msg.preds
		m.runs = msg.runs
	}
	return m, nil
}

// View renders the records screen
func (m RecordsModel) View() string {
	r := m.records
	if r.LongestRun == nil {
		return "\n  No personal records yet. Finish a run to set some."
	}

	sections := []string{cardTitleStyle.Render(fmt.Sprintf("Personal Records (from %d runs)", m.runs))}

	var overall []string
	for _, rec := range []*analysis.Record{r.LongestRun, r.MostTime, r.FastestPace} {
		if rec != nil {
			overall = append(overall, m.renderRecord(*rec))
		}
	}
	sections = append(sections, m.renderSection("Overall", overall))

	if len(r.BestEfforts) > 0 {
		var efforts []string
		for _, rec := range r.BestEfforts {
			efforts = append(efforts, m.renderRecord(rec))
		}
		sections = append(sections, m.renderSection("Best Efforts", efforts))
	}

	if len(m.preds) > 0 {
		var rows []string
		for _, p := range m.preds {
			value := fmt.Sprintf("%s  %s", formatDuration(p.PredictedSeconds), m.units.FormatPaceWithUnit(p.PaceMinPerKm))
			rows = append(rows, "  "+RenderMetric(p.Label, value)+mutedStyle.Render("  "+p.Confidence+" confidence"))
		}
		sections = append(sections, m.renderSection("Race Predictions", rows))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RecordsModel) renderSection(title string, rows []string) string {
	lines := []string{sectionStyle.Render(title)}
	lines = append(lines, rows...)
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (m RecordsModel) renderRecord(rec analysis.Record) string {
	value := fmt.Sprintf("%s  %s  %s",
		m.units.FormatDistance(rec.DistanceKm),
		formatDuration(rec.DurationSeconds),
		m.units.FormatPaceWithUnit(rec.PaceMinPerKm))
	where := mutedStyle.Render(fmt.Sprintf("  %s, %s", rec.Territory, rec.Date.Local().Format("Jan 02, 2006")))
	return "  " + RenderMetric(rec.Label, value) + where
}
