package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/picogrid/air-raid-simulation/cmd/air-raid/core"
	"github.com/picogrid/air-raid-simulation/pkg/logger"
)

// ReportGenerator builds end-of-session reports from a combat log
type ReportGenerator struct {
	logger *CombatLogger
	config ReportConfig
}

// ReportConfig configures report generation
type ReportConfig struct {
	OutputDir   string
	Format      string // "json", "markdown"
	DetailLevel string // "summary", "full"
	Settings    map[string]interface{}
}

// SessionReport is the end-of-session report
type SessionReport struct {
	Metadata ReportMetadata         `json:"metadata"`
	Summary  ReportSummary          `json:"summary"`
	Timeline []TimelineEntry        `json:"timeline"`
	EventLog []CombatEvent          `json:"event_log,omitempty"`
	Settings map[string]interface{} `json:"settings,omitempty"`
}

// ReportMetadata contains report metadata
type ReportMetadata struct {
	SessionID   string    `json:"session_id"`
	GeneratedAt time.Time `json:"generated_at"`
	StartedAt   time.Time `json:"started_at"`
	WallClock   string    `json:"wall_clock"`
	SimDuration string    `json:"sim_duration"`
	Version     string    `json:"version"`
}

// ReportSummary holds the session scoreboard
type ReportSummary struct {
	Outcome        string  `json:"outcome"`
	FinalScore     int     `json:"final_score"`
	RaidersSpawned int     `json:"raiders_spawned"`
	RaidersKilled  int     `json:"raiders_killed"`
	RaidersEscaped int     `json:"raiders_escaped"`
	BombsDropped   int     `json:"bombs_dropped"`
	TowerKills     int     `json:"tower_kills"`
	WingKills      int     `json:"wing_kills"`
	WingsLaunched  int     `json:"wings_launched"`
	ScoreEarned    int     `json:"score_earned"`
	ScoreSpent     int     `json:"score_spent"`
	KillRate       float64 `json:"kill_rate"`
}

// TimelineEntry is one significant event in the timeline
type TimelineEntry struct {
	ElapsedTime string                 `json:"elapsed_time"`
	EventType   core.EventType         `json:"event_type"`
	Description string                 `json:"description"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// NewReportGenerator creates a new report generator
func NewReportGenerator(logger *CombatLogger, config ReportConfig) *ReportGenerator {
	if config.Format == "" {
		config.Format = "json"
	}
	return &ReportGenerator{logger: logger, config: config}
}

// GenerateReport creates a session report from the combat log and the
// world's final counters.
func (g *ReportGenerator) GenerateReport(finalScore int, stats core.Stats) *SessionReport {
	summary := g.logger.GetSummary()
	events := g.logger.GetEvents()

	report := &SessionReport{
		Metadata: ReportMetadata{
			SessionID:   summary.SessionID,
			GeneratedAt: time.Now(),
			StartedAt:   summary.StartTime,
			WallClock:   summary.Duration.Round(time.Millisecond).String(),
			SimDuration: formatSimTime(summary.SimDuration),
			Version:     "1.0",
		},
		Summary:  g.buildSummary(finalScore, stats),
		Timeline: g.buildTimeline(events),
		Settings: g.config.Settings,
	}

	if g.config.DetailLevel == "full" {
		report.EventLog = events
	}

	return report
}

func (g *ReportGenerator) buildSummary(finalScore int, stats core.Stats) ReportSummary {
	s := ReportSummary{
		FinalScore:     finalScore,
		RaidersSpawned: stats.RaidersSpawned,
		RaidersKilled:  stats.RaidersKilled,
		RaidersEscaped: stats.RaidersEscaped,
		BombsDropped:   stats.BombsDropped,
		TowerKills:     stats.TowerKills,
		WingKills:      stats.WingKills,
		WingsLaunched:  stats.WingsLaunched,
		ScoreEarned:    stats.ScoreEarned,
		ScoreSpent:     stats.ScoreSpent,
	}
	if stats.RaidersSpawned > 0 {
		s.KillRate = float64(stats.RaidersKilled) / float64(stats.RaidersSpawned)
	}

	switch {
	case stats.RaidersSpawned == 0:
		s.Outcome = "No raids flown"
	case stats.RaidersKilled > stats.RaidersEscaped:
		s.Outcome = "Defenses held"
	case stats.RaidersKilled == stats.RaidersEscaped:
		s.Outcome = "Contested airspace"
	default:
		s.Outcome = "Raiders broke through"
	}
	return s
}

func (g *ReportGenerator) buildTimeline(events []CombatEvent) []TimelineEntry {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].SimTime < events[j].SimTime
	})

	timeline := make([]TimelineEntry, 0)
	for _, e := range events {
		if !isSignificant(e) {
			continue
		}
		timeline = append(timeline, TimelineEntry{
			ElapsedTime: formatSimTime(e.SimTime),
			EventType:   e.Type,
			Description: e.Message,
			Details:     e.Details,
		})
	}
	return timeline
}

func isSignificant(e CombatEvent) bool {
	switch e.Type {
	case core.EventRaiderKilled, core.EventBombDropped, core.EventTowerPlaced,
		core.EventWingSpawned, core.EventWingRefueling, core.EventWingReleased:
		return true
	case core.EventRaiderRemoved:
		return e.Severity == SeverityWarning
	}
	return false
}

// SaveReport writes the report to the output directory and returns its path
func (g *ReportGenerator) SaveReport(report *SessionReport) (string, error) {
	if err := os.MkdirAll(g.config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := report.Metadata.GeneratedAt.Format("20060102_150405")
	filename := fmt.Sprintf("air-raid_%s_%s", report.Metadata.SessionID[:8], timestamp)

	var path string
	var err error
	switch g.config.Format {
	case "json":
		path = filepath.Join(g.config.OutputDir, filename+".json")
		err = saveJSON(report, path)
	case "markdown":
		path = filepath.Join(g.config.OutputDir, filename+".md")
		err = saveMarkdown(report, path)
	default:
		return "", fmt.Errorf("unsupported format: %s", g.config.Format)
	}
	if err != nil {
		return "", err
	}

	logger.Successf("Session report saved to: %s", path)
	return path, nil
}

func saveJSON(report *SessionReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func saveMarkdown(report *SessionReport, path string) error {
	var sb strings.Builder
	s := report.Summary

	sb.WriteString("# Air Raid Session Report\n\n")
	sb.WriteString(fmt.Sprintf("**Session ID:** %s\n", report.Metadata.SessionID))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n", report.Metadata.GeneratedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("**Simulated Time:** %s\n\n", report.Metadata.SimDuration))

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("**Outcome:** %s\n\n", s.Outcome))
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	rows := []struct {
		name  string
		value string
	}{
		{"Final score", fmt.Sprint(s.FinalScore)},
		{"Raiders spawned", fmt.Sprint(s.RaidersSpawned)},
		{"Raiders shot down", fmt.Sprint(s.RaidersKilled)},
		{"Raiders escaped", fmt.Sprint(s.RaidersEscaped)},
		{"Bombs dropped", fmt.Sprint(s.BombsDropped)},
		{"Tower kills", fmt.Sprint(s.TowerKills)},
		{"Wing kills", fmt.Sprint(s.WingKills)},
		{"Wings launched", fmt.Sprint(s.WingsLaunched)},
		{"Score spent", fmt.Sprint(s.ScoreSpent)},
		{"Kill rate", fmt.Sprintf("%.1f%%", s.KillRate*100)},
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", row.name, row.value))
	}
	sb.WriteString("\n")

	if len(report.Timeline) > 0 {
		sb.WriteString("## Timeline\n\n")
		for _, entry := range report.Timeline {
			sb.WriteString(fmt.Sprintf("- `%s` %s\n", entry.ElapsedTime, entry.Description))
		}
		sb.WriteString("\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}
