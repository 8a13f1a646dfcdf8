package reporting

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/picogrid/air-raid-simulation/cmd/air-raid/core"
)

func sampleEvents() []core.Event {
	raider := uuid.New()
	return []core.Event{
		{Type: core.EventTowerPlaced, Time: 0.5, EntityID: uuid.New()},
		{Type: core.EventRaiderSpawned, Time: 1, EntityID: raider},
		{Type: core.EventRaiderState, Time: 1.1, EntityID: raider, State: core.RaiderFlying},
		{Type: core.EventRaiderKilled, Time: 4, EntityID: raider, Source: core.KillByTower, Points: 40},
		{Type: core.EventRaiderRemoved, Time: 5, EntityID: raider, Reason: core.ReasonShotDown},
	}
}

func TestCombatLoggerRecordsEvents(t *testing.T) {
	var buf bytes.Buffer
	cl := NewCombatLogger(&buf, false)
	cl.Record(sampleEvents())

	events := cl.GetEvents()
	if len(events) != 5 {
		t.Fatalf("Expected 5 events, got %d", len(events))
	}

	out := buf.String()
	if !strings.Contains(out, "shot down by tower (+40)") {
		t.Errorf("Expected kill line in output, got %q", out)
	}
	if strings.Contains(out, "entered FLYING") {
		t.Errorf("Expected state changes to stay quiet without verbose, got %q", out)
	}

	summary := cl.GetSummary()
	if summary.EventCounts[core.EventRaiderKilled] != 1 {
		t.Errorf("Expected 1 kill event, got %d", summary.EventCounts[core.EventRaiderKilled])
	}
	if summary.SimDuration != 5 {
		t.Errorf("Expected simulated duration 5s, got %f", summary.SimDuration)
	}
}

func TestCombatLoggerVerbose(t *testing.T) {
	var buf bytes.Buffer
	cl := NewCombatLogger(&buf, true)
	cl.Record(sampleEvents())

	if !strings.Contains(buf.String(), "entered FLYING") {
		t.Errorf("Expected state change in verbose output, got %q", buf.String())
	}
}

func TestUpdateMetricHistory(t *testing.T) {
	cl := NewCombatLogger(&bytes.Buffer{}, false)
	for i := 0; i < maxMetricHistory+10; i++ {
		cl.UpdateMetric("score", float64(i), "points", float64(i))
	}

	m := cl.GetMetrics()["score"]
	if m.Value != float64(maxMetricHistory+9) {
		t.Errorf("Expected latest value, got %f", m.Value)
	}
	if len(m.History) != maxMetricHistory {
		t.Errorf("Expected history capped at %d, got %d", maxMetricHistory, len(m.History))
	}
}

func TestFormatSimTime(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "00:00.0"},
		{5.3, "00:05.3"},
		{65.5, "01:05.5"},
	}
	for _, tt := range tests {
		if got := formatSimTime(tt.seconds); got != tt.expected {
			t.Errorf("formatSimTime(%f): expected %s, got %s", tt.seconds, tt.expected, got)
		}
	}
}

func TestGenerateReport(t *testing.T) {
	cl := NewCombatLogger(&bytes.Buffer{}, false)
	cl.Record(sampleEvents())

	gen := NewReportGenerator(cl, ReportConfig{OutputDir: t.TempDir(), DetailLevel: "full"})
	report := gen.GenerateReport(40, core.Stats{RaidersSpawned: 1, RaidersKilled: 1, TowerKills: 1, ScoreEarned: 40})

	if report.Summary.Outcome != "Defenses held" {
		t.Errorf("Expected 'Defenses held', got %q", report.Summary.Outcome)
	}
	if report.Summary.KillRate != 1 {
		t.Errorf("Expected kill rate 1, got %f", report.Summary.KillRate)
	}
	if len(report.Timeline) != 2 {
		t.Errorf("Expected tower placement and kill in timeline, got %d entries", len(report.Timeline))
	}
	if len(report.EventLog) != 5 {
		t.Errorf("Expected full event log, got %d", len(report.EventLog))
	}
}

func TestSaveReportFormats(t *testing.T) {
	for _, format := range []string{"json", "markdown"} {
		t.Run(format, func(t *testing.T) {
			cl := NewCombatLogger(&bytes.Buffer{}, false)
			cl.Record(sampleEvents())
			gen := NewReportGenerator(cl, ReportConfig{OutputDir: t.TempDir(), Format: format})

			path, err := gen.SaveReport(gen.GenerateReport(40, core.Stats{RaidersSpawned: 1, RaidersKilled: 1}))
			if err != nil {
				t.Fatalf("Failed to save report: %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("Failed to read report: %v", err)
			}

			if format == "json" {
				var decoded SessionReport
				if err := json.Unmarshal(data, &decoded); err != nil {
					t.Fatalf("Expected valid JSON: %v", err)
				}
				if decoded.Summary.FinalScore != 40 {
					t.Errorf("Expected final score 40, got %d", decoded.Summary.FinalScore)
				}
			} else if !strings.Contains(string(data), "| Final score | 40 |") {
				t.Errorf("Expected score row in markdown, got %q", string(data))
			}
		})
	}
}

func TestSaveReportRejectsUnknownFormat(t *testing.T) {
	gen := NewReportGenerator(NewCombatLogger(&bytes.Buffer{}, false), ReportConfig{OutputDir: t.TempDir(), Format: "html"})
	if _, err := gen.SaveReport(gen.GenerateReport(0, core.Stats{})); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestTraceRaiders(t *testing.T) {
	raider := &core.Raider{
		ID:             uuid.New(),
		State:          core.RaiderHoldingPattern,
		BombsRemaining: 2,
		BombsDropped:   1,
		Target:         core.Vec2{X: 700, Y: 400},
	}

	var quiet bytes.Buffer
	NewCombatLogger(&quiet, false).TraceRaiders(12, []*core.Raider{raider})
	if quiet.Len() != 0 {
		t.Errorf("Expected no trace without verbose, got %q", quiet.String())
	}

	var buf bytes.Buffer
	NewCombatLogger(&buf, true).TraceRaiders(12, []*core.Raider{raider})
	out := buf.String()
	if !strings.Contains(out, raider.ID.String()[:8]) {
		t.Errorf("Expected raider ID in trace, got %q", out)
	}
	if !strings.Contains(out, "bombs_dropped=1 bombs_remaining=2 speed=0 state=HOLDING_PATTERN target_x=700 target_y=400") {
		t.Errorf("Expected sorted raider metadata, got %q", out)
	}
}
