package reporting

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/picogrid/air-raid-simulation/cmd/air-raid/core"
	"github.com/picogrid/air-raid-simulation/pkg/logger"
)

// CombatLogger records the world's event stream and tracks session metrics
type CombatLogger struct {
	sessionID uuid.UUID
	startTime time.Time
	out       io.Writer
	verbose   bool

	mu      sync.RWMutex
	events  []CombatEvent
	metrics map[string]Metric
}

// CombatEvent is one logged world event
type CombatEvent struct {
	Timestamp time.Time              `json:"timestamp"`
	SimTime   float64                `json:"sim_time"`
	Type      core.EventType         `json:"type"`
	Severity  string                 `json:"severity"`
	EntityID  uuid.UUID              `json:"entity_id"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Metric represents a tracked metric
type Metric struct {
	Name        string        `json:"name"`
	Value       float64       `json:"value"`
	Unit        string        `json:"unit"`
	LastUpdated time.Time     `json:"last_updated"`
	History     []MetricPoint `json:"-"`
}

// MetricPoint represents a metric value at a point in simulated time
type MetricPoint struct {
	SimTime float64
	Value   float64
}

// Severity constants
const (
	SeverityDebug   = "debug"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

const (
	maxEvents        = 10000
	maxMetricHistory = 1000
)

var (
	colorDebug   = color.New(color.FgHiBlack)
	colorKill    = color.New(color.FgRed, color.Bold)
	colorSpawn   = color.New(color.FgCyan)
	colorWing    = color.New(color.FgBlue, color.Bold)
	colorReject  = color.New(color.FgYellow)
	colorBomb    = color.New(color.FgMagenta)
	colorSuccess = color.New(color.FgGreen)
)

// NewCombatLogger creates a logger printing to out. Routine events such as
// state changes and projectile launches print only when verbose is set.
func NewCombatLogger(out io.Writer, verbose bool) *CombatLogger {
	if out == nil {
		out = color.Output
	}
	return &CombatLogger{
		sessionID: uuid.New(),
		startTime: time.Now(),
		out:       out,
		verbose:   verbose,
		metrics:   make(map[string]Metric),
	}
}

// SessionID returns the ID stamped on reports for this session
func (cl *CombatLogger) SessionID() uuid.UUID { return cl.sessionID }

// Record logs a batch of world events
func (cl *CombatLogger) Record(events []core.Event) {
	for _, e := range events {
		cl.record(e)
	}
}

func (cl *CombatLogger) record(e core.Event) {
	entry := CombatEvent{
		Timestamp: time.Now(),
		SimTime:   e.Time,
		Type:      e.Type,
		Severity:  SeverityDebug,
		EntityID:  e.EntityID,
	}

	short := shortID(e.EntityID)
	var c *color.Color
	var title string
	switch e.Type {
	case core.EventRaiderSpawned:
		entry.Severity, c, title = SeverityInfo, colorSpawn, "✈️ Raider Inbound"
		entry.Message = fmt.Sprintf("Raider %s spawned at (%.0f, %.0f)", short, e.Position.X, e.Position.Y)
	case core.EventRaiderKilled:
		entry.Severity, c, title = SeverityInfo, colorKill, "💥 Raider Down"
		entry.Message = fmt.Sprintf("Raider %s shot down by %s (+%d)", short, e.Source, e.Points)
		entry.Details = map[string]interface{}{"source": string(e.Source), "points": e.Points}
	case core.EventRaiderRemoved:
		if e.Reason == core.ReasonEscaped {
			entry.Severity, c, title = SeverityWarning, colorReject, "🏃 Raider Escaped"
		}
		entry.Message = fmt.Sprintf("Raider %s removed (%s)", short, e.Reason)
		entry.Details = map[string]interface{}{"reason": e.Reason}
	case core.EventRaiderState:
		entry.Message = fmt.Sprintf("Raider %s entered %s", short, e.State)
		entry.Details = map[string]interface{}{"state": string(e.State)}
	case core.EventBombDropped:
		entry.Severity, c, title = SeverityInfo, colorBomb, "💣 Bomb Away"
		entry.Message = fmt.Sprintf("Raider %s released a bomb over (%.0f, %.0f)", shortID(e.SourceID), e.Position.X, e.Position.Y)
	case core.EventBombDetonated:
		entry.Message = fmt.Sprintf("Bomb %s detonated", short)
	case core.EventTowerPlaced:
		entry.Severity, c, title = SeverityInfo, colorSuccess, "🗼 Tower Placed"
		entry.Message = fmt.Sprintf("Tower %s placed at (%.0f, %.0f)", short, e.Position.X, e.Position.Y)
	case core.EventTowerEvicted:
		entry.Severity, c, title = SeverityInfo, colorReject, "🗼 Tower Retired"
		entry.Message = fmt.Sprintf("Tower %s removed to make room", short)
	case core.EventFlakFired, core.EventMissileFired:
		entry.Message = fmt.Sprintf("%s %s fired by %s", e.Type, short, shortID(e.SourceID))
	case core.EventWingSpawned:
		entry.Severity, c, title = SeverityInfo, colorWing, "🛩️ Wing Launched"
		entry.Message = fmt.Sprintf("Defense wing %s patrolling (%.0f, %.0f)", short, e.Position.X, e.Position.Y)
	case core.EventWingRelocated:
		entry.Severity, c, title = SeverityInfo, colorWing, "🛩️ Wing Relocated"
		entry.Message = fmt.Sprintf("Defense wing %s moving to (%.0f, %.0f)", short, e.Position.X, e.Position.Y)
	case core.EventWingRefueling:
		entry.Severity, c, title = SeverityInfo, colorWing, "⛽ Wing Refueling"
		entry.Message = fmt.Sprintf("Defense wing %s returning to refuel", short)
	case core.EventWingReleased:
		entry.Severity, c, title = SeverityInfo, colorWing, "🛩️ Wing Released"
		entry.Message = fmt.Sprintf("Defense wing %s left the area", short)
	case core.EventAircraftEngage:
		entry.Message = fmt.Sprintf("Aircraft %s engaging raider %s", short, shortID(e.SourceID))
	case core.EventSpawnRejected, core.EventWingRejected:
		entry.Severity, c, title = SeverityWarning, colorReject, "⚠️ Rejected"
		entry.Message = fmt.Sprintf("%s at (%.0f, %.0f): %s", e.Type, e.Position.X, e.Position.Y, e.Reason)
		entry.Details = map[string]interface{}{"reason": e.Reason}
	default:
		entry.Message = string(e.Type)
	}

	cl.logEvent(entry)

	if c == nil && cl.verbose {
		c, title = colorDebug, string(e.Type)
	}
	if c != nil {
		cl.logColoredMessage(e.Time, c, title, entry.Message)
	}
}

func (cl *CombatLogger) logEvent(event CombatEvent) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	cl.events = append(cl.events, event)
	if len(cl.events) > maxEvents {
		cl.events = cl.events[len(cl.events)-maxEvents:]
	}
}

func (cl *CombatLogger) logColoredMessage(simTime float64, c *color.Color, title, message string) {
	_, _ = fmt.Fprintf(cl.out, "[%s] %s | %s\n", formatSimTime(simTime), c.Sprint(title), message)
}

// TraceRaiders prints the state of every live raider. It is silent unless
// the logger is verbose.
func (cl *CombatLogger) TraceRaiders(simTime float64, raiders []*core.Raider) {
	if !cl.verbose {
		return
	}
	for _, r := range raiders {
		meta := r.GetMetadata()
		keys := make([]string, 0, len(meta))
		for k := range meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, meta[k]))
		}
		cl.logColoredMessage(simTime, colorDebug, "🔍 Raider "+shortID(r.ID), strings.Join(parts, " "))
	}
}

// UpdateStatus refreshes the session metrics from a status summary
func (cl *CombatLogger) UpdateStatus(status core.Status, stats core.Stats) {
	cl.UpdateMetric("score", float64(status.Score), "points", status.SimTime)
	cl.UpdateMetric("active_raiders", float64(status.Raiders), "aircraft", status.SimTime)
	cl.UpdateMetric("towers", float64(status.Towers), "towers", status.SimTime)
	cl.UpdateMetric("raiders_killed", float64(stats.RaidersKilled), "aircraft", status.SimTime)
	cl.UpdateMetric("raiders_escaped", float64(stats.RaidersEscaped), "aircraft", status.SimTime)
	cl.UpdateMetric("tower_kills", float64(stats.TowerKills), "kills", status.SimTime)
	cl.UpdateMetric("wing_kills", float64(stats.WingKills), "kills", status.SimTime)
}

// UpdateMetric updates a metric value
func (cl *CombatLogger) UpdateMetric(name string, value float64, unit string, simTime float64) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	metric, exists := cl.metrics[name]
	if !exists {
		metric = Metric{Name: name, Unit: unit}
	}
	metric.Value = value
	metric.LastUpdated = time.Now()
	metric.History = append(metric.History, MetricPoint{SimTime: simTime, Value: value})
	if len(metric.History) > maxMetricHistory {
		metric.History = metric.History[len(metric.History)-maxMetricHistory:]
	}
	cl.metrics[name] = metric
}

// GetEvents returns all logged events
func (cl *CombatLogger) GetEvents() []CombatEvent {
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	events := make([]CombatEvent, len(cl.events))
	copy(events, cl.events)
	return events
}

// GetMetrics returns current metrics
func (cl *CombatLogger) GetMetrics() map[string]Metric {
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	metrics := make(map[string]Metric, len(cl.metrics))
	for k, v := range cl.metrics {
		metrics[k] = v
	}
	return metrics
}

// SessionSummary is a roll-up of the combat log
type SessionSummary struct {
	SessionID   string
	StartTime   time.Time
	Duration    time.Duration
	SimDuration float64
	TotalEvents int
	EventCounts map[core.EventType]int
	Metrics     map[string]Metric
}

// GetSummary returns a session summary
func (cl *CombatLogger) GetSummary() SessionSummary {
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	counts := make(map[core.EventType]int)
	var simDuration float64
	for _, e := range cl.events {
		counts[e.Type]++
		if e.SimTime > simDuration {
			simDuration = e.SimTime
		}
	}

	metrics := make(map[string]Metric, len(cl.metrics))
	for k, v := range cl.metrics {
		metrics[k] = v
		if n := len(v.History); n > 0 && v.History[n-1].SimTime > simDuration {
			simDuration = v.History[n-1].SimTime
		}
	}

	return SessionSummary{
		SessionID:   cl.sessionID.String(),
		StartTime:   cl.startTime,
		Duration:    time.Since(cl.startTime),
		SimDuration: simDuration,
		TotalEvents: len(cl.events),
		EventCounts: counts,
		Metrics:     metrics,
	}
}

// PrintSummary prints a formatted summary
func (cl *CombatLogger) PrintSummary() {
	summary := cl.GetSummary()

	logger.LogSection(fmt.Sprintf("SESSION SUMMARY - %s", summary.SessionID[:8]))
	_, _ = fmt.Fprintf(cl.out, "\n%s Simulated: %s | Wall clock: %s | Events: %d\n",
		logger.IconTime, formatSimTime(summary.SimDuration),
		summary.Duration.Round(time.Millisecond), summary.TotalEvents)

	types := make([]string, 0, len(summary.EventCounts))
	for t := range summary.EventCounts {
		types = append(types, string(t))
	}
	sort.Strings(types)

	_, _ = fmt.Fprintln(cl.out, "\nEvent Distribution:")
	for _, t := range types {
		_, _ = fmt.Fprintf(cl.out, "   %-20s: %d\n", t, summary.EventCounts[core.EventType(t)])
	}

	if len(summary.Metrics) > 0 {
		names := make([]string, 0, len(summary.Metrics))
		for name := range summary.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)

		_, _ = fmt.Fprintln(cl.out, "\nMetrics:")
		for _, name := range names {
			m := summary.Metrics[name]
			_, _ = fmt.Fprintf(cl.out, "   %-20s: %.0f %s\n", name, m.Value, m.Unit)
		}
	}
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// formatSimTime renders simulated seconds as mm:ss.s
func formatSimTime(seconds float64) string {
	minutes := int(seconds) / 60
	return fmt.Sprintf("%02d:%04.1f", minutes, seconds-float64(minutes*60))
}
