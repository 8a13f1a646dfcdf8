package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
)

// captureOutput points the global logger at a buffer for the test
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetNoColor(true)
	SetLevel(InfoLevel)
	t.Cleanup(func() {
		SetOutput(color.Output)
		SetNoColor(false)
	})
	return &buf
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(Config{Level: WarnLevel, Writer: &buf, NoColor: true})

	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected info message to be filtered, got %q", out)
	}
	if !strings.Contains(out, "WARN  shown") {
		t.Errorf("Expected warn message, got %q", out)
	}
}

func TestLoggerFieldsAndPrefix(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithConfig(Config{Level: DebugLevel, Writer: &buf, NoColor: true})

	child := base.WithPrefix("feed").WithFields(map[string]interface{}{"b": 2, "a": 1})
	child.Debugf("client %s", "joined")

	expected := "DEBUG [feed] a=1 b=2 client joined\n"
	if got := buf.String(); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}

	buf.Reset()
	base.Info("plain")
	if got := buf.String(); got != "INFO  plain\n" {
		t.Errorf("Expected parent logger without fields, got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"fatal", FatalLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q): expected %d, got %d", tt.input, tt.expected, got)
		}
	}
}

func TestTableAlignment(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable("Name", "Score")
	table.AddRow("wing", "1000")
	table.AddRow("tower", "40")
	table.Fprint(&buf)

	expected := "Name   Score\n-----  -----\nwing   1000\ntower  40\n"
	if got := buf.String(); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestHelpers(t *testing.T) {
	buf := captureOutput(t)

	LogSubSection("Session")
	LogKeyValue("Ticks", 180)
	LogList("Artifacts:", []string{"report.json", "session.airraid"})
	Progressf("Fast-forwarded %ds", 30)
	Networkf("Feed serving %s", ":8080")

	out := buf.String()
	for _, want := range []string{
		strings.Repeat("-", 40) + "\nSession\n",
		"Ticks: 180\n",
		"  " + IconDot + " report.json\n",
		"  " + IconDot + " session.airraid\n",
		IconRefresh + " Fast-forwarded 30s",
		IconNetwork + " Feed serving :8080",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output, got %q", want, out)
		}
	}
}

func TestWithSpinner(t *testing.T) {
	buf := captureOutput(t)

	if err := WithSpinner("Saving report", func() error { return nil }); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "Saving report completed") {
		t.Errorf("Expected success line, got %q", buf.String())
	}

	buf.Reset()
	boom := errors.New("disk full")
	if err := WithSpinner("Saving report", func() error { return boom }); err != boom {
		t.Fatalf("Expected fn error to be returned, got %v", err)
	}
	if !strings.Contains(buf.String(), "Saving report failed: disk full") {
		t.Errorf("Expected failure line, got %q", buf.String())
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureOutput(t)

	s := NewSpinner("working")
	s.Stop()
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}
