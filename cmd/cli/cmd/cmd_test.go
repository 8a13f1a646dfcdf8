package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/picogrid/air-raid-simulation/cmd/air-raid/core"
	"github.com/picogrid/air-raid-simulation/pkg/replay"
	"github.com/picogrid/air-raid-simulation/pkg/simulation"
)

func TestListShowsRegisteredSimulation(t *testing.T) {
	var buf bytes.Buffer
	if err := writeManifests(&buf, simulation.DefaultRegistry.Manifests(), true); err != nil {
		t.Fatalf("Failed to write manifests: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Air Raid Defense") {
		t.Errorf("Expected Air Raid Defense in listing, got %q", out)
	}
	if !strings.Contains(out, "record_replay") {
		t.Errorf("Expected parameters in listing, got %q", out)
	}
}

func TestFetchStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(core.Status{Score: 1250, Raiders: 3, Towers: 2, MaxTowers: 4, WingActive: true})
	}))
	defer srv.Close()

	status, err := fetchStatus(strings.TrimPrefix(srv.URL, "http://"), time.Second)
	if err != nil {
		t.Fatalf("Failed to fetch status: %v", err)
	}
	if status.Score != 1250 || status.Raiders != 3 {
		t.Errorf("Expected score 1250 with 3 raiders, got %+v", status)
	}

	var buf bytes.Buffer
	writeStatusTable(&buf, status)
	if !strings.Contains(buf.String(), "2/4") || !strings.Contains(buf.String(), "active") {
		t.Errorf("Expected towers and wing rows, got %q", buf.String())
	}
}

func TestFetchStatusRejectsErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := fetchStatus(srv.URL, time.Second); err == nil {
		t.Error("Expected error for failing server")
	}
}

func TestReplayInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.airraid")
	rec, err := replay.Create(path, replay.Header{Seed: 11, Width: 1920, Height: 1080, TickRate: 60})
	if err != nil {
		t.Fatalf("Failed to create replay: %v", err)
	}
	for i := uint64(1); i <= 5; i++ {
		if err := rec.Record(i, float64(i)/60, int(i)*10, 1, core.Snapshot{Tick: i}); err != nil {
			t.Fatalf("Failed to record: %v", err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	var buf bytes.Buffer
	replayInspectCmd.SetOut(&buf)
	if err := replayInspectCmd.RunE(replayInspectCmd, []string{path}); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "1920x1080") || !strings.Contains(out, "Final score") {
		t.Errorf("Expected replay summary, got %q", out)
	}
}
