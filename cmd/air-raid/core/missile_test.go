package core

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestMissileHomesOnMovingTarget(t *testing.T) {
	w := NewWorld(testOptions())
	r := placeRaider(w, Vec2{X: 1500, Y: 300})
	m := w.launchMissile(uuid.New(), Vec2{X: 1100, Y: 800}, r)

	for i := 0; i < 100 && !m.Retired; i++ {
		before := m.Position
		w.Tick(testDT)
		if m.Retired {
			break
		}

		expected := r.Position.Sub(before).Normalize()
		got := m.Velocity.Normalize()
		if got.DistanceTo(expected) > 1e-9 {
			t.Fatalf("tick %d: expected heading %v toward target, got %v", i, expected, got)
		}
		if math.Abs(m.Velocity.Len()-MissileSpeed) > 1e-9 {
			t.Fatalf("tick %d: expected speed %f, got %f", i, MissileSpeed, m.Velocity.Len())
		}
	}

	if r.State != RaiderShotDown {
		t.Fatalf("Expected missile to shoot the raider down, got %s", r.State)
	}
	if s := w.Stats(); s.WingKills != 1 {
		t.Errorf("Expected 1 wing kill, got %d", s.WingKills)
	}
}

func TestMissileRetiredWhenTargetInvalid(t *testing.T) {
	w := NewWorld(testOptions())
	r := placeRaider(w, Vec2{X: 900, Y: 300})
	m := w.launchMissile(uuid.New(), Vec2{X: 100, Y: 300}, r)

	r.State = RaiderEscaping
	w.updateMissiles(testDT)

	if !m.Retired {
		t.Error("Expected missile to retire once its target escapes")
	}
	if m.Position != m.Start {
		t.Errorf("Expected retired missile not to advance, got %v", m.Position)
	}
}

func TestMissileSpentBeyondRange(t *testing.T) {
	tests := []struct {
		name     string
		position Vec2
		retired  bool
		expected bool
	}{
		{"Inside range", Vec2{X: MissileRange - 1}, false, false},
		{"Beyond range", Vec2{X: MissileRange + 0.5}, false, true},
		{"Curved chase back near launch", Vec2{X: 300, Y: 300}, false, false},
		{"Retired", Vec2{}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Missile{Start: Vec2{}, Position: tt.position, Retired: tt.retired}
			if got := m.spent(); got != tt.expected {
				t.Errorf("Expected spent=%t, got %t", tt.expected, got)
			}
		})
	}
}

func TestMissileLongChaseStaysLive(t *testing.T) {
	w := NewWorld(testOptions())
	r := placeRaider(w, Vec2{X: 600, Y: 0})
	m := w.launchMissile(uuid.New(), Vec2{X: 0, Y: 0}, r)

	// The raider circles around the launch point, so the missile's path
	// grows well past its range while it stays close to where it started.
	for i := 0; i < 80 && !m.Retired; i++ {
		angle := float64(i) * 0.2
		r.Position = Vec2{X: 600 * math.Cos(angle), Y: 600 * math.Sin(angle)}
		w.updateMissiles(testDT)
		if m.spent() && !m.Retired {
			t.Fatalf("tick %d: missile %v expired within range of launch", i, m.Position)
		}
	}
}

func TestMissileLandsOnCloseTarget(t *testing.T) {
	w := NewWorld(testOptions())
	r := placeRaider(w, Vec2{X: 500, Y: 500})
	m := w.launchMissile(uuid.New(), Vec2{X: 520, Y: 520}, r)

	w.updateMissiles(testDT)
	if !m.Retired {
		t.Error("Expected missile to hit a target closer than one step")
	}
	if m.Position != r.Position {
		t.Errorf("Expected missile to stop on the target, got %v", m.Position)
	}
}
