package core

import (
	"math"
	"testing"
)

func TestSpawnDefenseWingGating(t *testing.T) {
	tests := []struct {
		name          string
		score         int
		expected      WingAction
		expectedScore int
	}{
		{"Below cost", WingCost - 1, WingRejected, WingCost - 1},
		{"Exact cost", WingCost, WingSpawned, 0},
		{"Above cost", WingCost + 250, WingSpawned, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.InitialScore = tt.score
			w := NewWorld(opts)

			action := w.SpawnDefenseWing(Vec2{X: 500, Y: 500})
			if action != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, action)
			}
			if w.Score() != tt.expectedScore {
				t.Errorf("Expected score %d, got %d", tt.expectedScore, w.Score())
			}
			if tt.expected == WingRejected && w.Wing() != nil {
				t.Error("Expected no formation after rejection")
			}
		})
	}
}

func TestDefenseWingFormation(t *testing.T) {
	opts := testOptions()
	opts.InitialScore = WingCost
	w := NewWorld(opts)
	point := Vec2{X: 800, Y: 400}

	w.SpawnDefenseWing(point)
	f := w.Wing()
	if f == nil || !f.Active {
		t.Fatal("Expected an active formation")
	}

	expected := []Vec2{{X: 800, Y: 400}, {X: 740, Y: 460}, {X: 860, Y: 460}}
	for i, a := range f.Aircraft {
		if a.Position != expected[i] {
			t.Errorf("Expected aircraft %d at %v, got %v", i, expected[i], a.Position)
		}
		if a.Fuel != InitialFuel {
			t.Errorf("Expected fuel %f, got %f", InitialFuel, a.Fuel)
		}
		if a.State != WingPatrolling {
			t.Errorf("Expected PATROLLING, got %s", a.State)
		}
	}
	if math.Abs(f.Aircraft[0].CruiseSpeed-FlyingSpeed*1.1) > 1e-12 {
		t.Errorf("Expected cruise speed 10%% above raider speed, got %f", f.Aircraft[0].CruiseSpeed)
	}
	if math.Abs(f.Aircraft[0].FiringSpeed-CruiseSpeed*0.9) > 1e-12 {
		t.Errorf("Expected firing speed 10%% below cruise, got %f", f.Aircraft[0].FiringSpeed)
	}
}

func TestDefenseWingRelocationIsFree(t *testing.T) {
	opts := testOptions()
	opts.InitialScore = WingCost
	w := NewWorld(opts)

	w.SpawnDefenseWing(Vec2{X: 400, Y: 400})
	first := w.Wing()

	newCenter := Vec2{X: 1400, Y: 400}
	if action := w.SpawnDefenseWing(newCenter); action != WingRelocated {
		t.Fatalf("Expected relocation, got %s", action)
	}
	if w.Wing() != first {
		t.Error("Expected relocation to keep the same formation")
	}
	if w.Score() != 0 {
		t.Errorf("Expected relocation to cost nothing, got score %d", w.Score())
	}

	for i := 0; i < 2000 && first.Transitioning; i++ {
		w.Tick(testDT)
	}
	if first.Center != newCenter {
		t.Errorf("Expected center to settle at %v, got %v", newCenter, first.Center)
	}
}

func TestPatrolCenterEasesTowardTarget(t *testing.T) {
	f := &Formation{
		Center:         Vec2{X: 0, Y: 0},
		TargetCenter:   Vec2{X: 100, Y: 0},
		PatrolRadius:   PatrolRadius,
		TransitionRate: centerTransition,
	}

	f.updatePatrol(1, true)
	if math.Abs(f.Center.X-1.2) > 1e-9 {
		t.Errorf("Expected center to advance 1.2 units, got %f", f.Center.X)
	}
	if !f.Transitioning {
		t.Error("Expected formation to be transitioning")
	}
	expected := f.Center.Add(Vec2{X: PatrolRadius * math.Cos(patrolAngleStep), Y: PatrolRadius * math.Sin(patrolAngleStep)})
	if f.PatrolPoint.DistanceTo(expected) > 1e-9 {
		t.Errorf("Expected patrol point %v, got %v", expected, f.PatrolPoint)
	}

	f.updatePatrol(1, false)
	if f.PatrolPoint != f.Center {
		t.Errorf("Expected patrol point at center without circular orbiting, got %v", f.PatrolPoint)
	}
}

func TestDefenseWingRefuelsTogetherAndTearsDown(t *testing.T) {
	opts := testOptions()
	opts.InitialScore = WingCost
	w := NewWorld(opts)
	w.SpawnDefenseWing(Vec2{X: 960, Y: 540})
	f := w.Wing()

	f.Aircraft[0].Fuel = 0.001
	f.Aircraft[1].Fuel = 5
	f.Aircraft[2].Fuel = 0.001
	w.Tick(testDT)
	for _, a := range f.Aircraft {
		if a.State == WingRefueling {
			t.Fatal("Expected no refueling while one aircraft still has fuel")
		}
	}

	f.Aircraft[1].Fuel = 0.001
	w.Tick(testDT)
	for i, a := range f.Aircraft {
		if a.State != WingRefueling {
			t.Errorf("Expected aircraft %d REFUELING, got %s", i, a.State)
		}
		if a.Fuel != 0 {
			t.Errorf("Expected fuel clamped at 0, got %f", a.Fuel)
		}
	}

	for i := 0; i < 2000 && w.Wing() != nil; i++ {
		w.Tick(testDT)
	}
	if w.Wing() != nil {
		t.Fatal("Expected formation to be torn down once off screen")
	}
	if f.Active {
		t.Error("Expected released formation to be inactive")
	}

	w.score = WingCost
	if action := w.SpawnDefenseWing(Vec2{X: 100, Y: 100}); action != WingSpawned {
		t.Errorf("Expected a fresh wing after teardown, got %s", action)
	}
}

func TestWingEngagesAndKillsRaider(t *testing.T) {
	opts := testOptions()
	opts.InitialScore = WingCost
	w := NewWorld(opts)
	w.SpawnDefenseWing(Vec2{X: 400, Y: 400})
	r := placeRaider(w, Vec2{X: 700, Y: 400})

	w.Tick(testDT)
	for i, a := range w.Wing().Aircraft {
		if a.State != WingEngaging || a.Target != r.ID {
			t.Errorf("Expected aircraft %d engaging the raider, got %s", i, a.State)
		}
	}

	killed := runUntil(w, 600, func() bool { return r.State == RaiderShotDown })
	if !killed {
		t.Fatalf("Expected the wing to shoot the raider down, state %s", r.State)
	}
	if s := w.Stats(); s.WingKills != 1 {
		t.Errorf("Expected 1 wing kill, got %d", s.WingKills)
	}
	if w.Score() != KillScore(InitialBombs) {
		t.Errorf("Expected score %d, got %d", KillScore(InitialBombs), w.Score())
	}

	w.Tick(testDT)
	for i, a := range w.Wing().Aircraft {
		if a.State != WingPatrolling {
			t.Errorf("Expected aircraft %d back on patrol, got %s", i, a.State)
		}
	}
}

func TestCircularOrbitingToggle(t *testing.T) {
	tests := []struct {
		name           string
		circular       bool
		expectedRadius float64
	}{
		{"Circular patrol", true, PatrolRadius},
		{"Hold at center", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.InitialScore = WingCost
			opts.Behavior.CircularOrbiting = tt.circular
			w := NewWorld(opts)
			w.SpawnDefenseWing(Vec2{X: 960, Y: 540})

			for i := 0; i < 30; i++ {
				w.Tick(testDT)
				f := w.Wing()
				if d := f.PatrolPoint.DistanceTo(f.Center); math.Abs(d-tt.expectedRadius) > 1e-9 {
					t.Fatalf("tick %d: expected patrol point %.0f from center, got %f", i, tt.expectedRadius, d)
				}
			}
		})
	}
}

func TestSpeedMultiplierScalesWing(t *testing.T) {
	for _, m := range []float64{0.5, 1, 3} {
		opts := testOptions()
		opts.InitialScore = WingCost
		opts.SpeedMultiplier = m
		w := NewWorld(opts)
		w.SpawnDefenseWing(Vec2{X: 960, Y: 540})

		for i, a := range w.Wing().Aircraft {
			if math.Abs(a.CruiseSpeed-CruiseSpeed*m) > 1e-12 {
				t.Errorf("x%.1f: expected aircraft %d cruise %f, got %f", m, i, CruiseSpeed*m, a.CruiseSpeed)
			}
			if math.Abs(a.FiringSpeed-FiringSpeed*m) > 1e-12 {
				t.Errorf("x%.1f: expected aircraft %d firing %f, got %f", m, i, FiringSpeed*m, a.FiringSpeed)
			}
		}
	}
}
