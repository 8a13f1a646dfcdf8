package core

import "testing"

func TestKillScore(t *testing.T) {
	tests := []struct {
		bombs    int
		expected int
	}{
		{0, 10},
		{1, 20},
		{2, 30},
		{3, 40},
		{-1, 10},
	}

	for _, tt := range tests {
		if got := KillScore(tt.bombs); got != tt.expected {
			t.Errorf("KillScore(%d): expected %d, got %d", tt.bombs, tt.expected, got)
		}
	}
}

func TestTrySpendLeavesScoreOnFailure(t *testing.T) {
	opts := testOptions()
	opts.InitialScore = 999
	w := NewWorld(opts)

	if w.trySpend(WingCost) {
		t.Error("Expected spend to fail below cost")
	}
	if w.Score() != 999 || w.Stats().ScoreSpent != 0 {
		t.Errorf("Expected untouched score, got %d spent %d", w.Score(), w.Stats().ScoreSpent)
	}
}

func TestBombDetonatesAfterDescent(t *testing.T) {
	w := NewWorld(testOptions())
	r := placeRaider(w, Vec2{X: 960, Y: 540})
	b := w.createBomb(r)

	w.now = BombDescentDuration - 0.01
	w.updateBombs()
	if b.Exploded {
		t.Fatal("Expected bomb to still be falling")
	}

	w.now = BombDescentDuration
	w.updateBombs()
	if !b.Exploded || !b.Playing {
		t.Fatal("Expected bomb to detonate after its descent")
	}

	for i := 0; i < w.opts.ExplosionFrames*explosionFrameInterval; i++ {
		w.advanceAnimations(testDT)
	}
	if b.Playing {
		t.Error("Expected explosion animation to finish")
	}
	if b.Frame != w.opts.ExplosionFrames-1 {
		t.Errorf("Expected animation to hold the last frame, got %d", b.Frame)
	}

	w.cleanup()
	if len(w.Bombs()) != 0 {
		t.Errorf("Expected finished bomb to be removed, got %d", len(w.Bombs()))
	}
}

func TestClearingAreaTransitions(t *testing.T) {
	tests := []struct {
		name     string
		holding  bool
		bombs    int
		expected RaiderState
	}{
		{"Holding enabled with bombs", true, 2, RaiderHoldingPattern},
		{"Holding disabled with bombs", false, 2, RaiderTargeting},
		{"Out of bombs", true, 0, RaiderEscaping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.Behavior.HoldingPatterns = tt.holding
			w := NewWorld(opts)
			r := placeRaider(w, Vec2{X: 900, Y: 500})
			r.State = RaiderClearingArea
			r.BombsRemaining = tt.bombs
			w.now = ClearingDuration

			w.updateRaider(r, 1)
			if r.State != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, r.State)
			}
		})
	}
}
