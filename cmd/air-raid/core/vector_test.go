package core

import (
	"math"
	"testing"
)

func TestWrapDegrees(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{0, 0},
		{180, 180},
		{-180, 180},
		{190, -170},
		{-190, 170},
		{540, 180},
		{725, 5},
	}

	for _, tt := range tests {
		if got := wrapDegrees(tt.in); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("wrapDegrees(%f): expected %f, got %f", tt.in, tt.expected, got)
		}
	}
}

func TestEaseAngleTakesShortestPath(t *testing.T) {
	got := easeAngle(170, -170, 0.5)
	if math.Abs(got-180) > 1e-9 {
		t.Errorf("Expected easing across 180 to land on 180, got %f", got)
	}

	got = easeAngle(-10, 10, angleBlendRate)
	if math.Abs(got-(-7)) > 1e-9 {
		t.Errorf("Expected -7, got %f", got)
	}
}

func TestEaseSpeed(t *testing.T) {
	if got := easeSpeed(0, 1); math.Abs(got-speedBlendRate) > 1e-12 {
		t.Errorf("Expected %f, got %f", speedBlendRate, got)
	}
	if got := easeSpeed(0.9995, 1); got != 1 {
		t.Errorf("Expected snap to target, got %f", got)
	}
}

func TestStepToward(t *testing.T) {
	got := stepToward(Vec2{}, Vec2{X: 10}, 3, 5)
	if got != (Vec2{X: 3}) {
		t.Errorf("Expected (3,0), got %v", got)
	}

	got = stepToward(Vec2{X: 6}, Vec2{X: 10}, 3, 5)
	if got != (Vec2{X: 6}) {
		t.Errorf("Expected no movement within stop distance, got %v", got)
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := (Vec2{}).Normalize(); got != (Vec2{}) {
		t.Errorf("Expected zero vector, got %v", got)
	}
	if l := (Vec2{X: 3, Y: 4}).Normalize().Len(); math.Abs(l-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", l)
	}
}

func TestExitDirection(t *testing.T) {
	w := NewWorld(testOptions())

	tests := []struct {
		name     string
		pos      Vec2
		expected Vec2
	}{
		{"Near left", Vec2{X: 10, Y: 500}, Vec2{X: -1}},
		{"Near right", Vec2{X: 1900, Y: 500}, Vec2{X: 1}},
		{"Near top", Vec2{X: 900, Y: 15}, Vec2{Y: -1}},
		{"Near bottom", Vec2{X: 900, Y: 1070}, Vec2{Y: 1}},
		{"Corner tie prefers left", Vec2{X: 20, Y: 20}, Vec2{X: -1}},
		{"Past the left edge", Vec2{X: -60, Y: 500}, Vec2{X: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.exitDirection(tt.pos); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSegmentDistance(t *testing.T) {
	tests := []struct {
		name     string
		point    Vec2
		a, b     Vec2
		expected float64
	}{
		{"Inside span", Vec2{X: 5, Y: 3}, Vec2{}, Vec2{X: 10}, 3},
		{"Before start", Vec2{X: -4, Y: 3}, Vec2{}, Vec2{X: 10}, 5},
		{"Past end", Vec2{X: 13, Y: 4}, Vec2{}, Vec2{X: 10}, 5},
		{"Degenerate segment", Vec2{X: 3, Y: 4}, Vec2{}, Vec2{}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.point.SegmentDistance(tt.a, tt.b); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}
