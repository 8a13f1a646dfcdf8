package core

import (
	"fmt"
	"math"
)

// SpriteKind identifies what a sprite depicts
type SpriteKind string

const (
	SpriteRaider    SpriteKind = "raider"
	SpriteBomb      SpriteKind = "bomb"
	SpriteTower     SpriteKind = "tower"
	SpriteFlak      SpriteKind = "flak"
	SpriteAircraft  SpriteKind = "wing_aircraft"
	SpriteMissile   SpriteKind = "missile"
	SpriteExplosion SpriteKind = "explosion"
)

// Sprite is the render-facing view of one visible entity
type Sprite struct {
	Kind  SpriteKind `json:"kind" msgpack:"k"`
	ID    string     `json:"id" msgpack:"id"`
	X     float64    `json:"x" msgpack:"x"`
	Y     float64    `json:"y" msgpack:"y"`
	Angle float64    `json:"angle" msgpack:"a"`
	Frame int        `json:"frame" msgpack:"f"`
	State string     `json:"state,omitempty" msgpack:"s,omitempty"`
}

// Snapshot is a read-only copy of everything a renderer needs for one frame
type Snapshot struct {
	Tick    uint64   `json:"tick" msgpack:"tick"`
	Time    float64  `json:"time" msgpack:"time"`
	Width   float64  `json:"width" msgpack:"w"`
	Height  float64  `json:"height" msgpack:"h"`
	Sprites []Sprite `json:"sprites" msgpack:"sprites"`
	Status  Status   `json:"status" msgpack:"status"`
}

// Status is the read-only summary shown by a status surface
type Status struct {
	Score         int     `json:"score" msgpack:"score"`
	Raiders       int     `json:"raiders" msgpack:"raiders"`
	Towers        int     `json:"towers" msgpack:"towers"`
	MaxTowers     int     `json:"max_towers" msgpack:"max_towers"`
	WingActive    bool    `json:"wing_active" msgpack:"wing_active"`
	WingRefueling bool    `json:"wing_refueling" msgpack:"wing_refueling"`
	SpawnCooldown float64 `json:"spawn_cooldown" msgpack:"spawn_cooldown"`
	SimTime       float64 `json:"sim_time" msgpack:"sim_time"`
	AutoStart     bool    `json:"auto_start" msgpack:"auto_start"`
}

// String renders the status line used by tray-style displays
func (s Status) String() string {
	return fmt.Sprintf("Score: %d | Aircraft: %d | Towers: %d/%d | Cooldown: %.1fs",
		s.Score, s.Raiders, s.Towers, s.MaxTowers, s.SpawnCooldown)
}

// Status returns the current status summary
func (w *World) Status() Status {
	remaining := w.opts.SpawnCooldown - (w.now - w.lastSpawn)
	if remaining < 0 || math.IsInf(remaining, 0) || math.IsNaN(remaining) {
		remaining = 0
	}

	s := Status{
		Score:         w.score,
		Raiders:       len(w.raiders),
		Towers:        len(w.towers),
		MaxTowers:     MaxTowers,
		SpawnCooldown: remaining,
		SimTime:       w.now,
		AutoStart:     w.opts.AutoStart,
	}
	if w.wing != nil && w.wing.Active {
		s.WingActive = true
		s.WingRefueling = w.wing.allRefueling()
	}
	return s
}

// Snapshot copies the visible state of every entity
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:   w.ticks,
		Time:   w.now,
		Width:  w.opts.Screen.X,
		Height: w.opts.Screen.Y,
		Status: w.Status(),
	}

	for _, t := range w.towers {
		snap.Sprites = append(snap.Sprites, Sprite{Kind: SpriteTower, ID: t.ID.String(), X: t.Position.X, Y: t.Position.Y})
	}
	for _, r := range w.raiders {
		if !r.Visible {
			continue
		}
		snap.Sprites = append(snap.Sprites, Sprite{
			Kind:  SpriteRaider,
			ID:    r.ID.String(),
			X:     r.Position.X,
			Y:     r.Position.Y,
			Angle: r.FlightAngle,
			Frame: r.FlyFrame,
			State: string(r.State),
		})
	}
	if w.wing != nil {
		for _, a := range w.wing.Aircraft {
			snap.Sprites = append(snap.Sprites, Sprite{
				Kind:  SpriteAircraft,
				ID:    a.ID.String(),
				X:     a.Position.X,
				Y:     a.Position.Y,
				Angle: a.FlightAngle,
				Frame: a.FlyFrame,
				State: string(a.State),
			})
		}
	}
	for _, f := range w.flak {
		if f.Retired {
			continue
		}
		snap.Sprites = append(snap.Sprites, Sprite{
			Kind:  SpriteFlak,
			ID:    f.ID.String(),
			X:     f.Position.X,
			Y:     f.Position.Y,
			Angle: headingDegrees(f.Velocity),
		})
	}
	for _, m := range w.missiles {
		if m.Retired {
			continue
		}
		snap.Sprites = append(snap.Sprites, Sprite{
			Kind:  SpriteMissile,
			ID:    m.ID.String(),
			X:     m.Position.X,
			Y:     m.Position.Y,
			Angle: headingDegrees(m.Velocity),
		})
	}
	for _, b := range w.bombs {
		if !b.Playing {
			continue
		}
		snap.Sprites = append(snap.Sprites, Sprite{Kind: SpriteBomb, ID: b.ID.String(), X: b.Position.X, Y: b.Position.Y, Frame: b.Frame})
	}
	for _, e := range w.explosions {
		snap.Sprites = append(snap.Sprites, Sprite{Kind: SpriteExplosion, ID: e.ID.String(), X: e.Position.X, Y: e.Position.Y, Frame: e.Frame})
	}
	return snap
}
