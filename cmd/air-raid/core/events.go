package core

import "github.com/google/uuid"

// EventType identifies something observable that happened during a tick
type EventType string

// Event types emitted by the world
const (
	EventRaiderSpawned  EventType = "raider_spawned"
	EventSpawnRejected  EventType = "spawn_rejected"
	EventRaiderState    EventType = "raider_state"
	EventRaiderKilled   EventType = "raider_killed"
	EventRaiderRemoved  EventType = "raider_removed"
	EventBombDropped    EventType = "bomb_dropped"
	EventBombDetonated  EventType = "bomb_detonated"
	EventTowerPlaced    EventType = "tower_placed"
	EventTowerEvicted   EventType = "tower_evicted"
	EventFlakFired      EventType = "flak_fired"
	EventMissileFired   EventType = "missile_fired"
	EventWingSpawned    EventType = "wing_spawned"
	EventWingRelocated  EventType = "wing_relocated"
	EventWingRejected   EventType = "wing_rejected"
	EventWingRefueling  EventType = "wing_refueling"
	EventWingReleased   EventType = "wing_released"
	EventAircraftEngage EventType = "aircraft_engaging"
)

// KillSource names the defense that destroyed a raider
type KillSource string

const (
	KillByTower KillSource = "tower"
	KillByWing  KillSource = "wing"
)

// Rejection reasons
const (
	ReasonCooldown         = "cooldown"
	ReasonSingleRaider     = "single_raider_mode"
	ReasonInsufficientFund = "insufficient_score"
	ReasonEscaped          = "escaped"
	ReasonShotDown         = "shot_down"
)

// Event is a record of one world occurrence
type Event struct {
	Type     EventType   `json:"type" msgpack:"type"`
	Time     float64     `json:"time" msgpack:"time"`
	EntityID uuid.UUID   `json:"entity_id" msgpack:"entity_id"`
	SourceID uuid.UUID   `json:"source_id,omitempty" msgpack:"source_id"`
	Position Vec2        `json:"position" msgpack:"position"`
	Source   KillSource  `json:"source,omitempty" msgpack:"source"`
	State    RaiderState `json:"state,omitempty" msgpack:"state"`
	Points   int         `json:"points,omitempty" msgpack:"points"`
	Reason   string      `json:"reason,omitempty" msgpack:"reason"`
}

func (w *World) emit(e Event) {
	e.Time = w.now
	w.events = append(w.events, e)
}

// DrainEvents returns the events emitted since the last drain
func (w *World) DrainEvents() []Event {
	events := w.events
	w.events = nil
	return events
}
