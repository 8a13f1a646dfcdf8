package core

import "github.com/google/uuid"

const (
	// WingCost is the score deducted to launch a defense wing
	WingCost = 1000

	killBaseScore    = 10
	killScorePerBomb = 10
)

// KillScore returns the points for shooting down a raider still carrying
// bombsRemaining bombs.
func KillScore(bombsRemaining int) int {
	if bombsRemaining < 0 {
		bombsRemaining = 0
	}
	return killBaseScore + killScorePerBomb*bombsRemaining
}

// Stats tracks cumulative session counters
type Stats struct {
	RaidersSpawned int `json:"raiders_spawned" msgpack:"raiders_spawned"`
	RaidersKilled  int `json:"raiders_killed" msgpack:"raiders_killed"`
	RaidersEscaped int `json:"raiders_escaped" msgpack:"raiders_escaped"`
	BombsDropped   int `json:"bombs_dropped" msgpack:"bombs_dropped"`
	TowerKills     int `json:"tower_kills" msgpack:"tower_kills"`
	WingKills      int `json:"wing_kills" msgpack:"wing_kills"`
	WingsLaunched  int `json:"wings_launched" msgpack:"wings_launched"`
	ScoreEarned    int `json:"score_earned" msgpack:"score_earned"`
	ScoreSpent     int `json:"score_spent" msgpack:"score_spent"`
}

// awardKill shoots the raider down and credits the kill score
func (w *World) awardKill(r *Raider, source KillSource, sourceID uuid.UUID) {
	points := KillScore(r.BombsRemaining)
	w.shootDown(r)
	w.score += points

	w.stats.RaidersKilled++
	w.stats.ScoreEarned += points
	switch source {
	case KillByTower:
		w.stats.TowerKills++
	case KillByWing:
		w.stats.WingKills++
	}

	w.spawnExplosion(r.Position)
	w.emit(Event{
		Type:     EventRaiderKilled,
		EntityID: r.ID,
		SourceID: sourceID,
		Position: r.Position,
		Source:   source,
		Points:   points,
	})
}

// trySpend deducts cost when the balance covers it
func (w *World) trySpend(cost int) bool {
	if w.score < cost {
		return false
	}
	w.score -= cost
	w.stats.ScoreSpent += cost
	return true
}
