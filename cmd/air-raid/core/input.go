package core

import "sync"

// Button identifies the pointer button of a click
type Button string

const (
	ButtonPrimary   Button = "primary"
	ButtonSecondary Button = "secondary"
)

// Input is one discrete click delivered by an input collaborator
type Input struct {
	Button Button `json:"button" msgpack:"button"`
	Point  Vec2   `json:"point" msgpack:"point"`
	Ctrl   bool   `json:"ctrl" msgpack:"ctrl"`
	Shift  bool   `json:"shift" msgpack:"shift"`
}

// Command is the simulation action an input maps to
type Command int

const (
	CommandSpawnRaider Command = iota
	CommandPlaceTower
	CommandSpawnWing
)

// Command applies the fixed modifier mapping. Modifiers only change the
// meaning of a primary click.
func (in Input) Command() Command {
	if in.Button == ButtonPrimary {
		switch {
		case in.Ctrl:
			return CommandPlaceTower
		case in.Shift:
			return CommandSpawnWing
		}
	}
	return CommandSpawnRaider
}

// DefaultQueueLimit bounds the number of inputs buffered between ticks
const DefaultQueueLimit = 256

// InputQueue buffers inputs from any goroutine until the tick owner drains
// them at a tick boundary.
type InputQueue struct {
	mu      sync.Mutex
	pending []Input
	limit   int
	dropped int
}

// NewInputQueue creates a queue holding at most limit pending inputs
func NewInputQueue(limit int) *InputQueue {
	if limit <= 0 {
		limit = DefaultQueueLimit
	}
	return &InputQueue{limit: limit}
}

// Push enqueues an input. It returns false when the queue is full.
func (q *InputQueue) Push(in Input) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) >= q.limit {
		q.dropped++
		return false
	}
	q.pending = append(q.pending, in)
	return true
}

// Drain removes and returns all pending inputs in arrival order
func (q *InputQueue) Drain() []Input {
	q.mu.Lock()
	defer q.mu.Unlock()

	inputs := q.pending
	q.pending = nil
	return inputs
}

// Len returns the number of pending inputs
func (q *InputQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Dropped returns how many inputs were refused because the queue was full
func (q *InputQueue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
