package host

import (
	"sync"

	"github.com/nerrad567/gray-logic-wires/internal/wires"
)

// positioned is satisfied by actors that stand somewhere.
type positioned interface {
	Position() Position
}

type placement struct {
	position   Position
	obstructed bool
}

// Reach decides whether an actor can reach a board. An actor is in reach
// when it stands within the interaction range of an unobstructed board.
// Actors without a position and unplaced boards are never in reach.
type Reach struct {
	limit float64

	mu     sync.RWMutex
	boards map[string]placement
}

// NewReach creates a range checker with the given interaction range.
func NewReach(limit float64) *Reach {
	return &Reach{limit: limit, boards: make(map[string]placement)}
}

// Place records where a board is and whether something blocks it.
func (r *Reach) Place(boardID string, pos Position, obstructed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boards[boardID] = placement{position: pos, obstructed: obstructed}
}

// SetObstructed blocks or clears access to a placed board. It reports
// false if the board was never placed.
func (r *Reach) SetObstructed(boardID string, obstructed bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.boards[boardID]
	if !ok {
		return false
	}
	p.obstructed = obstructed
	r.boards[boardID] = p
	return true
}

// Obstructed reports whether access to a board is blocked.
func (r *Reach) Obstructed(boardID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.boards[boardID].obstructed
}

// InRangeUnobstructed implements wires.RangeChecker.
func (r *Reach) InRangeUnobstructed(boardID string, actor wires.Actor) bool {
	at, ok := actor.(positioned)
	if !ok {
		return false
	}

	r.mu.RLock()
	p, ok := r.boards[boardID]
	r.mu.RUnlock()
	if !ok || p.obstructed {
		return false
	}
	return at.Position().Distance(p.position) <= r.limit
}

var _ wires.RangeChecker = (*Reach)(nil)
