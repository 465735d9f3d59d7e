package host

import (
	"math"
	"sync"

	"github.com/nerrad567/gray-logic-wires/internal/wires"
)

// Position is a point on the floor plan.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between p and o.
func (p Position) Distance(o Position) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Operator is a person acting on boards. It implements wires.Actor.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Operator struct {
	name string

	mu       sync.RWMutex
	hands    bool
	position Position
	tool     *Tool
}

// NewOperator creates an operator. tool may be nil for empty hands.
func NewOperator(name string, hands bool, pos Position, tool *Tool) *Operator {
	return &Operator{name: name, hands: hands, position: pos, tool: tool}
}

// Name returns the operator's name.
func (o *Operator) Name() string {
	return o.name
}

// HasManipulator reports whether the operator has hands to work with.
func (o *Operator) HasManipulator() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.hands
}

// ActiveTool returns the held tool, or nil when the operator holds nothing.
func (o *Operator) ActiveTool() wires.Tool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.tool == nil {
		return nil
	}
	return o.tool
}

// Tool returns the held tool, or nil.
func (o *Operator) Tool() *Tool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.tool
}

// SetTool puts t in the operator's hand. nil empties it.
func (o *Operator) SetTool(t *Tool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tool = t
}

// Position returns where the operator stands.
func (o *Operator) Position() Position {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.position
}

// MoveTo moves the operator.
func (o *Operator) MoveTo(p Position) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.position = p
}

// OperatorView is the JSON form of an operator.
type OperatorView struct {
	Name     string   `json:"name"`
	Hands    bool     `json:"hands"`
	Position Position `json:"position"`
	Tool     string   `json:"tool,omitempty"`
}

// View returns the operator's current state.
func (o *Operator) View() OperatorView {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v := OperatorView{Name: o.name, Hands: o.hands, Position: o.position}
	if o.tool != nil {
		v.Tool = o.tool.kind
	}
	return v
}

var _ wires.Actor = (*Operator)(nil)
