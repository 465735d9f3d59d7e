package wires

// Provider is a subsystem that contributes wires to a board and reacts to
// actions performed on them.
type Provider interface {
	// RegisterWires is called exactly once during Startup.
	RegisterWires(b *Builder)

	// WiresUpdate is called after a successful action on one of the
	// provider's wires, once the new state has been pushed to observers.
	WiresUpdate(ev UpdateEvent)
}

// UpdateEvent tells a provider which of its wires was acted on.
type UpdateEvent struct {
	Board  *Board
	Key    Key
	Action Action
}

// Actor is whoever performs an interaction.
type Actor interface {
	Name() string

	// HasManipulator reports whether the actor can physically interact at all.
	HasManipulator() bool

	// ActiveTool returns the tool in the actor's active hand, or nil.
	ActiveTool() Tool
}

// Tool is a held item with capabilities.
type Tool interface {
	Has(c Capability) bool

	// UseCue is the sound played when the tool is used on a wire.
	UseCue() Cue
}

// Feedback is a message key shown to an actor. Text and localisation
// belong to the host.
type Feedback string

// Feedback keys emitted by boards.
const (
	FeedbackNone          Feedback = ""
	FeedbackNoHands       Feedback = "wires-no-hands"
	FeedbackCantReach     Feedback = "wires-cant-reach"
	FeedbackNeedCutter    Feedback = "wires-need-wirecutter"
	FeedbackNeedMultitool Feedback = "wires-need-multitool"
	FeedbackPulseCutWire  Feedback = "wires-cant-pulse-cut-wire"
	FeedbackPanelOpen     Feedback = "wires-panel-open"
	FeedbackPanelClosed   Feedback = "wires-panel-closed"
)

// Cue is an audio cue played at a board.
type Cue string

// Cues played by boards themselves. Tool use cues come from the Tool.
const (
	CuePanelOpen  Cue = "screwdriver_open"
	CuePanelClose Cue = "screwdriver_close"
	CuePulse      Cue = "multitool_pulse"
)

// Notifier shows feedback to an actor.
type Notifier interface {
	Notify(boardID string, actor Actor, fb Feedback)
}

// CueSink plays audio cues. Implementations must not block the caller.
type CueSink interface {
	PlayCue(boardID string, cue Cue)
}

// Observer receives every snapshot a board pushes. Push is called with
// the board's push lock held and must not call mutating board methods.
type Observer interface {
	Push(s Snapshot)
}

// RangeChecker decides whether an actor can reach a board unobstructed.
type RangeChecker interface {
	InRangeUnobstructed(boardID string, actor Actor) bool
}

// AppearanceSink receives the maintenance panel overlay state.
type AppearanceSink interface {
	SetPanelShown(boardID string, shown bool)
}

// ActionRecorder receives the outcome of every wire action.
type ActionRecorder interface {
	RecordAction(boardID string, action Action, res Result)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s Snapshot)

// Push calls f(s).
func (f ObserverFunc) Push(s Snapshot) { f(s) }

// Hooks bundles a board's collaborators. Nil members are replaced by
// no-op implementations, except Reach which defaults to always in range.
type Hooks struct {
	Notifier   Notifier
	Cues       CueSink
	Observer   Observer
	Reach      RangeChecker
	Appearance AppearanceSink
	Recorder   ActionRecorder
}

type noopHooks struct{}

func (noopHooks) Notify(string, Actor, Feedback)         {}
func (noopHooks) PlayCue(string, Cue)                    {}
func (noopHooks) Push(Snapshot)                          {}
func (noopHooks) InRangeUnobstructed(string, Actor) bool { return true }
func (noopHooks) SetPanelShown(string, bool)             {}
func (noopHooks) RecordAction(string, Action, Result)    {}

func (h Hooks) withDefaults() Hooks {
	var n noopHooks
	if h.Notifier == nil {
		h.Notifier = n
	}
	if h.Cues == nil {
		h.Cues = n
	}
	if h.Observer == nil {
		h.Observer = n
	}
	if h.Reach == nil {
		h.Reach = n
	}
	if h.Appearance == nil {
		h.Appearance = n
	}
	if h.Recorder == nil {
		h.Recorder = n
	}
	return h
}
