package wires

import (
	"context"
	"fmt"
	"sync"
)

// DefaultBoardName is used when a board is created without a name.
const DefaultBoardName = "Wires"

// BoardState holds the fields a host persists for a board.
// An empty SerialNumber and a zero WireSeed mean "not generated yet".
type BoardState struct {
	BoardName    string `json:"board_name" yaml:"board_name"`
	SerialNumber string `json:"serial_number,omitempty" yaml:"serial_number,omitempty"`
	WireSeed     uint64 `json:"wire_seed" yaml:"wire_seed"`
	LayoutID     string `json:"layout_id,omitempty" yaml:"layout_id,omitempty"`
}

// PanelState is the maintenance panel state. Visible can be forced off by
// other subsystems regardless of Open.
type PanelState struct {
	Open    bool `json:"open"`
	Visible bool `json:"visible"`
}

// Shown reports whether the panel overlay should be drawn.
func (p PanelState) Shown() bool {
	return p.Open && p.Visible
}

// Config configures a new Board.
type Config struct {
	// ID identifies the board to hooks and observers.
	ID string

	// State is the persisted state restored for this board.
	State BoardState

	// Rand is the random source. Required.
	Rand Rand

	// Layouts is the shared layout cache. When nil, or when State.LayoutID
	// is empty, appearance and order are randomised on every build.
	Layouts *LayoutCache

	Hooks Hooks
}

// Board is one device's wire panel: the wire registry, the interaction
// rules, the status board and the observer sync.
//
// Operations on a board are serialised: one interaction is validated and
// applied, observers are updated and the owning provider is notified
// before the next one starts. Providers may call SetStatus and the read
// accessors from WiresUpdate.
//
// All public methods are thread-safe.
type Board struct {
	id      string
	rnd     Rand
	layouts *LayoutCache
	hooks   Hooks
	logger  Logger

	// opMu serialises operations, pushMu serialises observer pushes and
	// mu guards the fields below. Lock order: opMu, pushMu, mu.
	opMu   sync.Mutex
	pushMu sync.Mutex
	mu     sync.RWMutex

	started  bool
	state    BoardState
	panel    PanelState
	wires    []*Wire
	statuses *StatusBoard
}

// NewBoard creates a board. Wires are registered by Startup.
func NewBoard(cfg Config) *Board {
	state := cfg.State
	if state.BoardName == "" {
		state.BoardName = DefaultBoardName
	}
	return &Board{
		id:       cfg.ID,
		rnd:      cfg.Rand,
		layouts:  cfg.Layouts,
		hooks:    cfg.Hooks.withDefaults(),
		logger:   noopLogger{},
		state:    state,
		panel:    PanelState{Visible: true},
		statuses: NewStatusBoard(),
	}
}

// SetLogger sets the logger for the board.
func (b *Board) SetLogger(logger Logger) {
	b.logger = logger
}

// ID returns the board id.
func (b *Board) ID() string {
	return b.id
}

// Startup asks every provider to register its wires, finalises the wire
// order and display ids, and pushes the first snapshot.
//
// It returns ErrDuplicateWire or ErrInvalidKey if a provider broke the
// registration contract, and an error if the layout cache could not be
// read. A failed Startup leaves the board unstarted.
func (b *Board) Startup(ctx context.Context, providers ...Provider) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	b.mu.RLock()
	started := b.started
	layoutID := b.state.LayoutID
	b.mu.RUnlock()
	if started {
		return ErrAlreadyStarted
	}

	var layout *Layout
	if layoutID != "" && b.layouts != nil {
		l, ok, err := b.layouts.Get(ctx, layoutID)
		if err != nil {
			return fmt.Errorf("resolving layout for board %s: %w", b.id, err)
		}
		if ok {
			layout = l
		}
	}

	reg := newRegistry(b.rnd)
	for _, p := range providers {
		p.RegisterWires(&Builder{reg: reg, owner: p, layout: layout})
	}
	if reg.err != nil {
		b.logger.Error("wire registration failed", "board_id", b.id, "error", reg.err)
		return fmt.Errorf("registering wires for board %s: %w", b.id, reg.err)
	}

	outcome := b.resolveOrder(ctx, reg.wires, layout)

	b.mu.Lock()
	b.wires = reg.wires
	b.started = true
	b.mu.Unlock()

	b.logger.Info("wire board started",
		"board_id", b.id,
		"wires", len(reg.wires),
		"providers", len(providers),
		"layout_id", layoutID,
		"layout", string(outcome),
	)

	b.resync()
	return nil
}

// MapInit generates the serial number and wire seed if they are missing.
// It is called once when the board is first placed in the world.
func (b *Board) MapInit() {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	b.mu.Lock()
	changed := false
	if b.state.SerialNumber == "" {
		b.state.SerialNumber = GenerateSerialNumber(b.rnd)
		changed = true
	}
	if b.state.WireSeed == 0 {
		b.state.WireSeed = generateSeed(b.rnd)
		changed = true
	}
	b.mu.Unlock()

	if changed {
		b.resync()
	}
}

// Started reports whether Startup has completed.
func (b *Board) Started() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.started
}

// State returns the fields the host should persist.
func (b *Board) State() BoardState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// SetBoardName renames the board and resyncs observers.
func (b *Board) SetBoardName(name string) {
	b.mu.Lock()
	b.state.BoardName = name
	b.mu.Unlock()
	b.resync()
}

// SetSerialNumber overrides the serial number and resyncs observers.
func (b *Board) SetSerialNumber(serial string) {
	b.mu.Lock()
	b.state.SerialNumber = serial
	b.mu.Unlock()
	b.resync()
}

// SetStatus sets a status entry. Storing a value equal to the current one
// is a no-op and does not resync observers.
func (b *Board) SetStatus(key StatusKey, v StatusLight) {
	b.mu.Lock()
	changed := b.statuses.Set(key, v)
	b.mu.Unlock()

	if changed {
		b.resync()
	}
}

// Status returns the status stored under key.
func (b *Board) Status(key StatusKey) (StatusLight, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.statuses.Get(key)
}

// IsWireCut reports whether the wire registered under key is cut.
func (b *Board) IsWireCut(key Key) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, w := range b.wires {
		if w.Key == key {
			return w.Cut, nil
		}
	}
	return false, fmt.Errorf("%w: key %q", ErrWireNotFound, key)
}

// Wires returns copies of the wire records in display order.
func (b *Board) Wires() []Wire {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Wire, len(b.wires))
	for i, w := range b.wires {
		out[i] = *w
	}
	return out
}

// Snapshot returns the observer view of the board.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotLocked()
}

// Panel returns the maintenance panel state.
func (b *Board) Panel() PanelState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.panel
}

// SetPanelVisible hides or shows the panel overlay without opening or
// closing the panel.
func (b *Board) SetPanelVisible(visible bool) {
	b.mu.Lock()
	if b.panel.Visible == visible {
		b.mu.Unlock()
		return
	}
	b.panel.Visible = visible
	shown := b.panel.Shown()
	b.mu.Unlock()

	b.hooks.Appearance.SetPanelShown(b.id, shown)
}

// Examine describes the panel state to an onlooker.
func (b *Board) Examine() Feedback {
	if b.Panel().Open {
		return FeedbackPanelOpen
	}
	return FeedbackPanelClosed
}

// wireByDisplayID returns the wire with the given display id. Callers hold b.mu.
func (b *Board) wireByDisplayID(id int) (*Wire, bool) {
	for _, w := range b.wires {
		if w.DisplayID == id {
			return w, true
		}
	}
	return nil, false
}
