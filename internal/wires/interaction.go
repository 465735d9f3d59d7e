package wires

import "fmt"

// Result is the outcome of an operator interaction. A rejected
// interaction carries the feedback shown to the actor and changed nothing.
type Result struct {
	OK       bool     `json:"ok"`
	Feedback Feedback `json:"feedback,omitempty"`
}

func rejected(fb Feedback) Result {
	return Result{Feedback: fb}
}

// Act performs action on the wire with the given display id.
//
// Checks run in a fixed order and the first failure decides the feedback:
// the actor needs a manipulator, must reach the board, and must hold a
// tool with the action's capability. Pulsing a cut wire is also refused.
// Rejections return a Result with OK false and leave the board untouched.
//
// On success Cut and Mend update the wire, observers receive a snapshot,
// the cue is played and the owning provider is notified.
//
// An unknown display id returns ErrWireNotFound and an unsupported action
// ErrUnknownAction. Both mean the caller sent something the board never
// issued.
func (b *Board) Act(actor Actor, displayID int, action Action) (Result, error) {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	b.mu.RLock()
	started := b.started
	wire, found := b.wireByDisplayID(displayID)
	b.mu.RUnlock()

	if !started {
		return Result{}, ErrNotStarted
	}
	if !found {
		b.logger.Error("wire action for unknown display id",
			"board_id", b.id,
			"display_id", displayID,
			"action", string(action),
		)
		return Result{}, fmt.Errorf("%w: display id %d on board %s", ErrWireNotFound, displayID, b.id)
	}
	required, err := action.RequiredCapability()
	if err != nil {
		return Result{}, err
	}

	res := b.act(actor, wire, action, required)
	b.hooks.Recorder.RecordAction(b.id, action, res)
	if !res.OK {
		b.logger.Debug("wire action rejected",
			"board_id", b.id,
			"actor", actor.Name(),
			"display_id", displayID,
			"action", string(action),
			"feedback", string(res.Feedback),
		)
		b.hooks.Notifier.Notify(b.id, actor, res.Feedback)
		return res, nil
	}

	b.logger.Info("wire action applied",
		"board_id", b.id,
		"actor", actor.Name(),
		"display_id", displayID,
		"action", string(action),
	)
	wire.Owner.WiresUpdate(UpdateEvent{Board: b, Key: wire.Key, Action: action})
	return res, nil
}

// act runs the gating checks and applies the action. Callers hold b.opMu.
func (b *Board) act(actor Actor, wire *Wire, action Action, required Capability) Result {
	if !actor.HasManipulator() {
		return rejected(FeedbackNoHands)
	}
	if !b.hooks.Reach.InRangeUnobstructed(b.id, actor) {
		return rejected(FeedbackCantReach)
	}

	tool := actor.ActiveTool()
	if tool == nil || !tool.Has(required) {
		if required == CapMultitool {
			return rejected(FeedbackNeedMultitool)
		}
		return rejected(FeedbackNeedCutter)
	}

	switch action {
	case ActionCut, ActionMend:
		b.mu.Lock()
		wire.Cut = action == ActionCut
		b.mu.Unlock()
		b.resync()
		b.hooks.Cues.PlayCue(b.id, tool.UseCue())

	case ActionPulse:
		b.mu.RLock()
		cut := wire.Cut
		b.mu.RUnlock()
		if cut {
			return rejected(FeedbackPulseCutWire)
		}
		b.resync()
		b.hooks.Cues.PlayCue(b.id, CuePulse)
	}

	return Result{OK: true}
}

// TogglePanel opens or closes the maintenance panel with tool. It returns
// false without feedback if the tool cannot screw, so the host can offer
// the interaction elsewhere.
func (b *Board) TogglePanel(actor Actor, tool Tool) bool {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	if tool == nil || !tool.Has(CapScrewing) {
		return false
	}

	b.mu.Lock()
	b.panel.Open = !b.panel.Open
	open := b.panel.Open
	shown := b.panel.Shown()
	b.mu.Unlock()

	b.hooks.Appearance.SetPanelShown(b.id, shown)
	b.resync()

	cue := CuePanelClose
	if open {
		cue = CuePanelOpen
	}
	b.hooks.Cues.PlayCue(b.id, cue)

	b.logger.Debug("maintenance panel toggled", "board_id", b.id, "actor", actor.Name(), "open", open)
	return true
}
