package wires

// ClientWire is the observer's view of a wire. It deliberately carries
// neither the key nor the owner.
type ClientWire struct {
	ID     int    `json:"id"`
	Cut    bool   `json:"cut"`
	Color  Color  `json:"color"`
	Letter Letter `json:"letter"`
}

// Snapshot is the immutable state pushed to observers.
type Snapshot struct {
	BoardID      string        `json:"board_id"`
	Wires        []ClientWire  `json:"wires"`
	Statuses     []StatusEntry `json:"statuses"`
	BoardName    string        `json:"board_name"`
	SerialNumber string        `json:"serial_number,omitempty"`
	Seed         uint64        `json:"seed"`
}

// snapshotLocked builds a snapshot. Callers hold b.mu.
func (b *Board) snapshotLocked() Snapshot {
	s := Snapshot{
		BoardID:      b.id,
		Wires:        make([]ClientWire, 0, len(b.wires)),
		Statuses:     b.statuses.Entries(),
		BoardName:    b.state.BoardName,
		SerialNumber: b.state.SerialNumber,
		Seed:         b.state.WireSeed,
	}
	for _, w := range b.wires {
		s.Wires = append(s.Wires, ClientWire{
			ID:     w.DisplayID,
			Cut:    w.Cut,
			Color:  w.Appearance.Color,
			Letter: w.Appearance.Letter,
		})
	}
	return s
}

// resync pushes a fresh snapshot to the observer. Pushes are serialised
// so observers see snapshots in mutation order. Nothing is pushed before
// Startup has finalised the wire order.
func (b *Board) resync() {
	b.pushMu.Lock()
	defer b.pushMu.Unlock()

	b.mu.RLock()
	if !b.started {
		b.mu.RUnlock()
		return
	}
	s := b.snapshotLocked()
	b.mu.RUnlock()

	b.hooks.Observer.Push(s)
}
