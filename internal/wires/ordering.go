package wires

import (
	"context"
	"sort"
)

// layoutOutcome describes how a board's order was resolved, for logging.
type layoutOutcome string

const (
	layoutNone     layoutOutcome = "none"
	layoutHit      layoutOutcome = "hit"
	layoutCaptured layoutOutcome = "captured"
	layoutAdopted  layoutOutcome = "adopted"
)

// resolveOrder finalises the order of list and assigns display ids.
//
// With a cached layout the wires are sorted by their saved positions.
// Without one they are shuffled, and if the board has a layout id the
// result is captured so later builds of the same id reproduce it. If a
// concurrent build stored its layout first, that layout is adopted.
func (b *Board) resolveOrder(ctx context.Context, list []*Wire, layout *Layout) layoutOutcome {
	outcome := layoutNone

	switch {
	case layout != nil:
		sortByLayout(list, layout)
		outcome = layoutHit

	default:
		b.rnd.Shuffle(len(list), func(i, j int) {
			list[i], list[j] = list[j], list[i]
		})

		if b.state.LayoutID == "" || b.layouts == nil || len(list) == 0 {
			break
		}

		captured := captureLayout(list)
		stored, err := b.layouts.Put(ctx, b.state.LayoutID, captured)
		if err != nil {
			b.logger.Warn("failed to store wire layout, continuing with local order",
				"board_id", b.id,
				"layout_id", b.state.LayoutID,
				"error", err,
			)
			break
		}
		outcome = layoutCaptured
		if !stored.Equal(captured) {
			adoptLayout(list, stored)
			outcome = layoutAdopted
		}
	}

	for i, w := range list {
		w.DisplayID = i + 1
	}
	return outcome
}

// sortByLayout orders wires by their layout position. Wires the layout
// does not know keep their relative order and go last.
func sortByLayout(list []*Wire, layout *Layout) {
	sort.SliceStable(list, func(i, j int) bool {
		ei, iok := layout.Lookup(list[i].Key)
		ej, jok := layout.Lookup(list[j].Key)
		switch {
		case iok && jok:
			return ei.Position < ej.Position
		case iok != jok:
			return iok
		default:
			return false
		}
	})
}

// adoptLayout overwrites appearances with those in layout and re-sorts.
func adoptLayout(list []*Wire, layout *Layout) {
	for _, w := range list {
		if e, ok := layout.Lookup(w.Key); ok {
			w.Appearance = e.Appearance
		}
	}
	sortByLayout(list, layout)
}
