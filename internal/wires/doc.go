// Package wires provides the wire panel for Gray Logic devices.
//
// A device exposes a set of wires contributed independently by its
// subsystems (a door's bolt motor, a light's power feed). Each wire gets a
// colour and a Greek letter so an operator can talk about "the red β wire"
// without knowing what it controls. Operators open the maintenance panel
// with a screwdriver and cut, mend or pulse wires; the owning subsystem is
// told what happened and decides what it means.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────────────┐
//	│                               Board                                  │
//	│                                                                      │
//	│  ┌────────────────┐   ┌────────────────┐   ┌────────────────────┐    │
//	│  │    Builder     │   │   Ordering     │   │    Interaction     │    │
//	│  │  (builder.go)  │──▶│ (ordering.go)  │   │ (interaction.go)   │    │
//	│  │ • key checks   │   │ • layout sort  │   │ • gating checks    │    │
//	│  │ • appearance   │   │ • shuffle      │   │ • cut/mend/pulse   │    │
//	│  └───────┬────────┘   │ • display ids  │   │ • panel toggle     │    │
//	│          │            └───────┬────────┘   └─────────┬──────────┘    │
//	│  ┌───────▼────────┐           │                      │               │
//	│  │ AppearancePool │           │           ┌──────────▼──────────┐    │
//	│  │(appearance.go) │           │           │ StatusBoard, resync │    │
//	│  └────────────────┘           │           │ (status.go,         │    │
//	│                               │           │  snapshot.go)       │    │
//	└───────────────────────────────│───────────└──────────┬──────────┘────┘
//	                                ▼                      ▼
//	                   ┌──────────────────────┐   ┌─────────────────┐
//	                   │ LayoutCache          │   │ Observer        │
//	                   │ (shared, SQLite-     │   │ (MQTT, websocket│
//	                   │  backed, first wins) │   │  via the host)  │
//	                   └──────────────────────┘   └─────────────────┘
//
// # Layouts
//
// Boards configured with a layout id reuse the colours, letters and order
// stored for that id, so every door of one model looks the same. The first
// board built for an id captures its shuffled arrangement; concurrent
// builds that lose the race adopt the winner's.
//
// # Usage
//
//	cache := wires.NewLayoutCache(wires.NewSQLiteLayoutRepository(db))
//	board := wires.NewBoard(wires.Config{
//	    ID:      "door-lobby",
//	    State:   wires.BoardState{BoardName: "Airlock Control", LayoutID: "airlock"},
//	    Rand:    wires.NewSeededRand(0),
//	    Layouts: cache,
//	    Hooks:   wires.Hooks{Observer: publisher, Notifier: notifier},
//	})
//	if err := board.Startup(ctx, doorProvider); err != nil {
//	    return err
//	}
//	board.MapInit()
//
//	res, err := board.Act(operator, 2, wires.ActionCut)
//
// # Thread Safety
//
// Boards and the LayoutCache are safe for concurrent use. A board applies
// one operation at a time.
package wires
