package wires

import (
	"math/rand/v2"
	"sync"
	"testing"
)

// testRand returns a deterministic source for tests.
func testRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

// fakeProvider registers a fixed list of wires and records updates.
type fakeProvider struct {
	keys    []Key
	opts    map[Key][]WireOption
	mu      sync.Mutex
	updates []UpdateEvent
	onEvent func(ev UpdateEvent)
}

func newFakeProvider(keys ...Key) *fakeProvider {
	return &fakeProvider{keys: keys, opts: make(map[Key][]WireOption)}
}

func (p *fakeProvider) RegisterWires(b *Builder) {
	for _, k := range p.keys {
		b.CreateWire(k, p.opts[k]...)
	}
}

func (p *fakeProvider) WiresUpdate(ev UpdateEvent) {
	p.mu.Lock()
	p.updates = append(p.updates, ev)
	p.mu.Unlock()
	if p.onEvent != nil {
		p.onEvent(ev)
	}
}

func (p *fakeProvider) Updates() []UpdateEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]UpdateEvent(nil), p.updates...)
}

// fakeTool holds a fixed capability set.
type fakeTool struct {
	caps []Capability
	cue  Cue
}

func (t fakeTool) Has(c Capability) bool {
	for _, have := range t.caps {
		if have == c {
			return true
		}
	}
	return false
}

func (t fakeTool) UseCue() Cue { return t.cue }

var (
	wirecutter  = fakeTool{caps: []Capability{CapCutting}, cue: "wirecutter_use"}
	multitool   = fakeTool{caps: []Capability{CapMultitool}, cue: "multitool_use"}
	screwdriver = fakeTool{caps: []Capability{CapScrewing}, cue: "screwdriver_use"}
)

// fakeActor is an operator with optional hands and tool.
type fakeActor struct {
	name  string
	hands bool
	tool  Tool
}

func (a fakeActor) Name() string         { return a.name }
func (a fakeActor) HasManipulator() bool { return a.hands }
func (a fakeActor) ActiveTool() Tool     { return a.tool }

func holding(t Tool) fakeActor {
	return fakeActor{name: "tester", hands: true, tool: t}
}

// recorder captures everything a board emits.
type recorder struct {
	mu        sync.Mutex
	snapshots []Snapshot
	feedback  []Feedback
	cues      []Cue
	shown     []bool
	actions   []Result
	reachable bool
}

func newRecorder() *recorder {
	return &recorder{reachable: true}
}

func (r *recorder) hooks() Hooks {
	return Hooks{Notifier: r, Cues: r, Observer: r, Reach: r, Appearance: r, Recorder: r}
}

func (r *recorder) Push(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}

func (r *recorder) Notify(_ string, _ Actor, fb Feedback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.feedback = append(r.feedback, fb)
}

func (r *recorder) PlayCue(_ string, cue Cue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, cue)
}

func (r *recorder) InRangeUnobstructed(string, Actor) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reachable
}

func (r *recorder) SetPanelShown(_ string, shown bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, shown)
}

func (r *recorder) RecordAction(_ string, _ Action, res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, res)
}

func (r *recorder) pushCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func (r *recorder) lastSnapshot(t *testing.T) Snapshot {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		t.Fatal("no snapshot pushed")
	}
	return r.snapshots[len(r.snapshots)-1]
}

// startBoard builds and starts a board with the given providers.
func startBoard(t *testing.T, cfg Config, providers ...Provider) *Board {
	t.Helper()
	if cfg.Rand == nil {
		cfg.Rand = testRand(1)
	}
	b := NewBoard(cfg)
	if err := b.Startup(t.Context(), providers...); err != nil {
		t.Fatalf("Startup() error = %v", err)
	}
	return b
}

// displayIDOf returns the display id of the wire registered under key.
func displayIDOf(t *testing.T, b *Board, key Key) int {
	t.Helper()
	for _, w := range b.Wires() {
		if w.Key == key {
			return w.DisplayID
		}
	}
	t.Fatalf("no wire with key %q", key)
	return 0
}
