package host

import (
	"io"
	"sync"
	"testing"

	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-wires/internal/wires"
)

type published struct {
	topic    string
	v        any
	retained bool
}

// fakePublisher records every message.
type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *fakePublisher) PublishJSON(topic string, v any, retained bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{topic: topic, v: v, retained: retained})
	return nil
}

func (p *fakePublisher) onTopic(topic string) []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []published
	for _, m := range p.msgs {
		if m.topic == topic {
			out = append(out, m)
		}
	}
	return out
}

type broadcast struct {
	channel string
	payload any
}

// fakeHub records broadcasts.
type fakeHub struct {
	mu     sync.Mutex
	events []broadcast
}

func (h *fakeHub) Broadcast(channel string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, broadcast{channel: channel, payload: payload})
}

func (h *fakeHub) on(channel string) []any {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []any
	for _, e := range h.events {
		if e.channel == channel {
			out = append(out, e.payload)
		}
	}
	return out
}

type actionPoint struct {
	board    string
	action   string
	ok       bool
	feedback string
}

// fakeTelemetry records points.
type fakeTelemetry struct {
	mu      sync.Mutex
	actions []actionPoint
	built   map[string]int
}

func (f *fakeTelemetry) WriteWireAction(boardID, action string, ok bool, feedback string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, actionPoint{board: boardID, action: action, ok: ok, feedback: feedback})
}

func (f *fakeTelemetry) WriteBoardBuilt(boardID, _ string, wires int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.built == nil {
		f.built = make(map[string]int)
	}
	f.built[boardID] = wires
}

func (f *fakeTelemetry) lastAction() actionPoint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.actions[len(f.actions)-1]
}

// fakeSubscriber captures the command subscription.
type fakeSubscriber struct {
	topic   string
	qos     byte
	handler mqtt.MessageHandler
	err     error
}

func (s *fakeSubscriber) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	if s.err != nil {
		return s.err
	}
	s.topic, s.qos, s.handler = topic, qos, handler
	return nil
}

func testLogger() *logging.Logger {
	return logging.NewWithWriter(config.LoggingConfig{Level: "debug"}, "test", io.Discard)
}

// testConfig hosts two airlocks sharing a layout, a lamp next to the
// first airlock and an obstructed vending machine.
func testConfig() *config.Config {
	return &config.Config{
		MQTT: config.MQTTConfig{QoS: 1},
		Wires: config.WiresConfig{
			InteractionRange: 1.5,
			RandomSeed:       42,
			Feedback: map[string]string{
				"wires-no-hands": "You need hands for that.",
			},
		},
		Tools: []config.ToolConfig{
			{Kind: "wirecutter", Capabilities: []string{config.CapabilityCutting}, UseCue: "wirecutter_use"},
			{Kind: "multitool", Capabilities: []string{config.CapabilityMultitool}, UseCue: "multitool_use"},
			{Kind: "screwdriver", Capabilities: []string{config.CapabilityScrewing}, UseCue: "screwdriver_use"},
		},
		Boards: []config.BoardConfig{
			{ID: "airlock-1", Name: "Airlock Control", LayoutID: "airlock", Providers: []string{config.ProviderDoor}},
			{ID: "airlock-2", LayoutID: "airlock", Position: config.PositionConfig{X: 10}, Providers: []string{config.ProviderDoor}},
			{ID: "lamp-1", Position: config.PositionConfig{Y: 1}, Providers: []string{config.ProviderLight}},
			{ID: "vend-1", Obstructed: true, Providers: []string{config.ProviderVending}},
		},
		Operators: []config.OperatorConfig{
			{Name: "alice", Hands: true, Tool: "wirecutter"},
			{Name: "bob", Tool: "wirecutter"},
		},
	}
}

type testEnv struct {
	host *Host
	pub  *fakePublisher
	hub  *fakeHub
	tel  *fakeTelemetry
}

func newTestEnv(t *testing.T, cfg *config.Config, layouts *wires.LayoutCache, repo wires.BoardRepository) testEnv {
	t.Helper()
	env := testEnv{pub: &fakePublisher{}, hub: &fakeHub{}, tel: &fakeTelemetry{}}
	h, err := New(Deps{
		Config:    cfg,
		Logger:    testLogger(),
		Layouts:   layouts,
		Boards:    repo,
		Publisher: env.pub,
		Hub:       env.hub,
		Telemetry: env.tel,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	env.host = h
	return env
}

// startedEnv returns a started host over testConfig with an in-memory
// layout cache.
func startedEnv(t *testing.T) testEnv {
	t.Helper()
	env := newTestEnv(t, testConfig(), wires.NewLayoutCache(nil), nil)
	if err := env.host.Start(t.Context()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(env.host.Close)
	return env
}

// displayID returns the display id of the wire registered under key.
func displayID(t *testing.T, h *Host, boardID string, key wires.Key) int {
	t.Helper()
	b, err := h.Board(boardID)
	if err != nil {
		t.Fatalf("Board(%q) error = %v", boardID, err)
	}
	for _, w := range b.Wires() {
		if w.Key == key {
			return w.DisplayID
		}
	}
	t.Fatalf("board %s has no wire %q", boardID, key)
	return 0
}
