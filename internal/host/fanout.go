package host

import (
	"errors"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-wires/internal/wires"
)

// Websocket channels the host broadcasts on.
const (
	ChannelSnapshot = "wires.snapshot"
	ChannelFeedback = "wires.feedback"
	ChannelEvent    = "wires.event"
	ChannelPanel    = "wires.panel"
)

// Publisher publishes JSON messages. *mqtt.Client satisfies it.
type Publisher interface {
	PublishJSON(topic string, v any, retained bool) error
}

// Subscriber subscribes to inbound messages. *mqtt.Client satisfies it.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Broadcaster pushes events to websocket clients. *api.Hub satisfies it.
type Broadcaster interface {
	Broadcast(channel string, payload any)
}

// Telemetry records interaction metrics. *influxdb.Client satisfies it.
type Telemetry interface {
	WriteWireAction(boardID, action string, ok bool, feedback string)
	WriteBoardBuilt(boardID, layoutID string, wires int)
}

// FeedbackMessage is sent when an operator is turned away.
type FeedbackMessage struct {
	BoardID   string    `json:"board_id"`
	Operator  string    `json:"operator"`
	Key       string    `json:"key"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// CueMessage is sent when a board plays an audio cue.
type CueMessage struct {
	BoardID   string    `json:"board_id"`
	Cue       string    `json:"cue"`
	Timestamp time.Time `json:"timestamp"`
}

// EventMessage is sent after a provider has handled an action on one of
// its wires. It names the wire by display id only.
type EventMessage struct {
	BoardID   string    `json:"board_id"`
	WireID    int       `json:"wire_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// PanelMessage is sent when the maintenance panel overlay changes.
type PanelMessage struct {
	BoardID string `json:"board_id"`
	Shown   bool   `json:"shown"`
}

// fanout implements the board hooks by forwarding to MQTT, the websocket
// hub and telemetry. Any of the three may be nil.
type fanout struct {
	cfg       *config.Config
	logger    *logging.Logger
	topics    mqtt.Topics
	publisher Publisher
	hub       Broadcaster
	telemetry Telemetry

	// cues tracks in-flight cue publishes.
	cues sync.WaitGroup
}

func (f *fanout) publish(topic string, v any, retained bool) {
	if f.publisher == nil {
		return
	}
	if err := f.publisher.PublishJSON(topic, v, retained); err != nil {
		if errors.Is(err, mqtt.ErrNotConnected) {
			f.logger.Debug("mqtt offline, message dropped", "topic", topic)
			return
		}
		f.logger.Warn("mqtt publish failed", "topic", topic, "error", err)
	}
}

func (f *fanout) broadcast(channel string, payload any) {
	if f.hub != nil {
		f.hub.Broadcast(channel, payload)
	}
}

// Push implements wires.Observer.
func (f *fanout) Push(s wires.Snapshot) {
	f.publish(f.topics.BoardState(s.BoardID), s, true)
	f.broadcast(ChannelSnapshot, s)
}

// Notify implements wires.Notifier.
func (f *fanout) Notify(boardID string, actor wires.Actor, fb wires.Feedback) {
	msg := FeedbackMessage{
		BoardID:   boardID,
		Operator:  actor.Name(),
		Key:       string(fb),
		Text:      f.cfg.FeedbackText(string(fb)),
		Timestamp: time.Now().UTC(),
	}
	f.publish(f.topics.BoardFeedback(boardID), msg, false)
	f.broadcast(ChannelFeedback, msg)
}

// PlayCue implements wires.CueSink. The publish runs in the background.
func (f *fanout) PlayCue(boardID string, cue wires.Cue) {
	if f.publisher == nil || cue == "" {
		return
	}
	msg := CueMessage{BoardID: boardID, Cue: string(cue), Timestamp: time.Now().UTC()}
	f.cues.Add(1)
	go func() {
		defer f.cues.Done()
		f.publish(f.topics.BoardCue(boardID), msg, false)
	}()
}

// SetPanelShown implements wires.AppearanceSink.
func (f *fanout) SetPanelShown(boardID string, shown bool) {
	f.logger.Debug("panel overlay changed", "board_id", boardID, "shown", shown)
	f.broadcast(ChannelPanel, PanelMessage{BoardID: boardID, Shown: shown})
}

// RecordAction implements wires.ActionRecorder.
func (f *fanout) RecordAction(boardID string, action wires.Action, res wires.Result) {
	if f.telemetry != nil {
		f.telemetry.WriteWireAction(boardID, string(action), res.OK, string(res.Feedback))
	}
}

// announce publishes an event for a handled wire action.
func (f *fanout) announce(ev wires.UpdateEvent) {
	msg := EventMessage{
		BoardID:   ev.Board.ID(),
		Action:    string(ev.Action),
		Timestamp: time.Now().UTC(),
	}
	for _, w := range ev.Board.Wires() {
		if w.Key == ev.Key {
			msg.WireID = w.DisplayID
			break
		}
	}
	f.publish(f.topics.BoardEvent(msg.BoardID), msg, false)
	f.broadcast(ChannelEvent, msg)
}

// wait blocks until background cue publishes have finished.
func (f *fanout) wait() {
	f.cues.Wait()
}

// announcingProvider forwards updates to the provider, then announces them.
type announcingProvider struct {
	Provider
	out *fanout
}

func (p announcingProvider) WiresUpdate(ev wires.UpdateEvent) {
	p.Provider.WiresUpdate(ev)
	p.out.announce(ev)
}

var (
	_ wires.Observer       = (*fanout)(nil)
	_ wires.Notifier       = (*fanout)(nil)
	_ wires.CueSink        = (*fanout)(nil)
	_ wires.AppearanceSink = (*fanout)(nil)
	_ wires.ActionRecorder = (*fanout)(nil)
)
