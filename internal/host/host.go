package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/gray-logic-wires/internal/audit"
	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-wires/internal/wires"
)

// CommandTogglePanel is the command action that opens or closes the panel.
const CommandTogglePanel = "toggle_panel"

// Deps holds the dependencies of a Host. Config and Logger are required;
// everything else may be left nil.
type Deps struct {
	Config    *config.Config
	Logger    *logging.Logger
	Layouts   *wires.LayoutCache
	Boards    wires.BoardRepository
	Publisher Publisher
	Hub       Broadcaster
	Telemetry Telemetry
	Audit     audit.Repository
}

// Host owns every configured board and operator and routes interactions
// to them.
//
// Thread Safety:
//   - All methods are safe for concurrent use after Start.
type Host struct {
	cfg     *config.Config
	logger  *logging.Logger
	layouts *wires.LayoutCache
	repo    wires.BoardRepository
	tools   *Toolbox
	reach   *Reach
	out     *fanout
	audit   audit.Repository

	mu        sync.RWMutex
	started   bool
	boards    map[string]*hostedBoard
	order     []string
	operators map[string]*Operator
}

type hostedBoard struct {
	board     *wires.Board
	providers []Provider
}

// New creates a host from config. Boards are built by Start.
func New(deps Deps) (*Host, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	h := &Host{
		cfg:       deps.Config,
		logger:    deps.Logger.Component("host"),
		layouts:   deps.Layouts,
		repo:      deps.Boards,
		audit:     deps.Audit,
		tools:     NewToolbox(deps.Config.Tools),
		reach:     NewReach(deps.Config.Wires.InteractionRange),
		boards:    make(map[string]*hostedBoard),
		operators: make(map[string]*Operator),
		out: &fanout{
			cfg:       deps.Config,
			logger:    deps.Logger.Component("fanout"),
			publisher: deps.Publisher,
			hub:       deps.Hub,
			telemetry: deps.Telemetry,
		},
	}

	for _, oc := range deps.Config.Operators {
		var tool *Tool
		if oc.Tool != "" {
			t, err := h.tools.Get(oc.Tool)
			if err != nil {
				return nil, fmt.Errorf("operator %s: %w", oc.Name, err)
			}
			tool = t
		}
		h.operators[oc.Name] = NewOperator(oc.Name, oc.Hands, Position{X: oc.Position.X, Y: oc.Position.Y}, tool)
	}

	return h, nil
}

// Start builds every configured board. Boards are built concurrently so
// boards sharing a layout id race for the first capture; the layout cache
// makes every one of them end up with the same arrangement.
func (h *Host) Start(ctx context.Context) error {
	h.mu.Lock()
	if h.started {
		h.mu.Unlock()
		return ErrAlreadyStarted
	}
	h.started = true
	h.mu.Unlock()

	built := make([]*hostedBoard, len(h.cfg.Boards))
	g, gctx := errgroup.WithContext(ctx)
	for i, bc := range h.cfg.Boards {
		g.Go(func() error {
			hb, err := h.buildBoard(gctx, i, bc)
			if err != nil {
				return err
			}
			built[i] = hb
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.mu.Lock()
		h.started = false
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	for _, hb := range built {
		id := hb.board.ID()
		h.boards[id] = hb
		h.order = append(h.order, id)
	}
	h.mu.Unlock()

	h.logger.Info("boards started", "boards", len(built), "operators", len(h.operators))
	return nil
}

func (h *Host) buildBoard(ctx context.Context, index int, bc config.BoardConfig) (*hostedBoard, error) {
	id := bc.ID
	if id == "" {
		id = uuid.NewString()
		h.logger.Warn("board has no id, generated one", "board_id", id, "index", index)
	}

	state, err := h.loadState(ctx, id)
	if err != nil {
		return nil, err
	}
	if bc.Name != "" {
		state.BoardName = bc.Name
	}
	state.LayoutID = bc.LayoutID

	cut := make([]wires.Key, 0, len(bc.CutWires))
	for _, k := range bc.CutWires {
		cut = append(cut, wires.Key(k))
	}

	owned := make([]Provider, 0, len(bc.Providers))
	providers := make([]wires.Provider, 0, len(bc.Providers))
	for _, kind := range bc.Providers {
		p, err := NewProvider(kind, cut...)
		if err != nil {
			return nil, fmt.Errorf("board %s: %w", id, err)
		}
		owned = append(owned, p)
		providers = append(providers, announcingProvider{Provider: p, out: h.out})
	}

	h.reach.Place(id, Position{X: bc.Position.X, Y: bc.Position.Y}, bc.Obstructed)

	board := wires.NewBoard(wires.Config{
		ID:      id,
		State:   state,
		Rand:    h.randFor(index),
		Layouts: h.layouts,
		Hooks: wires.Hooks{
			Notifier:   h.out,
			Cues:       h.out,
			Observer:   h.out,
			Reach:      h.reach,
			Appearance: h.out,
			Recorder:   h.out,
		},
	})
	board.SetLogger(h.logger.Component("wires"))

	if err := board.Startup(ctx, providers...); err != nil {
		return nil, err
	}
	for _, k := range cut {
		if _, err := board.IsWireCut(k); err != nil {
			return nil, fmt.Errorf("board %s: cut_wires: %w", id, err)
		}
	}
	board.MapInit()
	for _, p := range owned {
		p.Attach(board)
	}

	if err := h.saveState(ctx, id, board.State()); err != nil {
		return nil, err
	}
	if h.out.telemetry != nil {
		h.out.telemetry.WriteBoardBuilt(id, state.LayoutID, len(board.Wires()))
	}

	return &hostedBoard{board: board, providers: owned}, nil
}

// randFor returns the random source for the board at index. With a fixed
// seed every board gets its own reproducible stream, independent of the
// order in which boards finish building.
func (h *Host) randFor(index int) wires.Rand {
	seed := h.cfg.Wires.RandomSeed
	if seed != 0 {
		seed += uint64(index) // #nosec G115 -- index is a slice index
	}
	return wires.NewSeededRand(seed)
}

func (h *Host) loadState(ctx context.Context, id string) (wires.BoardState, error) {
	if h.repo == nil {
		return wires.BoardState{}, nil
	}
	state, err := h.repo.GetBoardState(ctx, id)
	if errors.Is(err, wires.ErrBoardNotFound) {
		return wires.BoardState{}, nil
	}
	if err != nil {
		return wires.BoardState{}, fmt.Errorf("loading board %s: %w", id, err)
	}
	return state, nil
}

func (h *Host) saveState(ctx context.Context, id string, state wires.BoardState) error {
	if h.repo == nil {
		return nil
	}
	if err := h.repo.SaveBoardState(ctx, id, state); err != nil {
		return fmt.Errorf("saving board %s: %w", id, err)
	}
	return nil
}

// Close waits for background publishes to finish.
func (h *Host) Close() {
	h.out.wait()
}

func (h *Host) hosted(id string) (*hostedBoard, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	hb, ok := h.boards[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBoardNotFound, id)
	}
	return hb, nil
}

// Board returns the board with the given id.
func (h *Host) Board(id string) (*wires.Board, error) {
	hb, err := h.hosted(id)
	if err != nil {
		return nil, err
	}
	return hb.board, nil
}

// Providers returns the providers attached to a board.
func (h *Host) Providers(id string) ([]Provider, error) {
	hb, err := h.hosted(id)
	if err != nil {
		return nil, err
	}
	return append([]Provider(nil), hb.providers...), nil
}

// BoardIDs returns the hosted board ids in configuration order.
func (h *Host) BoardIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.order...)
}

// BoardView is the API form of a board.
type BoardView struct {
	wires.Snapshot
	Panel      wires.PanelState `json:"panel"`
	LayoutID   string           `json:"layout_id,omitempty"`
	Examine    string           `json:"examine"`
	Obstructed bool             `json:"obstructed"`
}

// View returns the API form of the board with the given id.
func (h *Host) View(id string) (BoardView, error) {
	b, err := h.Board(id)
	if err != nil {
		return BoardView{}, err
	}
	return BoardView{
		Snapshot:   b.Snapshot(),
		Panel:      b.Panel(),
		LayoutID:   b.State().LayoutID,
		Examine:    h.FeedbackText(b.Examine()),
		Obstructed: h.reach.Obstructed(id),
	}, nil
}

// FeedbackText returns the configured text for a feedback key.
func (h *Host) FeedbackText(fb wires.Feedback) string {
	return h.cfg.FeedbackText(string(fb))
}

// Views returns every board in configuration order.
func (h *Host) Views() []BoardView {
	ids := h.BoardIDs()
	views := make([]BoardView, 0, len(ids))
	for _, id := range ids {
		if v, err := h.View(id); err == nil {
			views = append(views, v)
		}
	}
	return views
}

// Operator returns the operator with the given name.
func (h *Host) Operator(name string) (*Operator, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	op, ok := h.operators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOperatorNotFound, name)
	}
	return op, nil
}

// Operators returns every operator sorted by name.
func (h *Host) Operators() []OperatorView {
	h.mu.RLock()
	views := make([]OperatorView, 0, len(h.operators))
	for _, op := range h.operators {
		views = append(views, op.View())
	}
	h.mu.RUnlock()

	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views
}

// SetOperatorTool puts a tool of the given kind in the operator's hand.
// An empty kind empties it.
func (h *Host) SetOperatorTool(name, kind string) (OperatorView, error) {
	op, err := h.Operator(name)
	if err != nil {
		return OperatorView{}, err
	}
	if kind == "" {
		op.SetTool(nil)
		return op.View(), nil
	}
	tool, err := h.tools.Get(kind)
	if err != nil {
		return OperatorView{}, err
	}
	op.SetTool(tool)
	h.logger.Debug("operator changed tool", "operator", name, "tool", kind)
	return op.View(), nil
}

// MoveOperator moves an operator to pos.
func (h *Host) MoveOperator(name string, pos Position) (OperatorView, error) {
	op, err := h.Operator(name)
	if err != nil {
		return OperatorView{}, err
	}
	op.MoveTo(pos)
	h.logger.Debug("operator moved", "operator", name, "x", pos.X, "y", pos.Y)
	return op.View(), nil
}

// SetObstructed blocks or clears access to a board.
func (h *Host) SetObstructed(boardID string, obstructed bool) error {
	if _, err := h.hosted(boardID); err != nil {
		return err
	}
	if !h.reach.SetObstructed(boardID, obstructed) {
		return fmt.Errorf("%w: %s", ErrBoardNotFound, boardID)
	}
	h.logger.Info("board obstruction changed", "board_id", boardID, "obstructed", obstructed)
	return nil
}

// LayoutIDs returns every stored layout id.
func (h *Host) LayoutIDs(ctx context.Context) ([]string, error) {
	if h.layouts == nil {
		return nil, ErrLayoutsDisabled
	}
	return h.layouts.IDs(ctx)
}

// DeleteLayout forgets a stored layout. Boards using it keep their order
// until they are rebuilt, when a new layout is captured.
func (h *Host) DeleteLayout(ctx context.Context, id string) error {
	if h.layouts == nil {
		return ErrLayoutsDisabled
	}
	return h.layouts.Delete(ctx, id)
}

// auditTimeout bounds one history write.
const auditTimeout = 2 * time.Second

// Act performs a wire action for an operator. Rejections come back as a
// Result with OK false; errors mean the board, operator, wire or action
// does not exist.
func (h *Host) Act(boardID, operator string, displayID int, action wires.Action) (wires.Result, error) {
	return h.act(audit.SourceAPI, boardID, operator, displayID, action)
}

func (h *Host) act(source, boardID, operator string, displayID int, action wires.Action) (wires.Result, error) {
	board, err := h.Board(boardID)
	if err != nil {
		return wires.Result{}, err
	}
	op, err := h.Operator(operator)
	if err != nil {
		return wires.Result{}, err
	}
	res, err := board.Act(op, displayID, action)
	if err != nil {
		return res, err
	}
	h.record(audit.Entry{
		BoardID:  boardID,
		Operator: operator,
		Action:   string(action),
		WireID:   displayID,
		OK:       res.OK,
		Feedback: string(res.Feedback),
		Source:   source,
	})
	return res, nil
}

// TogglePanel opens or closes a board's maintenance panel with the
// operator's held tool. It reports false when the tool cannot screw.
func (h *Host) TogglePanel(boardID, operator string) (bool, error) {
	return h.togglePanel(audit.SourceAPI, boardID, operator)
}

func (h *Host) togglePanel(source, boardID, operator string) (bool, error) {
	board, err := h.Board(boardID)
	if err != nil {
		return false, err
	}
	op, err := h.Operator(operator)
	if err != nil {
		return false, err
	}
	ok := board.TogglePanel(op, op.ActiveTool())
	h.record(audit.Entry{
		BoardID:  boardID,
		Operator: operator,
		Action:   audit.ActionTogglePanel,
		OK:       ok,
		Source:   source,
	})
	return ok, nil
}

// record writes an interaction to the history. Failures are logged only.
func (h *Host) record(e audit.Entry) {
	if h.audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()
	if err := h.audit.Create(ctx, &e); err != nil {
		h.logger.Warn("failed to record interaction", "board_id", e.BoardID, "action", e.Action, "error", err)
	}
}

// History returns recorded interactions. It returns ErrHistoryDisabled
// when no history store is configured.
func (h *Host) History(ctx context.Context, filter audit.Filter) (*audit.ListResult, error) {
	if h.audit == nil {
		return nil, ErrHistoryDisabled
	}
	if filter.BoardID != "" {
		if _, err := h.Board(filter.BoardID); err != nil {
			return nil, err
		}
	}
	return h.audit.List(ctx, filter)
}

// RenameBoard changes a board's name and persists it.
func (h *Host) RenameBoard(ctx context.Context, id, name string) error {
	board, err := h.Board(id)
	if err != nil {
		return err
	}
	board.SetBoardName(name)
	return h.saveState(ctx, id, board.State())
}

// Command is the body of an inbound board command.
type Command struct {
	Operator string `json:"operator"`
	Action   string `json:"action"`
	Wire     int    `json:"wire,omitempty"`
}

// SubscribeCommands routes commands published to every board's command
// topic into the host.
func (h *Host) SubscribeCommands(sub Subscriber) error {
	topic := mqtt.Topics{}.AllBoardCommands()
	// #nosec G115 -- qos is validated to 0..2
	if err := sub.Subscribe(topic, byte(h.cfg.MQTT.QoS), h.HandleCommand); err != nil {
		return fmt.Errorf("subscribing to board commands: %w", err)
	}
	h.logger.Info("listening for board commands", "topic", topic)
	return nil
}

// HandleCommand executes one command received on a board command topic.
func (h *Host) HandleCommand(topic string, payload []byte) error {
	boardID, ok := mqtt.BoardIDFromTopic(topic)
	if !ok {
		return fmt.Errorf("%w: topic %q", ErrInvalidCommand, topic)
	}

	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}
	if cmd.Operator == "" {
		return fmt.Errorf("%w: operator is required", ErrInvalidCommand)
	}

	if cmd.Action == CommandTogglePanel {
		_, err := h.togglePanel(audit.SourceMQTT, boardID, cmd.Operator)
		return err
	}

	action, err := wires.ParseAction(cmd.Action)
	if err != nil {
		return err
	}
	_, err = h.act(audit.SourceMQTT, boardID, cmd.Operator, cmd.Wire, action)
	return err
}
