package host

import (
	"fmt"
	"sort"

	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-wires/internal/wires"
)

// Tool is a tool kind from the configuration. It implements wires.Tool.
type Tool struct {
	kind string
	caps map[wires.Capability]struct{}
	cue  wires.Cue
}

// Kind returns the tool kind ("wirecutter").
func (t *Tool) Kind() string {
	return t.kind
}

// Has reports whether the tool carries capability c.
func (t *Tool) Has(c wires.Capability) bool {
	_, ok := t.caps[c]
	return ok
}

// UseCue returns the cue played when the tool is used on a wire.
func (t *Tool) UseCue() wires.Cue {
	return t.cue
}

// Toolbox holds every configured tool kind. It is read-only after
// construction and safe for concurrent use.
type Toolbox struct {
	tools map[string]*Tool
}

// NewToolbox builds a toolbox from config. Duplicate kinds are rejected by
// config validation; here the last one wins.
func NewToolbox(cfgs []config.ToolConfig) *Toolbox {
	tb := &Toolbox{tools: make(map[string]*Tool, len(cfgs))}
	for _, tc := range cfgs {
		t := &Tool{
			kind: tc.Kind,
			caps: make(map[wires.Capability]struct{}, len(tc.Capabilities)),
			cue:  wires.Cue(tc.UseCue),
		}
		for _, c := range tc.Capabilities {
			t.caps[wires.Capability(c)] = struct{}{}
		}
		tb.tools[tc.Kind] = t
	}
	return tb
}

// Get returns the tool of the given kind.
func (tb *Toolbox) Get(kind string) (*Tool, error) {
	t, ok := tb.tools[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, kind)
	}
	return t, nil
}

// Kinds returns the tool kinds in alphabetical order.
func (tb *Toolbox) Kinds() []string {
	kinds := make([]string, 0, len(tb.tools))
	for k := range tb.tools {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
