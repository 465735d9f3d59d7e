package host

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-wires/internal/wires"
)

func TestToolbox(t *testing.T) {
	tb := NewToolbox([]config.ToolConfig{
		{Kind: "wirecutter", Capabilities: []string{config.CapabilityCutting}, UseCue: "wirecutter_use"},
		{Kind: "omnitool", Capabilities: []string{config.CapabilityCutting, config.CapabilityMultitool}, UseCue: "omni_use"},
	})

	if diff := cmp.Diff([]string{"omnitool", "wirecutter"}, tb.Kinds()); diff != "" {
		t.Errorf("Kinds() mismatch (-want +got):\n%s", diff)
	}

	omni, err := tb.Get("omnitool")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !omni.Has(wires.CapCutting) || !omni.Has(wires.CapMultitool) || omni.Has(wires.CapScrewing) {
		t.Error("omnitool capabilities wrong")
	}
	if omni.UseCue() != "omni_use" || omni.Kind() != "omnitool" {
		t.Errorf("omnitool = %s/%s", omni.Kind(), omni.UseCue())
	}

	if _, err := tb.Get("spanner"); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("Get(spanner) error = %v", err)
	}
}

func TestOperator_ActiveToolNilWhenEmpty(t *testing.T) {
	op := NewOperator("alice", true, Position{}, nil)
	if op.ActiveTool() != nil {
		t.Error("empty hand reports a non-nil tool")
	}

	tb := NewToolbox([]config.ToolConfig{{Kind: "screwdriver", Capabilities: []string{config.CapabilityScrewing}}})
	sd, _ := tb.Get("screwdriver")
	op.SetTool(sd)
	if op.ActiveTool() == nil || !op.ActiveTool().Has(wires.CapScrewing) {
		t.Error("held screwdriver not reported")
	}
	if op.View().Tool != "screwdriver" {
		t.Errorf("View().Tool = %q", op.View().Tool)
	}
}
