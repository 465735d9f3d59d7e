package host

import (
	"fmt"
	"sync"

	"github.com/nerrad567/gray-logic-wires/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-wires/internal/wires"
)

// Provider is a device subsystem that owns wires on a hosted board.
type Provider interface {
	wires.Provider

	// Kind returns the provider kind from the configuration ("door").
	Kind() string

	// Attach is called once after the board has started so the provider
	// can publish its initial statuses.
	Attach(b *wires.Board)
}

// NewProvider creates a provider of the given kind. Wires listed in cut
// are registered already cut; keys the provider does not own are ignored.
func NewProvider(kind string, cut ...wires.Key) (Provider, error) {
	switch kind {
	case config.ProviderDoor:
		return NewDoorProvider(cut...), nil
	case config.ProviderLight:
		return NewLightProvider(cut...), nil
	case config.ProviderVending:
		return NewVendingProvider(cut...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, kind)
	}
}

// Wire keys registered by the built-in providers.
const (
	KeyDoorPower         wires.Key = "door.power"
	KeyDoorBolt          wires.Key = "door.bolt"
	KeyDoorSafety        wires.Key = "door.safety"
	KeyDoorTiming        wires.Key = "door.timing"
	KeyLightPower        wires.Key = "light.power"
	KeyVendingPower      wires.Key = "vending.power"
	KeyVendingShock      wires.Key = "vending.shock"
	KeyVendingContraband wires.Key = "vending.contraband"
)

// Status entries published by the built-in providers.
const (
	StatusDoorPower         wires.StatusKey = "door.power"
	StatusDoorBolt          wires.StatusKey = "door.bolt"
	StatusDoorSafety        wires.StatusKey = "door.safety"
	StatusDoorTiming        wires.StatusKey = "door.timing"
	StatusLightPower        wires.StatusKey = "light.power"
	StatusVendingPower      wires.StatusKey = "vending.power"
	StatusVendingShock      wires.StatusKey = "vending.shock"
	StatusVendingContraband wires.StatusKey = "vending.contraband"
)

// presets is the set of wires a provider registers in the cut state.
type presets map[wires.Key]bool

func newPresets(cut []wires.Key) presets {
	p := make(presets, len(cut))
	for _, k := range cut {
		p[k] = true
	}
	return p
}

func (p presets) create(b *wires.Builder, key wires.Key) {
	if p[key] {
		b.CreateWire(key, wires.InitiallyCut())
		return
	}
	b.CreateWire(key)
}

// isCut reads a wire's state from the board. Missing wires read as intact.
func isCut(b *wires.Board, key wires.Key) bool {
	cut, err := b.IsWireCut(key)
	return err == nil && cut
}

// indicator renders a boolean as a status light.
func indicator(text string, on bool, onColor wires.Color) wires.StatusLight {
	if on {
		return wires.StatusLight{Color: onColor, State: wires.LightOn, Text: text}
	}
	return wires.StatusLight{Color: wires.ColorRed, State: wires.LightOff, Text: text}
}

// DoorProvider is an airlock's control wiring.
//
//   - power: cut removes power, mend restores it.
//   - bolt: pulse toggles the bolts, cut drops them.
//   - safety: cut disables the crush sensor, mend restores it.
//   - timing: cut disables the auto-close timer, mend restores it.
type DoorProvider struct {
	preset presets

	mu      sync.Mutex
	powered bool
	bolted  bool
	safety  bool
	timing  bool
}

// NewDoorProvider creates a powered, unbolted door.
func NewDoorProvider(cut ...wires.Key) *DoorProvider {
	return &DoorProvider{preset: newPresets(cut), powered: true, safety: true, timing: true}
}

// Kind implements Provider.
func (d *DoorProvider) Kind() string { return config.ProviderDoor }

// RegisterWires implements wires.Provider.
func (d *DoorProvider) RegisterWires(b *wires.Builder) {
	d.preset.create(b, KeyDoorPower)
	d.preset.create(b, KeyDoorBolt)
	d.preset.create(b, KeyDoorSafety)
	d.preset.create(b, KeyDoorTiming)
}

// Attach implements Provider. The door's state follows the wires it was
// built with.
func (d *DoorProvider) Attach(b *wires.Board) {
	d.mu.Lock()
	d.powered = !isCut(b, KeyDoorPower)
	d.bolted = isCut(b, KeyDoorBolt)
	d.safety = !isCut(b, KeyDoorSafety)
	d.timing = !isCut(b, KeyDoorTiming)
	d.mu.Unlock()

	d.publish(b)
}

// WiresUpdate implements wires.Provider.
func (d *DoorProvider) WiresUpdate(ev wires.UpdateEvent) {
	d.mu.Lock()
	switch ev.Key {
	case KeyDoorPower:
		switch ev.Action {
		case wires.ActionCut:
			d.powered = false
		case wires.ActionMend:
			d.powered = true
		}
	case KeyDoorBolt:
		switch ev.Action {
		case wires.ActionPulse:
			d.bolted = !d.bolted
		case wires.ActionCut:
			d.bolted = true
		}
	case KeyDoorSafety:
		if ev.Action != wires.ActionPulse {
			d.safety = ev.Action == wires.ActionMend
		}
	case KeyDoorTiming:
		if ev.Action != wires.ActionPulse {
			d.timing = ev.Action == wires.ActionMend
		}
	}
	d.mu.Unlock()

	d.publish(ev.Board)
}

func (d *DoorProvider) publish(b *wires.Board) {
	d.mu.Lock()
	powered, bolted, safety, timing := d.powered, d.bolted, d.safety, d.timing
	d.mu.Unlock()

	b.SetStatus(StatusDoorPower, indicator("POWR", powered, wires.ColorGreen))
	b.SetStatus(StatusDoorBolt, indicator("BOLT", bolted, wires.ColorRed))
	b.SetStatus(StatusDoorSafety, indicator("SAFE", safety, wires.ColorGreen))
	b.SetStatus(StatusDoorTiming, indicator("TIME", timing, wires.ColorOrange))
}

// Powered reports whether the door has power.
func (d *DoorProvider) Powered() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.powered
}

// Bolted reports whether the bolts are down.
func (d *DoorProvider) Bolted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bolted
}

// SafetyEnabled reports whether the crush sensor is active.
func (d *DoorProvider) SafetyEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.safety
}

// TimerEnabled reports whether the door closes by itself.
func (d *DoorProvider) TimerEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timing
}

// LightProvider is a light fitting's power feed. Cut switches it off,
// mend back on, and pulse flicks it.
type LightProvider struct {
	preset presets

	mu sync.Mutex
	on bool
}

// NewLightProvider creates a light that is on.
func NewLightProvider(cut ...wires.Key) *LightProvider {
	return &LightProvider{preset: newPresets(cut), on: true}
}

// Kind implements Provider.
func (l *LightProvider) Kind() string { return config.ProviderLight }

// RegisterWires implements wires.Provider.
func (l *LightProvider) RegisterWires(b *wires.Builder) {
	l.preset.create(b, KeyLightPower)
}

// Attach implements Provider.
func (l *LightProvider) Attach(b *wires.Board) {
	l.mu.Lock()
	l.on = !isCut(b, KeyLightPower)
	l.mu.Unlock()

	l.publish(b)
}

// WiresUpdate implements wires.Provider.
func (l *LightProvider) WiresUpdate(ev wires.UpdateEvent) {
	if ev.Key != KeyLightPower {
		return
	}
	l.mu.Lock()
	switch ev.Action {
	case wires.ActionCut:
		l.on = false
	case wires.ActionMend:
		l.on = true
	case wires.ActionPulse:
		l.on = !l.on
	}
	l.mu.Unlock()

	l.publish(ev.Board)
}

func (l *LightProvider) publish(b *wires.Board) {
	b.SetStatus(StatusLightPower, indicator("LAMP", l.On(), wires.ColorGold))
}

// On reports whether the light is lit.
func (l *LightProvider) On() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}

// VendingProvider is a vending machine's control wiring.
//
//   - power: cut removes power, mend restores it.
//   - shock: cut electrifies the casing, mend makes it safe.
//   - contraband: pulse toggles the hidden inventory, cut locks it away.
//
// The panel overlay is hidden while the casing is electrified.
type VendingProvider struct {
	preset presets

	mu          sync.Mutex
	powered     bool
	electrified bool
	contraband  bool
}

// NewVendingProvider creates a powered, safe vending machine.
func NewVendingProvider(cut ...wires.Key) *VendingProvider {
	return &VendingProvider{preset: newPresets(cut), powered: true}
}

// Kind implements Provider.
func (v *VendingProvider) Kind() string { return config.ProviderVending }

// RegisterWires implements wires.Provider.
func (v *VendingProvider) RegisterWires(b *wires.Builder) {
	v.preset.create(b, KeyVendingPower)
	v.preset.create(b, KeyVendingShock)
	v.preset.create(b, KeyVendingContraband)
}

// Attach implements Provider.
func (v *VendingProvider) Attach(b *wires.Board) {
	v.mu.Lock()
	v.powered = !isCut(b, KeyVendingPower)
	v.electrified = isCut(b, KeyVendingShock)
	v.mu.Unlock()

	v.publish(b)
}

// WiresUpdate implements wires.Provider.
func (v *VendingProvider) WiresUpdate(ev wires.UpdateEvent) {
	v.mu.Lock()
	switch ev.Key {
	case KeyVendingPower:
		if ev.Action != wires.ActionPulse {
			v.powered = ev.Action == wires.ActionMend
		}
	case KeyVendingShock:
		if ev.Action != wires.ActionPulse {
			v.electrified = ev.Action == wires.ActionCut
		}
	case KeyVendingContraband:
		switch ev.Action {
		case wires.ActionPulse:
			v.contraband = !v.contraband
		case wires.ActionCut:
			v.contraband = false
		}
	}
	v.mu.Unlock()

	v.publish(ev.Board)
}

func (v *VendingProvider) publish(b *wires.Board) {
	v.mu.Lock()
	powered, electrified, contraband := v.powered, v.electrified, v.contraband
	v.mu.Unlock()

	b.SetStatus(StatusVendingPower, indicator("POWR", powered, wires.ColorGreen))
	b.SetStatus(StatusVendingShock, indicator("ZAPP", electrified, wires.ColorCyan))
	b.SetStatus(StatusVendingContraband, indicator("CNTR", contraband, wires.ColorPurple))
	b.SetPanelVisible(!electrified)
}

// Powered reports whether the machine has power.
func (v *VendingProvider) Powered() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.powered
}

// Electrified reports whether touching the machine shocks.
func (v *VendingProvider) Electrified() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.electrified
}

// ContrabandUnlocked reports whether the hidden inventory is on offer.
func (v *VendingProvider) ContrabandUnlocked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.contraband
}

var (
	_ Provider = (*DoorProvider)(nil)
	_ Provider = (*LightProvider)(nil)
	_ Provider = (*VendingProvider)(nil)
)
