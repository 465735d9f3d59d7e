package wires

import "fmt"

// registry collects wires for one board build.
type registry struct {
	pool  *AppearancePool
	wires []*Wire
	keys  map[Key]struct{}
	err   error
}

func newRegistry(rnd Rand) *registry {
	return &registry{
		pool: NewAppearancePool(rnd),
		keys: make(map[Key]struct{}),
	}
}

// fail records the first contract violation of the build.
func (r *registry) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Builder is handed to each Provider during Startup to register its wires.
// A Builder must not be retained after RegisterWires returns.
type Builder struct {
	reg    *registry
	owner  Provider
	layout *Layout
}

type wireOptions struct {
	appearance *Appearance
	cut        bool
}

// WireOption customises a wire created by Builder.CreateWire.
type WireOption func(*wireOptions)

// WithAppearance pins a wire's colour and letter instead of drawing them.
func WithAppearance(c Color, l Letter) WireOption {
	return func(o *wireOptions) {
		o.appearance = &Appearance{Color: c, Letter: l}
	}
}

// InitiallyCut registers the wire in the cut state.
func InitiallyCut() WireOption {
	return func(o *wireOptions) {
		o.cut = true
	}
}

// CreateWire registers a wire owned by the builder's provider.
//
// The appearance comes from, in order: WithAppearance, the cached layout
// entry for key, or a fresh draw from the pool. The first two paths reserve
// their values so later draws avoid them.
//
// Registering an empty or duplicate key fails the whole build; Startup
// returns ErrInvalidKey or ErrDuplicateWire.
func (b *Builder) CreateWire(key Key, opts ...WireOption) {
	if key == "" {
		b.reg.fail(ErrInvalidKey)
		return
	}
	if _, dup := b.reg.keys[key]; dup {
		b.reg.fail(fmt.Errorf("%w: %q", ErrDuplicateWire, key))
		return
	}

	var o wireOptions
	for _, opt := range opts {
		opt(&o)
	}

	var a Appearance
	if o.appearance != nil {
		a = *o.appearance
		b.reg.pool.Reserve(a)
	} else if e, ok := b.layout.Lookup(key); ok {
		a = e.Appearance
		b.reg.pool.Reserve(a)
	} else {
		a = b.reg.pool.Draw()
	}

	b.reg.keys[key] = struct{}{}
	b.reg.wires = append(b.reg.wires, &Wire{
		Owner:      b.owner,
		Key:        key,
		Appearance: a,
		Cut:        o.cut,
	})
}

// Err returns the first registration error of the build so far.
func (b *Builder) Err() error {
	return b.reg.err
}
