package wires

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LayoutEntry is the saved appearance and position of one wire.
type LayoutEntry struct {
	Appearance
	Position int `json:"position"`
}

// Layout maps wire keys to their saved appearance and position.
// Once stored under a layout id a Layout is never modified.
type Layout struct {
	Entries map[Key]LayoutEntry `json:"entries"`
}

// captureLayout records the current order and appearance of wires,
// using each wire's index as its position.
func captureLayout(list []*Wire) *Layout {
	l := &Layout{Entries: make(map[Key]LayoutEntry, len(list))}
	for i, w := range list {
		l.Entries[w.Key] = LayoutEntry{Appearance: w.Appearance, Position: i}
	}
	return l
}

// Lookup returns the entry for key.
func (l *Layout) Lookup(key Key) (LayoutEntry, bool) {
	if l == nil {
		return LayoutEntry{}, false
	}
	e, ok := l.Entries[key]
	return e, ok
}

// Len returns the number of wires in the layout.
func (l *Layout) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Entries)
}

// Keys returns the layout's keys sorted by position.
func (l *Layout) Keys() []Key {
	keys := make([]Key, 0, l.Len())
	if l == nil {
		return keys
	}
	for k := range l.Entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return l.Entries[keys[i]].Position < l.Entries[keys[j]].Position
	})
	return keys
}

// Clone returns a deep copy of the layout.
func (l *Layout) Clone() *Layout {
	if l == nil {
		return nil
	}
	c := &Layout{Entries: make(map[Key]LayoutEntry, len(l.Entries))}
	for k, v := range l.Entries {
		c.Entries[k] = v
	}
	return c
}

// Equal reports whether two layouts hold identical entries.
func (l *Layout) Equal(o *Layout) bool {
	if l.Len() != o.Len() {
		return false
	}
	for k, v := range l.Entries {
		if ov, ok := o.Entries[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Validate checks that every entry has a known appearance and that
// positions are non-negative and distinct.
func (l *Layout) Validate() error {
	if l == nil || len(l.Entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrInvalidLayout)
	}
	seen := make(map[int]Key, len(l.Entries))
	for k, e := range l.Entries {
		if k == "" {
			return fmt.Errorf("%w: empty key", ErrInvalidLayout)
		}
		if !e.Color.Valid() || !e.Letter.Valid() {
			return fmt.Errorf("%w: bad appearance for %q", ErrInvalidLayout, k)
		}
		if e.Position < 0 {
			return fmt.Errorf("%w: negative position for %q", ErrInvalidLayout, k)
		}
		if other, dup := seen[e.Position]; dup {
			return fmt.Errorf("%w: %q and %q share position %d", ErrInvalidLayout, k, other, e.Position)
		}
		seen[e.Position] = k
	}
	return nil
}

// LayoutRepository persists layouts across process restarts.
type LayoutRepository interface {
	// GetLayout returns ErrLayoutNotFound if id has no stored layout.
	GetLayout(ctx context.Context, id string) (*Layout, error)

	// CreateLayout stores l under id unless a layout already exists, and
	// returns whichever layout is stored afterwards.
	CreateLayout(ctx context.Context, id string, l *Layout) (*Layout, error)

	// DeleteLayout returns ErrLayoutNotFound if id has no stored layout.
	DeleteLayout(ctx context.Context, id string) error

	// ListLayoutIDs returns every stored layout id in lexical order.
	ListLayoutIDs(ctx context.Context) ([]string, error)
}

// LayoutCache is the process-wide store of layouts shared by all boards.
//
// Reads may run concurrently. Writes are serialised and the first layout
// written for an id wins; later writes return the stored layout unchanged.
// When a repository is configured the cache reads through to it and
// writes through before publishing a layout.
//
// All public methods are thread-safe.
type LayoutCache struct {
	repo    LayoutRepository
	layouts map[string]*Layout
	mu      sync.RWMutex
	writeMu sync.Mutex
	loads   singleflight.Group
	logger  Logger
}

// NewLayoutCache creates a layout cache. repo may be nil for a purely
// in-memory cache.
func NewLayoutCache(repo LayoutRepository) *LayoutCache {
	return &LayoutCache{
		repo:    repo,
		layouts: make(map[string]*Layout),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the cache.
func (c *LayoutCache) SetLogger(logger Logger) {
	c.logger = logger
}

// Get returns the layout stored under id. The returned layout is a copy.
// Concurrent misses for the same id share one repository query.
func (c *LayoutCache) Get(ctx context.Context, id string) (*Layout, bool, error) {
	c.mu.RLock()
	l, ok := c.layouts[id]
	c.mu.RUnlock()
	if ok {
		return l.Clone(), true, nil
	}
	if c.repo == nil {
		return nil, false, nil
	}

	v, err, _ := c.loads.Do(id, func() (any, error) {
		loaded, err := c.repo.GetLayout(ctx, id)
		if err != nil {
			return nil, err
		}
		return c.remember(id, loaded), nil
	})
	if errors.Is(err, ErrLayoutNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading layout %q: %w", id, err)
	}
	return v.(*Layout).Clone(), true, nil
}

// Put stores l under id if no layout exists yet and returns the layout
// that is stored afterwards, which is l's copy only for the first writer.
func (c *LayoutCache) Put(ctx context.Context, id string, l *Layout) (*Layout, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.RLock()
	existing, ok := c.layouts[id]
	c.mu.RUnlock()
	if ok {
		c.logger.Debug("layout already stored, keeping first writer", "layout_id", id)
		return existing.Clone(), nil
	}

	stored := l.Clone()
	if c.repo != nil {
		winner, err := c.repo.CreateLayout(ctx, id, stored)
		if err != nil {
			return nil, fmt.Errorf("storing layout %q: %w", id, err)
		}
		stored = winner
	}
	return c.remember(id, stored).Clone(), nil
}

// IDs returns every stored layout id in lexical order. Without a
// repository these are the layouts held in memory.
func (c *LayoutCache) IDs(ctx context.Context) ([]string, error) {
	if c.repo != nil {
		ids, err := c.repo.ListLayoutIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing layouts: %w", err)
		}
		return ids, nil
	}

	c.mu.RLock()
	ids := make([]string, 0, len(c.layouts))
	for id := range c.layouts {
		ids = append(ids, id)
	}
	c.mu.RUnlock()
	sort.Strings(ids)
	return ids, nil
}

// Delete forgets the layout stored under id so the next board built with
// that id captures a fresh one. Running boards keep their current order.
// Returns ErrLayoutNotFound if no layout exists.
func (c *LayoutCache) Delete(ctx context.Context, id string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	_, cached := c.layouts[id]
	delete(c.layouts, id)
	c.mu.Unlock()

	if c.repo == nil {
		if !cached {
			return ErrLayoutNotFound
		}
		return nil
	}
	if err := c.repo.DeleteLayout(ctx, id); err != nil {
		if errors.Is(err, ErrLayoutNotFound) {
			return err
		}
		return fmt.Errorf("deleting layout %q: %w", id, err)
	}
	c.logger.Info("layout deleted", "layout_id", id)
	return nil
}

// Len returns the number of layouts held in memory.
func (c *LayoutCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.layouts)
}

// remember caches l under id unless another layout got there first, and
// returns the cached layout.
func (c *LayoutCache) remember(id string, l *Layout) *Layout {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.layouts[id]; ok {
		return existing
	}
	c.layouts[id] = l
	return l
}
