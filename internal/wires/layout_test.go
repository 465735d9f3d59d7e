package wires

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleLayout() *Layout {
	return &Layout{Entries: map[Key]LayoutEntry{
		"door.power": {Appearance: Appearance{Color: ColorRed, Letter: LetterBeta}, Position: 1},
		"door.bolt":  {Appearance: Appearance{Color: ColorBlue, Letter: LetterAlpha}, Position: 0},
		"door.timer": {Appearance: Appearance{Color: ColorGold, Letter: LetterXi}, Position: 2},
	}}
}

// memLayoutRepo is an in-memory LayoutRepository that counts calls.
type memLayoutRepo struct {
	mu      sync.Mutex
	layouts map[string]*Layout
	gets    atomic.Int32
	creates atomic.Int32
	getErr  error
	winner  *Layout // returned by CreateLayout instead of the argument when set
}

func newMemLayoutRepo() *memLayoutRepo {
	return &memLayoutRepo{layouts: make(map[string]*Layout)}
}

func (m *memLayoutRepo) GetLayout(_ context.Context, id string) (*Layout, error) {
	m.gets.Add(1)
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.layouts[id]
	if !ok {
		return nil, ErrLayoutNotFound
	}
	return l.Clone(), nil
}

func (m *memLayoutRepo) CreateLayout(_ context.Context, id string, l *Layout) (*Layout, error) {
	m.creates.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.layouts[id]; ok {
		return existing.Clone(), nil
	}
	if m.winner != nil {
		m.layouts[id] = m.winner.Clone()
		return m.winner.Clone(), nil
	}
	m.layouts[id] = l.Clone()
	return l.Clone(), nil
}

func (m *memLayoutRepo) DeleteLayout(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.layouts[id]; !ok {
		return ErrLayoutNotFound
	}
	delete(m.layouts, id)
	return nil
}

func (m *memLayoutRepo) ListLayoutIDs(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.layouts))
	for id := range m.layouts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func TestLayout_Keys(t *testing.T) {
	got := sampleLayout().Keys()
	want := []Key{"door.bolt", "door.power", "door.timer"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestLayout_Validate(t *testing.T) {
	tests := []struct {
		name   string
		layout *Layout
		ok     bool
	}{
		{name: "valid", layout: sampleLayout(), ok: true},
		{name: "nil", layout: nil},
		{name: "empty", layout: &Layout{Entries: map[Key]LayoutEntry{}}},
		{
			name: "duplicate position",
			layout: &Layout{Entries: map[Key]LayoutEntry{
				"a": {Position: 0},
				"b": {Position: 0},
			}},
		},
		{
			name:   "negative position",
			layout: &Layout{Entries: map[Key]LayoutEntry{"a": {Position: -1}}},
		},
		{
			name: "bad colour",
			layout: &Layout{Entries: map[Key]LayoutEntry{
				"a": {Appearance: Appearance{Color: Color(42)}},
			}},
		},
		{
			name:   "empty key",
			layout: &Layout{Entries: map[Key]LayoutEntry{"": {}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidLayout) {
				t.Errorf("Validate() error = %v, want ErrInvalidLayout", err)
			}
		})
	}
}

func TestLayoutCache_GetMiss(t *testing.T) {
	cache := NewLayoutCache(nil)

	l, ok, err := cache.Get(t.Context(), "airlock")
	if err != nil || ok || l != nil {
		t.Errorf("Get() = %v, %v, %v, want nil, false, nil", l, ok, err)
	}
}

func TestLayoutCache_FirstWriterWins(t *testing.T) {
	ctx := t.Context()
	cache := NewLayoutCache(nil)

	first := sampleLayout()
	stored, err := cache.Put(ctx, "airlock", first)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !stored.Equal(first) {
		t.Error("first Put() did not return its own layout")
	}

	second := &Layout{Entries: map[Key]LayoutEntry{
		"door.power": {Appearance: Appearance{Color: ColorPink, Letter: LetterMu}, Position: 0},
	}}
	stored, err = cache.Put(ctx, "airlock", second)
	if err != nil {
		t.Fatalf("second Put() error = %v", err)
	}
	if !stored.Equal(first) {
		t.Error("second Put() replaced the first layout")
	}

	got, ok, err := cache.Get(ctx, "airlock")
	if err != nil || !ok {
		t.Fatalf("Get() = _, %v, %v", ok, err)
	}
	if diff := cmp.Diff(first, got); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutCache_ReturnsCopies(t *testing.T) {
	ctx := t.Context()
	cache := NewLayoutCache(nil)

	original := sampleLayout()
	if _, err := cache.Put(ctx, "airlock", original); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	original.Entries["door.bolt"] = LayoutEntry{Position: 9}

	got, _, _ := cache.Get(ctx, "airlock")
	got.Entries["door.power"] = LayoutEntry{Position: 7}

	again, _, _ := cache.Get(ctx, "airlock")
	if !again.Equal(sampleLayout()) {
		t.Error("cached layout was mutated through a caller's copy")
	}
}

func TestLayoutCache_PutInvalid(t *testing.T) {
	cache := NewLayoutCache(nil)
	_, err := cache.Put(t.Context(), "airlock", &Layout{})
	if !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("Put() error = %v, want ErrInvalidLayout", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after invalid Put, want 0", cache.Len())
	}
}

func TestLayoutCache_ConcurrentWritersAgree(t *testing.T) {
	ctx := t.Context()
	cache := NewLayoutCache(newMemLayoutRepo())

	const writers = 16
	results := make([]*Layout, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l := &Layout{Entries: map[Key]LayoutEntry{
				"a": {Appearance: Appearance{Color: Color(i % 12)}, Position: 0},
			}}
			stored, err := cache.Put(ctx, "shared", l)
			if err != nil {
				t.Errorf("Put() error = %v", err)
				return
			}
			results[i] = stored
		}(i)
	}
	wg.Wait()

	for i := 1; i < writers; i++ {
		if !results[i].Equal(results[0]) {
			t.Fatalf("writer %d saw a different layout than writer 0", i)
		}
	}
}

func TestLayoutCache_ReadThrough(t *testing.T) {
	ctx := t.Context()
	repo := newMemLayoutRepo()
	repo.layouts["airlock"] = sampleLayout()
	cache := NewLayoutCache(repo)

	for i := 0; i < 3; i++ {
		l, ok, err := cache.Get(ctx, "airlock")
		if err != nil || !ok {
			t.Fatalf("Get() = _, %v, %v", ok, err)
		}
		if !l.Equal(sampleLayout()) {
			t.Fatal("Get() returned a different layout")
		}
	}
	if n := repo.gets.Load(); n != 1 {
		t.Errorf("repository queried %d times, want 1", n)
	}
}

func TestLayoutCache_RepositoryError(t *testing.T) {
	repo := newMemLayoutRepo()
	boom := errors.New("disk on fire")
	repo.getErr = boom
	cache := NewLayoutCache(repo)

	_, _, err := cache.Get(t.Context(), "airlock")
	if !errors.Is(err, boom) {
		t.Errorf("Get() error = %v, want wrapped repository error", err)
	}
}

func TestLayoutCache_WriteThroughReturnsStoredWinner(t *testing.T) {
	repo := newMemLayoutRepo()
	repo.winner = sampleLayout()
	cache := NewLayoutCache(repo)

	mine := &Layout{Entries: map[Key]LayoutEntry{"door.bolt": {Position: 0}}}
	stored, err := cache.Put(t.Context(), "airlock", mine)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if !stored.Equal(sampleLayout()) {
		t.Error("Put() did not return the repository's stored layout")
	}
}

func TestLayoutCache_IDs(t *testing.T) {
	ctx := t.Context()

	mem := NewLayoutCache(nil)
	for _, id := range []string{"vending", "airlock"} {
		if _, err := mem.Put(ctx, id, sampleLayout()); err != nil {
			t.Fatalf("Put(%q) error = %v", id, err)
		}
	}
	ids, err := mem.IDs(ctx)
	if err != nil {
		t.Fatalf("IDs() error = %v", err)
	}
	if diff := cmp.Diff([]string{"airlock", "vending"}, ids); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}

	repo := newMemLayoutRepo()
	repo.layouts["stored"] = sampleLayout()
	ids, err = NewLayoutCache(repo).IDs(ctx)
	if err != nil {
		t.Fatalf("IDs() error = %v", err)
	}
	if diff := cmp.Diff([]string{"stored"}, ids); diff != "" {
		t.Errorf("IDs() from repository mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutCache_DeleteLetsNextWriterCapture(t *testing.T) {
	ctx := t.Context()
	repo := newMemLayoutRepo()
	cache := NewLayoutCache(repo)

	if _, err := cache.Put(ctx, "airlock", sampleLayout()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := cache.Delete(ctx, "airlock"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := cache.Get(ctx, "airlock"); ok {
		t.Fatal("layout still cached after Delete()")
	}

	fresh := &Layout{Entries: map[Key]LayoutEntry{
		"door.power": {Appearance: Appearance{Color: ColorPink, Letter: LetterMu}, Position: 0},
	}}
	stored, err := cache.Put(ctx, "airlock", fresh)
	if err != nil {
		t.Fatalf("Put() after Delete() error = %v", err)
	}
	if !stored.Equal(fresh) {
		t.Error("Put() after Delete() kept the old layout")
	}

	if err := cache.Delete(ctx, "missing"); !errors.Is(err, ErrLayoutNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrLayoutNotFound", err)
	}
	if err := NewLayoutCache(nil).Delete(ctx, "missing"); !errors.Is(err, ErrLayoutNotFound) {
		t.Errorf("in-memory Delete(missing) error = %v, want ErrLayoutNotFound", err)
	}
}
