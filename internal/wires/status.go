package wires

import "sort"

// StatusKey identifies one entry on a board's status display.
type StatusKey string

// LightState is how a status light is lit.
type LightState string

// Status light states.
const (
	LightOff          LightState = "off"
	LightOn           LightState = "on"
	LightBlinkingFast LightState = "blinking_fast"
	LightBlinkingSlow LightState = "blinking_slow"
)

// StatusLight is the value shown for a status entry.
type StatusLight struct {
	Color Color      `json:"color"`
	State LightState `json:"state"`
	Text  string     `json:"text"`
}

// StatusEntry is one key/value pair of a status board.
type StatusEntry struct {
	Key   StatusKey   `json:"key"`
	Value StatusLight `json:"value"`
}

// StatusBoard holds the auxiliary statuses shown beside the wires.
// It is not safe for concurrent use; Board guards it.
type StatusBoard struct {
	entries map[StatusKey]StatusLight
}

// NewStatusBoard returns an empty status board.
func NewStatusBoard() *StatusBoard {
	return &StatusBoard{entries: make(map[StatusKey]StatusLight)}
}

// Set stores v under key and reports whether anything changed.
func (s *StatusBoard) Set(key StatusKey, v StatusLight) bool {
	if cur, ok := s.entries[key]; ok && cur == v {
		return false
	}
	s.entries[key] = v
	return true
}

// Get returns the value stored under key.
func (s *StatusBoard) Get(key StatusKey) (StatusLight, bool) {
	v, ok := s.entries[key]
	return v, ok
}

// Entries returns all entries sorted by key.
func (s *StatusBoard) Entries() []StatusEntry {
	out := make([]StatusEntry, 0, len(s.entries))
	for k, v := range s.entries {
		out = append(out, StatusEntry{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
