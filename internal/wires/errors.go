package wires

import "errors"

// Domain errors for the wires package.
//
// These indicate contract violations by a collaborator (host, provider or
// transport), not conditions an operator can cause. Operator-facing failures
// are reported through Result.Feedback instead.
var (
	// ErrWireNotFound is returned when a display id or key does not match any wire.
	ErrWireNotFound = errors.New("wires: wire not found")

	// ErrDuplicateWire is returned when a key is registered twice in one build.
	ErrDuplicateWire = errors.New("wires: duplicate wire key")

	// ErrInvalidKey is returned when a provider registers an empty key.
	ErrInvalidKey = errors.New("wires: invalid wire key")

	// ErrNotStarted is returned when a board is used before Startup.
	ErrNotStarted = errors.New("wires: board not started")

	// ErrAlreadyStarted is returned when Startup is called twice.
	ErrAlreadyStarted = errors.New("wires: board already started")

	// ErrUnknownAction is returned for an action outside cut, mend and pulse.
	ErrUnknownAction = errors.New("wires: unknown action")

	// ErrInvalidLayout is returned when a layout fails validation.
	ErrInvalidLayout = errors.New("wires: invalid layout")

	// ErrLayoutNotFound is returned by repositories when a layout id has no entry.
	ErrLayoutNotFound = errors.New("wires: layout not found")

	// ErrBoardNotFound is returned by repositories when a board id has no entry.
	ErrBoardNotFound = errors.New("wires: board not found")

	// ErrInvalidColor is returned when a color name cannot be parsed.
	ErrInvalidColor = errors.New("wires: invalid color")

	// ErrInvalidLetter is returned when a letter name cannot be parsed.
	ErrInvalidLetter = errors.New("wires: invalid letter")
)
