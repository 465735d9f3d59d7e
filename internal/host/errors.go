package host

import "errors"

// Domain errors for the host package.
var (
	// ErrBoardNotFound is returned when a board id is not hosted.
	ErrBoardNotFound = errors.New("host: board not found")

	// ErrOperatorNotFound is returned when an operator name is unknown.
	ErrOperatorNotFound = errors.New("host: operator not found")

	// ErrUnknownTool is returned when a tool kind is not in the toolbox.
	ErrUnknownTool = errors.New("host: unknown tool")

	// ErrUnknownProvider is returned when a board lists an unknown provider.
	ErrUnknownProvider = errors.New("host: unknown provider")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("host: already started")

	// ErrHistoryDisabled is returned by History without a history store.
	ErrHistoryDisabled = errors.New("host: history disabled")

	// ErrLayoutsDisabled is returned by layout administration without a
	// layout cache.
	ErrLayoutsDisabled = errors.New("host: layout cache disabled")

	// ErrInvalidCommand is returned for malformed MQTT commands.
	ErrInvalidCommand = errors.New("host: invalid command")
)
