package activity

import "errors"

var (
	// ErrEventLogClosed indicates a write to a closed event log.
	ErrEventLogClosed = errors.New("task event log is closed")
	// ErrEventLogNotFound indicates no event log exists for a task.
	ErrEventLogNotFound = errors.New("task event log not found")
)
