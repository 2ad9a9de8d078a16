package tracking

import (
	"errors"
	"fmt"

	"github.com/amonks/taskmaster/task"
)

var (
	// ErrNoTask indicates there is no live task to track.
	ErrNoTask = errors.New("no task to track")
	// ErrTaskMismatch indicates the live task is not the requested one.
	ErrTaskMismatch = errors.New("task is not the live task")
	// ErrTaskInactive indicates the task is not in a trackable status.
	ErrTaskInactive = errors.New("task is not active")
	// ErrAlreadyStarted indicates Start was called twice.
	ErrAlreadyStarted = errors.New("tracker already started")
)

func formatInactiveError(status task.Status) error {
	return fmt.Errorf("%w: status %s", ErrTaskInactive, status)
}
