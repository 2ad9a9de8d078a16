package booking

import (
	"errors"
	"fmt"

	"github.com/amonks/taskmaster/internal/validation"
	"github.com/amonks/taskmaster/pricing"
	"github.com/amonks/taskmaster/task"
)

var (
	// ErrNoTask indicates there is no live task.
	ErrNoTask = errors.New("no task")
	// ErrNotDraft indicates the task has already been confirmed.
	ErrNotDraft = errors.New("task is no longer a draft")
	// ErrMissingDetails indicates the task cannot be confirmed without details.
	ErrMissingDetails = errors.New("task details are required")
	// ErrCategoryMismatch indicates details of another category.
	ErrCategoryMismatch = errors.New("details do not match task category")
	// ErrAlreadyConfirmed indicates a search is already running.
	ErrAlreadyConfirmed = errors.New("task already confirmed")
	// ErrFinished indicates the task has already completed or been cancelled.
	ErrFinished = errors.New("task already finished")
)

func formatCategoryError(category task.Category) error {
	return validation.FormatInvalidValueError(task.ErrInvalidCategory, category, task.ValidCategories())
}

func formatCouponError(code string) error {
	return fmt.Errorf("%w: %q", pricing.ErrUnknownCoupon, code)
}

func formatFinishedError(status task.Status) error {
	return fmt.Errorf("%w: status %s", ErrFinished, status)
}
