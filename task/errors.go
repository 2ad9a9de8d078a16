package task

import (
	"errors"

	"github.com/amonks/taskmaster/internal/validation"
)

var (
	// ErrInvalidCategory indicates a category is invalid.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidStatus indicates a status is invalid.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrInvalidDetails indicates task details failed validation.
	ErrInvalidDetails = errors.New("invalid details")
	// ErrInvalidLocation indicates a location failed validation.
	ErrInvalidLocation = errors.New("invalid location")
)

func formatInvalidCategoryError(category Category) error {
	return validation.FormatInvalidValueError(ErrInvalidCategory, category, ValidCategories())
}

func formatInvalidStatusError(status Status) error {
	return validation.FormatInvalidValueError(ErrInvalidStatus, status, ValidStatuses())
}
