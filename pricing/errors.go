package pricing

import (
	"errors"

	"github.com/amonks/taskmaster/internal/validation"
)

var (
	// ErrInvalidModel indicates a pricing model is invalid.
	ErrInvalidModel = errors.New("invalid pricing model")
	// ErrInvalidRate indicates a rate has out-of-range values.
	ErrInvalidRate = errors.New("invalid rate")
	// ErrUnknownCoupon indicates a coupon code is not recognized.
	ErrUnknownCoupon = errors.New("unknown coupon")
)

func formatInvalidModelError(model Model) error {
	return validation.FormatInvalidValueError(ErrInvalidModel, model, ValidModels())
}
