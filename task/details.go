package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Details holds the category-specific fields of a task. The concrete type is
// one of FuelDelivery, QueueStanding, PickupDelivery or GeneralTask.
type Details interface {
	// Category returns the category the details belong to.
	Category() Category
	clone() Details
}

// FuelKind is the fuel requested for a delivery.
type FuelKind string

const (
	FuelPetrol FuelKind = "petrol"
	FuelDiesel FuelKind = "diesel"
)

// TimePreference selects immediate or scheduled fulfilment.
type TimePreference string

const (
	TimeASAP      TimePreference = "asap"
	TimeScheduled TimePreference = "scheduled"
)

// LocationArity is how many stops a pickup-and-delivery spans.
type LocationArity string

const (
	AritySingle   LocationArity = "single"
	ArityTwo      LocationArity = "two"
	ArityMultiple LocationArity = "multiple"
)

// PackageSize is the size class of a parcel.
type PackageSize string

const (
	PackageSmall  PackageSize = "small"
	PackageMedium PackageSize = "medium"
	PackageLarge  PackageSize = "large"
)

// FuelDelivery details.
type FuelDelivery struct {
	FuelType       FuelKind       `json:"fuelType" validate:"oneof=petrol diesel"`
	Quantity       float64        `json:"quantity" validate:"gt=0"`
	TimePreference TimePreference `json:"timePreference" validate:"oneof=asap scheduled"`
	ScheduledTime  *time.Time     `json:"scheduledTime,omitempty" validate:"required_if=TimePreference scheduled"`
}

// QueueStanding details.
type QueueStanding struct {
	EstimatedHours         float64 `json:"estimatedHours" validate:"gte=0"`
	TaskDescription        string  `json:"taskDescription" validate:"required"`
	AdditionalInstructions string  `json:"additionalInstructions,omitempty"`
}

// PickupDelivery details.
type PickupDelivery struct {
	LocationType        LocationArity `json:"locationType" validate:"oneof=single two multiple"`
	PackageSize         PackageSize   `json:"packageSize" validate:"oneof=small medium large"`
	SpecialInstructions string        `json:"specialInstructions,omitempty"`
}

// GeneralTask details.
type GeneralTask struct {
	EstimatedDuration      float64 `json:"estimatedDuration" validate:"gte=0"`
	DetailedDescription    string  `json:"detailedDescription" validate:"required"`
	NeedsMultipleLocations bool    `json:"needsMultipleLocations"`
}

func (FuelDelivery) Category() Category   { return CategoryFuelDelivery }
func (QueueStanding) Category() Category  { return CategoryQueueStanding }
func (PickupDelivery) Category() Category { return CategoryPickupDelivery }
func (GeneralTask) Category() Category    { return CategoryGeneralTask }

func (d FuelDelivery) clone() Details {
	d.ScheduledTime = clonePtr(d.ScheduledTime)
	return d
}

func (d QueueStanding) clone() Details  { return d }
func (d PickupDelivery) clone() Details { return d }
func (d GeneralTask) clone() Details    { return d }

// DecodeDetails decodes JSON-encoded details for category.
func DecodeDetails(category Category, data []byte) (Details, error) {
	var (
		details Details
		err     error
	)
	switch category {
	case CategoryFuelDelivery:
		var d FuelDelivery
		err = json.Unmarshal(data, &d)
		details = d
	case CategoryQueueStanding:
		var d QueueStanding
		err = json.Unmarshal(data, &d)
		details = d
	case CategoryPickupDelivery:
		var d PickupDelivery
		err = json.Unmarshal(data, &d)
		details = d
	case CategoryGeneralTask:
		var d GeneralTask
		err = json.Unmarshal(data, &d)
		details = d
	default:
		return nil, formatInvalidCategoryError(category)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s details: %w", strings.ToLower(string(category)), err)
	}
	return details, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateDetails checks required fields and enumerations of details.
func ValidateDetails(details Details) error {
	if details == nil {
		return fmt.Errorf("%w: details are required", ErrInvalidDetails)
	}
	if err := validate.Struct(details); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDetails, formatValidationErrors(err))
	}
	return nil
}

// ValidateLocation checks coordinate ranges and the location type.
func ValidateLocation(location Location) error {
	if err := validate.Struct(location); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidLocation, formatValidationErrors(err))
	}
	return nil
}

func formatValidationErrors(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed %q (value: %v)", fieldErr.Field(), fieldErr.Tag(), fieldErr.Value()))
	}
	return strings.Join(messages, "; ")
}
