// Package task holds the TaskMaster data model and the single-task store.
//
// A Task moves from DRAFT through the six canonical timeline statuses to
// COMPLETED, unless it is CANCELLED along the way. The Store owns exactly one
// live task at a time; creating a new task discards the previous one.
package task

import (
	"strconv"
	"strings"
	"time"

	"github.com/amonks/taskmaster/geo"
	"github.com/amonks/taskmaster/internal/ids"
)

// Category determines the pricing model and the detail schema of a task.
type Category string

const (
	// CategoryFuelDelivery delivers petrol or diesel to a location.
	CategoryFuelDelivery Category = "FUEL_DELIVERY"
	// CategoryQueueStanding has a tasker wait in line on the user's behalf.
	CategoryQueueStanding Category = "QUEUE_STANDING"
	// CategoryPickupDelivery picks up items and delivers them.
	CategoryPickupDelivery Category = "PICKUP_DELIVERY"
	// CategoryGeneralTask covers any other errand.
	CategoryGeneralTask Category = "GENERAL_TASK"
)

// ValidCategories returns all valid category values.
func ValidCategories() []Category {
	return []Category{CategoryFuelDelivery, CategoryQueueStanding, CategoryPickupDelivery, CategoryGeneralTask}
}

// IsValid returns true if the category is a known value.
func (c Category) IsValid() bool {
	for _, valid := range ValidCategories() {
		if c == valid {
			return true
		}
	}
	return false
}

// DistanceBased reports whether the category is priced by route distance.
func (c Category) DistanceBased() bool {
	return c == CategoryFuelDelivery || c == CategoryPickupDelivery
}

// Label returns the display name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryFuelDelivery:
		return "Fuel Delivery"
	case CategoryQueueStanding:
		return "Queue Standing"
	case CategoryPickupDelivery:
		return "Pickup & Delivery"
	case CategoryGeneralTask:
		return "General Task"
	}
	return string(c)
}

// Emoji returns the icon shown next to the category.
func (c Category) Emoji() string {
	switch c {
	case CategoryFuelDelivery:
		return "🛢️"
	case CategoryQueueStanding:
		return "⏱️"
	case CategoryPickupDelivery:
		return "📦"
	case CategoryGeneralTask:
		return "🏃"
	}
	return ""
}

// Description returns a one-line explanation of what the category does.
func (c Category) Description() string {
	switch c {
	case CategoryFuelDelivery:
		return "We'll deliver fuel right to your location"
	case CategoryQueueStanding:
		return "Someone will wait in line on your behalf"
	case CategoryPickupDelivery:
		return "Pick up and deliver items for you"
	case CategoryGeneralTask:
		return "We'll help you with any task you need"
	}
	return ""
}

var categoryAliases = map[string]Category{
	"fuel":    CategoryFuelDelivery,
	"queue":   CategoryQueueStanding,
	"pickup":  CategoryPickupDelivery,
	"general": CategoryGeneralTask,
}

// ParseCategory accepts category constants case-insensitively, with '-' or '_'
// as separators, and the short aliases fuel, queue, pickup and general.
func ParseCategory(value string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if category, ok := categoryAliases[normalized]; ok {
		return category, nil
	}
	category := Category(strings.ToUpper(strings.ReplaceAll(normalized, "-", "_")))
	if category.IsValid() {
		return category, nil
	}
	return "", formatInvalidCategoryError(Category(value))
}

// Status is the lifecycle state of a task.
type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusRequested  Status = "REQUESTED"
	StatusAssigned   Status = "ASSIGNED"
	StatusEnRoute    Status = "EN_ROUTE"
	StatusArrived    Status = "ARRIVED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{
		StatusDraft, StatusRequested, StatusAssigned, StatusEnRoute,
		StatusArrived, StatusInProgress, StatusCompleted, StatusCancelled,
	}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions happen from s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Label returns the status text shown while tracking.
func (s Status) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusRequested:
		return "Finding TaskMaster"
	case StatusAssigned:
		return "TaskMaster Assigned"
	case StatusEnRoute:
		return "On the Way"
	case StatusArrived:
		return "Arrived"
	case StatusInProgress:
		return "Task In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// ParseStatus parses a status case-insensitively.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(value), "-", "_")))
	if status.IsValid() {
		return status, nil
	}
	return "", formatInvalidStatusError(Status(value))
}

// LocationType tags the role of a stop.
type LocationType string

const (
	LocationPickup  LocationType = "pickup"
	LocationDropoff LocationType = "dropoff"
	LocationGeneral LocationType = "general"
)

// Location is a stop on the task route.
type Location struct {
	ID      string       `json:"id"`
	Address string       `json:"address"`
	Lat     float64      `json:"lat" validate:"gte=-90,lte=90"`
	Lng     float64      `json:"lng" validate:"gte=-180,lte=180"`
	Type    LocationType `json:"type" validate:"oneof=pickup dropoff general"`
}

// NewLocation builds a location with an ID derived from its address and coordinates.
func NewLocation(address string, lat, lng float64, kind LocationType) Location {
	if kind == "" {
		kind = LocationGeneral
	}
	id := ids.GenerateFromParts(ids.DefaultLength, address,
		strconv.FormatFloat(lat, 'f', -1, 64), strconv.FormatFloat(lng, 'f', -1, 64))
	return Location{ID: id, Address: address, Lat: lat, Lng: lng, Type: kind}
}

// Point returns the coordinates of the location.
func (l Location) Point() geo.Point {
	return geo.Point{Lat: l.Lat, Lng: l.Lng}
}

// Pricing is the price breakdown for a task. Exactly one of DistanceCost and
// TimeCost is set, depending on the category's pricing model.
type Pricing struct {
	BaseFare     int      `json:"baseFare"`
	DistanceCost *int     `json:"distanceCost,omitempty"`
	TimeCost     *int     `json:"timeCost,omitempty"`
	ServiceFee   int      `json:"serviceFee"`
	Total        int      `json:"total"`
	Distance     *float64 `json:"distance,omitempty"`
	Duration     *float64 `json:"duration,omitempty"`
}

// Equal reports whether p and other carry identical values.
func (p Pricing) Equal(other Pricing) bool {
	return p.BaseFare == other.BaseFare &&
		equalPtr(p.DistanceCost, other.DistanceCost) &&
		equalPtr(p.TimeCost, other.TimeCost) &&
		p.ServiceFee == other.ServiceFee &&
		p.Total == other.Total &&
		equalPtr(p.Distance, other.Distance) &&
		equalPtr(p.Duration, other.Duration)
}

func (p Pricing) clone() Pricing {
	p.DistanceCost = clonePtr(p.DistanceCost)
	p.TimeCost = clonePtr(p.TimeCost)
	p.Distance = clonePtr(p.Distance)
	p.Duration = clonePtr(p.Duration)
	return p
}

// Tasker is the simulated agent assigned to a task.
type Tasker struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Rating   float64   `json:"rating"`
	Avatar   string    `json:"avatar"`
	Position geo.Point `json:"currentLocation"`
	Vehicle  string    `json:"vehicleType"`
}

// TimelineEvent is one of the six milestones of a task.
type TimelineEvent struct {
	ID          string     `json:"id"`
	Status      Status     `json:"status"`
	Title       string     `json:"title"`
	Timestamp   *time.Time `json:"timestamp"`
	IsCompleted bool       `json:"isCompleted"`
	IsCurrent   bool       `json:"isCurrent"`
}

// Task is the aggregate root for one user request.
type Task struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Locations   []Location      `json:"locations"`
	Details     Details         `json:"details"`
	Pricing     *Pricing        `json:"pricing"`
	Tasker      *Tasker         `json:"tasker"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	Timeline    []TimelineEvent `json:"timeline"`
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	t.Locations = append([]Location(nil), t.Locations...)
	if t.Locations == nil {
		t.Locations = []Location{}
	}
	if t.Details != nil {
		t.Details = t.Details.clone()
	}
	if t.Pricing != nil {
		pricing := t.Pricing.clone()
		t.Pricing = &pricing
	}
	if t.Tasker != nil {
		tasker := *t.Tasker
		t.Tasker = &tasker
	}
	t.Timeline = cloneTimeline(t.Timeline)
	return t
}

// Points returns the coordinates of every location in order.
func (t Task) Points() []geo.Point {
	points := make([]geo.Point, 0, len(t.Locations))
	for _, location := range t.Locations {
		points = append(points, location.Point())
	}
	return points
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func clonePtr[T any](value *T) *T {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
