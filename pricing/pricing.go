// Package pricing turns a task category, its stops and its details into a
// price breakdown.
package pricing

import (
	"fmt"
	"math"

	"github.com/amonks/taskmaster/geo"
	"github.com/amonks/taskmaster/task"
)

// Model selects how a category is charged.
type Model string

const (
	ModelDistance Model = "distance"
	ModelTime     Model = "time"
)

// ValidModels returns all known pricing models.
func ValidModels() []Model {
	return []Model{ModelDistance, ModelTime}
}

// IsValid reports whether m is a known pricing model.
func (m Model) IsValid() bool {
	for _, valid := range ValidModels() {
		if m == valid {
			return true
		}
	}
	return false
}

// Rate holds the constants for one category.
type Rate struct {
	Model        Model
	BaseFare     int
	PerKm        int
	PerHour      int
	MinimumHours float64
	ServiceFee   int
}

// Validate reports an error for unknown models or negative amounts.
func (r Rate) Validate() error {
	if !r.Model.IsValid() {
		return formatInvalidModelError(r.Model)
	}
	if r.BaseFare < 0 || r.PerKm < 0 || r.PerHour < 0 || r.ServiceFee < 0 || r.MinimumHours < 0 {
		return fmt.Errorf("%w: amounts must not be negative", ErrInvalidRate)
	}
	return nil
}

// Rates maps each category to its rate.
type Rates map[task.Category]Rate

// DefaultRates returns the standard rate table.
func DefaultRates() Rates {
	distance := Rate{Model: ModelDistance, BaseFare: 50, PerKm: 15, ServiceFee: 20}
	hourly := Rate{Model: ModelTime, PerHour: 200, MinimumHours: 1, ServiceFee: 30}
	return Rates{
		task.CategoryFuelDelivery:   distance,
		task.CategoryPickupDelivery: distance,
		task.CategoryQueueStanding:  hourly,
		task.CategoryGeneralTask:    hourly,
	}
}

// Rate returns the rate for category, falling back to the default table for
// categories missing from r.
func (r Rates) Rate(category task.Category) Rate {
	if rate, ok := r[category]; ok {
		return rate
	}
	if rate, ok := DefaultRates()[category]; ok {
		return rate
	}
	return DefaultRates()[task.CategoryGeneralTask]
}

// Validate checks every rate in the table.
func (r Rates) Validate() error {
	for _, category := range task.ValidCategories() {
		rate, ok := r[category]
		if !ok {
			continue
		}
		if err := rate.Validate(); err != nil {
			return fmt.Errorf("%s: %w", category, err)
		}
	}
	return nil
}

// DefaultSingleStopKm is the distance charged for a route with fewer than two
// stops when no origin is configured.
const DefaultSingleStopKm = 4.5

// SingleStop decides the distance charged when a route has fewer than two
// stops. With an Origin the distance runs from it to the first stop.
// Otherwise DefaultKm is used.
type SingleStop struct {
	Origin    *geo.Point
	DefaultKm float64
}

// Distance returns the charged distance for points, which has fewer than two
// entries.
func (s SingleStop) Distance(points []geo.Point) float64 {
	if s.Origin != nil && len(points) == 1 {
		if km, ok := geo.RouteDistance([]geo.Point{*s.Origin, points[0]}); ok {
			return km
		}
	}
	return geo.RoundTenth(s.DefaultKm)
}

// Calculator computes prices. The zero value uses the default rates and a
// 4.5 km single-stop distance.
type Calculator struct {
	Rates      Rates
	SingleStop SingleStop
}

// NewCalculator returns a calculator with the default configuration.
func NewCalculator() Calculator {
	return Calculator{Rates: DefaultRates(), SingleStop: SingleStop{DefaultKm: DefaultSingleStopKm}}
}

// Calculate is the default calculator's Calculate.
func Calculate(category task.Category, locations []task.Location, details task.Details) task.Pricing {
	return NewCalculator().Calculate(category, locations, details)
}

// Calculate returns the price breakdown for a task. It has no side effects.
func (c Calculator) Calculate(category task.Category, locations []task.Location, details task.Details) task.Pricing {
	rate := c.rates().Rate(category)
	if rate.Model == ModelDistance {
		return c.distancePricing(rate, locations)
	}
	return timePricing(rate, category, details)
}

// RouteDistance returns the distance charged for locations.
func (c Calculator) RouteDistance(locations []task.Location) float64 {
	points := make([]geo.Point, 0, len(locations))
	for _, location := range locations {
		points = append(points, location.Point())
	}
	if km, ok := geo.RouteDistance(points); ok {
		return km
	}
	return c.singleStop().Distance(points)
}

func (c Calculator) distancePricing(rate Rate, locations []task.Location) task.Pricing {
	distance := c.RouteDistance(locations)
	distanceCost := roundMoney(distance * float64(rate.PerKm))
	return task.Pricing{
		BaseFare:     rate.BaseFare,
		DistanceCost: &distanceCost,
		ServiceFee:   rate.ServiceFee,
		Total:        rate.BaseFare + distanceCost + rate.ServiceFee,
		Distance:     &distance,
	}
}

func timePricing(rate Rate, category task.Category, details task.Details) task.Pricing {
	hours := math.Max(requestedHours(category, details), rate.MinimumHours)
	if hours <= 0 || math.IsNaN(hours) {
		hours = rate.MinimumHours
	}
	timeCost := roundMoney(hours * float64(rate.PerHour))
	return task.Pricing{
		BaseFare:   0,
		TimeCost:   &timeCost,
		ServiceFee: rate.ServiceFee,
		Total:      timeCost + rate.ServiceFee,
		Duration:   &hours,
	}
}

func requestedHours(category task.Category, details task.Details) float64 {
	switch d := details.(type) {
	case task.QueueStanding:
		if category == task.CategoryQueueStanding {
			return d.EstimatedHours
		}
	case task.GeneralTask:
		if category == task.CategoryGeneralTask {
			return d.EstimatedDuration
		}
	}
	return 0
}

func (c Calculator) rates() Rates {
	if c.Rates == nil {
		return DefaultRates()
	}
	return c.Rates
}

func (c Calculator) singleStop() SingleStop {
	stop := c.SingleStop
	if stop.Origin == nil && stop.DefaultKm <= 0 {
		stop.DefaultKm = DefaultSingleStopKm
	}
	return stop
}

func roundMoney(amount float64) int {
	return int(math.Round(amount))
}
