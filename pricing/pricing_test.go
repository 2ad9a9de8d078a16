package pricing

import (
	"errors"
	"testing"

	"github.com/amonks/taskmaster/geo"
	"github.com/amonks/taskmaster/task"
)

func twoStops(deltaLat float64) []task.Location {
	return []task.Location{
		task.NewLocation("pickup", 12.9716, 77.5946, task.LocationPickup),
		task.NewLocation("dropoff", 12.9716+deltaLat, 77.5946, task.LocationDropoff),
	}
}

func TestCalculate_DistanceBased(t *testing.T) {
	tests := []struct {
		name      string
		category  task.Category
		deltaLat  float64
		wantKm    float64
		wantCost  int
		wantTotal int
	}{
		{name: "fuel 10km", category: task.CategoryFuelDelivery, deltaLat: 0.09, wantKm: 10, wantCost: 150, wantTotal: 220},
		{name: "pickup 5km", category: task.CategoryPickupDelivery, deltaLat: 0.045, wantKm: 5, wantCost: 75, wantTotal: 145},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.category, twoStops(tt.deltaLat), nil)
			if got.Distance == nil || *got.Distance != tt.wantKm {
				t.Fatalf("expected distance %v, got %v", tt.wantKm, got.Distance)
			}
			if got.DistanceCost == nil || *got.DistanceCost != tt.wantCost {
				t.Fatalf("expected distance cost %d, got %v", tt.wantCost, got.DistanceCost)
			}
			if got.TimeCost != nil || got.Duration != nil {
				t.Fatalf("expected no time fields, got %+v", got)
			}
			if got.BaseFare != 50 || got.ServiceFee != 20 {
				t.Fatalf("unexpected fees: %+v", got)
			}
			if got.Total != tt.wantTotal {
				t.Fatalf("expected total %d, got %d", tt.wantTotal, got.Total)
			}
		})
	}
}

func TestCalculate_TimeBased(t *testing.T) {
	tests := []struct {
		name      string
		category  task.Category
		details   task.Details
		wantHours float64
		wantTotal int
	}{
		{name: "queue below minimum", category: task.CategoryQueueStanding, details: task.QueueStanding{EstimatedHours: 0.5, TaskDescription: "x"}, wantHours: 1, wantTotal: 230},
		{name: "queue hours", category: task.CategoryQueueStanding, details: task.QueueStanding{EstimatedHours: 2.5, TaskDescription: "x"}, wantHours: 2.5, wantTotal: 530},
		{name: "general duration", category: task.CategoryGeneralTask, details: task.GeneralTask{EstimatedDuration: 3, DetailedDescription: "x"}, wantHours: 3, wantTotal: 630},
		{name: "no details", category: task.CategoryGeneralTask, details: nil, wantHours: 1, wantTotal: 230},
		{name: "mismatched details", category: task.CategoryQueueStanding, details: task.GeneralTask{EstimatedDuration: 4}, wantHours: 1, wantTotal: 230},
		{name: "fractional rounding", category: task.CategoryQueueStanding, details: task.QueueStanding{EstimatedHours: 1.333, TaskDescription: "x"}, wantHours: 1.333, wantTotal: 297},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.category, nil, tt.details)
			if got.Duration == nil || *got.Duration != tt.wantHours {
				t.Fatalf("expected duration %v, got %v", tt.wantHours, got.Duration)
			}
			if got.DistanceCost != nil || got.Distance != nil {
				t.Fatalf("expected no distance fields, got %+v", got)
			}
			if got.BaseFare != 0 || got.ServiceFee != 30 {
				t.Fatalf("unexpected fees: %+v", got)
			}
			if got.Total != tt.wantTotal {
				t.Fatalf("expected total %d, got %d", tt.wantTotal, got.Total)
			}
			if got.Total != got.BaseFare+*got.TimeCost+got.ServiceFee {
				t.Fatalf("total does not add up: %+v", got)
			}
		})
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	locations := twoStops(0.1234)
	for _, category := range task.ValidCategories() {
		first := Calculate(category, locations, task.QueueStanding{EstimatedHours: 2})
		second := Calculate(category, locations, task.QueueStanding{EstimatedHours: 2})
		if !first.Equal(second) {
			t.Fatalf("%s: expected equal pricing, got %+v and %+v", category, first, second)
		}
	}
}

func TestCalculate_SingleStopDefault(t *testing.T) {
	locations := []task.Location{task.NewLocation("MG Road", 12.9716, 77.5946, task.LocationGeneral)}
	for _, locs := range [][]task.Location{locations, nil} {
		got := Calculate(task.CategoryFuelDelivery, locs, nil)
		if *got.Distance != 4.5 {
			t.Fatalf("expected 4.5 km, got %v", *got.Distance)
		}
		// round(4.5 * 15) = 68
		if *got.DistanceCost != 68 || got.Total != 138 {
			t.Fatalf("unexpected pricing: cost=%d total=%d", *got.DistanceCost, got.Total)
		}
	}
}

func TestCalculate_SingleStopOrigin(t *testing.T) {
	origin := geo.Point{Lat: 12.9716, Lng: 77.5946}
	calc := Calculator{
		Rates:      DefaultRates(),
		SingleStop: SingleStop{Origin: &origin, DefaultKm: 4.5},
	}
	locations := []task.Location{task.NewLocation("north", 12.9716+0.045, 77.5946, task.LocationDropoff)}

	got := calc.Calculate(task.CategoryPickupDelivery, locations, nil)
	if *got.Distance != 5 || got.Total != 145 {
		t.Fatalf("expected 5 km and 145, got %v and %d", *got.Distance, got.Total)
	}

	none := calc.Calculate(task.CategoryPickupDelivery, nil, nil)
	if *none.Distance != 4.5 {
		t.Fatalf("expected default distance without stops, got %v", *none.Distance)
	}
}

func TestCalculate_CustomRates(t *testing.T) {
	rates := DefaultRates()
	rates[task.CategoryFuelDelivery] = Rate{Model: ModelDistance, BaseFare: 100, PerKm: 10, ServiceFee: 0}
	calc := Calculator{Rates: rates}

	got := calc.Calculate(task.CategoryFuelDelivery, twoStops(0.09), nil)
	if got.Total != 200 {
		t.Fatalf("expected total 200, got %d", got.Total)
	}

	partial := Calculator{Rates: Rates{}}
	if got := partial.Calculate(task.CategoryQueueStanding, nil, nil); got.Total != 230 {
		t.Fatalf("expected missing rate to fall back to default, got %d", got.Total)
	}
}

func TestRateValidate(t *testing.T) {
	if err := DefaultRates().Validate(); err != nil {
		t.Fatalf("expected default rates to be valid, got %v", err)
	}
	if err := (Rate{Model: "flat"}).Validate(); !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("expected ErrInvalidModel, got %v", err)
	}
	if err := (Rate{Model: ModelTime, PerHour: -1}).Validate(); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
	rates := Rates{task.CategoryGeneralTask: {Model: "flat"}}
	if err := rates.Validate(); !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("expected wrapped ErrInvalidModel, got %v", err)
	}
}
