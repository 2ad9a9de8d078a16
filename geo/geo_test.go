package geo

import (
	"math"
	"testing"
)

func TestDistance_ZeroForSamePoint(t *testing.T) {
	p := Point{Lat: 12.9716, Lng: 77.5946}
	if got := Distance(p, p); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestDistance_KnownValue(t *testing.T) {
	// One degree of latitude is R*pi/180 km.
	a := Point{Lat: 0, Lng: 0}
	b := Point{Lat: 1, Lng: 0}
	want := EarthRadiusKm * math.Pi / 180
	if got := Distance(a, b); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDistance_NaNPropagates(t *testing.T) {
	got := Distance(Point{Lat: math.NaN()}, Point{Lat: 1})
	if !math.IsNaN(got) {
		t.Fatalf("expected NaN, got %v", got)
	}
}

func TestRouteDistance(t *testing.T) {
	points := []Point{
		{Lat: 12.9716, Lng: 77.5946},
		{Lat: 12.9784, Lng: 77.6408},
		{Lat: 12.9279, Lng: 77.6271},
		{Lat: 12.9116, Lng: 77.6389},
	}

	got, ok := RouteDistance(points)
	if !ok {
		t.Fatal("expected route distance to be computable")
	}

	sum := 0.0
	for i := 0; i < len(points)-1; i++ {
		sum += Distance(points[i], points[i+1])
	}
	if want := math.Round(sum*10) / 10; got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}

	reversed := make([]Point, len(points))
	for i, p := range points {
		reversed[len(points)-1-i] = p
	}
	back, _ := RouteDistance(reversed)
	if back != got {
		t.Fatalf("expected reversed route %v to equal %v", back, got)
	}
}

func TestRouteDistance_RoundsAtEnd(t *testing.T) {
	// Three segments of 0.04 km each: per-segment rounding would give 0.
	step := 0.04 / (EarthRadiusKm * math.Pi / 180)
	points := []Point{{Lat: 0}, {Lat: step}, {Lat: 2 * step}, {Lat: 3 * step}}
	got, _ := RouteDistance(points)
	if got != 0.1 {
		t.Fatalf("expected 0.1, got %v", got)
	}
}

func TestRouteDistance_TooFewPoints(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{name: "nil", points: nil},
		{name: "single", points: []Point{{Lat: 1, Lng: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := RouteDistance(tt.points); ok {
				t.Fatal("expected ok=false")
			}
		})
	}
}

func TestStep_Converges(t *testing.T) {
	target := Point{Lat: 12.9716, Lng: 77.5946}
	pos := Point{Lat: 13.0116, Lng: 77.6346}

	prev := Distance(pos, target)
	for i := 0; i < 200; i++ {
		next := Step(pos, target, 0.1)
		if overshoots(pos.Lat, next.Lat, target.Lat) || overshoots(pos.Lng, next.Lng, target.Lng) {
			t.Fatalf("step %d overshot target: %+v", i, next)
		}
		d := Distance(next, target)
		if d >= prev {
			t.Fatalf("step %d: expected distance to decrease, %v -> %v", i, prev, d)
		}
		prev = d
		pos = next
	}
	if prev > 1e-6 {
		t.Fatalf("expected distance to approach zero, got %v", prev)
	}
}

func overshoots(from, next, target float64) bool {
	if from <= target {
		return next > target
	}
	return next < target
}
