// Package geo computes great-circle distances between coordinates.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance returns the haversine surface distance between a and b in kilometers.
func Distance(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// RouteDistance returns the total distance across consecutive points, rounded
// to one decimal place. It reports false when fewer than two points are given.
func RouteDistance(points []Point) (float64, bool) {
	if len(points) < 2 {
		return 0, false
	}

	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		total += Distance(points[i], points[i+1])
	}
	return RoundTenth(total), true
}

// Step moves from toward to by fraction of the remaining vector.
func Step(from, to Point, fraction float64) Point {
	return Point{
		Lat: from.Lat + (to.Lat-from.Lat)*fraction,
		Lng: from.Lng + (to.Lng-from.Lng)*fraction,
	}
}

// RoundTenth rounds value to one decimal place.
func RoundTenth(value float64) float64 {
	return math.Round(value*10) / 10
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
