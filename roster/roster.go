// Package roster holds the fixed fixtures used by the simulation: the tasker
// roster, sample places and the task templates offered on the home screen.
package roster

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/amonks/taskmaster/geo"
	internalstrings "github.com/amonks/taskmaster/internal/strings"
	"github.com/amonks/taskmaster/task"
)

// Taskers returns the candidate taskers.
func Taskers() []task.Tasker {
	return append([]task.Tasker(nil), taskers...)
}

// Pick returns a tasker chosen uniformly at random from candidates.
// It returns false when candidates is empty.
func Pick(r *rand.Rand, candidates []task.Tasker) (task.Tasker, bool) {
	if len(candidates) == 0 {
		return task.Tasker{}, false
	}
	return candidates[r.IntN(len(candidates))], true
}

// FindTasker looks up a tasker by ID.
func FindTasker(id string) (task.Tasker, bool) {
	for _, tasker := range taskers {
		if tasker.ID == id {
			return tasker, true
		}
	}
	return task.Tasker{}, false
}

// Place is a named sample location.
type Place struct {
	Key     string    `json:"key"`
	Address string    `json:"address"`
	Point   geo.Point `json:"point"`
}

// Location converts the place to a task stop of the given type.
func (p Place) Location(kind task.LocationType) task.Location {
	return task.NewLocation(p.Address, p.Point.Lat, p.Point.Lng, kind)
}

// Places returns the sample places.
func Places() []Place {
	return append([]Place(nil), places...)
}

// FindPlace resolves a place by key or by a case-insensitive prefix of its
// address.
func FindPlace(name string) (Place, error) {
	needle := internalstrings.NormalizeLowerTrimSpace(name)
	if needle == "" {
		return Place{}, fmt.Errorf("%w: empty name", ErrUnknownPlace)
	}
	for _, place := range places {
		if place.Key == needle {
			return place, nil
		}
	}
	for _, place := range places {
		if strings.HasPrefix(strings.ToLower(place.Address), needle) {
			return place, nil
		}
	}
	return Place{}, fmt.Errorf("%w: %q", ErrUnknownPlace, name)
}

// Template is a suggested starting point for a task.
type Template struct {
	ID          string        `json:"id"`
	Emoji       string        `json:"emoji"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    task.Category `json:"category"`
}

// Templates returns the task templates.
func Templates() []Template {
	return append([]Template(nil), templates...)
}

func avatar(seed string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + seed
}

const (
	twoWheeler  = "🏍️ Two Wheeler"
	fourWheeler = "🚗 Four Wheeler"
)

var taskers = []task.Tasker{
	{ID: "t1", Name: "Rajesh Kumar", Phone: "+91 98765 43210", Rating: 4.8, Avatar: avatar("Rajesh"), Position: geo.Point{Lat: 12.9716, Lng: 77.5946}, Vehicle: twoWheeler},
	{ID: "t2", Name: "Priya Sharma", Phone: "+91 98765 43211", Rating: 4.9, Avatar: avatar("Priya"), Position: geo.Point{Lat: 12.9616, Lng: 77.5846}, Vehicle: fourWheeler},
	{ID: "t3", Name: "Amit Patel", Phone: "+91 98765 43212", Rating: 4.7, Avatar: avatar("Amit"), Position: geo.Point{Lat: 12.9816, Lng: 77.6046}, Vehicle: twoWheeler},
	{ID: "t4", Name: "Sunita Reddy", Phone: "+91 98765 43213", Rating: 4.6, Avatar: avatar("Sunita"), Position: geo.Point{Lat: 12.9516, Lng: 77.5746}, Vehicle: fourWheeler},
	{ID: "t5", Name: "Vikram Singh", Phone: "+91 98765 43214", Rating: 4.9, Avatar: avatar("Vikram"), Position: geo.Point{Lat: 12.9916, Lng: 77.6146}, Vehicle: twoWheeler},
	{ID: "t6", Name: "Meera Nair", Phone: "+91 98765 43215", Rating: 4.8, Avatar: avatar("Meera"), Position: geo.Point{Lat: 12.9416, Lng: 77.5646}, Vehicle: fourWheeler},
	{ID: "t7", Name: "Arjun Das", Phone: "+91 98765 43216", Rating: 4.5, Avatar: avatar("Arjun"), Position: geo.Point{Lat: 12.9316, Lng: 77.5546}, Vehicle: twoWheeler},
	{ID: "t8", Name: "Kavitha Menon", Phone: "+91 98765 43217", Rating: 4.7, Avatar: avatar("Kavitha"), Position: geo.Point{Lat: 13.0016, Lng: 77.6246}, Vehicle: fourWheeler},
	{ID: "t9", Name: "Rahul Joshi", Phone: "+91 98765 43218", Rating: 4.8, Avatar: avatar("Rahul"), Position: geo.Point{Lat: 12.9216, Lng: 77.5446}, Vehicle: twoWheeler},
	{ID: "t10", Name: "Deepa Iyer", Phone: "+91 98765 43219", Rating: 4.9, Avatar: avatar("Deepa"), Position: geo.Point{Lat: 13.0116, Lng: 77.6346}, Vehicle: fourWheeler},
}

var places = []Place{
	{Key: "mg-road", Address: "MG Road, Bengaluru, Karnataka", Point: geo.Point{Lat: 12.9716, Lng: 77.5946}},
	{Key: "indiranagar", Address: "Indiranagar, Bengaluru, Karnataka", Point: geo.Point{Lat: 12.9784, Lng: 77.6408}},
	{Key: "koramangala", Address: "Koramangala, Bengaluru, Karnataka", Point: geo.Point{Lat: 12.9279, Lng: 77.6271}},
	{Key: "hsr-layout", Address: "HSR Layout, Bengaluru, Karnataka", Point: geo.Point{Lat: 12.9116, Lng: 77.6389}},
	{Key: "whitefield", Address: "Whitefield, Bengaluru, Karnataka", Point: geo.Point{Lat: 12.9698, Lng: 77.75}},
}

var templates = []Template{
	{ID: "1", Emoji: "🛢️", Title: "Fuel Delivery", Description: "Get petrol or diesel delivered to your location", Category: task.CategoryFuelDelivery},
	{ID: "2", Emoji: "⏱️", Title: "Queue Standing", Description: "Have someone wait in line for you", Category: task.CategoryQueueStanding},
	{ID: "3", Emoji: "📦", Title: "Pickup & Delivery", Description: "Pick up items and deliver them anywhere", Category: task.CategoryPickupDelivery},
	{ID: "4", Emoji: "🏃", Title: "Running Errands", Description: "Get help with any task you need done", Category: task.CategoryGeneralTask},
}
