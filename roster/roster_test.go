package roster

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/amonks/taskmaster/task"
)

func TestTaskers(t *testing.T) {
	list := Taskers()
	if len(list) != 10 {
		t.Fatalf("expected 10 taskers, got %d", len(list))
	}
	seen := map[string]bool{}
	for _, tasker := range list {
		if seen[tasker.ID] {
			t.Fatalf("duplicate tasker id %q", tasker.ID)
		}
		seen[tasker.ID] = true
		if tasker.Rating < 0 || tasker.Rating > 5 {
			t.Fatalf("%s: rating %v out of range", tasker.ID, tasker.Rating)
		}
	}

	list[0].Name = "mutated"
	if Taskers()[0].Name != "Rajesh Kumar" {
		t.Fatal("Taskers returned the shared slice")
	}
}

func TestPick_Seeded(t *testing.T) {
	candidates := Taskers()
	first := rand.New(rand.NewPCG(1, 2))
	second := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		a, _ := Pick(first, candidates)
		b, _ := Pick(second, candidates)
		if a.ID != b.ID {
			t.Fatalf("draw %d: expected same tasker for same seed, got %q and %q", i, a.ID, b.ID)
		}
	}
}

func TestPick_CoversRoster(t *testing.T) {
	candidates := Taskers()
	r := rand.New(rand.NewPCG(7, 7))
	counts := map[string]int{}
	for i := 0; i < 2000; i++ {
		tasker, ok := Pick(r, candidates)
		if !ok {
			t.Fatal("expected a tasker")
		}
		counts[tasker.ID]++
	}
	for _, tasker := range candidates {
		if counts[tasker.ID] < 100 {
			t.Fatalf("%s picked %d times out of 2000", tasker.ID, counts[tasker.ID])
		}
	}
}

func TestPick_Empty(t *testing.T) {
	if _, ok := Pick(rand.New(rand.NewPCG(1, 1)), nil); ok {
		t.Fatal("expected no tasker from an empty roster")
	}
}

func TestFindTasker(t *testing.T) {
	tasker, ok := FindTasker("t2")
	if !ok || tasker.Name != "Priya Sharma" {
		t.Fatalf("expected Priya Sharma, got %+v", tasker)
	}
	if _, ok := FindTasker("t99"); ok {
		t.Fatal("expected unknown tasker")
	}
}

func TestFindPlace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "mg-road", want: "mg-road"},
		{input: " Whitefield ", want: "whitefield"},
		{input: "hsr", want: "hsr-layout"},
		{input: "Koramangala, Bengaluru", want: "koramangala"},
	}
	for _, tt := range tests {
		place, err := FindPlace(tt.input)
		if err != nil {
			t.Fatalf("FindPlace(%q): %v", tt.input, err)
		}
		if place.Key != tt.want {
			t.Fatalf("FindPlace(%q) = %q, want %q", tt.input, place.Key, tt.want)
		}
	}

	for _, input := range []string{"", "mysore"} {
		if _, err := FindPlace(input); !errors.Is(err, ErrUnknownPlace) {
			t.Fatalf("FindPlace(%q): expected ErrUnknownPlace, got %v", input, err)
		}
	}
}

func TestPlaceLocation(t *testing.T) {
	place, _ := FindPlace("indiranagar")
	location := place.Location(task.LocationDropoff)
	if location.Lat != 12.9784 || location.Lng != 77.6408 || location.Type != task.LocationDropoff {
		t.Fatalf("unexpected location: %+v", location)
	}
	if err := task.ValidateLocation(location); err != nil {
		t.Fatalf("expected valid location, got %v", err)
	}
}

func TestTemplates(t *testing.T) {
	list := Templates()
	if len(list) != len(task.ValidCategories()) {
		t.Fatalf("expected one template per category, got %d", len(list))
	}
	for i, template := range list {
		if template.Category != task.ValidCategories()[i] {
			t.Fatalf("template %d: expected %s, got %s", i, task.ValidCategories()[i], template.Category)
		}
	}
}
