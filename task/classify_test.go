package task

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		description string
		want        Category
	}{
		{description: "I need 5 litres of PETROL", want: CategoryFuelDelivery},
		{description: "Stand in line at the passport office", want: CategoryQueueStanding},
		{description: "Please pick up my parcel", want: CategoryPickupDelivery},
		{description: "Walk my dog", want: CategoryGeneralTask},
		{description: "", want: CategoryGeneralTask},
		// Fuel keywords are checked before queue keywords.
		{description: "wait for the diesel truck", want: CategoryFuelDelivery},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if got := Classify(tt.description); got != tt.want {
				t.Fatalf("Classify(%q) = %s, want %s", tt.description, got, tt.want)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{input: "fuel", want: CategoryFuelDelivery},
		{input: " Queue ", want: CategoryQueueStanding},
		{input: "pickup-delivery", want: CategoryPickupDelivery},
		{input: "GENERAL_TASK", want: CategoryGeneralTask},
	}

	for _, tt := range tests {
		got, err := ParseCategory(tt.input)
		if err != nil {
			t.Fatalf("ParseCategory(%q) err=%v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCategory(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseCategory_Invalid(t *testing.T) {
	_, err := ParseCategory("laundry")
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
	want := `invalid category: "laundry" (valid: FUEL_DELIVERY, QUEUE_STANDING, PICKUP_DELIVERY, GENERAL_TASK)`
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestCategoryLabels(t *testing.T) {
	for _, category := range ValidCategories() {
		if category.Label() == string(category) || category.Emoji() == "" || category.Description() == "" {
			t.Fatalf("expected display text for %s", category)
		}
	}
}
