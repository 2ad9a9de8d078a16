package ui

import "testing"

func TestPrefixLength(t *testing.T) {
	tests := []struct {
		name   string
		length map[string]int
		id     string
		want   int
	}{
		{
			name:   "case insensitive lookup",
			length: map[string]int{"abc123": 4},
			id:     "ABC123",
			want:   4,
		},
		{
			name:   "missing id",
			length: map[string]int{"abc123": 4},
			id:     "",
			want:   0,
		},
		{
			name:   "nil map",
			length: nil,
			id:     "ABC123",
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrefixLength(tt.length, tt.id); got != tt.want {
				t.Fatalf("PrefixLength() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUniqueIDPrefixLengths(t *testing.T) {
	lengths := UniqueIDPrefixLengths([]string{"abc123", "abd456", "ABC123", "f00"})
	if got := lengths["abc123"]; got != 3 {
		t.Fatalf("expected abc123 prefix 3, got %d", got)
	}
	if got := lengths["f00"]; got != 1 {
		t.Fatalf("expected f00 prefix 1, got %d", got)
	}
	if len(lengths) != 3 {
		t.Fatalf("expected duplicates to collapse, got %v", lengths)
	}
}

func TestHighlightIDWithoutTerminal(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if got := HighlightID("abc123", 3); got != "abc123" {
		t.Fatalf("expected plain id, got %q", got)
	}
}
