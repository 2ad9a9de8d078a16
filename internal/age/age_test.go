package age

import (
	"testing"
	"time"
)

func TestSince(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	if got, ok := Since(now.Add(-time.Hour), now); !ok || got != time.Hour {
		t.Fatalf("expected 1h, got %v (ok=%v)", got, ok)
	}
	if _, ok := Since(time.Time{}, now); ok {
		t.Fatal("expected zero time to report false")
	}
}
