package task

import (
	"testing"
	"time"
)

func TestInitialTimeline(t *testing.T) {
	timeline := InitialTimeline()
	if len(timeline) != 6 {
		t.Fatalf("expected 6 events, got %d", len(timeline))
	}
	for i, event := range timeline {
		if event.Status != TimelineStatuses()[i] {
			t.Fatalf("event %d: expected status %s, got %s", i, TimelineStatuses()[i], event.Status)
		}
		if event.Timestamp != nil || event.IsCompleted || event.IsCurrent {
			t.Fatalf("event %d: expected pending event, got %+v", i, event)
		}
	}
	if timeline[0].ID != "1" || timeline[5].ID != "6" {
		t.Fatalf("expected ids 1..6, got %q..%q", timeline[0].ID, timeline[5].ID)
	}
}

func TestApplyStatus_Flags(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	timeline := ApplyStatus(InitialTimeline(), StatusEnRoute, now)

	for _, event := range timeline {
		index := TimelineIndex(event.Status)
		wantCompleted := index < TimelineIndex(StatusEnRoute)
		if event.IsCompleted != wantCompleted {
			t.Fatalf("%s: expected completed=%v, got %v", event.Status, wantCompleted, event.IsCompleted)
		}
		if event.IsCurrent != (event.Status == StatusEnRoute) {
			t.Fatalf("%s: unexpected current=%v", event.Status, event.IsCurrent)
		}
		reached := index <= TimelineIndex(StatusEnRoute)
		if reached != (event.Timestamp != nil) {
			t.Fatalf("%s: expected timestamp set=%v", event.Status, reached)
		}
	}
}

func TestApplyStatus_TimestampsAreFirstReached(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sequence := TimelineStatuses()

	timeline := InitialTimeline()
	seen := map[Status]time.Time{}
	for i, status := range sequence {
		now := start.Add(time.Duration(i) * time.Minute)
		timeline = ApplyStatus(timeline, status, now)

		for _, event := range timeline {
			if event.IsCompleted && event.IsCurrent {
				t.Fatalf("%s: completed and current at once", event.Status)
			}
			if event.Timestamp == nil {
				continue
			}
			if first, ok := seen[event.Status]; ok {
				if !event.Timestamp.Equal(first) {
					t.Fatalf("%s: timestamp changed from %v to %v", event.Status, first, *event.Timestamp)
				}
				continue
			}
			seen[event.Status] = *event.Timestamp
			if !event.Timestamp.Equal(now) {
				t.Fatalf("%s: expected first-reached %v, got %v", event.Status, now, *event.Timestamp)
			}
		}
	}
}

func TestApplyStatus_SkippingMarksEarlierEvents(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	timeline := ApplyStatus(InitialTimeline(), StatusArrived, now)
	for _, event := range timeline[:3] {
		if event.Timestamp == nil || !event.Timestamp.Equal(now) {
			t.Fatalf("%s: expected timestamp %v, got %v", event.Status, now, event.Timestamp)
		}
	}
}

func TestApplyStatus_CancelledLeavesTimeline(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	before := ApplyStatus(InitialTimeline(), StatusEnRoute, now)
	after := ApplyStatus(before, StatusCancelled, now.Add(time.Hour))

	for i := range before {
		if before[i].IsCompleted != after[i].IsCompleted || before[i].IsCurrent != after[i].IsCurrent {
			t.Fatalf("%s: flags changed on cancel", before[i].Status)
		}
		if (before[i].Timestamp == nil) != (after[i].Timestamp == nil) {
			t.Fatalf("%s: timestamp presence changed on cancel", before[i].Status)
		}
	}
}

func TestApplyStatus_DoesNotMutateInput(t *testing.T) {
	original := InitialTimeline()
	_ = ApplyStatus(original, StatusCompleted, time.Now())
	for _, event := range original {
		if event.Timestamp != nil || event.IsCompleted || event.IsCurrent {
			t.Fatalf("input timeline mutated: %+v", event)
		}
	}
}

func TestTimelineIndex_OutsideTimeline(t *testing.T) {
	for _, status := range []Status{StatusDraft, StatusCancelled, Status("bogus")} {
		if got := TimelineIndex(status); got != -1 {
			t.Fatalf("TimelineIndex(%s) = %d, want -1", status, got)
		}
	}
}
