package task

import "time"

// timelineStatuses lists the canonical progression order.
var timelineStatuses = []Status{
	StatusRequested,
	StatusAssigned,
	StatusEnRoute,
	StatusArrived,
	StatusInProgress,
	StatusCompleted,
}

var timelineTitles = map[Status]string{
	StatusRequested:  "Task Requested",
	StatusAssigned:   "TaskMaster Assigned",
	StatusEnRoute:    "TaskMaster En Route",
	StatusArrived:    "TaskMaster Arrived",
	StatusInProgress: "Task In Progress",
	StatusCompleted:  "Task Completed",
}

// TimelineStatuses returns the six statuses that appear on the timeline, in order.
func TimelineStatuses() []Status {
	return append([]Status(nil), timelineStatuses...)
}

// TimelineIndex returns the canonical position of s, or -1 for DRAFT,
// CANCELLED and unknown values.
func TimelineIndex(s Status) int {
	for i, status := range timelineStatuses {
		if status == s {
			return i
		}
	}
	return -1
}

// InitialTimeline returns the six timeline events with nothing reached.
func InitialTimeline() []TimelineEvent {
	timeline := make([]TimelineEvent, 0, len(timelineStatuses))
	for i, status := range timelineStatuses {
		timeline = append(timeline, TimelineEvent{
			ID:     string(rune('1' + i)),
			Status: status,
			Title:  timelineTitles[status],
		})
	}
	return timeline
}

// ApplyStatus returns a copy of timeline updated for status. An event is
// completed when it precedes status and current when it equals status; its
// timestamp is set to now the first time status reaches or passes it and is
// never overwritten afterwards. Statuses outside the timeline (DRAFT,
// CANCELLED) leave the events as they are.
func ApplyStatus(timeline []TimelineEvent, status Status, now time.Time) []TimelineEvent {
	updated := cloneTimeline(timeline)
	target := TimelineIndex(status)
	if target < 0 {
		return updated
	}

	for i := range updated {
		event := &updated[i]
		index := TimelineIndex(event.Status)
		event.IsCompleted = index < target
		event.IsCurrent = event.Status == status
		if event.Timestamp == nil && index <= target {
			reached := now
			event.Timestamp = &reached
		}
	}
	return updated
}

func cloneTimeline(timeline []TimelineEvent) []TimelineEvent {
	if timeline == nil {
		return nil
	}
	cloned := make([]TimelineEvent, len(timeline))
	for i, event := range timeline {
		event.Timestamp = clonePtr(event.Timestamp)
		cloned[i] = event
	}
	return cloned
}
