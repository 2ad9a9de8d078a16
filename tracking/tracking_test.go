package tracking

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/amonks/taskmaster/activity"
	"github.com/amonks/taskmaster/geo"
	"github.com/amonks/taskmaster/internal/clock"
	"github.com/amonks/taskmaster/task"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	clock *clock.Fake
	store *task.Store
	task  task.Task
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := clock.NewFake(epoch)
	store := task.NewStore(task.StoreOptions{Now: fake.Now})
	created := store.Create("deliver a parcel", task.CategoryPickupDelivery)
	store.SetLocations([]task.Location{
		task.NewLocation("pickup", 12.9716, 77.5946, task.LocationPickup),
		task.NewLocation("dropoff", 12.9784, 77.6408, task.LocationDropoff),
	})
	store.SetStatus(task.StatusRequested)
	return &fixture{clock: fake, store: store, task: created}
}

func (f *fixture) assign() {
	f.store.AssignTasker(task.Tasker{ID: "t9", Name: "Rahul Joshi", Position: geo.Point{Lat: 12.9216, Lng: 77.5446}})
}

func (f *fixture) status(t *testing.T) task.Status {
	t.Helper()
	current, ok := f.store.Current()
	if !ok {
		t.Fatal("expected a live task")
	}
	return current.Status
}

func (f *fixture) start(t *testing.T, opts Options) *Tracker {
	t.Helper()
	opts.Clock = f.clock
	tracker := New(f.store, opts)
	if err := tracker.Start(f.task.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	return tracker
}

func isDone(tracker *Tracker) bool {
	select {
	case <-tracker.Done():
		return true
	default:
		return false
	}
}

func TestTracker_WalksTransitionTable(t *testing.T) {
	f := newFixture(t)
	f.assign()
	tracker := f.start(t, Options{})

	steps := []struct {
		wait time.Duration
		want task.Status
	}{
		{wait: 6 * time.Second, want: task.StatusEnRoute},
		{wait: 8 * time.Second, want: task.StatusArrived},
		{wait: 8 * time.Second, want: task.StatusInProgress},
		{wait: 12 * time.Second, want: task.StatusCompleted},
	}
	for _, step := range steps {
		before := f.status(t)
		f.clock.Advance(step.wait - time.Millisecond)
		if got := f.status(t); got != before {
			t.Fatalf("expected %s to hold just before the hop, got %s", before, got)
		}
		f.clock.Advance(time.Millisecond)
		if got := f.status(t); got != step.want {
			t.Fatalf("expected %s, got %s", step.want, got)
		}
	}

	if !isDone(tracker) {
		t.Fatal("expected tracker to finish on COMPLETED")
	}
	if pending := f.clock.Pending(); pending != 0 {
		t.Fatalf("expected no pending timers, got %d", pending)
	}

	current, _ := f.store.Current()
	for _, event := range current.Timeline {
		if event.Status == task.StatusCompleted {
			if !event.IsCurrent || event.IsCompleted {
				t.Fatalf("expected COMPLETED to be current, got %+v", event)
			}
			continue
		}
		if !event.IsCompleted || event.IsCurrent {
			t.Fatalf("%s: expected completed, got %+v", event.Status, event)
		}
	}
}

func TestTracker_RequestedHopsToAssigned(t *testing.T) {
	f := newFixture(t)
	f.start(t, Options{})

	f.clock.Advance(time.Second)
	if got := f.status(t); got != task.StatusAssigned {
		t.Fatalf("expected ASSIGNED after 1s, got %s", got)
	}
}

func TestTracker_TerminalStatusIsFinal(t *testing.T) {
	f := newFixture(t)
	f.assign()
	tracker := f.start(t, Options{})

	f.clock.Advance(time.Hour)
	if got := f.status(t); got != task.StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", got)
	}
	completed, _ := f.store.Current()

	f.clock.Advance(24 * time.Hour)
	current, _ := f.store.Current()
	if current.Status != task.StatusCompleted {
		t.Fatalf("expected status to stay COMPLETED, got %s", current.Status)
	}
	if current.Tasker.Position != completed.Tasker.Position {
		t.Fatal("expected tasker to stop moving after completion")
	}
	if !isDone(tracker) {
		t.Fatal("expected tracker to be done")
	}
}

func TestTracker_CancelPreemptsPendingHop(t *testing.T) {
	f := newFixture(t)
	f.assign()
	tracker := f.start(t, Options{})

	f.clock.Advance(7 * time.Second)
	if got := f.status(t); got != task.StatusEnRoute {
		t.Fatalf("expected EN_ROUTE, got %s", got)
	}

	f.store.SetStatus(task.StatusCancelled)
	if !isDone(tracker) {
		t.Fatal("expected cancel to stop the tracker")
	}
	if pending := f.clock.Pending(); pending != 0 {
		t.Fatalf("expected cancel to stop every timer, got %d pending", pending)
	}

	before, _ := f.store.Current()
	f.clock.Advance(time.Hour)
	after, _ := f.store.Current()
	if after.Status != task.StatusCancelled {
		t.Fatalf("expected CANCELLED to hold, got %s", after.Status)
	}
	if after.Tasker.Position != before.Tasker.Position {
		t.Fatal("expected no movement after cancel")
	}
}

func TestTracker_ExternalStatusReschedules(t *testing.T) {
	f := newFixture(t)
	f.assign()
	f.start(t, Options{})

	f.clock.Advance(2 * time.Second)
	f.store.SetStatus(task.StatusEnRoute)

	f.clock.Advance(4 * time.Second)
	if got := f.status(t); got != task.StatusEnRoute {
		t.Fatalf("expected the stale ASSIGNED hop to be dropped, got %s", got)
	}

	f.clock.Advance(4*time.Second - time.Millisecond)
	if got := f.status(t); got != task.StatusEnRoute {
		t.Fatalf("expected EN_ROUTE until 8s after the change, got %s", got)
	}
	f.clock.Advance(time.Millisecond)
	if got := f.status(t); got != task.StatusArrived {
		t.Fatalf("expected ARRIVED, got %s", got)
	}
}

func TestTracker_ReplacedTaskStopsTracker(t *testing.T) {
	f := newFixture(t)
	f.assign()
	tracker := f.start(t, Options{})

	f.store.Create("another task", task.CategoryGeneralTask)
	if !isDone(tracker) {
		t.Fatal("expected tracker to stop when the task is replaced")
	}
	f.clock.Advance(time.Hour)
	if got := f.status(t); got != task.StatusDraft {
		t.Fatalf("expected new task to stay DRAFT, got %s", got)
	}
}

func TestTracker_ResetStopsTracker(t *testing.T) {
	f := newFixture(t)
	tracker := f.start(t, Options{})

	f.store.Reset()
	if !isDone(tracker) {
		t.Fatal("expected tracker to stop on reset")
	}
	if pending := f.clock.Pending(); pending != 0 {
		t.Fatalf("expected no pending timers, got %d", pending)
	}
}

func TestTracker_StopDetaches(t *testing.T) {
	f := newFixture(t)
	f.assign()
	tracker := f.start(t, Options{})

	tracker.Stop()
	f.clock.Advance(time.Hour)
	if got := f.status(t); got != task.StatusAssigned {
		t.Fatalf("expected status untouched after Stop, got %s", got)
	}
	if !isDone(tracker) {
		t.Fatal("expected Done to be closed after Stop")
	}
	tracker.Stop()
}

func TestTracker_CountdownClampsAtZero(t *testing.T) {
	f := newFixture(t)
	f.assign()
	tracker := f.start(t, Options{
		Transitions:       map[task.Status]Transition{},
		InitialETA:        2,
		InitialDistanceKm: 0.3,
	})

	f.clock.Advance(3 * time.Second)
	if got := tracker.Progress(); got.ETAMinutes != 1 || got.DistanceKm != 0.2 {
		t.Fatalf("expected {1 0.2} after one tick, got %+v", got)
	}
	for i := 0; i < 10; i++ {
		f.clock.Advance(3 * time.Second)
		got := tracker.Progress()
		if got.ETAMinutes < 0 || got.DistanceKm < 0 {
			t.Fatalf("countdown went negative: %+v", got)
		}
	}
	if got := tracker.Progress(); got.ETAMinutes != 0 || got.DistanceKm != 0 {
		t.Fatalf("expected countdown to settle at zero, got %+v", got)
	}
}

func TestTracker_CountdownDefaults(t *testing.T) {
	f := newFixture(t)
	f.assign()
	tracker := f.start(t, Options{Transitions: map[task.Status]Transition{}})

	if got := tracker.Progress(); got.ETAMinutes != 15 || got.DistanceKm != 3.5 {
		t.Fatalf("expected initial {15 3.5}, got %+v", got)
	}
	f.clock.Advance(9 * time.Second)
	if got := tracker.Progress(); got.ETAMinutes != 12 || got.DistanceKm != 3.2 {
		t.Fatalf("expected {12 3.2} after three ticks, got %+v", got)
	}
}

func TestTracker_TaskerConvergesOnFirstStop(t *testing.T) {
	f := newFixture(t)
	f.assign()
	f.start(t, Options{Transitions: map[task.Status]Transition{}})

	initial, _ := f.store.Current()
	target := initial.Locations[0].Point()
	start := initial.Tasker.Position
	remaining := geo.Distance(start, target)

	for i := 0; i < 60; i++ {
		f.clock.Advance(3 * time.Second)
		current, _ := f.store.Current()
		position := current.Tasker.Position
		next := geo.Distance(position, target)
		if next >= remaining {
			t.Fatalf("step %d: distance did not decrease (%v -> %v)", i, remaining, next)
		}
		if (position.Lat-target.Lat)*(start.Lat-target.Lat) < 0 {
			t.Fatalf("step %d: overshot target latitude", i)
		}
		remaining = next
	}
	if remaining > 0.02 {
		t.Fatalf("expected tasker within 20 m of the first stop, got %v km", remaining)
	}
}

func TestTracker_NoMovementWithoutStops(t *testing.T) {
	f := newFixture(t)
	f.store.SetLocations(nil)
	f.assign()
	f.start(t, Options{Transitions: map[task.Status]Transition{}})

	before, _ := f.store.Current()
	f.clock.Advance(30 * time.Second)
	after, _ := f.store.Current()
	if after.Tasker.Position != before.Tasker.Position {
		t.Fatal("expected tasker to stay put without a target")
	}
}

type statusRecorder struct {
	mu       sync.Mutex
	statuses []task.Status
	ticks    int
	moves    int
}

func (r *statusRecorder) Stage(activity.StageLog)       {}
func (r *statusRecorder) Assigned(activity.AssignedLog) {}
func (r *statusRecorder) Status(entry activity.StatusLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, entry.To)
}
func (r *statusRecorder) Progress(activity.ProgressLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
}
func (r *statusRecorder) Position(activity.PositionLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves++
}

func TestTracker_LogsActivity(t *testing.T) {
	f := newFixture(t)
	f.assign()
	recorder := &statusRecorder{}
	f.start(t, Options{Logger: recorder})

	f.clock.Advance(time.Hour)

	want := []task.Status{task.StatusEnRoute, task.StatusArrived, task.StatusInProgress, task.StatusCompleted}
	if len(recorder.statuses) != len(want) {
		t.Fatalf("expected statuses %v, got %v", want, recorder.statuses)
	}
	for i := range want {
		if recorder.statuses[i] != want[i] {
			t.Fatalf("expected statuses %v, got %v", want, recorder.statuses)
		}
	}
	// 34s of progression at 3s ticks.
	if recorder.ticks != 11 || recorder.moves != 11 {
		t.Fatalf("expected 11 ticks and moves, got %d and %d", recorder.ticks, recorder.moves)
	}
}

func TestTracker_StartErrors(t *testing.T) {
	fake := clock.NewFake(epoch)
	store := task.NewStore(task.StoreOptions{Now: fake.Now})

	if err := New(store, Options{Clock: fake}).Start("missing"); !errors.Is(err, ErrNoTask) {
		t.Fatalf("expected ErrNoTask, got %v", err)
	}

	created := store.Create("x", task.CategoryGeneralTask)
	if err := New(store, Options{Clock: fake}).Start(created.ID); !errors.Is(err, ErrTaskInactive) {
		t.Fatalf("expected ErrTaskInactive for a draft, got %v", err)
	}
	if err := New(store, Options{Clock: fake}).Start("other"); !errors.Is(err, ErrTaskMismatch) {
		t.Fatalf("expected ErrTaskMismatch, got %v", err)
	}

	store.SetStatus(task.StatusRequested)
	tracker := New(store, Options{Clock: fake})
	if err := tracker.Start(created.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := tracker.Start(created.ID); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
}
