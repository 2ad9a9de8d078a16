package task

import (
	"sync"
	"time"

	"github.com/amonks/taskmaster/geo"
	"github.com/google/uuid"
)

// StoreOptions configures a Store.
type StoreOptions struct {
	// Now returns the wall-clock time used for CreatedAt and timeline timestamps.
	Now func() time.Time
	// NewID returns a fresh task identifier.
	NewID func() string
}

// Listener receives the task snapshot after every mutation. ok is false once
// the store has been reset. With several concurrent writers notifications may
// arrive out of order; listeners that act on state should read Current.
type Listener func(current Task, ok bool)

// Store owns the single live task. Every operation replaces the stored task
// with an updated copy, so snapshots returned by Current never change.
// Operations on an empty store are ignored.
type Store struct {
	now   func() time.Time
	newID func() string

	mu        sync.Mutex
	current   *Task
	loading   bool
	listeners map[int]Listener
	nextID    int
}

// NewStore creates an empty store.
func NewStore(opts StoreOptions) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Store{
		now:       opts.Now,
		newID:     opts.NewID,
		listeners: make(map[int]Listener),
	}
}

// Current returns a copy of the live task.
func (s *Store) Current() (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Task{}, false
	}
	return s.current.Clone(), true
}

// Subscribe registers fn to be called after each mutation. The returned
// function removes the listener.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Create starts a new DRAFT task, discarding any previous one.
func (s *Store) Create(description string, category Category) Task {
	s.mu.Lock()
	created := Task{
		ID:          s.newID(),
		Description: description,
		Category:    category,
		Locations:   []Location{},
		Status:      StatusDraft,
		CreatedAt:   s.now(),
		Timeline:    InitialTimeline(),
	}
	s.current = &created
	snapshot := created.Clone()
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, snapshot, true)
	return snapshot
}

// SetLocations replaces the ordered stop list.
func (s *Store) SetLocations(locations []Location) {
	s.update(func(t *Task) {
		t.Locations = append([]Location{}, locations...)
	})
}

// SetDetails replaces the category details.
func (s *Store) SetDetails(details Details) {
	s.update(func(t *Task) {
		if details == nil {
			t.Details = nil
			return
		}
		t.Details = details.clone()
	})
}

// SetPricing stores a computed price breakdown.
func (s *Store) SetPricing(pricing Pricing) {
	s.update(func(t *Task) {
		cloned := pricing.clone()
		t.Pricing = &cloned
	})
}

// AssignTasker attaches tasker to the task and moves it to ASSIGNED.
func (s *Store) AssignTasker(tasker Tasker) {
	s.update(func(t *Task) {
		t.Tasker = &tasker
		t.Status = StatusAssigned
		t.Timeline = ApplyStatus(t.Timeline, StatusAssigned, s.now())
	})
}

// SetStatus moves the task to status and recomputes the timeline.
func (s *Store) SetStatus(status Status) {
	s.update(func(t *Task) {
		t.Status = status
		t.Timeline = ApplyStatus(t.Timeline, status, s.now())
	})
}

// UpdateTaskerPosition moves the assigned tasker. It is ignored when no tasker
// is assigned.
func (s *Store) UpdateTaskerPosition(position geo.Point) {
	s.update(func(t *Task) {
		if t.Tasker == nil {
			return
		}
		t.Tasker.Position = position
	})
}

// TransitionStatus moves the task identified by id from one status to
// another. It reports false, changing nothing, when the live task has a
// different id or is not in the from status.
func (s *Store) TransitionStatus(id string, from, to Status) bool {
	return s.updateIf(func(t *Task) bool {
		if t.ID != id || t.Status != from {
			return false
		}
		t.Status = to
		t.Timeline = ApplyStatus(t.Timeline, to, s.now())
		return true
	})
}

// MoveTasker updates the tasker position of the task identified by id. It
// reports false when the live task has a different id, is finished, or has no
// tasker.
func (s *Store) MoveTasker(id string, position geo.Point) bool {
	return s.updateIf(func(t *Task) bool {
		if t.ID != id || t.Status.IsTerminal() || t.Tasker == nil {
			return false
		}
		t.Tasker.Position = position
		return true
	})
}

// SetTimeline replaces the whole timeline.
func (s *Store) SetTimeline(timeline []TimelineEvent) {
	s.update(func(t *Task) {
		t.Timeline = cloneTimeline(timeline)
	})
}

// SetLoading records whether a long-running step is in flight.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Loading reports the flag set by SetLoading.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Reset clears the live task.
func (s *Store) Reset() {
	s.mu.Lock()
	s.current = nil
	s.loading = false
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, Task{}, false)
}

func (s *Store) update(fn func(t *Task)) {
	s.updateIf(func(t *Task) bool {
		fn(t)
		return true
	})
}

// updateIf applies fn to a copy of the live task and keeps the copy only when
// fn reports a change.
func (s *Store) updateIf(fn func(t *Task) bool) bool {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return false
	}
	next := s.current.Clone()
	if !fn(&next) {
		s.mu.Unlock()
		return false
	}
	s.current = &next
	snapshot := next.Clone()
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, snapshot, true)
	return true
}

func (s *Store) snapshotListeners() []Listener {
	listeners := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	return listeners
}

func notify(listeners []Listener, snapshot Task, ok bool) {
	for _, fn := range listeners {
		fn(snapshot.Clone(), ok)
	}
}
