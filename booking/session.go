// Package booking drives one task from request to completion: quoting,
// confirming, matching a tasker and tracking progress.
package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amonks/taskmaster/activity"
	"github.com/amonks/taskmaster/internal/clock"
	"github.com/amonks/taskmaster/matching"
	"github.com/amonks/taskmaster/pricing"
	"github.com/amonks/taskmaster/task"
	"github.com/amonks/taskmaster/tracking"
)

// Options configures a Session.
type Options struct {
	// Store holds the live task. A new store is created when nil.
	Store      *task.Store
	Calculator pricing.Calculator
	Clock      clock.Clock
	// Matching and Tracking configure the simulators. Their Clock and
	// Logger fields are overridden by the session's.
	Matching matching.Options
	Tracking tracking.Options
	Logger   activity.Logger
	// ResetAfterCancel clears a cancelled task after the delay. Zero keeps
	// cancelled tasks.
	ResetAfterCancel time.Duration
}

// Quote is a computed price with an optional coupon applied.
type Quote struct {
	Pricing    task.Pricing `json:"pricing"`
	Coupon     string       `json:"coupon,omitempty"`
	Discounted *int         `json:"discounted,omitempty"`
}

// Payable returns the amount due after any discount.
func (q Quote) Payable() int {
	if q.Discounted != nil {
		return *q.Discounted
	}
	return q.Pricing.Total
}

// Snapshot is the session state shown while a booking runs.
type Snapshot struct {
	Task      task.Task         `json:"task"`
	Searching bool              `json:"searching"`
	Stage     *matching.Stage   `json:"stage,omitempty"`
	Progress  tracking.Progress `json:"progress"`
	Tracking  bool              `json:"tracking"`
}

// Session owns the simulators for the store's live task.
type Session struct {
	store   *task.Store
	opts    Options
	matcher *matching.Matcher

	mu       sync.Mutex
	search   *matching.Search
	tracker  *tracking.Tracker
	progress tracking.Progress
	reset    clock.Timer
}

// NewSession creates a session.
func NewSession(opts Options) *Session {
	if opts.Store == nil {
		opts.Store = task.NewStore(task.StoreOptions{})
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	opts.Logger = activity.OrNop(opts.Logger)

	matchingOpts := opts.Matching
	matchingOpts.Clock = opts.Clock
	matchingOpts.Logger = opts.Logger

	return &Session{
		store:   opts.Store,
		opts:    opts,
		matcher: matching.New(matchingOpts),
	}
}

// Store returns the store the session drives.
func (s *Session) Store() *task.Store {
	return s.store
}

// Begin starts a new task, stopping anything running for the previous one.
// An empty category is filled in by classifying the description.
func (s *Session) Begin(description string, category task.Category) (task.Task, error) {
	if category == "" {
		category = task.Classify(description)
	}
	if !category.IsValid() {
		return task.Task{}, fmt.Errorf("begin task: %w", formatCategoryError(category))
	}
	s.stopSimulators()
	return s.store.Create(description, category), nil
}

// SetLocations validates and stores the ordered stops.
func (s *Session) SetLocations(locations []task.Location) error {
	if _, err := s.draft(); err != nil {
		return err
	}
	for i, location := range locations {
		if err := task.ValidateLocation(location); err != nil {
			return fmt.Errorf("stop %d: %w", i+1, err)
		}
	}
	s.store.SetLocations(locations)
	return nil
}

// SetDetails validates and stores the category details.
func (s *Session) SetDetails(details task.Details) error {
	current, err := s.draft()
	if err != nil {
		return err
	}
	if err := task.ValidateDetails(details); err != nil {
		return err
	}
	if details.Category() != current.Category {
		return fmt.Errorf("%w: %s details for a %s task", ErrCategoryMismatch, details.Category(), current.Category)
	}
	s.store.SetDetails(details)
	return nil
}

// Quote prices the live task. The stored pricing is only replaced when the
// result differs from it.
func (s *Session) Quote(coupon string) (Quote, error) {
	current, ok := s.store.Current()
	if !ok {
		return Quote{}, ErrNoTask
	}
	computed := s.opts.Calculator.Calculate(current.Category, current.Locations, current.Details)
	if current.Pricing == nil || !current.Pricing.Equal(computed) {
		s.store.SetPricing(computed)
	}
	quote := Quote{Pricing: computed}
	if coupon != "" {
		discounted, ok := pricing.ApplyCoupon(computed.Total, coupon)
		if !ok {
			return quote, fmt.Errorf("apply coupon: %w", formatCouponError(coupon))
		}
		quote.Coupon = coupon
		quote.Discounted = &discounted
	}
	return quote, nil
}

// Confirm requests the live task and starts matching. Once a tasker is
// found the task is assigned and tracking begins.
func (s *Session) Confirm() error {
	current, err := s.draft()
	if err != nil {
		return err
	}
	if current.Details == nil {
		return ErrMissingDetails
	}
	if _, err := s.Quote(""); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.search != nil {
		return ErrAlreadyConfirmed
	}
	if !s.store.TransitionStatus(current.ID, task.StatusDraft, task.StatusRequested) {
		return ErrNotDraft
	}
	s.opts.Logger.Status(activity.StatusLog{TaskID: current.ID, From: task.StatusDraft, To: task.StatusRequested, At: s.opts.Clock.Now()})
	s.store.SetLoading(true)

	search, err := s.matcher.Search(current.ID, nil, func(tasker task.Tasker) {
		s.assign(current.ID, tasker)
	})
	if err != nil {
		s.store.SetLoading(false)
		s.store.TransitionStatus(current.ID, task.StatusRequested, task.StatusDraft)
		return err
	}
	s.search = search
	return nil
}

func (s *Session) assign(taskID string, tasker task.Tasker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.store.Current()
	if !ok || current.ID != taskID || current.Status != task.StatusRequested {
		return
	}
	s.store.SetLoading(false)
	s.store.AssignTasker(tasker)
	s.opts.Logger.Status(activity.StatusLog{TaskID: taskID, From: task.StatusRequested, To: task.StatusAssigned, At: s.opts.Clock.Now()})

	trackingOpts := s.opts.Tracking
	trackingOpts.Clock = s.opts.Clock
	trackingOpts.Logger = s.opts.Logger
	tracker := tracking.New(s.store, trackingOpts)
	if err := tracker.Start(taskID); err != nil {
		return
	}
	s.tracker = tracker
}

// Cancel stops matching and tracking and marks the live task cancelled.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.store.Current()
	if !ok {
		return ErrNoTask
	}
	if current.Status.IsTerminal() {
		return formatFinishedError(current.Status)
	}
	if s.search != nil {
		s.search.Stop()
	}

	s.store.SetLoading(false)
	s.store.SetStatus(task.StatusCancelled)
	if s.tracker == nil {
		s.opts.Logger.Status(activity.StatusLog{TaskID: current.ID, From: current.Status, To: task.StatusCancelled, At: s.opts.Clock.Now()})
	}

	if s.opts.ResetAfterCancel > 0 {
		if s.reset != nil {
			s.reset.Stop()
		}
		s.reset = s.opts.Clock.AfterFunc(s.opts.ResetAfterCancel, func() {
			latest, ok := s.store.Current()
			if ok && latest.ID == current.ID && latest.Status == task.StatusCancelled {
				s.store.Reset()
			}
		})
	}
	return nil
}

// Wait blocks until the live task finishes or the store is reset, returning
// the last snapshot.
func (s *Session) Wait(ctx context.Context) (task.Task, error) {
	signal := make(chan struct{}, 1)
	unsubscribe := s.store.Subscribe(func(current task.Task, ok bool) {
		if ok && !current.Status.IsTerminal() {
			return
		}
		select {
		case signal <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		current, ok := s.store.Current()
		if !ok {
			return task.Task{}, ErrNoTask
		}
		if current.Status.IsTerminal() {
			return current, nil
		}
		select {
		case <-ctx.Done():
			return current, ctx.Err()
		case <-signal:
		}
	}
}

// Snapshot returns the live task with the simulators' state.
func (s *Session) Snapshot() (Snapshot, error) {
	current, ok := s.store.Current()
	if !ok {
		return Snapshot{}, ErrNoTask
	}
	snapshot := Snapshot{Task: current}

	s.mu.Lock()
	search, tracker := s.search, s.tracker
	s.mu.Unlock()

	if search != nil {
		stage := search.Stage()
		snapshot.Stage = &stage
		select {
		case <-search.Done():
		default:
			snapshot.Searching = true
		}
	}
	if tracker != nil {
		snapshot.Progress = tracker.Progress()
		select {
		case <-tracker.Done():
		default:
			snapshot.Tracking = true
		}
	} else {
		snapshot.Progress = tracking.Progress{ETAMinutes: initialETA(s.opts.Tracking), DistanceKm: initialDistance(s.opts.Tracking)}
	}
	return snapshot, nil
}

// Close stops the simulators without touching the task.
func (s *Session) Close() {
	s.stopSimulators()
}

func (s *Session) stopSimulators() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.search != nil {
		s.search.Stop()
		s.search = nil
	}
	if s.tracker != nil {
		s.tracker.Stop()
		s.tracker = nil
	}
	if s.reset != nil {
		s.reset.Stop()
		s.reset = nil
	}
}

func (s *Session) draft() (task.Task, error) {
	current, ok := s.store.Current()
	if !ok {
		return task.Task{}, ErrNoTask
	}
	if current.Status != task.StatusDraft {
		return current, fmt.Errorf("%w: status %s", ErrNotDraft, current.Status)
	}
	return current, nil
}

func initialETA(opts tracking.Options) int {
	if opts.InitialETA > 0 {
		return opts.InitialETA
	}
	return tracking.DefaultInitialETA
}

func initialDistance(opts tracking.Options) float64 {
	if opts.InitialDistanceKm > 0 {
		return opts.InitialDistanceKm
	}
	return tracking.DefaultInitialDistanceKm
}
