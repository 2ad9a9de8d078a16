// Package tracking advances a confirmed task through its lifecycle on a
// clock, counting down the displayed ETA and moving the tasker toward the
// first stop.
package tracking

import (
	"math"
	"sync"
	"time"

	"github.com/amonks/taskmaster/activity"
	"github.com/amonks/taskmaster/geo"
	"github.com/amonks/taskmaster/internal/clock"
	"github.com/amonks/taskmaster/task"
)

// Transition is the automatic hop taken from a status.
type Transition struct {
	Next  task.Status
	Delay time.Duration
}

// DefaultTransitions returns the standard hop table.
func DefaultTransitions() map[task.Status]Transition {
	return map[task.Status]Transition{
		task.StatusRequested:  {Next: task.StatusAssigned, Delay: time.Second},
		task.StatusAssigned:   {Next: task.StatusEnRoute, Delay: 6 * time.Second},
		task.StatusEnRoute:    {Next: task.StatusArrived, Delay: 8 * time.Second},
		task.StatusArrived:    {Next: task.StatusInProgress, Delay: 8 * time.Second},
		task.StatusInProgress: {Next: task.StatusCompleted, Delay: 12 * time.Second},
	}
}

const (
	DefaultTickInterval      = 3 * time.Second
	DefaultInitialETA        = 15
	DefaultInitialDistanceKm = 3.5
	DefaultETAStep           = 1
	DefaultDistanceStepKm    = 0.1
	DefaultApproachFraction  = 0.1
)

// Options configures a Tracker.
type Options struct {
	Clock       clock.Clock
	Transitions map[task.Status]Transition
	// TickInterval is the period of the ETA countdown.
	TickInterval time.Duration
	// PositionInterval is the period of tasker movement.
	PositionInterval  time.Duration
	InitialETA        int
	InitialDistanceKm float64
	ETAStep           int
	DistanceStepKm    float64
	// ApproachFraction is the share of the remaining vector covered per
	// movement step.
	ApproachFraction float64
	Logger           activity.Logger
}

func normalizeOptions(opts Options) Options {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Transitions == nil {
		opts.Transitions = DefaultTransitions()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.PositionInterval <= 0 {
		opts.PositionInterval = opts.TickInterval
	}
	if opts.InitialETA <= 0 {
		opts.InitialETA = DefaultInitialETA
	}
	if opts.InitialDistanceKm <= 0 {
		opts.InitialDistanceKm = DefaultInitialDistanceKm
	}
	if opts.ETAStep <= 0 {
		opts.ETAStep = DefaultETAStep
	}
	if opts.DistanceStepKm <= 0 {
		opts.DistanceStepKm = DefaultDistanceStepKm
	}
	if opts.ApproachFraction <= 0 || opts.ApproachFraction > 1 {
		opts.ApproachFraction = DefaultApproachFraction
	}
	opts.Logger = activity.OrNop(opts.Logger)
	return opts
}

// Progress is the displayed countdown.
type Progress struct {
	ETAMinutes int     `json:"etaMinutes"`
	DistanceKm float64 `json:"distanceKm"`
}

// Tracker drives one task. Exactly one status hop is pending at a time and
// every timer is stopped once the task finishes.
type Tracker struct {
	store *task.Store
	opts  Options

	mu          sync.Mutex
	taskID      string
	started     bool
	finished    bool
	observed    task.Status
	scheduled   task.Status
	hop         clock.Timer
	countdown   clock.Timer
	mover       clock.Timer
	progress    Progress
	unsubscribe func()
	done        chan struct{}
}

// New creates a tracker over store.
func New(store *task.Store, opts Options) *Tracker {
	opts = normalizeOptions(opts)
	return &Tracker{
		store:    store,
		opts:     opts,
		progress: Progress{ETAMinutes: opts.InitialETA, DistanceKm: opts.InitialDistanceKm},
		done:     make(chan struct{}),
	}
}

// Start binds the tracker to the live task with id taskID and starts its
// timers.
func (t *Tracker) Start(taskID string) error {
	current, ok := t.store.Current()
	if !ok {
		return ErrNoTask
	}
	if current.ID != taskID {
		return ErrTaskMismatch
	}
	if current.Status == task.StatusDraft || current.Status.IsTerminal() {
		return formatInactiveError(current.Status)
	}

	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return ErrAlreadyStarted
	}
	t.started = true
	t.taskID = taskID
	t.observed = current.Status
	t.mu.Unlock()

	unsubscribe := t.store.Subscribe(func(task.Task, bool) { t.sync() })
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		unsubscribe()
		return nil
	}
	t.unsubscribe = unsubscribe
	t.mu.Unlock()

	t.sync()
	return nil
}

// Stop detaches the tracker without touching the task.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.finishLocked()
}

// Done is closed once the tracker has stopped all of its timers.
func (t *Tracker) Done() <-chan struct{} {
	return t.done
}

// Progress returns the current countdown.
func (t *Tracker) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

// sync reconciles timers with the live task. Notifications can arrive out of
// order, so it always reads the latest snapshot.
func (t *Tracker) sync() {
	current, ok := t.store.Current()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished || !t.started {
		return
	}
	if !ok || current.ID != t.taskID {
		t.finishLocked()
		return
	}

	if current.Status != t.observed {
		t.opts.Logger.Status(activity.StatusLog{TaskID: t.taskID, From: t.observed, To: current.Status, At: t.opts.Clock.Now()})
		t.observed = current.Status
	}
	if current.Status.IsTerminal() {
		t.finishLocked()
		return
	}

	if t.countdown == nil {
		t.countdown = t.opts.Clock.Every(t.opts.TickInterval, t.tick)
	}
	if t.mover == nil && current.Tasker != nil {
		t.mover = t.opts.Clock.Every(t.opts.PositionInterval, t.move)
	}
	t.scheduleLocked(current.Status)
}

func (t *Tracker) scheduleLocked(status task.Status) {
	if t.hop != nil && t.scheduled == status {
		return
	}
	if t.hop != nil {
		t.hop.Stop()
		t.hop = nil
	}
	t.scheduled = status
	transition, ok := t.opts.Transitions[status]
	if !ok {
		return
	}
	t.hop = t.opts.Clock.AfterFunc(transition.Delay, func() {
		t.advance(status, transition.Next)
	})
}

func (t *Tracker) advance(from, to task.Status) {
	t.mu.Lock()
	if t.finished || t.scheduled != from {
		t.mu.Unlock()
		return
	}
	t.hop = nil
	taskID := t.taskID
	t.mu.Unlock()

	t.store.TransitionStatus(taskID, from, to)
}

func (t *Tracker) tick() {
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		return
	}
	t.progress.ETAMinutes = max(0, t.progress.ETAMinutes-t.opts.ETAStep)
	t.progress.DistanceKm = math.Max(0, geo.RoundTenth(t.progress.DistanceKm-t.opts.DistanceStepKm))
	entry := activity.ProgressLog{TaskID: t.taskID, ETAMinutes: t.progress.ETAMinutes, DistanceKm: t.progress.DistanceKm}
	t.mu.Unlock()

	t.opts.Logger.Progress(entry)
}

func (t *Tracker) move() {
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		return
	}
	taskID := t.taskID
	t.mu.Unlock()

	current, ok := t.store.Current()
	if !ok || current.ID != taskID || current.Tasker == nil || len(current.Locations) == 0 {
		return
	}
	target := current.Locations[0].Point()
	next := geo.Step(current.Tasker.Position, target, t.opts.ApproachFraction)
	if !t.store.MoveTasker(taskID, next) {
		return
	}
	t.opts.Logger.Position(activity.PositionLog{
		TaskID:      taskID,
		TaskerID:    current.Tasker.ID,
		Position:    next,
		RemainingKm: geo.Distance(next, target),
	})
}

func (t *Tracker) finishLocked() {
	if t.finished {
		return
	}
	t.finished = true
	for _, timer := range []clock.Timer{t.hop, t.countdown, t.mover} {
		if timer != nil {
			timer.Stop()
		}
	}
	t.hop, t.countdown, t.mover = nil, nil, nil
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
	close(t.done)
}
