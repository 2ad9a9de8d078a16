// Package matching runs the staged search that ends with a tasker being
// chosen for a task.
package matching

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/amonks/taskmaster/activity"
	"github.com/amonks/taskmaster/internal/clock"
	"github.com/amonks/taskmaster/roster"
	"github.com/amonks/taskmaster/task"
)

// DefaultStages returns the messages shown while searching. The last one is
// shown once a tasker has been found.
func DefaultStages() []string {
	return []string{
		"Finding nearby TaskMasters...",
		"Checking availability...",
		"Matching your request...",
		"Almost there...",
		"TaskMaster found!",
	}
}

const (
	DefaultStageInterval = 1500 * time.Millisecond
	DefaultRevealDelay   = time.Second
	DefaultSettleDelay   = time.Second
)

// Options configures a Matcher.
type Options struct {
	Clock  clock.Clock
	Stages []string
	// StageInterval separates consecutive stage messages.
	StageInterval time.Duration
	// RevealDelay separates the final message from the found state.
	RevealDelay time.Duration
	// SettleDelay separates the found state from completion.
	SettleDelay time.Duration
	// Roster lists the candidate taskers. It defaults to roster.Taskers.
	Roster []task.Tasker
	// Rand picks the tasker. It defaults to a randomly seeded source.
	Rand   *rand.Rand
	Logger activity.Logger
}

func normalizeOptions(opts Options) Options {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if len(opts.Stages) == 0 {
		opts.Stages = DefaultStages()
	}
	if opts.StageInterval <= 0 {
		opts.StageInterval = DefaultStageInterval
	}
	if opts.RevealDelay <= 0 {
		opts.RevealDelay = DefaultRevealDelay
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.Roster == nil {
		opts.Roster = roster.Taskers()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	opts.Logger = activity.OrNop(opts.Logger)
	return opts
}

// Matcher starts searches.
type Matcher struct {
	opts Options

	randMu sync.Mutex
}

// New creates a matcher.
func New(opts Options) *Matcher {
	return &Matcher{opts: normalizeOptions(opts)}
}

// Stage describes search progress.
type Stage struct {
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Message string `json:"message"`
	// Found is set once the search has revealed a match.
	Found bool `json:"found"`
}

// Search is one running search.
type Search struct {
	matcher    *Matcher
	taskID     string
	onStage    func(Stage)
	onComplete func(task.Tasker)

	mu       sync.Mutex
	stage    Stage
	timer    clock.Timer
	finished bool
	done     chan struct{}
}

// Search starts a search for taskID. onStage is called for every stage,
// starting immediately with the first. onComplete is called exactly once with
// the chosen tasker unless the search is stopped first. Either callback may
// be nil.
func (m *Matcher) Search(taskID string, onStage func(Stage), onComplete func(task.Tasker)) (*Search, error) {
	if len(m.opts.Roster) == 0 {
		return nil, ErrEmptyRoster
	}
	s := &Search{
		matcher:    m,
		taskID:     taskID,
		onStage:    onStage,
		onComplete: onComplete,
		stage:      Stage{Index: 0, Total: len(m.opts.Stages), Message: m.opts.Stages[0]},
		done:       make(chan struct{}),
	}
	s.emit(s.stage)
	s.schedule(s.nextDelay(), s.advance)
	return s, nil
}

// Stop abandons the search. onComplete will not be called afterwards.
func (s *Search) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	s.finished = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	close(s.done)
}

// Done is closed when the search completes or is stopped.
func (s *Search) Done() <-chan struct{} {
	return s.done
}

// Stage returns the latest stage.
func (s *Search) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

func (s *Search) lastIndex() int {
	return len(s.matcher.opts.Stages) - 1
}

func (s *Search) nextDelay() time.Duration {
	if s.stage.Index >= s.lastIndex() {
		return s.matcher.opts.RevealDelay
	}
	return s.matcher.opts.StageInterval
}

func (s *Search) schedule(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	s.timer = s.matcher.opts.Clock.AfterFunc(delay, fn)
}

func (s *Search) advance() {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	if s.stage.Index >= s.lastIndex() {
		s.stage.Found = true
		stage := s.stage
		s.mu.Unlock()

		s.emit(stage)
		s.schedule(s.matcher.opts.SettleDelay, s.settle)
		return
	}
	s.stage.Index++
	s.stage.Message = s.matcher.opts.Stages[s.stage.Index]
	stage := s.stage
	delay := s.nextDelay()
	s.mu.Unlock()

	s.emit(stage)
	s.schedule(delay, s.advance)
}

func (s *Search) settle() {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.timer = nil
	s.mu.Unlock()
	defer close(s.done)

	tasker := s.matcher.pick()
	s.matcher.opts.Logger.Assigned(activity.AssignedLog{TaskID: s.taskID, Tasker: tasker})
	if s.onComplete != nil {
		s.onComplete(tasker)
	}
}

func (s *Search) emit(stage Stage) {
	if !stage.Found {
		s.matcher.opts.Logger.Stage(activity.StageLog{TaskID: s.taskID, Index: stage.Index, Total: stage.Total, Message: stage.Message})
	}
	if s.onStage != nil {
		s.onStage(stage)
	}
}

func (m *Matcher) pick() task.Tasker {
	m.randMu.Lock()
	defer m.randMu.Unlock()
	tasker, _ := roster.Pick(m.opts.Rand, m.opts.Roster)
	return tasker
}
