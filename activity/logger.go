// Package activity records what the simulators do: matching stages, status
// hops, ETA countdown ticks and tasker movement.
package activity

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/amonks/taskmaster/geo"
	"github.com/amonks/taskmaster/internal/ui"
	"github.com/amonks/taskmaster/task"
	"github.com/charmbracelet/lipgloss"
)

// Logger captures structured simulation log entries.
type Logger interface {
	Stage(StageLog)
	Assigned(AssignedLog)
	Status(StatusLog)
	Progress(ProgressLog)
	Position(PositionLog)
}

// StageLog captures a matching search stage.
type StageLog struct {
	TaskID  string
	Index   int
	Total   int
	Message string
}

// AssignedLog captures the tasker chosen by a search.
type AssignedLog struct {
	TaskID string
	Tasker task.Tasker
}

// StatusLog captures an automatic or user status change.
type StatusLog struct {
	TaskID string
	From   task.Status
	To     task.Status
	At     time.Time
}

// ProgressLog captures one ETA countdown tick.
type ProgressLog struct {
	TaskID     string
	ETAMinutes int
	DistanceKm float64
}

// PositionLog captures one tasker movement step.
type PositionLog struct {
	TaskID      string
	TaskerID    string
	Position    geo.Point
	RemainingKm float64
}

type noopLogger struct{}

func (noopLogger) Stage(StageLog)       {}
func (noopLogger) Assigned(AssignedLog) {}
func (noopLogger) Status(StatusLog)     {}
func (noopLogger) Progress(ProgressLog) {}
func (noopLogger) Position(PositionLog) {}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return noopLogger{}
}

// OrNop returns logger, or a no-op logger when logger is nil.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return logger
}

// ConsoleLogger writes formatted log lines.
type ConsoleLogger struct {
	// Verbose includes countdown ticks and movement steps.
	Verbose bool

	mu          sync.Mutex
	writer      io.Writer
	headerStyle lipgloss.Style
	mutedStyle  lipgloss.Style
}

// NewConsoleLogger builds a styled logger for interactive output.
func NewConsoleLogger(writer io.Writer) *ConsoleLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &ConsoleLogger{
		writer:      writer,
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Stage logs a matching stage.
func (logger *ConsoleLogger) Stage(entry StageLog) {
	if logger == nil {
		return
	}
	logger.writeLine(fmt.Sprintf("%s %s", logger.mutedStyle.Render(fmt.Sprintf("[%d/%d]", entry.Index+1, entry.Total)), entry.Message))
}

// Assigned logs the matched tasker.
func (logger *ConsoleLogger) Assigned(entry AssignedLog) {
	if logger == nil {
		return
	}
	tasker := entry.Tasker
	logger.writeLine(fmt.Sprintf("%s %s (%.1f, %s)", logger.headerStyle.Render("Matched:"), tasker.Name, tasker.Rating, tasker.Vehicle))
}

// Status logs a status change.
func (logger *ConsoleLogger) Status(entry StatusLog) {
	if logger == nil {
		return
	}
	at := entry.At
	line := fmt.Sprintf("%s %s", logger.headerStyle.Render(entry.To.Label()), logger.mutedStyle.Render(ui.FormatClock(&at)))
	logger.writeLine(line)
}

// Progress logs an ETA tick when verbose.
func (logger *ConsoleLogger) Progress(entry ProgressLog) {
	if logger == nil || !logger.Verbose {
		return
	}
	logger.writeLine(logger.mutedStyle.Render(fmt.Sprintf("  ETA %s, %s away", ui.FormatMinutes(entry.ETAMinutes), ui.FormatKm(entry.DistanceKm))))
}

// Position logs a movement step when verbose.
func (logger *ConsoleLogger) Position(entry PositionLog) {
	if logger == nil || !logger.Verbose {
		return
	}
	logger.writeLine(logger.mutedStyle.Render(fmt.Sprintf("  at %.5f, %.5f (%s to first stop)", entry.Position.Lat, entry.Position.Lng, ui.FormatKm(entry.RemainingKm))))
}

func (logger *ConsoleLogger) writeLine(line string) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	fmt.Fprintln(logger.writer, strings.TrimRight(line, "\n"))
}

type multiLogger []Logger

// Multi fans entries out to every non-nil logger.
func Multi(loggers ...Logger) Logger {
	filtered := make(multiLogger, 0, len(loggers))
	for _, logger := range loggers {
		if logger != nil {
			filtered = append(filtered, logger)
		}
	}
	return filtered
}

func (m multiLogger) Stage(entry StageLog) {
	for _, logger := range m {
		logger.Stage(entry)
	}
}

func (m multiLogger) Assigned(entry AssignedLog) {
	for _, logger := range m {
		logger.Assigned(entry)
	}
}

func (m multiLogger) Status(entry StatusLog) {
	for _, logger := range m {
		logger.Status(entry)
	}
}

func (m multiLogger) Progress(entry ProgressLog) {
	for _, logger := range m {
		logger.Progress(entry)
	}
}

func (m multiLogger) Position(entry PositionLog) {
	for _, logger := range m {
		logger.Position(entry)
	}
}
