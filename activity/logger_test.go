package activity

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/amonks/taskmaster/task"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(value string) string {
	return ansiPattern.ReplaceAllString(value, "")
}

type captureLogger struct {
	stages   []StageLog
	statuses []StatusLog
}

func (logger *captureLogger) Stage(entry StageLog)   { logger.stages = append(logger.stages, entry) }
func (logger *captureLogger) Assigned(AssignedLog)   {}
func (logger *captureLogger) Status(entry StatusLog) { logger.statuses = append(logger.statuses, entry) }
func (logger *captureLogger) Progress(ProgressLog)   {}
func (logger *captureLogger) Position(PositionLog)   {}

func TestConsoleLoggerFormatsEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf)

	at := time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC)
	logger.Stage(StageLog{Index: 1, Total: 5, Message: "Analyzing your task requirements..."})
	logger.Assigned(AssignedLog{Tasker: task.Tasker{Name: "Priya Sharma", Rating: 4.9, Vehicle: "🚗 Four Wheeler"}})
	logger.Status(StatusLog{From: task.StatusAssigned, To: task.StatusEnRoute, At: at})
	logger.Progress(ProgressLog{ETAMinutes: 10, DistanceKm: 2})

	output := stripANSI(buf.String())
	for _, want := range []string{
		"[2/5] Analyzing your task requirements...",
		"Matched: Priya Sharma (4.9, 🚗 Four Wheeler)",
		"On the Way 09:05 AM",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "ETA") {
		t.Fatalf("expected progress to be hidden without verbose, got:\n%s", output)
	}
}

func TestConsoleLoggerVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf)
	logger.Verbose = true

	logger.Progress(ProgressLog{ETAMinutes: 10, DistanceKm: 2})

	if got := stripANSI(buf.String()); !strings.Contains(got, "ETA 10 min, 2.0 km away") {
		t.Fatalf("unexpected verbose output: %q", got)
	}
}

func TestMultiFansOut(t *testing.T) {
	first := &captureLogger{}
	second := &captureLogger{}
	logger := Multi(first, nil, second)

	logger.Stage(StageLog{Message: "a"})
	logger.Status(StatusLog{To: task.StatusCompleted})

	for i, capture := range []*captureLogger{first, second} {
		if len(capture.stages) != 1 || len(capture.statuses) != 1 {
			t.Fatalf("logger %d: expected one stage and one status, got %+v", i, capture)
		}
	}
}

func TestOrNop(t *testing.T) {
	OrNop(nil).Stage(StageLog{})
	capture := &captureLogger{}
	OrNop(capture).Stage(StageLog{})
	if len(capture.stages) != 1 {
		t.Fatal("expected OrNop to keep a non-nil logger")
	}
}
