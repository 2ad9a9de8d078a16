package activity

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/amonks/taskmaster/internal/paths"
)

const (
	EventStage    = "task.stage"
	EventAssigned = "task.assigned"
	EventStatus   = "task.status"
	EventProgress = "task.progress"
	EventPosition = "task.position"
)

// Event captures a task log event.
type Event struct {
	Name string    `json:"name"`
	Time time.Time `json:"time"`
	Data string    `json:"data,omitempty"`
}

// EventLogOptions configures task event logs.
type EventLogOptions struct {
	EventsDir string
}

// EventLog writes task events to a JSONL log.
type EventLog struct {
	path    string
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// OpenEventLog creates the event log for a task.
func OpenEventLog(taskID string, opts EventLogOptions) (*EventLog, error) {
	path, err := eventLogPath(taskID, opts)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create task events dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create task event log: %w", err)
	}
	return &EventLog{path: path, file: file, encoder: json.NewEncoder(file)}, nil
}

// Path returns the file the log writes to.
func (log *EventLog) Path() string {
	if log == nil {
		return ""
	}
	return log.path
}

// Append writes a new event to the log.
func (log *EventLog) Append(event Event) error {
	if log == nil {
		return nil
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.encoder == nil {
		return ErrEventLogClosed
	}
	return log.encoder.Encode(event)
}

// Close flushes and closes the event log.
func (log *EventLog) Close() error {
	if log == nil {
		return nil
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.file == nil {
		return nil
	}
	err := log.file.Close()
	log.file = nil
	log.encoder = nil
	return err
}

func eventLogPath(taskID string, opts EventLogOptions) (string, error) {
	if strings.TrimSpace(taskID) == "" {
		return "", fmt.Errorf("task id is required")
	}
	root, err := eventsDir(opts)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, taskID+".jsonl"), nil
}

func eventsDir(opts EventLogOptions) (string, error) {
	return paths.ResolveWithDefault(opts.EventsDir, paths.DefaultEventsDir)
}

// EventLogPath returns the path to the task event log.
func EventLogPath(taskID string, opts EventLogOptions) (string, error) {
	return eventLogPath(taskID, opts)
}

// ReadEvents reads task events from a JSONL reader.
func ReadEvents(reader io.Reader) ([]Event, error) {
	events := make([]Event, 0)
	if reader == nil {
		return events, nil
	}
	buffer := bufio.NewReader(reader)
	for {
		line, err := buffer.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line != "" {
			var event Event
			if unmarshalErr := json.Unmarshal([]byte(line), &event); unmarshalErr != nil {
				return nil, fmt.Errorf("decode task event: %w", unmarshalErr)
			}
			events = append(events, event)
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	return events, nil
}

// EventSnapshot returns the stored events of a task.
func EventSnapshot(taskID string, opts EventLogOptions) ([]Event, error) {
	path, err := eventLogPath(taskID, opts)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrEventLogNotFound, taskID)
		}
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	return ReadEvents(file)
}

// EventLogSummary describes one stored event log.
type EventLogSummary struct {
	TaskID   string    `json:"taskId"`
	Modified time.Time `json:"modified"`
}

// ListEventLogs returns the stored event logs, most recent first.
func ListEventLogs(opts EventLogOptions) ([]EventLogSummary, error) {
	root, err := eventsDir(opts)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return []EventLogSummary{}, nil
		}
		return nil, fmt.Errorf("read task events dir: %w", err)
	}
	summaries := make([]EventLogSummary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		summaries = append(summaries, EventLogSummary{TaskID: strings.TrimSuffix(name, ".jsonl"), Modified: info.ModTime()})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Modified.Equal(summaries[j].Modified) {
			return summaries[i].TaskID < summaries[j].TaskID
		}
		return summaries[i].Modified.After(summaries[j].Modified)
	})
	return summaries, nil
}

// EventLogger records log entries to an event log.
type EventLogger struct {
	log *EventLog
	now func() time.Time

	mu  sync.Mutex
	err error
}

// NewEventLogger wraps log. now stamps each event and defaults to time.Now.
func NewEventLogger(log *EventLog, now func() time.Time) *EventLogger {
	if now == nil {
		now = time.Now
	}
	return &EventLogger{log: log, now: now}
}

// Err returns the first write error.
func (logger *EventLogger) Err() error {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	return logger.err
}

// Stage records a matching stage.
func (logger *EventLogger) Stage(entry StageLog) {
	logger.append(EventStage, stageEventData{Index: entry.Index, Total: entry.Total, Message: entry.Message})
}

// Assigned records the matched tasker.
func (logger *EventLogger) Assigned(entry AssignedLog) {
	logger.append(EventAssigned, assignedEventData{TaskerID: entry.Tasker.ID, Name: entry.Tasker.Name})
}

// Status records a status change.
func (logger *EventLogger) Status(entry StatusLog) {
	logger.append(EventStatus, statusEventData{From: string(entry.From), To: string(entry.To)})
}

// Progress records an ETA tick.
func (logger *EventLogger) Progress(entry ProgressLog) {
	logger.append(EventProgress, progressEventData{ETAMinutes: entry.ETAMinutes, DistanceKm: entry.DistanceKm})
}

// Position records a movement step.
func (logger *EventLogger) Position(entry PositionLog) {
	logger.append(EventPosition, positionEventData{Lat: entry.Position.Lat, Lng: entry.Position.Lng, RemainingKm: entry.RemainingKm})
}

func (logger *EventLogger) append(name string, payload any) {
	if logger == nil || logger.log == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err == nil {
		err = logger.log.Append(Event{Name: name, Time: logger.now(), Data: string(data)})
	}
	if err != nil {
		logger.mu.Lock()
		if logger.err == nil {
			logger.err = err
		}
		logger.mu.Unlock()
	}
}

type stageEventData struct {
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

type assignedEventData struct {
	TaskerID string `json:"taskerId"`
	Name     string `json:"name"`
}

type statusEventData struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type progressEventData struct {
	ETAMinutes int     `json:"etaMinutes"`
	DistanceKm float64 `json:"distanceKm"`
}

type positionEventData struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	RemainingKm float64 `json:"remainingKm"`
}

// DescribeEvent renders an event's payload as a short line of text.
func DescribeEvent(event Event) string {
	switch event.Name {
	case EventStage:
		var data stageEventData
		if json.Unmarshal([]byte(event.Data), &data) == nil {
			return fmt.Sprintf("%d/%d %s", data.Index+1, data.Total, data.Message)
		}
	case EventAssigned:
		var data assignedEventData
		if json.Unmarshal([]byte(event.Data), &data) == nil {
			return fmt.Sprintf("%s (%s)", data.Name, data.TaskerID)
		}
	case EventStatus:
		var data statusEventData
		if json.Unmarshal([]byte(event.Data), &data) == nil {
			return fmt.Sprintf("%s -> %s", data.From, data.To)
		}
	case EventProgress:
		var data progressEventData
		if json.Unmarshal([]byte(event.Data), &data) == nil {
			return fmt.Sprintf("eta %d min, %.1f km", data.ETAMinutes, data.DistanceKm)
		}
	case EventPosition:
		var data positionEventData
		if json.Unmarshal([]byte(event.Data), &data) == nil {
			return fmt.Sprintf("%.5f,%.5f (%.1f km left)", data.Lat, data.Lng, data.RemainingKm)
		}
	}
	return event.Data
}
