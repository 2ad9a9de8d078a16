// Package tracktui renders a live view of a running booking.
package tracktui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/taskmaster/booking"
	"github.com/amonks/taskmaster/internal/ui"
	"github.com/amonks/taskmaster/task"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// PollInterval is how often the view reads the session.
const PollInterval = 200 * time.Millisecond

type pollMsg struct{}

type cancelledMsg struct {
	err error
}

type model struct {
	session  *booking.Session
	spinner  spinner.Model
	progress progress.Model
	snapshot booking.Snapshot
	loaded   bool
	err      error
	width    int
	done     bool
}

// Run shows the session until its task finishes or the user quits. It
// returns the last task seen.
func Run(ctx context.Context, session *booking.Session) (task.Task, error) {
	if session == nil {
		return task.Task{}, fmt.Errorf("booking session is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(newModel(session), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return task.Task{}, err
	}
	m, ok := final.(model)
	if !ok {
		return task.Task{}, nil
	}
	return m.snapshot.Task, m.err
}

func newModel(session *booking.Session) model {
	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage())
	m := model{
		session:  session,
		spinner:  spin,
		progress: bar,
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, pollCmd())
}

func pollCmd() tea.Cmd {
	return tea.Tick(PollInterval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = progressWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "c":
			if m.done {
				return m, nil
			}
			return m, m.cancelCmd()
		}
		return m, nil
	case cancelledMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		m.refresh()
		if m.done {
			return m, tea.Quit
		}
		return m, nil
	case pollMsg:
		m.refresh()
		if m.done {
			return m, tea.Quit
		}
		return m, pollCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) cancelCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return cancelledMsg{err: session.Cancel()}
	}
}

func (m *model) refresh() {
	snapshot, err := m.session.Snapshot()
	if err != nil {
		m.err = err
		m.done = true
		return
	}
	m.snapshot = snapshot
	m.loaded = true
	m.done = snapshot.Task.Status.IsTerminal()
}

func progressWidth(width int) int {
	width -= 4
	if width > 60 {
		return 60
	}
	if width < 10 {
		return 10
	}
	return width
}

func (m model) View() string {
	if !m.loaded {
		if m.err != nil {
			return errorStyle.Render(m.err.Error()) + "\n"
		}
		return "Loading booking...\n"
	}

	current := m.snapshot.Task
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(fmt.Sprintf("%s %s", current.Category.Emoji(), current.Category.Label())))
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Status:"), statusText(current.Status))

	switch {
	case m.snapshot.Searching && m.snapshot.Stage != nil:
		stage := m.snapshot.Stage
		fmt.Fprintf(&b, "%s [%d/%d] %s\n", m.spinner.View(), stage.Index+1, stage.Total, stage.Message)
	case current.Tasker != nil:
		b.WriteString(m.renderTasker(current))
	}

	if index := task.TimelineIndex(current.Status); index >= 0 {
		percent := float64(index) / float64(len(task.TimelineStatuses())-1)
		fmt.Fprintf(&b, "\n%s\n", m.progress.ViewAs(percent))
	}

	b.WriteString("\n")
	for _, event := range current.Timeline {
		b.WriteString(renderTimelineEvent(event))
	}

	if m.err != nil {
		fmt.Fprintf(&b, "\n%s\n", errorStyle.Render(m.err.Error()))
	}
	if !m.done {
		fmt.Fprintf(&b, "\n%s\n", helpStyle.Render("c cancel • q quit"))
	}
	return b.String()
}

func (m model) renderTasker(current task.Task) string {
	tasker := current.Tasker
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%.1f, %s)\n", labelStyle.Render("TaskMaster:"), tasker.Name, tasker.Rating, tasker.Vehicle)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Phone:"), tasker.Phone)
	if !current.Status.IsTerminal() && current.Status != task.StatusInProgress {
		eta := m.snapshot.Progress
		fmt.Fprintf(&b, "%s %s %s\n", labelStyle.Render("ETA:"), ui.FormatMinutes(eta.ETAMinutes), valueMuted.Render(ui.FormatKm(eta.DistanceKm)))
	}
	return b.String()
}

func statusText(status task.Status) string {
	switch {
	case status == task.StatusCompleted:
		return doneStyle.Render(status.Label())
	case status == task.StatusCancelled:
		return errorStyle.Render(status.Label())
	default:
		return currentStyle.Render(status.Label())
	}
}

func renderTimelineEvent(event task.TimelineEvent) string {
	marker := "[ ]"
	title := event.Title
	switch {
	case event.IsCurrent:
		marker = "[>]"
		title = currentStyle.Render(title)
	case event.IsCompleted:
		marker = "[x]"
		title = doneStyle.Render(title)
	}
	when := ""
	if event.Timestamp != nil {
		when = " " + valueMuted.Render(ui.FormatClock(event.Timestamp))
	}
	return fmt.Sprintf("%s %s%s\n", marker, title, when)
}
