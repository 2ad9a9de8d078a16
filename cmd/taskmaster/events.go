package main

import (
	"fmt"
	"time"

	"github.com/amonks/taskmaster/activity"
	"github.com/amonks/taskmaster/internal/ids"
	"github.com/amonks/taskmaster/internal/ui"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events [task-id]",
	Short: "List recorded bookings or show the events of one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEvents,
}

var (
	eventsDir  string
	eventsJSON bool
)

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().StringVar(&eventsDir, "events-dir", "", "Directory for event logs")
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "Output as JSON")
}

func runEvents(cmd *cobra.Command, args []string) error {
	opts := activity.EventLogOptions{EventsDir: eventsDir}
	summaries, err := activity.ListEventLogs(opts)
	if err != nil {
		return err
	}
	taskIDs := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		taskIDs = append(taskIDs, summary.TaskID)
	}

	if len(args) == 0 {
		if eventsJSON {
			return encodeJSON(cmd.OutOrStdout(), summaries)
		}
		if len(summaries) == 0 {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "No recorded bookings.")
			return err
		}
		prefixLengths := ui.UniqueIDPrefixLengths(taskIDs)
		now := time.Now()
		builder := ui.NewTableBuilder([]string{"TASK", "RECORDED"}, len(summaries))
		for _, summary := range summaries {
			builder.AddRow([]string{ui.HighlightID(summary.TaskID, ui.PrefixLength(prefixLengths, summary.TaskID)), ui.FormatTimeAgo(summary.Modified, now)})
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), builder.String())
		return err
	}

	taskID, matched, ambiguous := ids.MatchPrefix(taskIDs, args[0])
	if ambiguous {
		return fmt.Errorf("ambiguous task id prefix %q", args[0])
	}
	if !matched {
		return fmt.Errorf("%w: %s", activity.ErrEventLogNotFound, args[0])
	}
	events, err := activity.EventSnapshot(taskID, opts)
	if err != nil {
		return err
	}
	if eventsJSON {
		return encodeJSON(cmd.OutOrStdout(), events)
	}
	builder := ui.NewTableBuilder([]string{"TIME", "EVENT", "DETAIL"}, len(events))
	for _, event := range events {
		at := event.Time
		builder.AddRow([]string{ui.FormatClock(&at), event.Name, ui.TruncateTableCell(activity.DescribeEvent(event))})
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return err
}
