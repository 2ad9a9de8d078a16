package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/amonks/taskmaster/activity"
	"github.com/amonks/taskmaster/booking"
	"github.com/amonks/taskmaster/internal/clock"
	"github.com/amonks/taskmaster/internal/markdown"
	"github.com/amonks/taskmaster/internal/tracktui"
	"github.com/amonks/taskmaster/pricing"
	"github.com/amonks/taskmaster/task"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var bookCmd = &cobra.Command{
	Use:   "book [description...]",
	Short: "Book a task and follow it to completion",
	Long: `Book a task and follow it to completion.

The task is priced, confirmed, matched with a TaskMaster and then tracked
until it completes. Press Ctrl-C to cancel the task.`,
	Args: cobra.ArbitraryArgs,
	RunE: runBook,
}

var (
	bookRequest   requestFlags
	bookCoupon    string
	bookSeed      uint64
	bookSpeed     float64
	bookTimeout   time.Duration
	bookEvents    bool
	bookEventsDir string
	bookJSON      bool
	bookTUI       bool
	bookVerbose   bool
	bookQuiet     bool
)

func init() {
	rootCmd.AddCommand(bookCmd)
	bookRequest.register(bookCmd)
	flags := bookCmd.Flags()
	flags.StringVar(&bookCoupon, "coupon", "", "Coupon code to apply")
	flags.Uint64Var(&bookSeed, "seed", 0, "Seed for TaskMaster selection")
	flags.Float64Var(&bookSpeed, "speed", 1, "Run the simulation this many times faster")
	flags.DurationVar(&bookTimeout, "timeout", 0, "Cancel the task if it has not finished after this long")
	flags.BoolVar(&bookEvents, "events", false, "Record an event log for the task")
	flags.StringVar(&bookEventsDir, "events-dir", "", "Directory for event logs")
	flags.BoolVar(&bookJSON, "json", false, "Print the final task as JSON")
	flags.BoolVar(&bookTUI, "tui", false, "Show a live tracking view")
	flags.BoolVarP(&bookVerbose, "verbose", "v", false, "Log countdown ticks and movement")
	flags.BoolVarP(&bookQuiet, "quiet", "q", false, "Do not log progress")
}

func runBook(cmd *cobra.Command, args []string) error {
	request, err := bookRequest.build(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.BookingOptions(clock.Real{})
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("speed") {
		opts.Clock = clock.Scaled(clock.Real{}, bookSpeed)
	}
	if cmd.Flags().Changed("seed") {
		opts.Matching.Rand = rand.New(rand.NewPCG(bookSeed, bookSeed))
	}

	taskID := uuid.NewString()
	opts.Store = task.NewStore(task.StoreOptions{
		Now:   opts.Clock.Now,
		NewID: func() string { return taskID },
	})

	loggers := []activity.Logger{}
	if !bookQuiet && !bookTUI {
		console := activity.NewConsoleLogger(cmd.ErrOrStderr())
		console.Verbose = bookVerbose
		loggers = append(loggers, console)
	}
	var eventLogger *activity.EventLogger
	if bookEvents || bookEventsDir != "" {
		eventLog, err := activity.OpenEventLog(taskID, activity.EventLogOptions{EventsDir: bookEventsDir})
		if err != nil {
			return err
		}
		defer eventLog.Close()
		eventLogger = activity.NewEventLogger(eventLog, opts.Clock.Now)
		loggers = append(loggers, eventLogger)
	}
	opts.Logger = activity.Multi(loggers...)

	session := booking.NewSession(opts)
	defer session.Close()
	if err := stageRequest(session, request); err != nil {
		return err
	}
	quote, err := session.Quote(bookCoupon)
	if err != nil {
		return err
	}
	if !bookQuiet && !bookTUI {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %s\n", request.category.Emoji(), request.category.Label(), pricing.FormatPrice(quote.Payable()))
	}
	if err := session.Confirm(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if bookTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, bookTimeout)
		defer cancel()
	}

	final, err := followBooking(ctx, session)
	if err != nil {
		return err
	}
	if eventLogger != nil {
		if err := eventLogger.Err(); err != nil {
			return err
		}
	}

	if err := printBookingResult(cmd.OutOrStdout(), final); err != nil {
		return err
	}
	if final.Status == task.StatusCancelled {
		return newExitError(2, "task %s cancelled", final.ID)
	}
	return nil
}

// followBooking waits for the task to finish, cancelling it when ctx ends.
func followBooking(ctx context.Context, session *booking.Session) (task.Task, error) {
	var (
		final task.Task
		err   error
	)
	if bookTUI {
		final, err = tracktui.Run(ctx, session)
	} else {
		final, err = session.Wait(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return final, err
	}

	current, ok := session.Store().Current()
	if !ok {
		return final, booking.ErrNoTask
	}
	if !current.Status.IsTerminal() {
		if cancelErr := session.Cancel(); cancelErr != nil && !errors.Is(cancelErr, booking.ErrFinished) {
			return current, cancelErr
		}
		current, _ = session.Store().Current()
	}
	return current, nil
}

func printBookingResult(w io.Writer, final task.Task) error {
	if bookJSON {
		return encodeJSON(w, final)
	}
	receipt := markdown.Receipt(final, markdown.ReceiptOptions{Coupon: bookCoupon})
	_, err := fmt.Fprintln(w, string(markdown.Render(outputWidth(), 0, []byte(receipt))))
	return err
}
