package main

import (
	"fmt"
	"strings"

	"github.com/amonks/taskmaster/booking"
	"github.com/amonks/taskmaster/internal/markdown"
	"github.com/amonks/taskmaster/internal/ui"
	"github.com/amonks/taskmaster/pricing"
	"github.com/amonks/taskmaster/task"
	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote [description...]",
	Short: "Price a task without booking it",
	Args:  cobra.ArbitraryArgs,
	RunE:  runQuote,
}

var (
	quoteRequest  requestFlags
	quoteCoupon   string
	quoteJSON     bool
	quoteMarkdown bool
)

func init() {
	rootCmd.AddCommand(quoteCmd)
	quoteRequest.register(quoteCmd)
	quoteCmd.Flags().StringVar(&quoteCoupon, "coupon", "", "Coupon code to apply")
	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "Output as JSON")
	quoteCmd.Flags().BoolVar(&quoteMarkdown, "markdown", false, "Render a formatted receipt")
}

type quoteOutput struct {
	Category task.Category   `json:"category"`
	Quote    booking.Quote   `json:"quote"`
	Stops    []task.Location `json:"stops"`
	Payable  string          `json:"payable"`
}

func runQuote(cmd *cobra.Command, args []string) error {
	request, err := quoteRequest.build(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	calculator, err := cfg.Calculator()
	if err != nil {
		return err
	}

	session := booking.NewSession(booking.Options{Calculator: calculator})
	defer session.Close()
	if err := stageRequest(session, request); err != nil {
		return err
	}
	quote, err := session.Quote(quoteCoupon)
	if err != nil {
		return err
	}

	if quoteJSON {
		return encodeJSON(cmd.OutOrStdout(), quoteOutput{
			Category: request.category,
			Quote:    quote,
			Stops:    request.locations,
			Payable:  pricing.FormatPrice(quote.Payable()),
		})
	}
	if quoteMarkdown {
		current, _ := session.Store().Current()
		receipt := markdown.Receipt(current, markdown.ReceiptOptions{Coupon: quoteCoupon})
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(markdown.Render(outputWidth(), 0, []byte(receipt))))
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", request.category.Emoji(), request.category.Label())
	fmt.Fprintf(out, "%s\n\n", wrapText(request.description, outputWidth()))
	_, err = fmt.Fprint(out, ui.FormatTable([]string{"ITEM", "AMOUNT"}, priceRows(quote)))
	return err
}

// stageRequest creates the task and stores its stops and details.
func stageRequest(session *booking.Session, request taskRequest) error {
	if _, err := session.Begin(request.description, request.category); err != nil {
		return err
	}
	if err := session.SetLocations(request.locations); err != nil {
		return err
	}
	return session.SetDetails(request.details)
}

func priceRows(quote booking.Quote) [][]string {
	p := quote.Pricing
	rows := make([][]string, 0, 5)
	if p.BaseFare > 0 {
		rows = append(rows, []string{"Base fare", pricing.FormatPrice(p.BaseFare)})
	}
	if p.DistanceCost != nil {
		label := "Distance"
		if p.Distance != nil {
			label = fmt.Sprintf("Distance (%s)", ui.FormatKm(*p.Distance))
		}
		rows = append(rows, []string{label, pricing.FormatPrice(*p.DistanceCost)})
	}
	if p.TimeCost != nil {
		label := "Time"
		if p.Duration != nil {
			label = fmt.Sprintf("Time (%g h)", *p.Duration)
		}
		rows = append(rows, []string{label, pricing.FormatPrice(*p.TimeCost)})
	}
	rows = append(rows, []string{"Service fee", pricing.FormatPrice(p.ServiceFee)})
	rows = append(rows, []string{"Total", pricing.FormatPrice(p.Total)})
	if quote.Discounted != nil {
		rows = append(rows, []string{"With " + strings.ToUpper(quote.Coupon), pricing.FormatPrice(*quote.Discounted)})
	}
	return rows
}
