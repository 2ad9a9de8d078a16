package markdown

import (
	"fmt"
	"strings"

	"github.com/amonks/taskmaster/internal/ui"
	"github.com/amonks/taskmaster/pricing"
	"github.com/amonks/taskmaster/task"
)

// ReceiptOptions adjusts receipt contents.
type ReceiptOptions struct {
	// Coupon is applied to the total when it is recognized.
	Coupon string
}

// Receipt returns a markdown summary of t: the request, its stops, price
// breakdown, tasker and timeline.
func Receipt(t task.Task, opts ReceiptOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", t.Category.Emoji(), t.Category.Label())
	if description := strings.TrimSpace(t.Description); description != "" {
		fmt.Fprintf(&b, "%s\n\n", description)
	}
	fmt.Fprintf(&b, "**Status:** %s\n\n", t.Status.Label())

	if len(t.Locations) > 0 {
		b.WriteString("## Stops\n\n")
		for i, location := range t.Locations {
			fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, location.Address, location.Type)
		}
		b.WriteString("\n")
	}

	if t.Pricing != nil {
		b.WriteString("## Price\n\n")
		writePricing(&b, *t.Pricing, opts.Coupon)
		b.WriteString("\n")
	}

	if t.Tasker != nil {
		fmt.Fprintf(&b, "## TaskMaster\n\n%s, %.1f stars, %s, %s\n\n",
			t.Tasker.Name, t.Tasker.Rating, t.Tasker.Vehicle, t.Tasker.Phone)
	}

	if len(t.Timeline) > 0 {
		b.WriteString("## Timeline\n\n")
		for _, event := range t.Timeline {
			fmt.Fprintf(&b, "- %s %s: %s\n", timelineMarker(event), event.Title, ui.FormatClock(event.Timestamp))
		}
	}
	return b.String()
}

func writePricing(b *strings.Builder, p task.Pricing, coupon string) {
	if p.BaseFare > 0 {
		fmt.Fprintf(b, "- Base fare: %s\n", pricing.FormatPrice(p.BaseFare))
	}
	if p.DistanceCost != nil {
		distance := 0.0
		if p.Distance != nil {
			distance = *p.Distance
		}
		fmt.Fprintf(b, "- Distance (%s): %s\n", ui.FormatKm(distance), pricing.FormatPrice(*p.DistanceCost))
	}
	if p.TimeCost != nil {
		hours := 0.0
		if p.Duration != nil {
			hours = *p.Duration
		}
		fmt.Fprintf(b, "- Time (%g h): %s\n", hours, pricing.FormatPrice(*p.TimeCost))
	}
	fmt.Fprintf(b, "- Service fee: %s\n", pricing.FormatPrice(p.ServiceFee))
	fmt.Fprintf(b, "- **Total: %s**\n", pricing.FormatPrice(p.Total))
	if discounted, ok := pricing.ApplyCoupon(p.Total, coupon); ok {
		fmt.Fprintf(b, "- **With %s: %s** (you save %s)\n",
			strings.ToUpper(strings.TrimSpace(coupon)), pricing.FormatPrice(discounted), pricing.FormatPrice(p.Total-discounted))
	}
}

func timelineMarker(event task.TimelineEvent) string {
	switch {
	case event.IsCurrent:
		return "[>]"
	case event.IsCompleted:
		return "[x]"
	default:
		return "[ ]"
	}
}
