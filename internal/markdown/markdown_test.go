package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/amonks/taskmaster/pricing"
	"github.com/amonks/taskmaster/task"
)

type panicRenderer struct{}

func (panicRenderer) Render(string) (string, error) {
	panic("boom")
}

func TestSafeRender_RecoversFromRendererPanic(t *testing.T) {
	const renderWidth = 20

	rendererMu.Lock()
	prev, hadPrev := renderers[renderWidth]
	renderers[renderWidth] = panicRenderer{}
	rendererMu.Unlock()

	defer func() {
		rendererMu.Lock()
		if hadPrev {
			renderers[renderWidth] = prev
		} else {
			delete(renderers, renderWidth)
		}
		rendererMu.Unlock()
	}()

	out := SafeRender(renderWidth, 0, []byte("hello\n"))
	if string(out) != "hello" {
		t.Fatalf("expected fallback to original markdown, got %q", string(out))
	}
}

func TestRender_Empty(t *testing.T) {
	if out := Render(40, 2, []byte("  \n\n")); out != nil {
		t.Fatalf("expected nil for blank input, got %q", out)
	}
}

func TestRender_Indents(t *testing.T) {
	out := string(Render(40, 4, []byte("hello world")))
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "    ") {
			t.Fatalf("expected indented line, got %q", line)
		}
	}
	if !strings.Contains(out, "hello world") {
		t.Fatalf("expected rendered text, got %q", out)
	}
}

func receiptTask() task.Task {
	now := time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC)
	store := task.NewStore(task.StoreOptions{Now: func() time.Time { return now }, NewID: func() string { return "task-1" }})
	store.Create("Deliver my parcel to Indiranagar", task.CategoryPickupDelivery)
	store.SetLocations([]task.Location{
		task.NewLocation("MG Road", 12.9716, 77.5946, task.LocationPickup),
		task.NewLocation("North", 12.9716+0.045, 77.5946, task.LocationDropoff),
	})
	current, _ := store.Current()
	store.SetPricing(pricing.Calculate(current.Category, current.Locations, nil))
	store.SetStatus(task.StatusEnRoute)
	current, _ = store.Current()
	return current
}

func TestReceipt(t *testing.T) {
	out := Receipt(receiptTask(), ReceiptOptions{Coupon: "first50"})

	for _, want := range []string{
		"# 📦 Pickup & Delivery",
		"**Status:** On the Way",
		"1. MG Road (pickup)",
		"- Distance (5.0 km): ₹75",
		"- **Total: ₹145**",
		"- **With FIRST50: ₹73** (you save ₹72)",
		"- [x] Task Requested: 09:05 AM",
		"- [>] TaskMaster En Route: 09:05 AM",
		"- [ ] Task Completed: -",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected receipt to contain %q, got:\n%s", want, out)
		}
	}
}

func TestReceipt_UnknownCoupon(t *testing.T) {
	out := Receipt(receiptTask(), ReceiptOptions{Coupon: "bogus"})
	if strings.Contains(out, "With ") {
		t.Fatalf("expected no discount line, got:\n%s", out)
	}
}
