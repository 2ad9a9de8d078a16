package pricing

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupeePrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatPrice renders amount in rupees with Indian digit grouping.
func FormatPrice(amount int) string {
	return rupeePrinter.Sprintf("₹%d", amount)
}

// Coupon is a discount code.
type Coupon struct {
	Code        string
	Description string
	// PercentOff is the share of the total removed, in percent.
	PercentOff int
}

var coupons = []Coupon{
	{Code: "FIRST50", Description: "50% off your first task", PercentOff: 50},
}

// Coupons lists the recognized coupon codes.
func Coupons() []Coupon {
	return append([]Coupon(nil), coupons...)
}

// LookupCoupon finds a coupon by code, ignoring case and surrounding space.
func LookupCoupon(code string) (Coupon, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for _, coupon := range coupons {
		if coupon.Code == normalized {
			return coupon, nil
		}
	}
	return Coupon{}, fmt.Errorf("%w: %q", ErrUnknownCoupon, code)
}

// ApplyCoupon returns total after applying code and whether the code was
// recognized. Unknown codes leave the total unchanged.
func ApplyCoupon(total int, code string) (int, bool) {
	coupon, err := LookupCoupon(code)
	if err != nil {
		return total, false
	}
	return coupon.Apply(total), true
}

// Apply returns the discounted total rounded to the nearest rupee.
func (c Coupon) Apply(total int) int {
	return roundMoney(float64(total) * float64(100-c.PercentOff) / 100)
}
