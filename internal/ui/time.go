package ui

import (
	"fmt"
	"time"

	internalage "github.com/amonks/taskmaster/internal/age"
)

// FormatTimeAgo returns a compact age string like "2m ago".
func FormatTimeAgo(then time.Time, now time.Time) string {
	age := formatTimeAge(then, now)
	if age == "-" {
		return age
	}
	return age + " ago"
}

// FormatDurationShort formats a duration using short units (s/m/h/d).
func FormatDurationShort(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}

	duration = duration.Truncate(time.Second)
	seconds := int64(duration.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd", days)
}

// FormatClock renders a wall-clock time like "09:05 AM". A nil time renders
// as "-".
func FormatClock(value *time.Time) string {
	if value == nil || value.IsZero() {
		return "-"
	}
	return value.Format("03:04 PM")
}

// FormatMinutes renders a whole number of minutes like "12 min".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%d min", minutes)
}

// FormatKm renders a distance with one decimal like "3.4 km".
func FormatKm(km float64) string {
	if km < 0 {
		km = 0
	}
	return fmt.Sprintf("%.1f km", km)
}

func formatTimeAge(then time.Time, now time.Time) string {
	duration, ok := internalage.Since(then, now)
	if !ok {
		return "-"
	}
	return FormatDurationShort(duration)
}
