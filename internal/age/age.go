package age

import "time"

// Since returns the age of then at now. It reports false for a zero time.
func Since(then time.Time, now time.Time) (time.Duration, bool) {
	if then.IsZero() {
		return 0, false
	}
	return clampNegative(now.Sub(then)), true
}

func clampNegative(duration time.Duration) time.Duration {
	if duration < 0 {
		return 0
	}
	return duration
}
