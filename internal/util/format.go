package util //nolint:revive // package name util hosts shared formatting helpers for operator output

import "time"

// FormatDuration formats a run or attempt duration for display. Zero and
// negative durations render as "-"; anything above a millisecond is
// truncated to milliseconds.
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Millisecond:
		return d.String()
	default:
		return d.Truncate(time.Millisecond).String()
	}
}

// FormatTime renders t in UTC with second precision, or "-" when unset.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
