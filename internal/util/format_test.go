package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{name: "zero", in: 0, want: "-"},
		{name: "negative", in: -time.Second, want: "-"},
		{name: "sub millisecond", in: 250 * time.Microsecond, want: "250µs"},
		{name: "truncated", in: 1500*time.Millisecond + 700*time.Microsecond, want: "1.5s"},
		{name: "minutes", in: 2*time.Minute + 3*time.Second, want: "2m3s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", FormatTime(time.Time{}))

	ts := time.Date(2024, 3, 1, 12, 30, 45, 999, time.FixedZone("x", 3600))
	assert.Equal(t, "2024-03-01T11:30:45Z", FormatTime(ts))
}
