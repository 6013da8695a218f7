package printer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		time     time.Time
		expected string
	}{
		"Now": {
			time:     now,
			expected: "0 seconds ago",
		},
		"1 second ago": {
			time:     now.Add(-1 * time.Second),
			expected: "1 second ago",
		},
		"45 minutes ago": {
			time:     now.Add(-45 * time.Minute),
			expected: "45 minutes ago",
		},
		"1 hour ago": {
			time:     now.Add(-1*time.Hour - 10*time.Minute),
			expected: "1 hour ago",
		},
		"3 days ago": {
			time:     now.Add(-74 * time.Hour),
			expected: "3 days ago",
		},
		"Future": {
			time:     now.Add(time.Minute),
			expected: "in the future",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, timeAgo(now, test.time))
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	got := FormatTimestamp(time.Date(2026, 3, 10, 20, 30, 0, 0, time.UTC))
	assert.Equal(t, "2026-03-11 04:30:00 UTC+8", got)
}

func TestFormatDuration(t *testing.T) {
	tests := map[string]struct {
		d        time.Duration
		expected string
	}{
		"Milliseconds": {d: 1234567 * time.Nanosecond, expected: "1ms"},
		"Seconds":      {d: 3456 * time.Millisecond, expected: "3.5s"},
		"Minutes":      {d: 95*time.Second + 400*time.Millisecond, expected: "1m35s"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, FormatDuration(test.d))
		})
	}
}
