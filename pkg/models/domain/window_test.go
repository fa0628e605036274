package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	w := NewWindow(time.Date(2024, 6, 30, 15, 4, 5, 0, time.UTC), 1)

	assert.Equal(t, time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), w.Start())
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), w.End())

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"start day", time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), true},
		{"day before start", time.Date(2023, 6, 29, 23, 59, 59, 0, time.UTC), false},
		{"late on reference day", time.Date(2024, 6, 30, 23, 0, 0, 0, time.UTC), true},
		{"after reference day", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Contains(tt.at))
		})
	}

	assert.Equal(t, TimePeriod{Start: w.Start(), End: w.End(), Years: 1}, w.Period())
}

func TestWindowsMax(t *testing.T) {
	assert.Equal(t, 2, DefaultSettings().Windows.Max())
	assert.Equal(t, 0, Windows{}.Max())
	assert.Equal(t, 5, Windows{RepPerformance: 5, Summary: 3}.Max())
}

func TestWindow_UTCDays(t *testing.T) {
	eastern := time.FixedZone("UTC-5", -5*60*60)

	// 21:00 on June 30 at UTC-5 is July 1 in UTC
	w := NewWindow(time.Date(2024, 6, 30, 21, 0, 0, 0, eastern), 1)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), w.End())
	assert.Equal(t, time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), w.Start())

	assert.True(t, w.Contains(time.Date(2024, 7, 1, 23, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2023, 6, 30, 20, 0, 0, 0, eastern)))
	assert.False(t, w.Contains(time.Date(2023, 6, 30, 18, 0, 0, 0, eastern)))

	assert.Equal(t, Day(time.Date(2024, 7, 1, 1, 0, 0, 0, time.UTC)), Day(time.Date(2024, 6, 30, 20, 0, 0, 0, eastern)))
}
