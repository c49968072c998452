package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	want := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	for _, label := range []string{"August-2025", "august-2025", "Aug-2025", " AUG-2025 ", "2025-08"} {
		w, err := ParseMonth(label, time.UTC)
		require.NoError(t, err, label)
		assert.Equal(t, want, w.Start, label)
		assert.Equal(t, want.AddDate(0, 1, 0), w.End, label)
	}
}

func TestParseMonthRejects(t *testing.T) {
	for _, label := range []string{"", "August", "Augustus-2025", "2025-8", "2025-13", "08-2025", "August-25", "August-1800", "x-y"} {
		_, err := ParseMonth(label, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidMonth, label)
	}
}

func TestWindowIncludesLastDay(t *testing.T) {
	w, err := ParseMonth("February-2024", time.UTC)
	require.NoError(t, err)

	assert.True(t, w.Contains(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2024, time.February, 29, 23, 30, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2024, time.January, 31, 23, 59, 0, 0, time.UTC)))
}

func TestParseMonthUsesLocation(t *testing.T) {
	colombo := time.FixedZone("IST", 5*3600+1800)
	w, err := ParseMonth("2025-08", colombo)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.July, 31, 18, 30, 0, 0, time.UTC), w.Start.UTC())
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "August-2025", MonthLabel(time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)))
}
