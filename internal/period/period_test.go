package period_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subham-proj/barelytics-server/internal/period"
)

// fixedClock pins the resolver to a known instant
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestResolveExplicitRange(t *testing.T) {
	resolver := period.NewResolver()

	periods, err := resolver.Resolve("2024-03-10", "2024-03-20")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), periods.Current.From)
	assert.Equal(t, time.Date(2024, 3, 20, 23, 59, 59, int(999*time.Millisecond), time.UTC), periods.Current.To)

	// Previous ends 1ms before current begins and has identical duration
	assert.Equal(t, periods.Current.From.Add(-time.Millisecond), periods.Previous.To)
	assert.Equal(t, periods.Current.Duration(), periods.Previous.Duration())
}

func TestResolveDefaultsToCalendarMonths(t *testing.T) {
	// March 2024 follows February of a leap year, so the two windows have
	// different lengths
	clock := fixedClock{now: time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)}
	resolver := period.NewResolver(clock)

	periods, err := resolver.Resolve("", "")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), periods.Current.From)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC), periods.Current.To)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), periods.Previous.From)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, int(999*time.Millisecond), time.UTC), periods.Previous.To)
}

func TestResolveDefaultAcrossYearBoundary(t *testing.T) {
	clock := fixedClock{now: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)}
	resolver := period.NewResolver(clock)

	periods, err := resolver.Resolve("", "")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), periods.Current.From)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), periods.Previous.From)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC), periods.Previous.To)
}

func TestResolveRejectsInvertedRange(t *testing.T) {
	resolver := period.NewResolver()

	_, err := resolver.Resolve("2024-05-01", "2024-04-01")
	assert.ErrorIs(t, err, period.ErrInvalidRange)
}

func TestResolveRejectsEqualDates(t *testing.T) {
	resolver := period.NewResolver()

	_, err := resolver.Resolve("2024-05-01", "2024-05-01")
	assert.ErrorIs(t, err, period.ErrInvalidRange)
}

func TestResolveRejectsMalformedDates(t *testing.T) {
	resolver := period.NewResolver()

	_, err := resolver.Resolve("05-01-2024", "2024-05-02")
	assert.ErrorIs(t, err, period.ErrInvalidDateFormat)

	_, err = resolver.Resolve("2024-05-01", "May 2nd")
	assert.ErrorIs(t, err, period.ErrInvalidDateFormat)
}

func TestResolveRejectsPartialRange(t *testing.T) {
	resolver := period.NewResolver()

	_, err := resolver.Resolve("2024-05-01", "")
	assert.ErrorIs(t, err, period.ErrPartialRange)

	_, err = resolver.Resolve("", "2024-05-02")
	assert.ErrorIs(t, err, period.ErrPartialRange)
}

func TestPeriodContains(t *testing.T) {
	p := period.Period{
		From: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 20, 23, 59, 59, 0, time.UTC),
	}

	assert.True(t, p.Contains(p.From))
	assert.True(t, p.Contains(p.To))
	assert.True(t, p.Contains(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(p.From.Add(-time.Millisecond)))
	assert.False(t, p.Contains(p.To.Add(time.Millisecond)))
}
