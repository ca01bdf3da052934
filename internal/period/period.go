// Package period resolves the current and previous reporting windows
// for period-over-period analytics queries.
package period

import (
	"errors"
	"time"
)

// Validation errors surfaced to API clients with a 400 status.
var (
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrInvalidRange      = errors.New("'from' date must be strictly before 'to' date")
	ErrPartialRange      = errors.New("'from' and 'to' must be provided together")
)

const dateLayout = "2006-01-02"

// Period represents a closed interval [From, To] of timestamps.
type Period struct {
	From time.Time
	To   time.Time
}

// Duration returns the length of the period.
func (p Period) Duration() time.Duration {
	return p.To.Sub(p.From)
}

// Contains reports whether t falls inside the period, boundaries included.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && !t.After(p.To)
}

// Periods holds a current reporting window and the previous window it is
// compared against. Previous always has the same role, not necessarily the
// same length: for explicit ranges it is an equal-length window ending 1ms
// before Current.From; in the calendar-month default it is simply the prior
// calendar month regardless of the two months' lengths.
type Periods struct {
	Current  Period
	Previous Period
}

// Clock supplies the current time. Injectable for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Resolver computes reporting windows from optional from/to date strings.
type Resolver struct {
	clock Clock
}

// NewResolver creates a Resolver. An optional Clock overrides the system
// clock for tests.
func NewResolver(clock ...Clock) *Resolver {
	var c Clock = systemClock{}
	if len(clock) > 0 && clock[0] != nil {
		c = clock[0]
	}
	return &Resolver{clock: c}
}

// Resolve computes the current and previous windows.
//
// With both from and to supplied (strict YYYY-MM-DD), the current window
// spans the whole of both days in UTC and the previous window has identical
// duration, ending 1ms before the current one begins. With neither
// supplied, the windows are the calendar month containing now and the
// immediately preceding calendar month. Supplying only one of the two is
// rejected: silently ignoring half a range filter would return data the
// caller did not ask for.
func (r *Resolver) Resolve(from, to string) (Periods, error) {
	if from == "" && to == "" {
		return r.monthRanges(), nil
	}
	if from == "" || to == "" {
		return Periods{}, ErrPartialRange
	}

	fromDay, err := time.ParseInLocation(dateLayout, from, time.UTC)
	if err != nil {
		return Periods{}, ErrInvalidDateFormat
	}
	toDay, err := time.ParseInLocation(dateLayout, to, time.UTC)
	if err != nil {
		return Periods{}, ErrInvalidDateFormat
	}
	if !fromDay.Before(toDay) {
		return Periods{}, ErrInvalidRange
	}

	current := Period{
		From: fromDay,
		To:   endOfDay(toDay),
	}
	prevTo := current.From.Add(-time.Millisecond)
	previous := Period{
		From: prevTo.Add(-current.Duration()),
		To:   prevTo,
	}

	return Periods{Current: current, Previous: previous}, nil
}

// monthRanges returns the calendar month containing now and the prior
// calendar month, both in UTC.
func (r *Resolver) monthRanges() Periods {
	now := r.clock.Now().UTC()
	year, month := now.Year(), now.Month()

	currentFrom := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	currentTo := currentFrom.AddDate(0, 1, 0).Add(-time.Millisecond)

	previousFrom := currentFrom.AddDate(0, -1, 0)
	previousTo := currentFrom.Add(-time.Millisecond)

	return Periods{
		Current:  Period{From: currentFrom, To: currentTo},
		Previous: Period{From: previousFrom, To: previousTo},
	}
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}
