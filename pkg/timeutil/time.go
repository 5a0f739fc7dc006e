package timeutil

import "time"

// Clock provides the current time. Services take a Clock instead of calling
// time.Now directly so tests can pin the request time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

// Now returns the current time in UTC
// Always use this instead of time.Now() to ensure timezone consistency
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed returns a Clock frozen at t. Intended for tests.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t.UTC()}
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

// EndOfMonth returns the last valid instant of the month containing t, in UTC.
func EndOfMonth(t time.Time) time.Time {
	year, month, _ := t.UTC().Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, 0).
		Add(-time.Nanosecond)
}
