// Package clock abstracts the wall clock so time-dependent scheduling logic can be tested.
package clock

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// System implements Clock using the system time in UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// OrSystem returns c, or the system clock when c is nil.
func OrSystem(c Clock) Clock {
	if c == nil {
		return System{}
	}
	return c
}
