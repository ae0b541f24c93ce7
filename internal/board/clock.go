package board

import "time"

// Clock supplies the current wall-clock time. Resolution reads it fresh on
// every call; tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// MinutesOfDay splits a time into minutes since midnight and seconds within
// the minute.
func MinutesOfDay(t time.Time) (minutes, seconds int) {
	return t.Hour()*60 + t.Minute(), t.Second()
}
