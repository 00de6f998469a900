package debounce

import "time"

// Timer is the subset of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock is backed by the time package.
var RealClock Clock = realClock{}
