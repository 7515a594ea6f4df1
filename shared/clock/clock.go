package clock

import (
	"lockngo/shared/timezone"
	"time"
)

// Timer is a pending AfterFunc call.
type Timer interface {
	Stop() bool
}

// Clock supplies timestamps and deferred callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return timezone.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
