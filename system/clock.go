package system

import "time"

// Clock is the time source of the scheduler
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}

func (wallClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
