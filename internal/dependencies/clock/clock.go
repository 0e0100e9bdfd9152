package clock

import "time"

// Clock abstracts wall-clock time so services can be tested against a
// fixed or advancing moment.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// New returns a Clock backed by the system clock
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}
