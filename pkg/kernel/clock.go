package kernel

import "time"

// Clock abstracts wall time so that expiration and restore windows can be
// driven deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the real UTC clock
func SystemClock() Clock {
	return systemClock{}
}
