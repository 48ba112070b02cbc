package catalog

import "time"

// Clock abstracts time.Now() so freshness checks can be tested.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
