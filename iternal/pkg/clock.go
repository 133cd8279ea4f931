package pkg

import "time"

// Clock lets tests control token expiry timestamps
type Clock interface {
	Now() time.Time
}

type NormalClock struct{}

func (NormalClock) Now() time.Time {
	return time.Now()
}
