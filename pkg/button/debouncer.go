package button

import (
	"sync"
	"time"
)

// Debouncer accepts an edge only if the previously accepted one is at least
// Interval ago.
type Debouncer struct {
	Interval time.Duration

	last  time.Time
	mutex sync.Mutex
}

func (this *Debouncer) Accept(at time.Time) bool {
	this.mutex.Lock()
	defer this.mutex.Unlock()

	if !this.last.IsZero() && at.Sub(this.last) < this.Interval {
		return false
	}
	this.last = at
	return true
}
