package session

import (
	"sync/atomic"
)

// Guard admits at most one call attempt at a time. A caller that cannot
// acquire it has to drop its request; nothing is queued.
type Guard struct {
	busy atomic.Bool
}

func (this *Guard) TryAcquire() bool {
	return this.busy.CompareAndSwap(false, true)
}

func (this *Guard) Release() {
	this.busy.Store(false)
}

func (this *Guard) Busy() bool {
	return this.busy.Load()
}
