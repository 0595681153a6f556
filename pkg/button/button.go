package button

import (
	"context"
	"time"
)

// Press is emitted once for every accepted (debounced) press of the button.
type Press struct {
	At time.Time
}

type Source interface {
	// Watch blocks and emits presses to the given channel until ctx is done.
	// It returns nil if it ended because of ctx.
	Watch(ctx context.Context, to chan<- Press) error
	Dispose() error

	GetKind() Kind
}

func emit(ctx context.Context, to chan<- Press, p Press) bool {
	select {
	case to <- p:
		return true
	case <-ctx.Done():
		return false
	}
}
