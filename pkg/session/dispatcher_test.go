package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dialerFunc func(ctx context.Context) (Result, error)

func (this dialerFunc) Dial(ctx context.Context) (Result, error) {
	return this(ctx)
}

func TestDispatcher_Handle_secondPressWhileBusyIsDropped(t *testing.T) {
	f := newFixture(200 * time.Millisecond)
	instance := NewDispatcher(f.instance)

	firstDone := make(chan bool)
	go func() {
		firstDone <- instance.Handle(context.Background(), time.Now())
	}()

	require.Eventually(t, func() bool { return f.backend.registers.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	start := time.Now()
	assert.False(t, instance.Handle(context.Background(), time.Now()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, int32(1), f.backend.registers.Load())

	assert.True(t, <-firstDone)
	assert.False(t, instance.Guard.Busy())
	assert.Equal(t, 1, f.rec.count("disconnect"))
	assert.Equal(t, 1, f.rec.count("hangup"))

	f.instance.Settings.AcceptTimeout = time.Millisecond
	assert.True(t, instance.Handle(context.Background(), time.Now()))
	assert.Equal(t, int32(2), f.backend.registers.Load())
}

func TestDispatcher_Handle_releasesAfterError(t *testing.T) {
	var calls atomic.Int32
	instance := NewDispatcher(dialerFunc(func(context.Context) (Result, error) {
		calls.Add(1)
		return Result{}, &AttemptError{Stage: StateFetchingToken, CallId: "c1", IncidentId: "abc", Err: errors.New("boom")}
	}))

	assert.True(t, instance.Handle(context.Background(), time.Now()))
	assert.False(t, instance.Guard.Busy())
	assert.True(t, instance.Handle(context.Background(), time.Now()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestDispatcher_Handle_releasesAfterPanic(t *testing.T) {
	instance := NewDispatcher(dialerFunc(func(context.Context) (Result, error) {
		panic("unexpected")
	}))

	assert.NotPanics(t, func() {
		assert.True(t, instance.Handle(context.Background(), time.Now()))
	})
	assert.False(t, instance.Guard.Busy())
}

func TestDispatcher_Handle_neverRunsConcurrently(t *testing.T) {
	var current, max atomic.Int32
	instance := NewDispatcher(dialerFunc(func(context.Context) (Result, error) {
		v := current.Add(1)
		defer current.Add(-1)
		for {
			m := max.Load()
			if v <= m || max.CompareAndSwap(m, v) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return Result{Outcome: OutcomeEnded}, nil
	}))

	var wg sync.WaitGroup
	var admitted atomic.Int32
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if instance.Handle(context.Background(), time.Now()) {
				admitted.Add(1)
			}
		}()
		time.Sleep(100 * time.Microsecond)
	}
	wg.Wait()

	assert.Equal(t, int32(1), max.Load())
	assert.GreaterOrEqual(t, admitted.Load(), int32(1))
	assert.False(t, instance.Guard.Busy())
}
