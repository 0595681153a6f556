package button

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"

	"github.com/blaubaer/sos-station/pkg/common"
)

type fakePin struct {
	pull  gpio.Pull
	edge  gpio.Edge
	inErr error

	edges  chan gpio.Level
	level  gpio.Level
	halted bool
	mutex  sync.Mutex
}

func newFakePin() *fakePin {
	return &fakePin{
		edges: make(chan gpio.Level, 16),
		level: gpio.High,
	}
}

func (this *fakePin) In(pull gpio.Pull, edge gpio.Edge) error {
	this.pull, this.edge = pull, edge
	return this.inErr
}

func (this *fakePin) WaitForEdge(timeout time.Duration) bool {
	select {
	case l := <-this.edges:
		this.mutex.Lock()
		this.level = l
		this.mutex.Unlock()
		return true
	case <-time.After(timeout):
		return false
	}
}

func (this *fakePin) Read() gpio.Level {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return this.level
}

func (this *fakePin) Halt() error {
	this.halted = true
	return nil
}

func TestGpio_initializeWith_pullUp(t *testing.T) {
	pin := newFakePin()
	conf := NewConfiguration()
	var instance Gpio

	require.NoError(t, instance.initializeWith(&conf, "GPIO17", pin))

	assert.Equal(t, gpio.PullUp, pin.pull)
	assert.Equal(t, gpio.FallingEdge, pin.edge)
	assert.Equal(t, gpio.Low, instance.pressedLevel)
	assert.Equal(t, 50*time.Millisecond, instance.debouncer.Interval)
}

func TestGpio_initializeWith_pullDown(t *testing.T) {
	pin := newFakePin()
	conf := NewConfiguration()
	conf.Pull = PullDown
	var instance Gpio

	require.NoError(t, instance.initializeWith(&conf, "GPIO17", pin))

	assert.Equal(t, gpio.PullDown, pin.pull)
	assert.Equal(t, gpio.RisingEdge, pin.edge)
	assert.Equal(t, gpio.High, instance.pressedLevel)
}

func TestGpio_initializeWith_failing(t *testing.T) {
	pin := newFakePin()
	pin.inErr = errors.New("busy")
	conf := NewConfiguration()
	var instance Gpio

	assert.ErrorContains(t, instance.initializeWith(&conf, "GPIO17", pin), "busy")
}

func TestGpio_Watch(t *testing.T) {
	pin := newFakePin()
	conf := NewConfiguration()
	conf.Debounce = common.SecondsOf(0)
	var instance Gpio
	require.NoError(t, instance.initializeWith(&conf, "GPIO17", pin))
	instance.debouncer.Interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	presses := make(chan Press, 10)
	done := make(chan error, 1)
	go func() { done <- instance.Watch(ctx, presses) }()

	// Release edge is not a press; bounces are swallowed by the debouncer.
	pin.edges <- gpio.High
	pin.edges <- gpio.Low
	pin.edges <- gpio.Low
	pin.edges <- gpio.Low

	select {
	case p := <-presses:
		assert.False(t, p.At.IsZero())
	case <-time.After(time.Second):
		require.Fail(t, "no press received")
	}
	assert.Never(t, func() bool { return len(presses) > 0 }, 100*time.Millisecond, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		require.Fail(t, "watch did not end")
	}

	require.NoError(t, instance.Dispose())
	assert.True(t, pin.halted)
}

func TestGpio_Watch_notInitialized(t *testing.T) {
	var instance Gpio
	assert.Error(t, instance.Watch(context.Background(), make(chan Press)))
}
