package button

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blaubaer/sos-station/pkg/common"
)

type fakeLineReader struct {
	lines  chan string
	errs   chan error
	closed chan struct{}
}

func newFakeLineReader() *fakeLineReader {
	return &fakeLineReader{
		lines:  make(chan string, 10),
		errs:   make(chan error, 10),
		closed: make(chan struct{}),
	}
}

func (this *fakeLineReader) Readline() (string, error) {
	select {
	case l := <-this.lines:
		return l, nil
	case err := <-this.errs:
		return "", err
	case <-this.closed:
		return "", io.EOF
	}
}

func (this *fakeLineReader) Close() error {
	close(this.closed)
	return nil
}

func newConsoleFor(reader lineReader) *Console {
	conf := NewConfiguration()
	conf.Debounce = common.SecondsOf(0)
	var result Console
	result.initializeWith(&conf, reader)
	return &result
}

func TestConsole_Watch_linesArePresses(t *testing.T) {
	reader := newFakeLineReader()
	instance := newConsoleFor(reader)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	presses := make(chan Press, 10)
	done := make(chan error, 1)
	go func() { done <- instance.Watch(ctx, presses) }()

	reader.lines <- ""
	reader.errs <- readline.ErrInterrupt
	reader.lines <- "sos"

	assert.Eventually(t, func() bool { return len(presses) == 2 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		require.Fail(t, "watch did not end")
	}
}

func TestConsole_Watch_endOfInput(t *testing.T) {
	reader := newFakeLineReader()
	instance := newConsoleFor(reader)
	reader.errs <- io.EOF

	err := instance.Watch(context.Background(), make(chan Press, 1))

	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestConsole_Watch_readFails(t *testing.T) {
	reader := newFakeLineReader()
	instance := newConsoleFor(reader)
	reader.errs <- errors.New("tty gone")

	err := instance.Watch(context.Background(), make(chan Press, 1))

	assert.ErrorContains(t, err, "tty gone")
}

func TestConsole_Dispose_isIdempotent(t *testing.T) {
	instance := newConsoleFor(newFakeLineReader())

	assert.NoError(t, instance.Dispose())
	assert.NoError(t, instance.Dispose())
}
