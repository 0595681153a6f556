package button

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/chzyer/readline"
	log "github.com/echocat/slf4g"
)

var ErrInputClosed = errors.New("console input closed")

type lineReader interface {
	Readline() (string, error)
	Close() error
}

// Console treats every line entered on the terminal as a press. It is meant
// for stations without a wired button and for testing on the bench.
type Console struct {
	reader    lineReader
	debouncer Debouncer
	closeOnce sync.Once
}

func (this *Console) Initialize(conf *Configuration) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "Press Enter to send SOS> ",
		Stdin:           os.Stdin,
		Stdout:          os.Stderr,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return fmt.Errorf("cannot read from terminal: %w", err)
	}
	this.initializeWith(conf, l)

	log.Info("Watching console; press Enter to trigger an SOS.")
	return nil
}

func (this *Console) initializeWith(conf *Configuration, reader lineReader) {
	this.reader = reader
	this.debouncer.Interval = conf.Debounce.Duration()
}

func (this *Console) Watch(ctx context.Context, to chan<- Press) error {
	r := this.reader
	if r == nil {
		return fmt.Errorf("console button not initialized")
	}

	stop := context.AfterFunc(ctx, func() {
		this.close()
	})
	defer stop()

	for {
		_, err := r.Readline()
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return ErrInputClosed
		}
		if err != nil {
			return fmt.Errorf("cannot read from terminal: %w", err)
		}
		p := Press{At: time.Now()}
		if !this.debouncer.Accept(p.At) {
			continue
		}
		if !emit(ctx, to, p) {
			return nil
		}
	}
}

func (this *Console) close() {
	this.closeOnce.Do(func() {
		if r := this.reader; r != nil {
			_ = r.Close()
		}
	})
}

func (this *Console) Dispose() error {
	this.close()
	return nil
}

func (this *Console) GetKind() Kind {
	return KindConsole
}
