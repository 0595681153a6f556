package button

import (
	"context"
	"fmt"
	"time"

	log "github.com/echocat/slf4g"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// edgePollInterval bounds how long a single wait for an edge blocks, so
// cancellation of the watch is noticed in time.
const edgePollInterval = 250 * time.Millisecond

type gpioPin interface {
	In(pull gpio.Pull, edge gpio.Edge) error
	WaitForEdge(timeout time.Duration) bool
	Read() gpio.Level
	Halt() error
}

// Gpio watches a physical push button on a GPIO pin.
type Gpio struct {
	pin          gpioPin
	name         string
	pressedLevel gpio.Level
	debouncer    Debouncer
}

func (this *Gpio) Initialize(conf *Configuration) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("cannot initialize GPIO host drivers: %w", err)
	}
	p := gpioreg.ByName(conf.PinName())
	if p == nil {
		return fmt.Errorf("GPIO pin %s does not exist on this host", conf.PinName())
	}
	return this.initializeWith(conf, conf.PinName(), p)
}

func (this *Gpio) initializeWith(conf *Configuration, name string, p gpioPin) error {
	pull, edge, pressedLevel := gpio.PullUp, gpio.FallingEdge, gpio.Low
	if conf.Pull == PullDown {
		pull, edge, pressedLevel = gpio.PullDown, gpio.RisingEdge, gpio.High
	}
	if err := p.In(pull, edge); err != nil {
		return fmt.Errorf("cannot configure GPIO pin %s as input: %w", name, err)
	}

	this.pin = p
	this.name = name
	this.pressedLevel = pressedLevel
	this.debouncer.Interval = conf.Debounce.Duration()

	log.With("pin", name).
		With("pull", conf.Pull).
		With("debounce", conf.Debounce).
		Info("Watching GPIO button.")
	return nil
}

func (this *Gpio) Watch(ctx context.Context, to chan<- Press) error {
	p := this.pin
	if p == nil {
		return fmt.Errorf("GPIO button not initialized")
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		if !p.WaitForEdge(edgePollInterval) {
			continue
		}
		now := time.Now()
		if p.Read() != this.pressedLevel {
			continue
		}
		if !this.debouncer.Accept(now) {
			log.With("pin", this.name).
				Trace("Edge within debounce interval ignored.")
			continue
		}
		if !emit(ctx, to, Press{At: now}) {
			return nil
		}
	}
}

func (this *Gpio) Dispose() error {
	if p := this.pin; p != nil {
		this.pin = nil
		if err := p.Halt(); err != nil {
			return fmt.Errorf("cannot release GPIO pin %s: %w", this.name, err)
		}
	}
	return nil
}

func (this *Gpio) GetKind() Kind {
	return KindGpio
}
