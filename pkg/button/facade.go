package button

import (
	"context"
	"fmt"
	"sync"
)

// Facade holds the Source selected by the configured Kind.
type Facade struct {
	Source

	lock sync.RWMutex
}

func (this *Facade) Initialize(conf *Configuration) error {
	this.lock.Lock()
	defer this.lock.Unlock()

	if this.Source != nil {
		return nil
	}

	switch conf.Kind {
	case KindGpio:
		var buf Gpio
		if err := buf.Initialize(conf); err != nil {
			return err
		}
		this.Source = &buf
	case KindConsole:
		var buf Console
		if err := buf.Initialize(conf); err != nil {
			return err
		}
		this.Source = &buf
	default:
		return fmt.Errorf("unsupported button kind: %v", conf.Kind)
	}

	return nil
}

func (this *Facade) Watch(ctx context.Context, to chan<- Press) error {
	this.lock.RLock()
	v := this.Source
	this.lock.RUnlock()

	if v == nil {
		return fmt.Errorf("button not initialized")
	}
	return v.Watch(ctx, to)
}

func (this *Facade) Dispose() error {
	this.lock.Lock()
	defer this.lock.Unlock()

	defer func() {
		this.Source = nil
	}()

	if v := this.Source; v != nil {
		return v.Dispose()
	}
	return nil
}

func (this *Facade) GetKind() Kind {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if v := this.Source; v != nil {
		return v.GetKind()
	}

	return 0
}
