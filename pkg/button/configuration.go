package button

import (
	"fmt"

	"github.com/blaubaer/sos-station/pkg/common"
)

var (
	DefaultPin      = PinOf(17)
	DefaultDebounce = common.NewSeconds(0.05)
)

func NewConfiguration() Configuration {
	return Configuration{
		Kind:     KindDefault,
		Pin:      DefaultPin,
		Debounce: DefaultDebounce,
		Pull:     PullDefault,
	}
}

type Configuration struct {
	Kind     Kind           `yaml:"kind,omitempty"`
	Pin      Pin            `yaml:"pin,omitempty"`
	Debounce common.Seconds `yaml:"debounce,omitempty"`
	Pull     Pull           `yaml:"pull,omitempty"`
}

func (this *Configuration) SetupConfiguration(using common.FlagHolder) {
	using.Flag("button.kind", "Where button presses come from. Possible values: "+AllKinds.String()).
		Envar("BUTTON_KIND").
		SetValue(&this.Kind)
	using.Flag("button.pin", fmt.Sprintf("BCM number of the GPIO pin the button is connected to. Default: %v", DefaultPin)).
		Envar("GPIO_PIN").
		SetValue(&this.Pin)
	using.Flag("button.debounce", fmt.Sprintf("Minimum time between two accepted presses. Either seconds or a duration. Default: %v", DefaultDebounce)).
		Envar("BUTTON_DEBOUNCE").
		SetValue(&this.Debounce)
	using.Flag("button.pull", "Resting level of the button input. Possible values: up,down").
		Envar("BUTTON_PULL").
		SetValue(&this.Pull)
}

// PinName returns the name of the pin as known to the GPIO registry.
func (this Configuration) PinName() string {
	return this.Pin.Name()
}
