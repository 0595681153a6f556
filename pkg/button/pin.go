package button

import (
	"fmt"
	"strconv"
	"strings"
)

// Pin is the BCM number of a GPIO pin. Pin 0 is valid, so it remembers
// whether it was assigned at all.
type Pin struct {
	number uint16
	set    bool
}

func PinOf(number uint16) Pin {
	return Pin{number, true}
}

func (this *Pin) Set(plain string) error {
	plain = strings.TrimSpace(plain)
	if plain == "" {
		*this = Pin{}
		return nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToUpper(plain), "GPIO"), 10, 16)
	if err != nil {
		return fmt.Errorf("illegal-button-pin: %s", plain)
	}
	*this = PinOf(uint16(v))
	return nil
}

func (this Pin) Number() uint16 {
	return this.number
}

func (this Pin) Name() string {
	return fmt.Sprintf("GPIO%d", this.number)
}

func (this Pin) String() string {
	return strconv.FormatUint(uint64(this.number), 10)
}

func (this Pin) MarshalText() (text []byte, err error) {
	return []byte(this.String()), nil
}

func (this *Pin) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

func (this Pin) IsSet() bool {
	return this.set
}

func (this Pin) IsZero() bool {
	return !this.set
}
