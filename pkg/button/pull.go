package button

import (
	"fmt"
	"strings"
)

// Pull defines the resting level of the input. With PullUp the button
// connects the pin to ground and a press is a falling edge, with PullDown it
// is the other way around.
type Pull uint8

const (
	PullUp   = Pull(1)
	PullDown = Pull(2)

	PullDefault = PullUp
)

func (this *Pull) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "up", "pullup", "pull-up":
		*this = PullUp
		return nil
	case "down", "pulldown", "pull-down":
		*this = PullDown
		return nil
	default:
		return fmt.Errorf("illegal-button-pull: %s", plain)
	}
}

func (this Pull) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-button-pull-%d", this)
	}
	return string(v)
}

func (this Pull) MarshalText() (text []byte, err error) {
	switch this {
	case PullUp:
		return []byte("up"), nil
	case PullDown:
		return []byte("down"), nil
	default:
		return nil, fmt.Errorf("illegal button pull: %d", this)
	}
}

func (this *Pull) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}
