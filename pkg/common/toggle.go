package common

import (
	"fmt"
	"strings"
)

// Toggle is a boolean setting which remembers whether it was set at all. This
// allows a value from flags or environment to switch off a setting which
// defaults to on when configurations are merged.
type Toggle uint8

const (
	ToggleUnset = Toggle(0)
	ToggleOff   = Toggle(1)
	ToggleOn    = Toggle(2)
)

func NewToggle(v bool) Toggle {
	if v {
		return ToggleOn
	}
	return ToggleOff
}

func (this *Toggle) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "":
		*this = ToggleUnset
		return nil
	case "off", "0", "false", "no":
		*this = ToggleOff
		return nil
	case "on", "1", "true", "yes":
		*this = ToggleOn
		return nil
	default:
		return fmt.Errorf("illegal-toggle: %s", plain)
	}
}

// Get returns the value of this toggle or def if it was never set.
func (this Toggle) Get(def bool) bool {
	switch this {
	case ToggleOn:
		return true
	case ToggleOff:
		return false
	default:
		return def
	}
}

func (this Toggle) String() string {
	switch this {
	case ToggleOn:
		return "true"
	case ToggleOff:
		return "false"
	default:
		return ""
	}
}

func (this Toggle) MarshalText() (text []byte, err error) {
	return []byte(this.String()), nil
}

func (this *Toggle) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

// IsBoolFlag makes kingpin accept the flag without a value and its --no-
// counterpart.
func (this Toggle) IsBoolFlag() bool {
	return true
}

func (this Toggle) IsZero() bool {
	return this == ToggleUnset
}

func (this Toggle) IsSet() bool {
	return this != ToggleUnset
}
