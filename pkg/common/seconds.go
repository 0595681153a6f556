package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Seconds is a duration which could be provided either as a plain number of
// (fractional) seconds like "0.05" or "90", or as a Go duration like "1m30s".
// It remembers whether it was assigned, so an explicit "0" is kept when
// configurations are merged.
type Seconds struct {
	value time.Duration
	set   bool
}

func NewSeconds(v float64) Seconds {
	return SecondsOf(time.Duration(v * float64(time.Second)))
}

func SecondsOf(d time.Duration) Seconds {
	return Seconds{d, true}
}

func (this *Seconds) Set(plain string) error {
	plain = strings.TrimSpace(plain)
	if plain == "" {
		*this = Seconds{}
		return nil
	}
	if f, err := strconv.ParseFloat(plain, 64); err == nil {
		if f < 0 {
			return fmt.Errorf("illegal-seconds: %s", plain)
		}
		*this = NewSeconds(f)
		return nil
	}
	d, err := time.ParseDuration(plain)
	if err != nil || d < 0 {
		return fmt.Errorf("illegal-seconds: %s", plain)
	}
	*this = SecondsOf(d)
	return nil
}

func (this Seconds) Duration() time.Duration {
	return this.value
}

func (this Seconds) String() string {
	return strconv.FormatFloat(this.value.Seconds(), 'f', -1, 64)
}

func (this Seconds) MarshalText() (text []byte, err error) {
	return []byte(this.String()), nil
}

func (this *Seconds) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

func (this Seconds) IsZero() bool {
	return this.value == 0
}

func (this Seconds) IsSet() bool {
	return this.set
}
