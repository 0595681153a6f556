package button

import (
	"fmt"
	"strings"
)

type Kind uint8

const (
	KindGpio    = Kind(1)
	KindConsole = Kind(2)

	KindDefault = KindGpio
)

var (
	AllKinds = Kinds{
		KindGpio,
		KindConsole,
	}
)

func (this *Kind) Set(plain string) error {
	switch strings.TrimSpace(strings.ToLower(plain)) {
	case "gpio":
		*this = KindGpio
		return nil
	case "console", "keyboard":
		*this = KindConsole
		return nil
	default:
		return fmt.Errorf("illegal-button-kind: %s", plain)
	}
}

func (this Kind) String() string {
	v, err := this.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-button-kind-%d", this)
	}
	return string(v)
}

func (this Kind) MarshalText() (text []byte, err error) {
	switch this {
	case KindGpio:
		return []byte("gpio"), nil
	case KindConsole:
		return []byte("console"), nil
	default:
		return nil, fmt.Errorf("illegal button kind: %d", this)
	}
}

func (this *Kind) UnmarshalText(text []byte) error {
	return this.Set(string(text))
}

type Kinds []Kind

func (this Kinds) Strings() []string {
	result := make([]string, len(this))
	for i, v := range this {
		result[i] = v.String()
	}
	return result
}

func (this Kinds) String() string {
	return strings.Join(this.Strings(), ",")
}
