package common

import (
	"reflect"
)

// Explicit is implemented by setting values which know whether they were
// assigned at all, independent of their value.
type Explicit interface {
	IsSet() bool
}

var explicitType = reflect.TypeOf((*Explicit)(nil)).Elem()

// ExplicitTransformers makes mergo take over every assigned Explicit value,
// including zero ones, and skip every unassigned one.
type ExplicitTransformers struct{}

func (this ExplicitTransformers) Transformer(t reflect.Type) func(dst, src reflect.Value) error {
	if !t.Implements(explicitType) {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if dst.CanSet() && src.Interface().(Explicit).IsSet() {
			dst.Set(src)
		}
		return nil
	}
}
