package app

import (
	"strings"
)

// ConfigurationError lists every problem found in the configuration. It is
// always fatal.
type ConfigurationError struct {
	Problems []error
}

func (this *ConfigurationError) Error() string {
	msgs := make([]string, len(this.Problems))
	for i, p := range this.Problems {
		msgs[i] = p.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

func (this *ConfigurationError) Unwrap() []error {
	return this.Problems
}
