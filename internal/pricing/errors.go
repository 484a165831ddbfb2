package pricing

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks a sale configuration that makes pricing undefined.
var ErrConfiguration = errors.New("invalid sale configuration")

// ConfigurationError describes which configuration field is invalid.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid sale configuration: %s %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

func checkLeadin(leadinLength uint64) error {
	if leadinLength == 0 {
		return &ConfigurationError{Field: "leadin_length", Reason: "must be > 0"}
	}
	return nil
}
