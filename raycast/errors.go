package raycast

import (
	"errors"
	"fmt"
)

var (
	ErrNilSource = errors.New("raycast: bounds source is nil")
	ErrNilCaster = errors.New("raycast: caster is nil")
)

// ConfigurationError is returned when a probe or body cannot be built from
// the values it was given. It is never produced while stepping valid geometry.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("raycast: invalid %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("raycast: invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErr(field, reason string) error {
	return &ConfigurationError{Field: field, Reason: reason}
}
