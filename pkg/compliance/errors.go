package compliance

import "fmt"

// ConfigError indicates an invalid compliance configuration field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid compliance config field %q: %s", e.Field, e.Message)
}
