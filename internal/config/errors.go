package config

import "fmt"

// NotConfiguredError reports that a setting an operation needs is absent.
type NotConfiguredError struct {
	Setting string
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("server not configured: %s missing", e.Setting)
}
