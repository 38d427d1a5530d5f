package analytics

import "fmt"

// InsufficientDataError reports a window too short for an estimator or
// test. Most stages report shortfalls structurally in their results; only
// the hedge estimator with an empty window returns this as an error.
type InsufficientDataError struct {
	Op   string
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need %d observations, got %d", e.Op, e.Need, e.Got)
}

// ConfigurationError reports an out-of-range or unknown analysis
// parameter. Parameters are rejected, never clamped.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}
