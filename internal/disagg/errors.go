package disagg

import (
	"errors"
	"fmt"
)

var (
	// ErrNoExceedance means no rupture in the forecast exceeds the intensity
	// level. It is an expected outcome: try a lower level.
	ErrNoExceedance = errors.New("disagg: intensity level is never exceeded")

	// ErrBusy is returned when Disaggregate is called on an Engine that is
	// already running.
	ErrBusy = errors.New("disagg: engine is already running")

	// ErrFinalized is returned when an Aggregator is used after Finalize.
	ErrFinalized = errors.New("disagg: aggregator already finalized")
)

// ConfigError reports invalid engine configuration or request input. It is
// returned before any rupture is processed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("disagg: invalid %s: %s", e.Field, e.Reason)
}

// CollaboratorError wraps a failure of the forecast or the ground-motion
// model. The run is aborted rather than continued with a silently
// incomplete sum.
type CollaboratorError struct {
	Op      string
	Source  int // -1 when not tied to a source
	Rupture int // -1 when not tied to a rupture
	Err     error
}

func (e *CollaboratorError) Error() string {
	switch {
	case e.Source < 0:
		return fmt.Sprintf("disagg: %s: %v", e.Op, e.Err)
	case e.Rupture < 0:
		return fmt.Sprintf("disagg: %s (source %d): %v", e.Op, e.Source, e.Err)
	default:
		return fmt.Sprintf("disagg: %s (source %d, rupture %d): %v", e.Op, e.Source, e.Rupture, e.Err)
	}
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
