package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for rig operations.
var (
	// ErrConfiguration indicates an unknown or missing fluid formulation, or an invalid setting.
	ErrConfiguration = errors.New("dynamo: configuration error")

	// ErrInvalidOperation indicates a request that conflicts with the current run state.
	ErrInvalidOperation = errors.New("dynamo: invalid operation")

	// ErrInvalidScenario indicates a scenario that failed schema or range validation.
	ErrInvalidScenario = errors.New("dynamo: invalid scenario")

	// ErrEmptyCatalog indicates a formulation catalog with no entries.
	ErrEmptyCatalog = errors.New("dynamo: formulation catalog is empty")
)

// ConfigurationError reports a formulation that could not be resolved.
type ConfigurationError struct {
	Formulation string
	Reason      string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unknown formulation %q", e.Formulation)
	}
	return fmt.Sprintf("formulation %q: %s", e.Formulation, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
