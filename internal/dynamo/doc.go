// Package dynamo holds the primitives shared by every rig component.
//
//   - [Clock]: injected time source used for timestamps and step pacing
//   - [ManualClock]: deterministic clock for tests and offline runs
//   - [ConfigurationError]: formulation lookup failure wrapping [ErrConfiguration]
//
// # Error Kinds
//
// Callers classify failures with errors.Is:
//
//	if errors.Is(err, dynamo.ErrInvalidOperation) {
//	    // a test is already running; nothing was changed
//	}
//
// Thermal derating is not an error. It is reported on the fluid output.
package dynamo
