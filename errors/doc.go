// Package errors provides standardized error handling for limitedqueue packages.
//
// # Overview
//
// Errors fall into three classes: Transient (the same call may succeed once state
// changes), Invalid (bad input, retrying the same call never helps), and Fatal
// (stop processing).
//
// A full queue rejecting a push is transient: the caller may pop and retry. An
// initializer longer than the queue capacity is invalid.
//
// # Error Wrapping Pattern
//
// All error wrapping follows the format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions attach a class while preserving the chain:
//
//	errors.WrapTransient(err, "RingBuffer", "PushBack", "insert")
//	errors.WrapInvalid(err, "Config", "Validate", "queue capacity check")
//	errors.WrapFatal(err, "MetricsRegistry", "RegisterCounter", "register with prometheus")
//
// Wrapped errors keep working with the standard library:
//
//	if stderrors.Is(err, buffer.ErrOverflow) && errors.IsTransient(err) {
//	    // pop something and try again
//	}
package errors
