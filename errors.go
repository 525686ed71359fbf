package dbal

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes every dbal operation reports.
var (
	// ErrNotConnected indicates an operation attempted without a live connection.
	ErrNotConnected = errors.New("dbal: not connected")

	// ErrTranslation indicates a malformed argument sequence, a modifier/value
	// mismatch, an unresolved substitution, or an empty required list.
	ErrTranslation = errors.New("dbal: translation error")

	// ErrCapability indicates a feature the current engine or engine version
	// cannot express.
	ErrCapability = errors.New("dbal: capability not supported")

	// ErrExecution indicates a failure reported by the native engine.
	ErrExecution = errors.New("dbal: execution error")

	// ErrReleased indicates use of a result cursor after it was freed.
	ErrReleased = errors.New("dbal: cursor released")

	// ErrInvalidArgument indicates a caller usage error such as a negative
	// limit or offset.
	ErrInvalidArgument = errors.New("dbal: invalid argument")

	// ErrNoTransaction indicates a transaction operation without an open
	// transaction.
	ErrNoTransaction = errors.New("dbal: no open transaction")
)

// TranslationError reports a failure while assembling SQL from an argument
// sequence. Position is the zero-based index of the offending argument, or
// -1 when the failure is not tied to a single argument.
type TranslationError struct {
	// Position is the argument index the failure refers to.
	Position int

	// Value is the offending value, if any.
	Value interface{}

	// Message is the human-readable description.
	Message string
}

// Error implements the error interface.
func (e *TranslationError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("dbal: translation error at argument %d: %s", e.Position, e.Message)
	}
	return fmt.Sprintf("dbal: translation error: %s", e.Message)
}

// Unwrap returns the sentinel class.
func (e *TranslationError) Unwrap() error { return ErrTranslation }

// CapabilityError reports a feature the active dialect or engine version
// cannot express.
type CapabilityError struct {
	// Dialect is the dialect name.
	Dialect string

	// Feature is the unsupported feature.
	Feature string

	// Version is the gated engine version, when version-dependent.
	Version string
}

// Error implements the error interface.
func (e *CapabilityError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("dbal: %s %s does not support %s", e.Dialect, e.Version, e.Feature)
	}
	return fmt.Sprintf("dbal: %s does not support %s", e.Dialect, e.Feature)
}

// Unwrap returns the sentinel class.
func (e *CapabilityError) Unwrap() error { return ErrCapability }

// StateError reports an operation attempted against a driver without a live
// connection.
type StateError struct {
	// Op is the attempted operation.
	Op string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return fmt.Sprintf("dbal: %s: not connected", e.Op)
}

// Unwrap returns the sentinel class.
func (e *StateError) Unwrap() error { return ErrNotConnected }

// ExecutionError wraps an error reported by the native engine. The original
// SQL text is attached for diagnostics; the error is never retried here.
type ExecutionError struct {
	// Code is the native engine error code, when the engine reports one.
	Code string

	// SQL is the statement that failed.
	SQL string

	// Cause is the native error, verbatim.
	Cause error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("dbal: execution failed [%s]: %v (sql: %s)", e.Code, e.Cause, e.SQL)
	}
	return fmt.Sprintf("dbal: execution failed: %v (sql: %s)", e.Cause, e.SQL)
}

// Unwrap returns the native cause.
func (e *ExecutionError) Unwrap() error { return e.Cause }

// Is reports whether the target matches this error's class or cause.
func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution || errors.Is(e.Cause, target)
}

// ReleasedError reports use of a cursor after release.
type ReleasedError struct {
	// Op is the attempted operation.
	Op string
}

// Error implements the error interface.
func (e *ReleasedError) Error() string {
	return fmt.Sprintf("dbal: %s on released cursor", e.Op)
}

// Unwrap returns the sentinel class.
func (e *ReleasedError) Unwrap() error { return ErrReleased }

// IsNotConnected checks if an error is a connection-state error.
func IsNotConnected(err error) bool { return errors.Is(err, ErrNotConnected) }

// IsTranslation checks if an error is a translation error.
func IsTranslation(err error) bool { return errors.Is(err, ErrTranslation) }

// IsCapability checks if an error is a capability error.
func IsCapability(err error) bool { return errors.Is(err, ErrCapability) }

// IsReleased checks if an error is a released-cursor error.
func IsReleased(err error) bool { return errors.Is(err, ErrReleased) }
