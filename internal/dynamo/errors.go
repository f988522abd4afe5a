package dynamo

import "errors"

// Domain errors for rhythm operations.
var (
	// ErrUnknownRhythm indicates an identifier outside the fixed set of kinds.
	// The message matches what front-ends already expect from the command layer.
	ErrUnknownRhythm = errors.New("Unknown rhythm type")

	// ErrInvalidDelta indicates a negative, NaN or oversized delta time.
	ErrInvalidDelta = errors.New("invalid delta time")
)

// StepError wraps an error with the rhythm and delta it was raised for.
type StepError struct {
	Kind    Kind
	Dt      float64
	Wrapped error
}

func (e *StepError) Error() string {
	return e.Kind.String() + ": " + e.Wrapped.Error()
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
