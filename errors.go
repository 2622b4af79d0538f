package rngverify

import "errors"

var (
	// ErrPrecondition reports malformed input to one of the checks. It points at a bug in the
	// caller (or in the validator itself), not at the generator under test.
	ErrPrecondition = errors.New("precondition violated")

	// ErrInvalidOutput reports that the generator under test broke one of its contracts:
	// values out of range, output depending on fill chunking, or a failed statistical test.
	ErrInvalidOutput = errors.New("invalid generator output")
)
