package errors

import (
	"errors"
	"fmt"
)

// UnknownFailure captures an unknown vm fatal error.
type UnknownFailure struct {
	err error
}

// NewUnknownFailure constructs a new UnknownFailure.
func NewUnknownFailure(err error) *UnknownFailure {
	return &UnknownFailure{err: err}
}

func (e *UnknownFailure) Error() string {
	return fmt.Sprintf("%s unknown failure: %s", e.FailureCode(), e.err)
}

// FailureCode returns the failure code.
func (e *UnknownFailure) FailureCode() FailureCode {
	return FailureCodeUnknownFailure
}

// Unwrap returns the wrapped err.
func (e *UnknownFailure) Unwrap() error {
	return e.err
}

// StateMergeFailure captures a fatal error while merging a committed
// child view back into its parent.
type StateMergeFailure struct {
	err error
}

// NewStateMergeFailure constructs a new StateMergeFailure.
func NewStateMergeFailure(err error) *StateMergeFailure {
	return &StateMergeFailure{err: err}
}

func (e *StateMergeFailure) Error() string {
	return fmt.Sprintf("%s state merge failed: %s", e.FailureCode(), e.err)
}

// FailureCode returns the failure code.
func (e *StateMergeFailure) FailureCode() FailureCode {
	return FailureCodeStateMergeFailure
}

// Unwrap returns the wrapped err.
func (e *StateMergeFailure) Unwrap() error {
	return e.err
}

// EncodingFailure captures a fatal error sourced from encoding issues.
type EncodingFailure struct {
	err error
}

// NewEncodingFailuref formats and returns a new EncodingFailure.
func NewEncodingFailuref(msg string, args ...interface{}) *EncodingFailure {
	return &EncodingFailure{err: fmt.Errorf(msg, args...)}
}

func (e *EncodingFailure) Error() string {
	return fmt.Sprintf("%s encoding failed: %s", e.FailureCode(), e.err)
}

// FailureCode returns the failure code.
func (e *EncodingFailure) FailureCode() FailureCode {
	return FailureCodeEncodingFailure
}

// Unwrap returns the wrapped err.
func (e *EncodingFailure) Unwrap() error {
	return e.err
}

// IsFailure returns true if the error is fatal to the engine.
func IsFailure(err error) bool {
	var f Failure
	return errors.As(err, &f)
}

// SplitErrorTypes splits an error into a non-fatal engine error and a
// fatal failure. Any error that is neither is wrapped as an
// UnknownFailure, since the engine cannot vouch for its own state after
// an unclassified error.
func SplitErrorTypes(err error) (Error, Failure) {
	if err == nil {
		return nil, nil
	}
	var failure Failure
	if errors.As(err, &failure) {
		return nil, failure
	}
	var engineErr Error
	if errors.As(err, &engineErr) {
		return engineErr, nil
	}
	return nil, NewUnknownFailure(err)
}
