package model

import "errors"

var (
	// ErrParseFailure means the input did not look like a bank statement.
	ErrParseFailure = errors.New("parse failure")
	// ErrTypeMismatch means an analyzer received a non-finite number.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrExternalCall means a verification service timed out or reported failure.
	ErrExternalCall = errors.New("external call failure")
	// ErrBudgetExceeded means spend went past a budget cap.
	ErrBudgetExceeded = errors.New("budget exceeded")
)
