package parser

import (
	"errors"

	"StatementSentinel/internal/model"
)

var errInvalidDate = errors.New("invalid calendar date")

// ParseFailure is returned when the text cannot be read as a bank statement.
type ParseFailure struct {
	Reason string
}

func (e *ParseFailure) Error() string {
	return "document does not resemble a bank statement: " + e.Reason
}

func (e *ParseFailure) Unwrap() error { return model.ErrParseFailure }
