package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfigUnavailable = errors.New("catalog unavailable")
	ErrRoomNotFound      = errors.New("room not found")
	ErrQuoteUnavailable  = errors.New("quote unavailable")
	ErrValidation        = errors.New("validation failed")
)

// ValidationError reports the first admin payload field that breaks a rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ErrorKind is the wire name of an error class.
type ErrorKind string

const (
	KindConfigUnavailable ErrorKind = "ConfigUnavailable"
	KindRoomNotFound      ErrorKind = "RoomNotFound"
	KindQuoteUnavailable  ErrorKind = "QuoteUnavailable"
	KindValidation        ErrorKind = "ValidationError"
	KindInternal          ErrorKind = "Internal"
)

func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfigUnavailable):
		return KindConfigUnavailable
	case errors.Is(err, ErrRoomNotFound):
		return KindRoomNotFound
	case errors.Is(err, ErrQuoteUnavailable):
		return KindQuoteUnavailable
	case errors.Is(err, ErrValidation):
		return KindValidation
	}
	return KindInternal
}
