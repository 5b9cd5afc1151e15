package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error so the transport layer can map it to a response.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindForbidden       ErrorKind = "FORBIDDEN"
	KindValidation      ErrorKind = "VALIDATION_ERROR"
	KindInvalidRange    ErrorKind = "INVALID_RANGE"
	KindItemUnavailable ErrorKind = "ITEM_UNAVAILABLE"
	KindConflict        ErrorKind = "CONFLICT"
	KindBadState        ErrorKind = "BAD_STATE"
)

// DomainError is a terminal, non-retryable business error.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewNotFoundError reports a missing entity, or access denied disguised as missing.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf("%s with id %s not found", entity, id)}
}

// NewNotFoundMessage builds a not-found error with a free-form message.
func NewNotFoundMessage(message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: message}
}

// NewForbiddenError reports an authenticated caller acting outside their rights.
func NewForbiddenError(message string) *DomainError {
	return &DomainError{Kind: KindForbidden, Message: message}
}

// NewValidationError reports malformed input.
func NewValidationError(message string) *DomainError {
	return &DomainError{Kind: KindValidation, Message: message}
}

// NewInvalidRangeError reports a time range whose start is not before its end.
func NewInvalidRangeError(message string) *DomainError {
	return &DomainError{Kind: KindInvalidRange, Message: message}
}

// NewItemUnavailableError reports an item that cannot be booked right now.
func NewItemUnavailableError(itemID string) *DomainError {
	return &DomainError{Kind: KindItemUnavailable, Message: fmt.Sprintf("item %s is not available", itemID)}
}

// NewConflictError reports a write that collides with the current state.
func NewConflictError(message string) *DomainError {
	return &DomainError{Kind: KindConflict, Message: message}
}

// NewBadStateError reports an unrecognized booking state filter.
func NewBadStateError(state string) *DomainError {
	return &DomainError{Kind: KindBadState, Message: "Unknown state: " + state}
}

// KindOf returns the kind of a wrapped DomainError, or "" for anything else.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err wraps a DomainError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
