package repo

import (
	"errors"
	"fmt"
)

// RepoErrorType classifies repository failures.
type RepoErrorType int

const (
	// RepoParseFailed indicates a malformed repository location.
	RepoParseFailed RepoErrorType = iota
	// RepoNotFound indicates a missing artifact or metadata document.
	RepoNotFound
	// RepoInvalidVersion indicates a metadata document that could not be parsed.
	RepoInvalidVersion
	// RepoTransport indicates a network, credential or provider failure.
	RepoTransport
	// RepoUnsupportedOperation indicates an operation the backend cannot perform.
	RepoUnsupportedOperation
)

// String returns the string representation of the error type.
func (t RepoErrorType) String() string {
	switch t {
	case RepoParseFailed:
		return "ParseFailed"
	case RepoNotFound:
		return "NotFound"
	case RepoInvalidVersion:
		return "InvalidVersion"
	case RepoTransport:
		return "Transport"
	case RepoUnsupportedOperation:
		return "UnsupportedOperation"
	default:
		return "Unknown"
	}
}

// RepoError represents a repository access error.
type RepoError struct {
	// Type is the error type classification.
	Type RepoErrorType
	// Message is the human-readable error message.
	Message string
	// Location is the repository location, key or path involved.
	Location string
	// Code is the provider error code, when the provider reported one.
	Code string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *RepoError) Error() string {
	msg := fmt.Sprintf("repo error [%s] for '%s': %s", e.Type, e.Location, e.Message)
	if e.Code != "" {
		msg += " (code: " + e.Code + ")"
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for error wrapping.
func (e *RepoError) Unwrap() error {
	return e.Cause
}

// NewRepoError creates a new RepoError.
func NewRepoError(typ RepoErrorType, location, message string, cause error) *RepoError {
	return &RepoError{
		Type:     typ,
		Message:  message,
		Location: location,
		Cause:    cause,
	}
}

// NewParseError creates a parse failed error.
func NewParseError(location, message string) *RepoError {
	return NewRepoError(RepoParseFailed, location, message, nil)
}

// NewNotFoundError creates a not found error naming the missing key or path.
func NewNotFoundError(location string, cause error) *RepoError {
	return NewRepoError(RepoNotFound, location, "not found", cause)
}

// NewInvalidVersionError creates an invalid version error.
func NewInvalidVersionError(location, message string, cause error) *RepoError {
	return NewRepoError(RepoInvalidVersion, location, message, cause)
}

// NewTransportError creates a transport error carrying the provider code.
func NewTransportError(location, code string, cause error) *RepoError {
	e := NewRepoError(RepoTransport, location, "transfer failed", cause)
	e.Code = code
	return e
}

// NewUnsupportedError creates an unsupported operation error.
func NewUnsupportedError(location, message string) *RepoError {
	return NewRepoError(RepoUnsupportedOperation, location, message, nil)
}

func hasType(err error, typ RepoErrorType) bool {
	var re *RepoError
	return errors.As(err, &re) && re.Type == typ
}

// IsParseError reports whether err is a RepoParseFailed error.
func IsParseError(err error) bool { return hasType(err, RepoParseFailed) }

// IsNotFound reports whether err is a RepoNotFound error.
func IsNotFound(err error) bool { return hasType(err, RepoNotFound) }

// IsInvalidVersion reports whether err is a RepoInvalidVersion error.
func IsInvalidVersion(err error) bool { return hasType(err, RepoInvalidVersion) }

// IsTransport reports whether err is a RepoTransport error.
func IsTransport(err error) bool { return hasType(err, RepoTransport) }

// IsUnsupported reports whether err is a RepoUnsupportedOperation error.
func IsUnsupported(err error) bool { return hasType(err, RepoUnsupportedOperation) }
