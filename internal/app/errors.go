package app

import (
	"errors"
	"fmt"
)

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// InstallFailed indicates an install workflow failed.
	InstallFailed AppErrorType = iota
	// PublishFailed indicates a publish workflow failed.
	PublishFailed
	// UpdateFailed indicates an update workflow failed.
	UpdateFailed
	// SelfInstallFailed indicates the self install workflow failed.
	SelfInstallFailed
	// ValidationFailed indicates invalid user input or project state.
	ValidationFailed
)

// String returns the string representation of the error type.
func (t AppErrorType) String() string {
	switch t {
	case InstallFailed:
		return "InstallFailed"
	case PublishFailed:
		return "PublishFailed"
	case UpdateFailed:
		return "UpdateFailed"
	case SelfInstallFailed:
		return "SelfInstallFailed"
	case ValidationFailed:
		return "ValidationFailed"
	default:
		return "Unknown"
	}
}

// AppError represents an application-layer error.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Message is the error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewInstallError creates an install error.
func NewInstallError(message string, cause error) *AppError {
	return NewAppError(InstallFailed, message, cause)
}

// NewPublishError creates a publish error.
func NewPublishError(message string, cause error) *AppError {
	return NewAppError(PublishFailed, message, cause)
}

// NewUpdateError creates an update error.
func NewUpdateError(message string, cause error) *AppError {
	return NewAppError(UpdateFailed, message, cause)
}

// NewSelfInstallError creates a self install error.
func NewSelfInstallError(message string, cause error) *AppError {
	return NewAppError(SelfInstallFailed, message, cause)
}

// NewValidationError creates a validation error.
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ValidationFailed, message, cause)
}

// ErrPublishCanceled is returned when the publish confirmation is declined.
var ErrPublishCanceled = errors.New("publish canceled")
