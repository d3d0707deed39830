package credential

import "fmt"

// CredentialErrorType represents the type of credential error.
type CredentialErrorType int

const (
	// CredentialMissing indicates no strategy produced credentials.
	CredentialMissing CredentialErrorType = iota
	// CredentialMalformed indicates a source was present but incomplete.
	CredentialMalformed
	// CredentialUnreadable indicates a profile file could not be read.
	CredentialUnreadable
)

// String returns the string representation of the error type.
func (t CredentialErrorType) String() string {
	switch t {
	case CredentialMissing:
		return "Missing"
	case CredentialMalformed:
		return "Malformed"
	case CredentialUnreadable:
		return "Unreadable"
	default:
		return "Unknown"
	}
}

// CredentialError represents a failure to resolve S3 credentials.
type CredentialError struct {
	Type    CredentialErrorType
	Source  string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *CredentialError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("credential error [%s] from %s: %s (caused by: %v)", e.Type, e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("credential error [%s] from %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying cause for error wrapping.
func (e *CredentialError) Unwrap() error {
	return e.Cause
}

// NewMissingError creates the error returned when every strategy is exhausted.
func NewMissingError(sources []string) *CredentialError {
	return &CredentialError{
		Type:    CredentialMissing,
		Source:  fmt.Sprintf("%v", sources),
		Message: "no credentials found in profile or environment",
	}
}

// NewMalformedError creates a malformed source error.
func NewMalformedError(source, message string) *CredentialError {
	return &CredentialError{Type: CredentialMalformed, Source: source, Message: message}
}

// NewUnreadableError creates an unreadable profile file error.
func NewUnreadableError(source string, cause error) *CredentialError {
	return &CredentialError{Type: CredentialUnreadable, Source: source, Message: "cannot read profile file", Cause: cause}
}
