package archive

import "fmt"

// ErrorType categorizes archive errors.
type ErrorType int

const (
	// IOFailed indicates a filesystem read or write operation failed.
	IOFailed ErrorType = iota
	// CorruptMetadata indicates the artifact's metadata block is truncated or invalid.
	CorruptMetadata
	// CorruptTree indicates the artifact's tree block is damaged or unsafe to extract.
	CorruptTree
	// EmptyTemplate indicates no files remained after ignore filtering.
	EmptyTemplate
	// TargetNotEmpty indicates the extraction target exists and is not an empty directory.
	TargetNotEmpty
)

// Error represents an archive-specific error.
type Error struct {
	// Type categorizes the error.
	Type ErrorType
	// Message is the error message.
	Message string
	// Path is the file or directory path related to the error (if applicable).
	Path string
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s (path: %s): %v", e.Message, e.Path, e.Cause)
		}
		return fmt.Sprintf("%s (path: %s)", e.Message, e.Path)
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Cause
}

// newError creates a new Error.
func newError(typ ErrorType, message, path string, cause error) *Error {
	return &Error{
		Type:    typ,
		Message: message,
		Path:    path,
		Cause:   cause,
	}
}

// IsType reports whether err is an archive *Error of the given type.
func IsType(err error, typ ErrorType) bool {
	e, ok := err.(*Error)
	return ok && e.Type == typ
}
