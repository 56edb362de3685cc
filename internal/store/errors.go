package store

import "fmt"

// StoreErrorType categorizes template store errors.
type StoreErrorType int

const (
	// NameExists indicates a template with the requested name already exists.
	NameExists StoreErrorType = iota
	// NotFound indicates no template with the requested name exists.
	NotFound
	// InvalidName indicates the template name cannot be used as an artifact key.
	InvalidName
	// IOFailed indicates a filesystem operation on the store failed.
	IOFailed
	// EditorFailed indicates the external editor could not be run or exited abnormally.
	EditorFailed
	// ParseFailed indicates edited metadata text could not be parsed back.
	ParseFailed
)

// StoreError represents a template store error.
type StoreError struct {
	// Type categorizes the error.
	Type StoreErrorType
	// Name is the template name related to the error (if applicable).
	Name string
	// Message is the error message.
	Message string
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg = fmt.Sprintf("%s: %s", e.Message, e.Name)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// newStoreError creates a new StoreError.
func newStoreError(typ StoreErrorType, name, message string, cause error) *StoreError {
	return &StoreError{
		Type:    typ,
		Name:    name,
		Message: message,
		Cause:   cause,
	}
}

// IsType reports whether err is a *StoreError of the given type.
func IsType(err error, typ StoreErrorType) bool {
	e, ok := err.(*StoreError)
	return ok && e.Type == typ
}
