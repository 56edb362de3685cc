package app

import "fmt"

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// InvalidArgument indicates an unusable combination of arguments.
	InvalidArgument AppErrorType = iota
	// CreateFailed indicates template creation failed.
	CreateFailed
	// ExpandFailed indicates template expansion failed.
	ExpandFailed
	// EditFailed indicates metadata editing failed.
	EditFailed
	// ListFailed indicates listing templates failed.
	ListFailed
)

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

// NewInvalidArgumentError creates an invalid argument error.
func NewInvalidArgumentError(message string) *AppError {
	return NewAppError(InvalidArgument, message, nil)
}

// NewCreateError creates a template creation error.
func NewCreateError(message string, cause error) *AppError {
	return NewAppError(CreateFailed, message, cause)
}

// NewExpandError creates a template expansion error.
func NewExpandError(message string, cause error) *AppError {
	return NewAppError(ExpandFailed, message, cause)
}

// NewEditError creates a metadata edit error.
func NewEditError(message string, cause error) *AppError {
	return NewAppError(EditFailed, message, cause)
}
