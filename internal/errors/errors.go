// Package errors provides centralized error definitions and error handling
// utilities for uploadsim. It defines sentinel errors, typed errors carrying
// task or file context, and classification helpers.
//
// The upload core itself never returns errors: simulated failures become a
// task status and stale references are absorbed. The types here serve the
// collaborators around the core (file picker, drop-folder watcher, CLI).
//
// # Usage
//
//	err := errors.NewFileError("stat", path, statErr)
//	if errors.Is(err, errors.ErrNotRegularFile) { ... }
//
//	var taskErr *errors.TaskError
//	if errors.As(err, &taskErr) && taskErr.IsRetryable() { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrTransferFailed indicates that a simulated transfer ended in error.
	ErrTransferFailed = New("transfer failed")
	// ErrNotRegularFile indicates that a selected path is not a regular file.
	ErrNotRegularFile = New("not a regular file")
	// ErrEmptySelection indicates that no files were selected.
	ErrEmptySelection = New("no files selected")
	// ErrWatcherClosed indicates that the drop-folder watcher stopped unexpectedly.
	ErrWatcherClosed = New("watcher closed")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// UploadError is implemented by every typed error in this package.
type UploadError interface {
	error
	Unwrap() error
	Severity() Severity
	IsRetryable() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message   string
	cause     error
	severity  Severity
	retryable bool
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// format renders "prefix [k=v, ...]: message: cause".
func (e *baseError) format(prefix string, parts []string) string {
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", prefix, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Typed Errors
// -----------------------------------------------------------------------------

// TaskError reports the outcome of a task that ended badly, e.g. a simulated
// transfer left in the error state after all retry rounds.
//
// Example:
//
//	err := errors.NewTaskError("upload failed", errors.ErrTransferFailed).
//	    WithTaskID(id).WithFile("a.png")
//	fmt.Println(err) // "task error [task=..., file=a.png]: upload failed: transfer failed"
type TaskError struct {
	baseError
	TaskID string
	File   string
}

// NewTaskError creates a new TaskError. Transfer failures are retryable.
func NewTaskError(message string, cause error) *TaskError {
	return &TaskError{
		baseError: baseError{
			message:   message,
			cause:     cause,
			severity:  SeverityError,
			retryable: errors.Is(cause, ErrTransferFailed),
		},
	}
}

// WithTaskID adds a task ID to the error context.
func (e *TaskError) WithTaskID(id string) *TaskError {
	e.TaskID = id
	return e
}

// WithFile adds a file name to the error context.
func (e *TaskError) WithFile(name string) *TaskError {
	e.File = name
	return e
}

// Error returns the formatted error message.
func (e *TaskError) Error() string {
	var parts []string
	if e.TaskID != "" {
		parts = append(parts, "task="+e.TaskID)
	}
	if e.File != "" {
		parts = append(parts, "file="+e.File)
	}
	return e.format("task error", parts)
}

// FileError represents a failure while inspecting or watching a local path.
//
// Example:
//
//	err := errors.NewFileError("stat", "/tmp/a.png", statErr)
type FileError struct {
	baseError
	Op   string
	Path string
}

// NewFileError creates a new FileError for operation op on path.
func NewFileError(op, path string, cause error) *FileError {
	return &FileError{
		baseError: baseError{
			message:  op + " failed",
			cause:    cause,
			severity: SeverityWarning,
		},
		Op:   op,
		Path: path,
	}
}

// WithSeverity sets the error severity.
func (e *FileError) WithSeverity(s Severity) *FileError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *FileError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, "path="+e.Path)
	}
	return e.format("file error", parts)
}

// ValidationError represents invalid input.
//
// Example:
//
//	err := errors.NewValidationError("path cannot be empty").WithField("path")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:  message,
			severity: SeverityWarning,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, "field="+e.Field)
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return e.format("validation error", parts)
}

// Is makes every ValidationError match ErrInvalidInput.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if err (or anything it wraps) reports itself as
// retryable. For joined errors the first typed error decides.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var uploadErr UploadError
	if As(err, &uploadErr) {
		return uploadErr.IsRetryable()
	}
	return false
}

// GetSeverity returns the severity of err, defaulting to SeverityError for
// errors that don't carry one.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	var uploadErr UploadError
	if As(err, &uploadErr) {
		return uploadErr.Severity()
	}
	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
