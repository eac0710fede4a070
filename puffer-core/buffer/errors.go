package buffer

import (
	"fmt"
)

// Error represents a buffer-core error with a code and description
type Error struct {
	Code        string
	Description string
	Cause       error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Description, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Description)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewBufferError creates a new Error with the given code and description
func NewBufferError(code, description string, cause error) *Error {
	return &Error{
		Code:        code,
		Description: description,
		Cause:       cause,
	}
}

// Buffer Error Codes
const (
	// Resource and Allocation Errors (E1000-E1999)
	ErrCodeAllocFailed   = "E1001"
	ErrCodePoolClosed    = "E1002"
	ErrCodePoolExhausted = "E1003"

	// Configuration Errors (E2000-E2999)
	ErrCodeInvalidChunkSize = "E2001"
	ErrCodePreallocFailed   = "E2002"
)

// ErrorDescriptions maps error codes to human-readable descriptions.
var ErrorDescriptions = map[string]string{
	ErrCodeAllocFailed:   "Underlying allocator could not supply a buffer region",
	ErrCodePoolClosed:    "Buffer pool is closed",
	ErrCodePoolExhausted: "Buffer pool cannot supply more buffers",

	ErrCodeInvalidChunkSize: "Invalid buffer chunk size",
	ErrCodePreallocFailed:   "Failed to preallocate free buffers",
}

// GetErrorDescription returns the description for a given error code
func GetErrorDescription(code string) string {
	if desc, exists := ErrorDescriptions[code]; exists {
		return desc
	}
	return "Unknown error code"
}

// NewAllocError creates an allocation-related error
func NewAllocError(cause error) *Error {
	return NewBufferError(ErrCodeAllocFailed, GetErrorDescription(ErrCodeAllocFailed), cause)
}

// IsAllocError checks if the error is an allocation failure. Callers treat
// this as backpressure, not as a crash condition.
func IsAllocError(err error) bool {
	if bufErr, ok := err.(*Error); ok {
		return bufErr.Code == ErrCodeAllocFailed || bufErr.Code == ErrCodePoolExhausted
	}
	return false
}

// IsPoolClosedError checks if the error indicates use of a closed pool
func IsPoolClosedError(err error) bool {
	if bufErr, ok := err.(*Error); ok {
		return bufErr.Code == ErrCodePoolClosed
	}
	return false
}
