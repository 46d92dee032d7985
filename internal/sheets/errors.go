package sheets

import (
	"errors"
	"fmt"
)

// Common workbook errors
var (
	// ErrEmptyWorkbook is returned when the shipment sheet has no rows at all.
	ErrEmptyWorkbook = errors.New("workbook sheet is empty")

	// ErrSheetNotFound is returned when the requested sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrInvalidWorkbook is returned when the data is not a readable xlsx file.
	ErrInvalidWorkbook = errors.New("invalid or corrupted workbook")
)

// WorkbookError wraps errors with the workbook operation that failed.
type WorkbookError struct {
	// Op is the operation that failed (e.g., "ReadShipments", "WriteReport").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *WorkbookError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("sheets: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("sheets: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *WorkbookError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *WorkbookError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewWorkbookError creates a new WorkbookError.
func NewWorkbookError(op string, err error, details string) *WorkbookError {
	return &WorkbookError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}
