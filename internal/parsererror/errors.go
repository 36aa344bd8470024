// Package parsererror defines the errors returned when an uploaded invoice
// file cannot be turned into a table.
package parsererror

import (
	"fmt"
	"strings"
)

// ParseError is a failure while decoding the file contents.
type ParseError struct {
	FileName string
	Format   string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to read %s file '%s': %v", e.Format, e.FileName, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError is returned for files whose type is not supported.
type InvalidFormatError struct {
	FileName       string
	ExpectedFormat string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("unsupported file type '%s'. Expected: %s", e.FileName, e.ExpectedFormat)
}

// MissingColumnError is returned when the header lacks required columns.
type MissingColumnError struct {
	FileName string
	Columns  []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("file '%s' is missing required column(s): %s", e.FileName, strings.Join(e.Columns, ", "))
}

// ValidationError is a structurally valid file that breaks a table rule,
// such as having no data rows or too many of them.
type ValidationError struct {
	FileName string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for '%s': %s", e.FileName, e.Reason)
}
