package models

import (
	"fmt"
	"time"
)

// Report is the structured result surface shared by every public operation.
// Operations never raise past their boundary for expected data-quality
// problems; they accumulate warnings and errors here instead.
type Report struct {
	Success       bool          `json:"success"`
	Errors        []string      `json:"errors,omitempty"`
	Warnings      []string      `json:"warnings,omitempty"`
	ExecutionTime time.Duration `json:"execution_time"`
}

// NewReport returns a report that starts out successful.
func NewReport() Report {
	return Report{Success: true}
}

// AddError records an error and marks the report failed.
func (r *Report) AddError(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Success = false
}

// AddWarning records a non-fatal warning.
func (r *Report) AddWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
