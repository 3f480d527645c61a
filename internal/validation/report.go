// =============================================================================
// Farm-to-Fork Document Generator - Validation Report
// =============================================================================
//
// This package provides the per-source validation report that every parser
// accumulates diagnostics into.
//
// ERROR HANDLING STRATEGY:
//   - Diagnostics are collected, not thrown immediately
//   - "error" severity blocks document generation for that source
//   - "warning" severity is surfaced to the user but does not block
//   - Each parse call owns exactly one Report for its duration; reports are
//     returned from the parser, never shared as global state
//
// After a parse, callers must gate on Err(): a nil result means the source
// is clean and downstream builders may run.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a single validation diagnostic.
type Error struct {
	Message string
}

// Report accumulates non-fatal diagnostics during a single parse pass.
// Source identifies the originating file so messages can be traced back to
// the spreadsheet the user uploaded.
type Report struct {
	Source   string
	Errors   []Error
	Warnings []Error
}

// NewReport creates an empty report for one source file.
func NewReport(source string) *Report {
	return &Report{Source: source}
}

// Errorf records a blocking diagnostic.
func (r *Report) Errorf(format string, args ...any) {
	r.Errors = append(r.Errors, Error{Message: fmt.Sprintf(format, args...)})
}

// Warnf records a non-blocking diagnostic.
func (r *Report) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, Error{Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any blocking diagnostic was recorded.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err returns nil when the report is clean, otherwise an error enumerating
// every recorded message. Callers must not run document builders or external
// collaborators for this source when Err is non-nil.
func (r *Report) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return errors.New(r.Summary())
}

// Summary formats all errors into one human-readable message.
//
// FORMAT:
//   2 errors detected in week 7.xlsx
//
//   * Header "UNIT" could not be found in the sheet.
//   * Buyer "ACME" not found in contacts sheet.
func (r *Report) Summary() string {
	noun := "errors"
	if len(r.Errors) == 1 {
		noun = "error"
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%d %s detected in %s", len(r.Errors), noun, r.Source))
	for _, e := range r.Errors {
		builder.WriteString("\n\n* ")
		builder.WriteString(e.Message)
	}
	return builder.String()
}
