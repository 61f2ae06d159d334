package internal

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failure in terms of the import pipeline
type ErrorKind string

const (
	ErrorKindInput         ErrorKind = "input_error"         // Missing/unreadable/wrong-type source file
	ErrorKindDuplicate     ErrorKind = "duplicate"           // Fingerprint already cataloged - a skip, not a failure
	ErrorKindCopy          ErrorKind = "copy_error"          // Master could not be moved or copied into the store
	ErrorKindIO            ErrorKind = "io_error"            // File system, permissions, disk space
	ErrorKindInconsistency ErrorKind = "inconsistency_error" // Catalog, store and journal disagree
)

// ErrorSeverity indicates how critical the error is
type ErrorSeverity string

const (
	ErrorSeverityCritical ErrorSeverity = "critical" // System-level issues (disk full, permissions)
	ErrorSeverityError    ErrorSeverity = "error"    // File-level issues (corruption, unreadable)
	ErrorSeverityWarning  ErrorSeverity = "warning"  // Recoverable issues
)

// ImportError is a categorized error attached to one input item
type ImportError struct {
	Path       string
	Kind       ErrorKind
	Severity   ErrorSeverity
	Err        error
	Suggestion string // User-friendly suggestion to fix
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("[%s/%s] %s: %v", e.Severity, e.Kind, e.Path, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// IsDuplicate reports whether err marks an already-cataloged fingerprint.
func IsDuplicate(err error) bool {
	var ie *ImportError
	return errors.As(err, &ie) && ie.Kind == ErrorKindDuplicate
}

func inputError(path string, err error) *ImportError {
	return &ImportError{
		Path:       path,
		Kind:       ErrorKindInput,
		Severity:   ErrorSeverityError,
		Err:        err,
		Suggestion: "Check that the source exists and has a recognized image extension",
	}
}

func duplicateError(path, fingerprint string, id int64) *ImportError {
	return &ImportError{
		Path:       path,
		Kind:       ErrorKindDuplicate,
		Severity:   ErrorSeverityWarning,
		Err:        fmt.Errorf("already imported as %s (fingerprint %s)", FormatID(id), fingerprint),
		Suggestion: "Nothing to do - the archive already holds this exact content",
	}
}

func copyError(path string, err error) *ImportError {
	return &ImportError{
		Path:       path,
		Kind:       ErrorKindCopy,
		Severity:   severityFor(err),
		Err:        err,
		Suggestion: "Master write failed - check disk space and permissions on the library",
	}
}

func ioError(path string, err error) *ImportError {
	return &ImportError{
		Path:       path,
		Kind:       ErrorKindIO,
		Severity:   severityFor(err),
		Err:        err,
		Suggestion: "Check disk health and that the source media is still connected",
	}
}

func inconsistencyError(path string, err error) *ImportError {
	return &ImportError{
		Path:       path,
		Kind:       ErrorKindInconsistency,
		Severity:   ErrorSeverityError,
		Err:        err,
		Suggestion: "Run 'bromide check' against this file to see which layer is missing it",
	}
}

// severityFor promotes system-level failures to critical so the batch
// circuit breaker can abort before piling up identical errors.
func severityFor(err error) ErrorSeverity {
	if err == nil {
		return ErrorSeverityError
	}
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "no space left"),
		strings.Contains(errStr, "permission denied"),
		strings.Contains(errStr, "read-only file system"),
		strings.Contains(errStr, "too many open files"):
		return ErrorSeverityCritical
	}
	return ErrorSeverityError
}

// ErrorStats tracks error statistics during a batch
type ErrorStats struct {
	Total       int
	Critical    int
	Errors      int
	Warnings    int
	ByKind      map[ErrorKind]int
	LastErrors  []*ImportError // Last 5 errors for quick diagnosis
	Consecutive int            // Consecutive errors (for circuit breaker)
}

func NewErrorStats() *ErrorStats {
	return &ErrorStats{
		ByKind:     make(map[ErrorKind]int),
		LastErrors: make([]*ImportError, 0, 5),
	}
}

func (s *ErrorStats) Add(err *ImportError) {
	s.Total++
	s.ByKind[err.Kind]++
	s.Consecutive++

	switch err.Severity {
	case ErrorSeverityCritical:
		s.Critical++
	case ErrorSeverityError:
		s.Errors++
	case ErrorSeverityWarning:
		s.Warnings++
	}

	// Keep last 5 errors
	if len(s.LastErrors) >= 5 {
		s.LastErrors = s.LastErrors[1:]
	}
	s.LastErrors = append(s.LastErrors, err)
}

func (s *ErrorStats) ResetConsecutive() {
	s.Consecutive = 0
}

// ShouldAbort returns true if the batch should be aborted based on error patterns
func (s *ErrorStats) ShouldAbort() (bool, string) {
	// Critical errors: abort immediately
	if s.Critical > 0 {
		return true, "critical system error detected - aborting to prevent data loss"
	}

	// 10 consecutive errors: likely systemic issue
	if s.Consecutive >= 10 {
		return true, "10 consecutive errors detected - likely systemic issue (disk full, permissions, etc.)"
	}

	return false, ""
}

// GenerateReport creates a human-readable error report
func (s *ErrorStats) GenerateReport() string {
	var report strings.Builder

	report.WriteString(fmt.Sprintf("\nImport encountered %d errors:\n\n", s.Total))

	if s.Critical > 0 {
		report.WriteString(fmt.Sprintf("  critical: %d (system-level issues)\n", s.Critical))
	}
	if s.Errors > 0 {
		report.WriteString(fmt.Sprintf("  errors:   %d (file-level issues)\n", s.Errors))
	}
	if s.Warnings > 0 {
		report.WriteString(fmt.Sprintf("  warnings: %d (recoverable issues)\n", s.Warnings))
	}

	report.WriteString("\nError kinds:\n")
	for kind, count := range s.ByKind {
		report.WriteString(fmt.Sprintf("  - %s: %d\n", kind, count))
	}

	report.WriteString("\nRecent errors:\n")
	for i, err := range s.LastErrors {
		report.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, err.Path))
		report.WriteString(fmt.Sprintf("   Kind: %s | Severity: %s\n", err.Kind, err.Severity))
		report.WriteString(fmt.Sprintf("   Error: %v\n", err.Err))
		if err.Suggestion != "" {
			report.WriteString(fmt.Sprintf("   Suggestion: %s\n", err.Suggestion))
		}
	}

	return report.String()
}
