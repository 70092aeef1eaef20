package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrDatabaseMissing ErrorType = iota
	ErrStoreUnreadable
	ErrHeaderDecode
	ErrIndexAccess
	ErrReportWrite
	ErrSigning
	ErrInvalidConfig
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrDatabaseMissing:
		return "DatabaseMissing"
	case ErrStoreUnreadable:
		return "StoreUnreadable"
	case ErrHeaderDecode:
		return "HeaderDecode"
	case ErrIndexAccess:
		return "IndexAccess"
	case ErrReportWrite:
		return "ReportWrite"
	case ErrSigning:
		return "Signing"
	case ErrInvalidConfig:
		return "InvalidConfig"
	default:
		return "Unknown"
	}
}

// AuditError represents an error during a database audit
type AuditError struct {
	Type ErrorType
	Path string
	Err  error
}

// Error implements the error interface
func (e *AuditError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *AuditError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether the error aborts a run before any report is built
func (e *AuditError) IsFatal() bool {
	return e.Type == ErrDatabaseMissing || e.Type == ErrStoreUnreadable
}
