package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrArchiveOpen      = errors.New("cannot open archive")
	ErrArchiveWrite     = errors.New("cannot write archive")
	ErrToolMissing      = errors.New("converter tool missing")
	ErrConversionFailed = errors.New("conversion failed")
	ErrUnsupported      = errors.New("unsupported format")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindArchiveOpen      ErrorKind = "archive_open"
	KindArchiveWrite     ErrorKind = "archive_write"
	KindToolMissing      ErrorKind = "tool_missing"
	KindConversionFailed ErrorKind = "conversion_failed"
	KindUnsupported      ErrorKind = "unsupported_format"
	KindInvalidConfig    ErrorKind = "invalid_config"
	KindNotFound         ErrorKind = "not_found"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}
