package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents transport failures (connection, DNS, timeout)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeHTTPStatus represents a response with a non-200 status
	ErrorTypeHTTPStatus ErrorType = "http_status"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeUnknownMarket represents a lookup of a market code missing from the registry
	ErrorTypeUnknownMarket ErrorType = "unknown_market"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeExport represents errors while writing output files
	ErrorTypeExport ErrorType = "export"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
)

var (
	// ErrTableNotFound is wrapped by parsing errors when the price table is absent
	ErrTableNotFound = stderrors.New("price table not found")
	// ErrMalformedTable is wrapped by parsing errors when the table lacks a header section
	ErrMalformedTable = stderrors.New("price table is malformed")
)

// CrawlerError represents a crawler-specific error
type CrawlerError struct {
	Type    ErrorType
	Target  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *CrawlerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Target, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Target, e.Message)
}

// Unwrap returns the underlying error
func (e *CrawlerError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *CrawlerError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeHTTPStatus:
		return true
	default:
		return false
	}
}

// New creates a new CrawlerError
func New(errType ErrorType, target, message string, err error) *CrawlerError {
	return &CrawlerError{
		Type:    errType,
		Target:  target,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(target, message string, err error) *CrawlerError {
	return New(ErrorTypeNetwork, target, message, err)
}

// NewHTTPStatus creates a new error for an unexpected status code
func NewHTTPStatus(target string, statusCode int) *CrawlerError {
	return New(ErrorTypeHTTPStatus, target, fmt.Sprintf("unexpected status code: %d", statusCode), nil)
}

// NewParsing creates a new parsing error
func NewParsing(target, message string, err error) *CrawlerError {
	return New(ErrorTypeParsing, target, message, err)
}

// NewTableNotFound creates a parsing error wrapping ErrTableNotFound
func NewTableNotFound(target string) *CrawlerError {
	return New(ErrorTypeParsing, target, "table #ltable missing from response", ErrTableNotFound)
}

// NewUnknownMarket creates a new unknown market code error
func NewUnknownMarket(code string) *CrawlerError {
	return New(ErrorTypeUnknownMarket, code, "market code not in registry", nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *CrawlerError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// NewExport creates a new export error
func NewExport(target, message string, err error) *CrawlerError {
	return New(ErrorTypeExport, target, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(target, message string, err error) *CrawlerError {
	return New(ErrorTypePublisher, target, message, err)
}

// IsType reports whether any CrawlerError in err's chain has the given type
func IsType(err error, errType ErrorType) bool {
	var ce *CrawlerError
	if stderrors.As(err, &ce) {
		return ce.Type == errType
	}
	return false
}

// IsRetryable reports whether err is a retryable CrawlerError
func IsRetryable(err error) bool {
	var ce *CrawlerError
	if stderrors.As(err, &ce) {
		return ce.IsRetryable()
	}
	return false
}

// IsPermanent reports whether err is a CrawlerError that must not be retried.
// Untyped errors are treated as transient.
func IsPermanent(err error) bool {
	var ce *CrawlerError
	if stderrors.As(err, &ce) {
		return !ce.IsRetryable()
	}
	return false
}
