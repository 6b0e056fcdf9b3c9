package bitbucket

import (
	"context"
	"errors"
	"fmt"
)

// NotFoundError reports an HTTP 404 for a resource lookup.
type NotFoundError struct {
	URL string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// RequestError reports a non-success HTTP status other than 404. Body holds
// a truncated excerpt of the response for diagnostics.
type RequestError struct {
	StatusCode int
	Status     string
	URL        string
	Body       string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP request error. Status: %d: %s (url: %s)", e.StatusCode, e.Status, e.URL)
	}

	return fmt.Sprintf("HTTP request error. Status: %d: %s (url: %s)\n%s", e.StatusCode, e.Status, e.URL, e.Body)
}

// CommunicationError reports a transport-level failure (DNS, connection
// refused, timeout, stream I/O). It wraps the underlying cause.
type CommunicationError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *CommunicationError) Error() string {
	return fmt.Sprintf("communication error for url %s: %v", e.URL, e.Err)
}

// Unwrap exposes the underlying transport error.
func (e *CommunicationError) Unwrap() error {
	return e.Err
}

// DomainError reports an application-level invariant violation, raised
// before or after the HTTP exchange rather than by it.
type DomainError struct {
	msg string
}

// NewDomainError creates a DomainError with the given message.
func NewDomainError(format string, args ...interface{}) *DomainError {
	return &DomainError{msg: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.msg
}

// Static domain errors for err113 compliance.
var (
	ErrWebhookUUIDRequired  = NewDomainError("webhook UUID is required")
	ErrRepositoryRequired   = NewDomainError("client is not associated with a repository")
	ErrUnsupportedProtocol  = NewDomainError("unsupported repository protocol")
	ErrConfigRequired       = errors.New("config is required")
	ErrOwnerRequired        = errors.New("owner is required")
	ErrSecretWithoutUser    = errors.New("app password requires a username")
	ErrCacheDisabled        = errors.New("cache disabled")
	ErrCacheEntryNotFound   = errors.New("cache entry not found")
	ErrCacheEntryExpired    = errors.New("cache entry expired")
	ErrNATSConfigRequired   = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType = errors.New("unsupported cache type")
)

// IsNotFound checks if the error is a 404 lookup failure.
func IsNotFound(err error) bool {
	notFound := &NotFoundError{}

	return errors.As(err, &notFound)
}

// IsRequestFailed checks if the error is a non-404 HTTP status failure.
func IsRequestFailed(err error) bool {
	reqErr := &RequestError{}

	return errors.As(err, &reqErr)
}

// IsCommunicationError checks if the error is a transport-level failure.
func IsCommunicationError(err error) bool {
	commErr := &CommunicationError{}

	return errors.As(err, &commErr)
}

// IsInterrupted checks if the error is a propagated cancellation.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsDomain checks if the error is an application invariant violation.
func IsDomain(err error) bool {
	domErr := &DomainError{}

	return errors.As(err, &domErr)
}
