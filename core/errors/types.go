// ABOUTME: Custom error types for the accessibility core
// ABOUTME: Provides structured errors for engine adapters, stores and API responses

package errors

import (
	"errors"
	"fmt"
)

// ErrUtteranceCanceled is reported by synthesis engines when an utterance was
// cancelled on request. Controllers treat it as a normal interruption.
var ErrUtteranceCanceled = errors.New("utterance canceled")

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ExternalAPIError represents an error from an external API
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// UnsupportedError means a capability is missing from the host environment
type UnsupportedError struct {
	Capability string
	Reason     string
}

// Error implements the error interface
func (e *UnsupportedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is not supported", e.Capability)
	}
	return fmt.Sprintf("%s is not supported: %s", e.Capability, e.Reason)
}

// TranslationRejectedError is returned when the translation service answers
// with a payload flagged as an error or warning instead of a translation
type TranslationRejectedError struct {
	Status  int
	Details string
}

// Error implements the error interface
func (e *TranslationRejectedError) Error() string {
	return fmt.Sprintf("translation rejected (%d): %s", e.Status, e.Details)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsUnsupported checks if an error is an UnsupportedError
func IsUnsupported(err error) bool {
	var unsupported *UnsupportedError
	return errors.As(err, &unsupported)
}

// IsTranslationRejected checks if an error is a TranslationRejectedError
func IsTranslationRejected(err error) bool {
	var rejected *TranslationRejectedError
	return errors.As(err, &rejected)
}

// IsCanceled reports whether err is an utterance cancellation
func IsCanceled(err error) bool {
	return errors.Is(err, ErrUtteranceCanceled)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
