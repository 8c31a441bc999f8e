package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError_Error(t *testing.T) {
	err := &NotFoundError{
		Resource: "cache key",
		ID:       "translation:fr:en:abc",
	}

	expected := "cache key not found: translation:fr:en:abc"
	if err.Error() != expected {
		t.Errorf("NotFoundError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Field:   "target",
		Message: "language is required",
	}

	expected := "validation error on field 'target': language is required"
	if err.Error() != expected {
		t.Errorf("ValidationError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestExternalAPIError_Error(t *testing.T) {
	err := &ExternalAPIError{
		StatusCode: 503,
		Message:    "service unavailable",
		API:        "mymemory",
	}

	expected := "external API error from mymemory: 503 - service unavailable"
	if err.Error() != expected {
		t.Errorf("ExternalAPIError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestUnsupportedError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *UnsupportedError
		want string
	}{
		{"without reason", &UnsupportedError{Capability: "speech recognition"}, "speech recognition is not supported"},
		{"with reason", &UnsupportedError{Capability: "speech synthesis", Reason: "no audio device"}, "speech synthesis is not supported: no audio device"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsNotFound_WrappedError(t *testing.T) {
	notFound := &NotFoundError{Resource: "cache key", ID: "k"}
	wrapped := fmt.Errorf("lookup failed: %w", notFound)

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should return true for wrapped NotFoundError")
	}
	if IsNotFound(errors.New("other")) {
		t.Error("IsNotFound should return false for plain errors")
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(&ValidationError{Field: "text", Message: "empty"}) {
		t.Error("IsValidation should return true for ValidationError")
	}
	if IsValidation(errors.New("other")) {
		t.Error("IsValidation should return false for plain errors")
	}
}

func TestIsExternalAPI(t *testing.T) {
	wrapped := WrapError(&ExternalAPIError{StatusCode: 429, API: "mymemory"}, "translate")
	if !IsExternalAPI(wrapped) {
		t.Error("IsExternalAPI should return true for wrapped ExternalAPIError")
	}
}

func TestIsTranslationRejected(t *testing.T) {
	err := fmt.Errorf("translate: %w", &TranslationRejectedError{Status: 403, Details: "quota"})
	if !IsTranslationRejected(err) {
		t.Error("IsTranslationRejected should return true for wrapped rejection")
	}
	if IsTranslationRejected(errors.New("timeout")) {
		t.Error("IsTranslationRejected should return false for plain errors")
	}
}

func TestIsUnsupported(t *testing.T) {
	if !IsUnsupported(&UnsupportedError{Capability: "x"}) {
		t.Error("IsUnsupported should return true for UnsupportedError")
	}
}

func TestIsCanceled(t *testing.T) {
	if !IsCanceled(fmt.Errorf("speak: %w", ErrUtteranceCanceled)) {
		t.Error("IsCanceled should see through wrapping")
	}
	if IsCanceled(errors.New("synthesis failed")) {
		t.Error("IsCanceled should return false for other errors")
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}

	base := errors.New("boom")
	wrapped := WrapError(base, "store")
	if wrapped.Error() != "store: boom" {
		t.Errorf("WrapError message = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("WrapError should keep the original error in the chain")
	}
}
