package handlers

import (
	"fmt"
	"testing"

	"digests-a11y/core/errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHumaError(t *testing.T) {
	tests := []struct {
		name           string
		input          error
		expectedStatus int
		expectedDetail string
	}{
		{
			name:           "NotFoundError returns 404",
			input:          &errors.NotFoundError{Resource: "feed item", ID: "7"},
			expectedStatus: 404,
			expectedDetail: "feed item not found: 7",
		},
		{
			name:           "ValidationError returns 400",
			input:          &errors.ValidationError{Field: "url", Message: "must be absolute"},
			expectedStatus: 400,
			expectedDetail: "must be absolute",
		},
		{
			name:           "UnsupportedError returns 501",
			input:          &errors.UnsupportedError{Capability: "speech synthesis"},
			expectedStatus: 501,
			expectedDetail: "speech synthesis is not supported",
		},
		{
			name:           "ExternalAPIError with 500 returns 503",
			input:          &errors.ExternalAPIError{StatusCode: 500, Message: "server error"},
			expectedStatus: 503,
			expectedDetail: "External service error",
		},
		{
			name:           "ExternalAPIError with 429 returns 429",
			input:          &errors.ExternalAPIError{StatusCode: 429, Message: "rate limited"},
			expectedStatus: 429,
			expectedDetail: "Rate limited by external service",
		},
		{
			name:           "ExternalAPIError with 404 returns 400",
			input:          &errors.ExternalAPIError{StatusCode: 404, Message: "not found"},
			expectedStatus: 400,
			expectedDetail: "External service request error",
		},
		{
			name:           "ExternalAPIError with unexpected status returns 500",
			input:          &errors.ExternalAPIError{StatusCode: 200, Message: "ok but error"},
			expectedStatus: 500,
			expectedDetail: "Unexpected external service response",
		},
		{
			name:           "wrapped ExternalAPIError is unwrapped",
			input:          errors.WrapError(&errors.ExternalAPIError{StatusCode: 502}, "fetch page"),
			expectedStatus: 503,
			expectedDetail: "External service error",
		},
		{
			name:           "wrapped ValidationError returns 400",
			input:          fmt.Errorf("context: %w", &errors.ValidationError{Field: "html", Message: "required"}),
			expectedStatus: 400,
			expectedDetail: "required",
		},
		{
			name:           "unknown error returns 500",
			input:          fmt.Errorf("some unknown error"),
			expectedStatus: 500,
			expectedDetail: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			humaErr, ok := toHumaError(tt.input).(*huma.ErrorModel)
			require.True(t, ok, "Expected huma.ErrorModel")
			assert.Equal(t, tt.expectedStatus, humaErr.Status)
			assert.Contains(t, humaErr.Detail, tt.expectedDetail)
		})
	}
}

func TestToHumaError_Nil(t *testing.T) {
	assert.Nil(t, toHumaError(nil))
}
