// Package server provides the HTTP API for the client intake service.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/fica-intake/internal/analysis"
	"github.com/jonathan/fica-intake/internal/config"
	"github.com/jonathan/fica-intake/internal/submission"
	"github.com/jonathan/fica-intake/internal/upload"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrForbidden indicates the caller may not act on the requested case
type ErrForbidden struct {
	Reason string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Reason)
}

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("not found: %s", e.Resource)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notConfigured *config.NotConfiguredError
		validation    *ErrValidation
		rejected      *upload.RejectedError
		invalid       validator.ValidationErrors
		forbidden     *ErrForbidden
		notFound      *ErrNotFound
		provider      *analysis.ProviderError
		upstream      *submission.UpstreamError
	)
	switch {
	case errors.As(err, &notConfigured):
		return http.StatusInternalServerError
	case errors.As(err, &validation), errors.As(err, &rejected), errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &provider), errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorBody returns the JSON body for err.
func errorBody(err error) map[string]string {
	var (
		notConfigured *config.NotConfiguredError
		validation    *ErrValidation
		rejected      *upload.RejectedError
		invalid       validator.ValidationErrors
		forbidden     *ErrForbidden
		notFound      *ErrNotFound
		provider      *analysis.ProviderError
		upstream      *submission.UpstreamError
	)
	switch {
	case errors.As(err, &notConfigured):
		return map[string]string{"message": fmt.Sprintf("Server not configured: %s missing", notConfigured.Setting)}
	case errors.As(err, &validation):
		return map[string]string{"message": validation.Message}
	case errors.As(err, &rejected):
		return map[string]string{"message": rejected.Message}
	case errors.As(err, &invalid):
		return map[string]string{"message": "Invalid submission", "details": invalid.Error()}
	case errors.As(err, &forbidden):
		return map[string]string{"message": forbidden.Reason}
	case errors.As(err, &notFound):
		return map[string]string{"message": fmt.Sprintf("Not found: %s", notFound.Resource)}
	case errors.As(err, &provider):
		message := "Analysis request failed"
		if provider.Stage == analysis.StageUpload {
			message = "Failed to upload file for analysis"
		}
		details := ""
		if provider.Cause != nil {
			details = provider.Cause.Error()
		}
		return map[string]string{"message": message, "details": details}
	case errors.As(err, &upstream):
		return map[string]string{"message": "Upstream rejected submission", "details": upstream.Body}
	default:
		return map[string]string{"message": "Unexpected server error", "error": err.Error()}
	}
}
