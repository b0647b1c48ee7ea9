package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/fica-intake/internal/analysis"
	"github.com/jonathan/fica-intake/internal/config"
	"github.com/jonathan/fica-intake/internal/submission"
	"github.com/jonathan/fica-intake/internal/types"
	"github.com/jonathan/fica-intake/internal/upload"
)

func TestHTTPStatus(t *testing.T) {
	invalid := (&types.Submission{CaseNumber: string(make([]byte, 65))}).Validate()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not configured", &config.NotConfiguredError{Setting: "GEMINI_API_KEY"}, http.StatusInternalServerError},
		{"validation", &ErrValidation{Field: "file", Message: "No file provided"}, http.StatusBadRequest},
		{"rejected upload", &upload.RejectedError{Message: "too big"}, http.StatusBadRequest},
		{"invalid submission", invalid, http.StatusBadRequest},
		{"forbidden", &ErrForbidden{Reason: "other case"}, http.StatusForbidden},
		{"not found", &ErrNotFound{Resource: "case"}, http.StatusNotFound},
		{"provider", &analysis.ProviderError{Stage: analysis.StageGenerate, Cause: errors.New("x")}, http.StatusBadGateway},
		{"upstream", &submission.UpstreamError{StatusCode: 500, Body: "x"}, http.StatusBadGateway},
		{"wrapped", fmt.Errorf("outer: %w", &ErrForbidden{Reason: "x"}), http.StatusForbidden},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorBody(t *testing.T) {
	assert.Equal(t,
		map[string]string{"message": "Failed to upload file for analysis", "details": "quota"},
		errorBody(&analysis.ProviderError{Stage: analysis.StageUpload, Cause: errors.New("quota")}))

	assert.Equal(t,
		map[string]string{"message": "Upstream rejected submission", "details": "closed"},
		errorBody(&submission.UpstreamError{StatusCode: 409, Body: "closed"}))

	assert.Equal(t,
		map[string]string{"message": "Unexpected server error", "error": "boom"},
		errorBody(errors.New("boom")))

	body := errorBody((&types.Submission{ClientName: string(make([]byte, 300))}).Validate())
	assert.Equal(t, "Invalid submission", body["message"])
	assert.Contains(t, body["details"], "ClientName")
}
