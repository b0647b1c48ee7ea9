// Package analysis assembles document-check instructions, runs them against the
// analysis model and turns the model's answer into a result the intake form can show.
package analysis

import (
	"errors"
	"fmt"
)

// Provider stages
const (
	StageUpload   = "upload"
	StageGenerate = "generate"
)

// ErrNoJSON is returned when the model answer contains no JSON object.
var ErrNoJSON = errors.New("no JSON object in model response")

// ProviderError represents a failed call to the analysis provider.
type ProviderError struct {
	Stage string
	Cause error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analysis provider %s failed: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("analysis provider %s failed", e.Stage)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
