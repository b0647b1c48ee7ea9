// Package submission rebuilds a completed intake form and forwards it to the
// upstream case system.
package submission

import "fmt"

// UpstreamError reports a non-success response from the upstream case system.
// Body is the upstream response text, kept as diagnostic detail.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream rejected submission: status %d", e.StatusCode)
}
