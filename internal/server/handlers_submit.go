package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/fica-intake/internal/config"
	"github.com/jonathan/fica-intake/internal/db"
	"github.com/jonathan/fica-intake/internal/server/middleware"
	"github.com/jonathan/fica-intake/internal/submission"
)

// auditTimeout bounds recording one submission after the forward has finished.
const auditTimeout = 5 * time.Second

// handleSubmit forwards a completed intake form to the upstream case system.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.forwarder.Configured() {
		s.errorResponse(w, r, &config.NotConfiguredError{Setting: "MAIN_SYSTEM_ENDPOINT"})
		return
	}

	form, err := s.parseMultipart(w, r, maxSubmitFiles)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	defer func() { _ = form.RemoveAll() }()

	pkg, err := submission.ParseForm(form, s.uploads)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if c, err := middleware.GetCase(r); err == nil && pkg.Submission.CaseNumber != c.Number {
		s.errorResponse(w, r, &ErrForbidden{Reason: "Case number does not match the case link"})
		return
	}

	id := uuid.New()
	if len(pkg.Warnings) > 0 {
		s.logger.Warn("submission metadata failed validation",
			zap.String("id", id.String()),
			zap.Strings("warnings", pkg.Warnings))
	}
	result, err := s.forwarder.Forward(r.Context(), pkg)
	s.recordSubmission(r.Context(), id, pkg, result, err)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.logger.Info("submission forwarded",
		zap.String("id", id.String()),
		zap.String("case_number", pkg.Submission.CaseNumber),
		zap.Int("documents", len(pkg.Submission.Documents)),
		zap.Int("attachments", len(pkg.Attachments)),
		zap.Int("upstream_status", result.StatusCode))

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"ok":   true,
		"id":   id.String(),
		"data": result.Data,
	})
}

// recordSubmission counts the forward and writes it to the audit store.
// Audit failures are logged only.
func (s *Server) recordSubmission(ctx context.Context, id uuid.UUID, pkg *submission.Package, result *submission.Result, forwardErr error) {
	outcome, status := submissionOutcome(result, forwardErr)
	s.metrics.IncrementSubmission(outcome)

	if s.audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	rec := db.NewSubmissionRecord(id, &pkg.Submission, len(pkg.Attachments), status, outcome)
	if err := s.audit.RecordSubmission(ctx, rec); err != nil {
		s.logger.Warn("failed to record submission",
			zap.String("id", id.String()),
			zap.Error(err))
	}
}

func submissionOutcome(result *submission.Result, err error) (string, int) {
	if err == nil {
		return db.OutcomeForwarded, result.StatusCode
	}
	var upstream *submission.UpstreamError
	if errors.As(err, &upstream) {
		return db.OutcomeRejected, upstream.StatusCode
	}
	return db.OutcomeFailed, 0
}
