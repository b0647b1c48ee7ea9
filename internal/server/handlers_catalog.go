package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/fica-intake/internal/config"
	"github.com/jonathan/fica-intake/internal/db"
	"github.com/jonathan/fica-intake/internal/doctype"
	"github.com/jonathan/fica-intake/internal/requirements"
	"github.com/jonathan/fica-intake/internal/server/middleware"
)

// ChecklistResponse lists the documents required for an entity and account type.
type ChecklistResponse struct {
	EntityType  string                  `json:"entityType"`
	AccountType string                  `json:"accountType"`
	Documents   []requirements.Resolved `json:"documents"`
}

// DocumentTypeResponse describes how a single document slot is reviewed.
type DocumentTypeResponse struct {
	ID           string      `json:"id"`
	DocumentType doctype.Tag `json:"documentType"`
	Criteria     []string    `json:"criteria"`
	Leniency     []string    `json:"leniency"`
}

// CaseResponse is the case a token was issued for with its required documents.
type CaseResponse struct {
	Case      middleware.Case         `json:"case"`
	Documents []requirements.Resolved `json:"documents"`
}

// SubmissionsResponse lists the audited submissions of a case, newest first.
type SubmissionsResponse struct {
	CaseNumber  string                `json:"caseNumber"`
	Submissions []db.SubmissionRecord `json:"submissions"`
}

// handleChecklist returns the required documents for an entity and account type.
func (s *Server) handleChecklist(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entityType := strings.TrimSpace(q.Get("entityType"))
	accountType := strings.TrimSpace(q.Get("accountType"))

	if entityType == "" {
		s.errorResponse(w, r, &ErrValidation{Field: "entityType", Message: "entityType is required"})
		return
	}
	if !requirements.KnownEntityType(entityType) {
		s.errorResponse(w, r, &ErrValidation{
			Field:   "entityType",
			Message: "Unknown entityType. Expected one of: " + strings.Join(requirements.EntityTypes(), ", "),
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, ChecklistResponse{
		EntityType:  entityType,
		AccountType: accountType,
		Documents:   requirements.Resolve(entityType, accountType),
	})
}

// handleDocumentType returns the normalized type, checklist and leniency rules for one slot id.
func (s *Server) handleDocumentType(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tag := doctype.Normalize(id)
	s.jsonResponse(w, http.StatusOK, DocumentTypeResponse{
		ID:           id,
		DocumentType: tag,
		Criteria:     doctype.Checklist(tag),
		Leniency:     doctype.Leniency(tag).Lines(),
	})
}

// handleCase returns the case bound to the caller's token.
func (s *Server) handleCase(w http.ResponseWriter, r *http.Request) {
	if s.tokens == nil {
		s.errorResponse(w, r, &config.NotConfiguredError{Setting: "CASE_TOKEN_SECRET"})
		return
	}
	c, err := middleware.GetCase(r)
	if err != nil {
		s.errorResponse(w, r, &ErrNotFound{Resource: "case"})
		return
	}
	s.jsonResponse(w, http.StatusOK, CaseResponse{
		Case:      c,
		Documents: requirements.Resolve(c.EntityType, c.AccountType),
	})
}

// handleCaseSubmissions returns the audit trail of the caller's case.
func (s *Server) handleCaseSubmissions(w http.ResponseWriter, r *http.Request) {
	if s.tokens == nil {
		s.errorResponse(w, r, &config.NotConfiguredError{Setting: "CASE_TOKEN_SECRET"})
		return
	}
	if s.audit == nil {
		s.errorResponse(w, r, &config.NotConfiguredError{Setting: "DATABASE_URL"})
		return
	}
	c, err := middleware.GetCase(r)
	if err != nil {
		s.errorResponse(w, r, &ErrNotFound{Resource: "case"})
		return
	}

	records, err := s.audit.ListSubmissionsByCase(r.Context(), c.Number)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if records == nil {
		records = []db.SubmissionRecord{}
	}
	s.jsonResponse(w, http.StatusOK, SubmissionsResponse{CaseNumber: c.Number, Submissions: records})
}
