package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/fica-intake/internal/types"
)

// Submission outcomes
const (
	OutcomeForwarded = "forwarded"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// SubmissionRecord is one forwarded submission in the audit trail.
type SubmissionRecord struct {
	ID              uuid.UUID `json:"id"`
	CaseNumber      string    `json:"case_number"`
	ClientName      string    `json:"client_name"`
	EntityType      string    `json:"entity_type"`
	AccountType     string    `json:"account_type"`
	Consent         bool      `json:"consent"`
	DocumentCount   int       `json:"document_count"`
	AttachmentCount int       `json:"attachment_count"`
	Progress        float64   `json:"progress"`
	UpstreamStatus  int       `json:"upstream_status"`
	Outcome         string    `json:"outcome"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewSubmissionRecord builds an audit record for sub.
func NewSubmissionRecord(id uuid.UUID, sub *types.Submission, attachments, upstreamStatus int, outcome string) *SubmissionRecord {
	return &SubmissionRecord{
		ID:              id,
		CaseNumber:      sub.CaseNumber,
		ClientName:      sub.ClientName,
		EntityType:      sub.EntityType,
		AccountType:     sub.AccountType,
		Consent:         sub.Consent,
		DocumentCount:   len(sub.Documents),
		AttachmentCount: attachments,
		Progress:        sub.Progress(),
		UpstreamStatus:  upstreamStatus,
		Outcome:         outcome,
	}
}
