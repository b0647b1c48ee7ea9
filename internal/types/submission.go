package types

import (
	"github.com/go-playground/validator/v10"
)

// DocumentStatus is the state of one document slot on the intake form.
type DocumentStatus string

// Document slot states
const (
	StatusMissing           DocumentStatus = "Missing"
	StatusUploaded          DocumentStatus = "Uploaded"
	StatusApproved          DocumentStatus = "Approved"
	StatusNeedsResubmission DocumentStatus = "Needs Resubmission"
)

// Done reports whether the slot counts towards completion.
func (s DocumentStatus) Done() bool {
	return s == StatusUploaded || s == StatusApproved
}

// DocumentDescriptor identifies one submitted document slot.
// Raw keeps the descriptor exactly as the client sent it so it can be
// forwarded upstream unchanged.
type DocumentDescriptor struct {
	ID     string         `json:"id" validate:"required,max=128"`
	Title  string         `json:"title" validate:"max=256"`
	Status DocumentStatus `json:"status" validate:"omitempty,oneof=Missing Uploaded Approved 'Needs Resubmission'"`
	Raw    string         `json:"-"`
}

// Submission is the metadata of a completed intake form.
type Submission struct {
	EntityType  string               `json:"entityType" validate:"max=64"`
	AccountType string               `json:"accountType" validate:"max=64"`
	ClientName  string               `json:"clientName" validate:"max=256"`
	CaseNumber  string               `json:"caseNumber" validate:"max=64"`
	Consent     bool                 `json:"consent"`
	Documents   []DocumentDescriptor `json:"documents" validate:"dive"`
}

// Progress returns the percentage of slots that are uploaded or approved.
func (s *Submission) Progress() float64 {
	if len(s.Documents) == 0 {
		return 0
	}
	done := 0
	for _, d := range s.Documents {
		if d.Status.Done() {
			done++
		}
	}
	return float64(done) / float64(len(s.Documents)) * 100
}

// Validate validates the Submission using the validator.
func (s *Submission) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}
