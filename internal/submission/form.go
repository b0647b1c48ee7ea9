package submission

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/fica-intake/internal/types"
	"github.com/jonathan/fica-intake/internal/upload"
)

// Form field names shared by the intake form and the upstream case system.
const (
	FieldEntityType  = "entityType"
	FieldAccountType = "accountType"
	FieldClientName  = "clientName"
	FieldCaseNumber  = "caseNumber"
	FieldConsent     = "consent"
	FieldDocuments   = "documents[]"
)

// FileField returns the form field carrying the file for a document id.
func FileField(docID string) string {
	return "files[" + docID + "]"
}

// Attachment is one file to forward, keyed by the document it belongs to.
type Attachment struct {
	DocumentID string
	Filename   string
	MIMEType   string
	Open       func() (io.ReadCloser, error)
}

// FromUpload wraps an admitted upload as an attachment.
func FromUpload(docID string, f *upload.File) Attachment {
	return Attachment{
		DocumentID: docID,
		Filename:   f.Filename,
		MIMEType:   f.MIMEType,
		Open: func() (io.ReadCloser, error) {
			return f.Open()
		},
	}
}

// Package is a parsed submission ready to forward.
type Package struct {
	Submission  types.Submission
	Attachments []Attachment
	// Warnings lists metadata that failed validation. It is forwarded anyway.
	Warnings []string
}

// ParseForm reads a submission from a parsed multipart form. Every descriptor
// that decodes as JSON is kept with its raw text; only undecodable ones are
// skipped. Validation failures are reported in Warnings, not rejected. Every
// attached file is put through policy.
func ParseForm(form *multipart.Form, policy upload.Policy) (*Package, error) {
	sub := types.Submission{
		EntityType:  first(form.Value[FieldEntityType]),
		AccountType: first(form.Value[FieldAccountType]),
		ClientName:  first(form.Value[FieldClientName]),
		CaseNumber:  first(form.Value[FieldCaseNumber]),
		Consent:     first(form.Value[FieldConsent]) == "true",
		Documents:   []types.DocumentDescriptor{},
	}

	var warnings []string
	for i, raw := range form.Value[FieldDocuments] {
		if !json.Valid([]byte(raw)) {
			continue
		}
		// Fields of the wrong JSON type leave the descriptor partly decoded;
		// the raw text is still forwarded unchanged.
		var desc types.DocumentDescriptor
		if err := json.Unmarshal([]byte(raw), &desc); err != nil {
			warnings = append(warnings, fmt.Sprintf("documents[%d]: %v", i, err))
		}
		desc.Raw = raw
		sub.Documents = append(sub.Documents, desc)
	}

	warnings = append(warnings, validationWarnings(sub.Validate())...)
	pkg := &Package{Submission: sub, Warnings: warnings}
	seen := make(map[string]bool)
	for _, desc := range sub.Documents {
		if desc.ID == "" || seen[desc.ID] {
			continue
		}
		seen[desc.ID] = true
		headers := form.File[FileField(desc.ID)]
		if len(headers) == 0 {
			continue
		}
		f, err := policy.Admit(headers[0])
		if err != nil {
			return nil, err
		}
		pkg.Attachments = append(pkg.Attachments, FromUpload(desc.ID, f))
	}
	return pkg, nil
}

// validationWarnings flattens a validator error into one message per field.
func validationWarnings(err error) []string {
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return []string{err.Error()}
	}
	warnings := make([]string, 0, len(invalid))
	for _, fe := range invalid {
		warnings = append(warnings, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return warnings
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
