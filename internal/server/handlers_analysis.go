package server

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/jonathan/fica-intake/internal/analysis"
	"github.com/jonathan/fica-intake/internal/config"
	"github.com/jonathan/fica-intake/internal/upload"
)

const (
	// multipartMemory is how much of a multipart body is held in memory before spilling to disk.
	multipartMemory = 8 << 20
	// formOverhead is the body allowance on top of file content.
	formOverhead = 1 << 20
	// maxSubmitFiles bounds the body size of a submission.
	maxSubmitFiles = 20
)

// handleAnalyzeDoc checks an uploaded document against its expected type.
func (s *Server) handleAnalyzeDoc(w http.ResponseWriter, r *http.Request) {
	if !s.analyzer.Configured() {
		s.errorResponse(w, r, &config.NotConfiguredError{Setting: "GEMINI_API_KEY"})
		return
	}

	form, err := s.parseMultipart(w, r, 1)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	defer func() { _ = form.RemoveAll() }()

	file, err := s.admitFile(form)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	body, err := file.Open()
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	defer body.Close()

	expected := firstValue(form.Value["expected_type"])
	check, err := s.analyzer.AnalyzeDocument(r.Context(), analysis.Upload{
		Body:     body,
		Filename: file.Filename,
		MIMEType: file.MIMEType,
	}, expected)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, check.Response())
}

// handleAnalyzeID checks that an upload is a legible identity document.
func (s *Server) handleAnalyzeID(w http.ResponseWriter, r *http.Request) {
	if !s.analyzer.Configured() {
		s.errorResponse(w, r, &config.NotConfiguredError{Setting: "GEMINI_API_KEY"})
		return
	}

	form, err := s.parseMultipart(w, r, 1)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	defer func() { _ = form.RemoveAll() }()

	file, err := s.admitFile(form)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	body, err := file.Open()
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	defer body.Close()

	check, err := s.analyzer.CheckID(r.Context(), analysis.Upload{
		Body:     body,
		Filename: file.Filename,
		MIMEType: file.MIMEType,
	})
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, check.Response())
}

// parseMultipart caps the body at files uploads plus form overhead and parses it.
func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request, files int64) (*multipart.Form, error) {
	if s.uploads.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.uploads.MaxBytes*files+formOverhead)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, s.uploads.TooLarge()
		}
		return nil, &ErrValidation{Field: "body", Message: "Invalid form data"}
	}
	return r.MultipartForm, nil
}

// admitFile returns the admitted "file" field of form.
func (s *Server) admitFile(form *multipart.Form) (*upload.File, error) {
	headers := form.File["file"]
	if len(headers) == 0 {
		return nil, &ErrValidation{Field: "file", Message: "No file provided"}
	}
	return s.uploads.Admit(headers[0])
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
