// Package upload decides whether an uploaded file may be analysed or forwarded.
package upload

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Default upload names
const (
	DefaultFilename = "upload.pdf"
	sniffLen        = 512
)

// RejectedError reports an upload that failed admission. Message is user-facing.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// Policy is the admission policy for uploads.
type Policy struct {
	MaxBytes int64
	Allowed  []string
}

// File is an admitted upload.
type File struct {
	Header   *multipart.FileHeader
	Filename string
	MIMEType string
}

// Open opens the admitted file for reading.
func (f *File) Open() (multipart.File, error) {
	return f.Header.Open()
}

// Admit checks size and sniffed content type of fh.
func (p Policy) Admit(fh *multipart.FileHeader) (*File, error) {
	if fh == nil {
		return nil, &RejectedError{Message: "No file provided"}
	}
	if p.MaxBytes > 0 && fh.Size > p.MaxBytes {
		return nil, p.TooLarge()
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	head, err := Head(f)
	if err != nil {
		return nil, err
	}
	mimeType, err := p.Check(fh.Size, head)
	if err != nil {
		return nil, err
	}

	name := fh.Filename
	if name == "" {
		name = DefaultFilename
	}
	return &File{Header: fh, Filename: name, MIMEType: mimeType}, nil
}

// Head reads up to the first 512 bytes of r for content sniffing.
func Head(r io.Reader) ([]byte, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return head[:n], nil
}

// Check applies the policy to a file of size bytes starting with head and
// returns its detected MIME type.
func (p Policy) Check(size int64, head []byte) (string, error) {
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return "", p.TooLarge()
	}
	mimeType := DetectMIME(head)
	if !p.allowed(mimeType) {
		return "", &RejectedError{Message: p.typeMessage()}
	}
	return mimeType, nil
}

// TooLarge returns the rejection for a file over MaxBytes.
func (p Policy) TooLarge() error {
	return &RejectedError{Message: fmt.Sprintf("File is too large. Max size is %sMB.", megabytes(p.MaxBytes))}
}

// DetectMIME determines a MIME type using stdlib detection first and
// falling back to the mimetype library when stdlib cannot tell.
func DetectMIME(head []byte) string {
	if len(head) == 0 {
		return "application/octet-stream"
	}
	mt := http.DetectContentType(head)
	if mt != "application/octet-stream" {
		return mediaType(mt)
	}
	return mediaType(mimetype.Detect(head).String())
}

func (p Policy) allowed(mimeType string) bool {
	if len(p.Allowed) == 0 {
		return true
	}
	for _, a := range p.Allowed {
		if strings.EqualFold(a, mimeType) {
			return true
		}
	}
	return false
}

func (p Policy) typeMessage() string {
	if len(p.Allowed) == 1 && p.Allowed[0] == "application/pdf" {
		return "Invalid file type. Please upload a PDF."
	}
	return "Invalid file type. Allowed types: " + strings.Join(p.Allowed, ", ")
}

func mediaType(s string) string {
	mt, _, err := mime.ParseMediaType(s)
	if err != nil {
		return s
	}
	return mt
}

func megabytes(n int64) string {
	return strconv.FormatFloat(float64(n)/(1<<20), 'f', -1, 64)
}
