package submission

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/fica-intake/internal/config"
	"github.com/jonathan/fica-intake/internal/types"
)

type received struct {
	auth      string
	fields    map[string][]string
	files     map[string]string
	filenames map[string]string
	types     map[string]string
}

func upstream(t *testing.T, status int, body string) (*httptest.Server, *received) {
	t.Helper()
	got := &received{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.auth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		got.fields = r.MultipartForm.Value
		got.files = map[string]string{}
		got.filenames = map[string]string{}
		got.types = map[string]string{}
		for field, headers := range r.MultipartForm.File {
			f, err := headers[0].Open()
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			data, _ := io.ReadAll(f)
			f.Close()
			got.files[field] = string(data)
			got.filenames[field] = headers[0].Filename
			got.types[field] = headers[0].Header.Get("Content-Type")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func stringAttachment(docID, name, content string) Attachment {
	return Attachment{
		DocumentID: docID,
		Filename:   name,
		MIMEType:   "application/pdf",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func samplePackage() *Package {
	return &Package{
		Submission: types.Submission{
			EntityType:  "Individual",
			AccountType: "Transporter",
			ClientName:  "Thandi Nkosi",
			CaseNumber:  "CASE-42",
			Consent:     true,
			Documents: []types.DocumentDescriptor{
				{ID: "idCopy", Title: "ID Document", Status: types.StatusUploaded, Raw: `{"id":"idCopy","title":"ID Document","status":"Uploaded"}`},
				{ID: "proofOfAddress", Title: "Proof of Address", Status: types.StatusMissing},
			},
		},
		Attachments: []Attachment{stringAttachment("idCopy", "id.pdf", "%PDF-id")},
	}
}

func TestForward_Success(t *testing.T) {
	srv, got := upstream(t, http.StatusCreated, `{"reference":"R-1"}`)
	f := NewForwarder(srv.URL, "secret-token", nil)
	assert.True(t, f.Configured())

	result, err := f.Forward(context.Background(), samplePackage())
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, result.StatusCode)
	assert.Equal(t, map[string]any{"reference": "R-1"}, result.Data)
	assert.Equal(t, "Bearer secret-token", got.auth)

	assert.Equal(t, []string{"Individual"}, got.fields["entityType"])
	assert.Equal(t, []string{"Transporter"}, got.fields["accountType"])
	assert.Equal(t, []string{"Thandi Nkosi"}, got.fields["clientName"])
	assert.Equal(t, []string{"CASE-42"}, got.fields["caseNumber"])
	assert.Equal(t, []string{"true"}, got.fields["consent"])
	require.Len(t, got.fields["documents[]"], 2)
	assert.Equal(t, `{"id":"idCopy","title":"ID Document","status":"Uploaded"}`, got.fields["documents[]"][0])
	assert.JSONEq(t, `{"id":"proofOfAddress","title":"Proof of Address","status":"Missing"}`, got.fields["documents[]"][1])

	assert.Equal(t, "%PDF-id", got.files["files[idCopy]"])
	assert.Equal(t, "id.pdf", got.filenames["files[idCopy]"])
	assert.Equal(t, "application/pdf", got.types["files[idCopy]"])
}

func TestForward_NoTokenNoAuthHeader(t *testing.T) {
	srv, got := upstream(t, http.StatusOK, `{}`)
	_, err := NewForwarder(srv.URL, "", nil).Forward(context.Background(), samplePackage())
	require.NoError(t, err)
	assert.Empty(t, got.auth)
}

func TestForward_NonJSONBodyBecomesEmptyObject(t *testing.T) {
	srv, _ := upstream(t, http.StatusOK, "accepted")
	result, err := NewForwarder(srv.URL, "", nil).Forward(context.Background(), samplePackage())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, result.Data)
}

func TestForward_DefaultFilename(t *testing.T) {
	srv, got := upstream(t, http.StatusOK, `{}`)
	pkg := samplePackage()
	pkg.Attachments = []Attachment{stringAttachment("idCopy", "", "data")}

	_, err := NewForwarder(srv.URL, "", nil).Forward(context.Background(), pkg)
	require.NoError(t, err)
	assert.Equal(t, "upload.pdf", got.filenames["files[idCopy]"])
}

func TestForward_UpstreamRejects(t *testing.T) {
	srv, _ := upstream(t, http.StatusUnprocessableEntity, "case number unknown")

	_, err := NewForwarder(srv.URL, "", nil).Forward(context.Background(), samplePackage())

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusUnprocessableEntity, ue.StatusCode)
	assert.Equal(t, "case number unknown", ue.Body)
}

func TestForward_UpstreamRejectsWithoutReadingBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))
	}))
	defer srv.Close()

	pkg := samplePackage()
	big := strings.Repeat("x", 4<<20)
	pkg.Attachments = []Attachment{stringAttachment("idCopy", "big.pdf", big)}

	_, err := NewForwarder(srv.URL, "", nil).Forward(context.Background(), pkg)
	require.Error(t, err)
	var ue *UpstreamError
	if errors.As(err, &ue) {
		assert.Equal(t, http.StatusServiceUnavailable, ue.StatusCode)
	}
}

func TestForward_NotConfigured(t *testing.T) {
	f := NewForwarder("", "", nil)
	assert.False(t, f.Configured())

	_, err := f.Forward(context.Background(), samplePackage())
	var nc *config.NotConfiguredError
	require.ErrorAs(t, err, &nc)
	assert.Equal(t, "MAIN_SYSTEM_ENDPOINT", nc.Setting)
}

func TestForward_AttachmentOpenFails(t *testing.T) {
	srv, _ := upstream(t, http.StatusOK, `{}`)
	pkg := samplePackage()
	pkg.Attachments = []Attachment{{
		DocumentID: "idCopy",
		Open:       func() (io.ReadCloser, error) { return nil, errors.New("disk gone") },
	}}

	_, err := NewForwarder(srv.URL, "", nil).Forward(context.Background(), pkg)
	require.Error(t, err)
}

func TestForward_UnreachableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewForwarder(url, "", nil).Forward(context.Background(), samplePackage())
	require.Error(t, err)
	var ue *UpstreamError
	assert.False(t, errors.As(err, &ue))
}

func buildForm(t *testing.T, fields map[string][]string, files map[string][]byte) *multipart.Form {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	for field, content := range files {
		part, err := w.CreateFormFile(field, field+".pdf")
		require.NoError(t, err)
		_, _ = part.Write(content)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(10<<20))
	return req.MultipartForm
}
