package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/fica-intake/internal/config"
	"github.com/jonathan/fica-intake/internal/upload"
)

// maxUpstreamBody caps how much of the upstream response is read.
const maxUpstreamBody = 1 << 20

// DefaultTimeout bounds one forward, including upload of all files.
const DefaultTimeout = 2 * time.Minute

// Result is a successful upstream response.
type Result struct {
	StatusCode int
	// Data is the decoded upstream JSON body, or an empty object when the body is not JSON.
	Data any
}

// Forwarder sends submissions to the upstream case system.
type Forwarder struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewForwarder creates a Forwarder. A nil httpClient uses a client with DefaultTimeout.
func NewForwarder(endpoint, token string, httpClient *http.Client) *Forwarder {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Forwarder{endpoint: endpoint, token: token, httpClient: httpClient}
}

// Configured reports whether an upstream endpoint is set.
func (f *Forwarder) Configured() bool {
	return f.endpoint != ""
}

// Forward streams pkg to the upstream endpoint as multipart form data.
// A non-2xx response is returned as *UpstreamError.
func (f *Forwarder) Forward(ctx context.Context, pkg *Package) (*Result, error) {
	if f.endpoint == "" {
		return nil, &config.NotConfiguredError{Setting: "MAIN_SYSTEM_ENDPOINT"}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := writeForm(mw, pkg)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
		// The transport closes the body once the upstream has answered.
		if errors.Is(err, io.ErrClosedPipe) {
			return nil
		}
		return err
	})

	req, err := http.NewRequestWithContext(gctx, http.MethodPost, f.endpoint, pr)
	if err != nil {
		pr.Close()
		_ = g.Wait()
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	var result *Result
	g.Go(func() error {
		resp, err := f.httpClient.Do(req)
		if err != nil {
			pr.CloseWithError(err)
			return fmt.Errorf("upstream request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
		if err != nil {
			return fmt.Errorf("failed to read upstream response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
		}
		result = &Result{StatusCode: resp.StatusCode, Data: decodeData(body)}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func writeForm(mw *multipart.Writer, pkg *Package) error {
	sub := pkg.Submission
	fields := [][2]string{
		{FieldEntityType, sub.EntityType},
		{FieldAccountType, sub.AccountType},
		{FieldClientName, sub.ClientName},
		{FieldCaseNumber, sub.CaseNumber},
		{FieldConsent, strconv.FormatBool(sub.Consent)},
	}
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return err
		}
	}

	for _, desc := range sub.Documents {
		raw := desc.Raw
		if raw == "" {
			b, err := json.Marshal(desc)
			if err != nil {
				return fmt.Errorf("failed to encode document %s: %w", desc.ID, err)
			}
			raw = string(b)
		}
		if err := mw.WriteField(FieldDocuments, raw); err != nil {
			return err
		}
	}

	for _, att := range pkg.Attachments {
		if err := writeFile(mw, att); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(mw *multipart.Writer, att Attachment) error {
	name := att.Filename
	if name == "" {
		name = upload.DefaultFilename
	}
	contentType := att.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(FileField(att.DocumentID)), escapeQuotes(name)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}

	r, err := att.Open()
	if err != nil {
		return fmt.Errorf("failed to open file for %s: %w", att.DocumentID, err)
	}
	defer r.Close()

	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to stream file for %s: %w", att.DocumentID, err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func decodeData(body []byte) any {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return map[string]any{}
	}
	return data
}
