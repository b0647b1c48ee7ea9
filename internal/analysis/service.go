package analysis

import (
	"context"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/fica-intake/internal/config"
	"github.com/jonathan/fica-intake/internal/doctype"
	"github.com/jonathan/fica-intake/internal/llm"
	"github.com/jonathan/fica-intake/internal/metrics"
	"github.com/jonathan/fica-intake/internal/types"
)

// Default upload names
const (
	DocumentFilename = "document.pdf"
	IDFilename       = "id-document.pdf"
)

// DefaultCleanupTimeout bounds the background deletion of an uploaded file.
const DefaultCleanupTimeout = 30 * time.Second

// Upload is a file handed to the service for analysis.
type Upload struct {
	Body     io.Reader
	Filename string
	MIMEType string
}

// Service runs uploads through the analysis model: upload, generate, then a
// background delete of the uploaded file.
type Service struct {
	client         llm.Client
	logger         *zap.Logger
	metrics        *metrics.Metrics
	cleanupTimeout time.Duration
	wg             sync.WaitGroup
}

// NewService creates a Service. A nil client yields a service whose calls
// fail with a not-configured error.
func NewService(client llm.Client, logger *zap.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:         client,
		logger:         logger,
		metrics:        m,
		cleanupTimeout: DefaultCleanupTimeout,
	}
}

// Configured reports whether the service has a provider client.
func (s *Service) Configured() bool {
	return s.client != nil
}

// AnalyzeDocument checks an upload against the expected document type.
// Unusable model output yields the fallback result, not an error.
func (s *Service) AnalyzeDocument(ctx context.Context, up Upload, expectedType string) (types.DocumentCheck, error) {
	tag, instruction := DocumentInstruction(expectedType)
	text, elapsed, err := s.run(ctx, up, DocumentFilename, instruction, llm.TierStandard, metrics.KindDocument)
	if err != nil {
		return types.DocumentCheck{}, err
	}

	check, ok := DocumentCheckOrFallback(text)
	if !ok {
		s.logger.Warn("unusable document analysis response",
			zap.String("expected_type", expectedType),
			zap.String("tag", tag.String()))
	}
	s.metrics.ObserveAnalysis(metrics.KindDocument, outcome(ok), elapsed)
	return check, nil
}

// CheckID decides whether an upload is a legible identity document.
func (s *Service) CheckID(ctx context.Context, up Upload) (types.IDCheck, error) {
	text, elapsed, err := s.run(ctx, up, IDFilename, IDInstruction(), llm.TierLite, metrics.KindID)
	if err != nil {
		return types.IDCheck{}, err
	}

	check, ok := IDCheckOrFallback(text)
	if !ok {
		s.logger.Warn("unusable ID check response", zap.String("tag", doctype.ID.String()))
	}
	s.metrics.ObserveAnalysis(metrics.KindID, outcome(ok), elapsed)
	return check, nil
}

// Wait blocks until pending file deletions finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) run(ctx context.Context, up Upload, defaultName, instruction string, tier llm.ModelTier, kind string) (string, time.Duration, error) {
	if s.client == nil {
		return "", 0, &config.NotConfiguredError{Setting: "GEMINI_API_KEY"}
	}

	start := time.Now()
	name := up.Filename
	if name == "" {
		name = defaultName
	}
	mimeType := up.MIMEType
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	file, err := s.client.UploadFile(ctx, name, up.Body, mimeType)
	if err != nil {
		s.metrics.ObserveAnalysis(kind, metrics.OutcomeError, time.Since(start))
		return "", 0, &ProviderError{Stage: StageUpload, Cause: err}
	}
	defer s.cleanup(ctx, file.Name)

	text, err := s.client.GenerateJSON(ctx, instruction, file, tier)
	if err != nil {
		s.metrics.ObserveAnalysis(kind, metrics.OutcomeError, time.Since(start))
		return "", 0, &ProviderError{Stage: StageGenerate, Cause: err}
	}

	elapsed := time.Since(start)
	s.logger.Debug("analysis completed",
		zap.String("kind", kind),
		zap.String("model", s.client.GetModel(tier)),
		zap.Duration("duration", elapsed))
	return text, elapsed, nil
}

func outcome(parsed bool) string {
	if parsed {
		return metrics.OutcomeParsed
	}
	return metrics.OutcomeFallback
}

// cleanup deletes an uploaded file in the background. Failures are logged and counted.
func (s *Service) cleanup(ctx context.Context, name string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cleanupTimeout)
		defer cancel()
		if err := s.client.DeleteFile(ctx, name); err != nil {
			s.logger.Warn("failed to delete analysis file", zap.String("file", name), zap.Error(err))
			s.metrics.IncrementCleanupFailure()
		}
	}()
}
