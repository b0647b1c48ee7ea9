package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/fica-intake/internal/analysis"
	"github.com/jonathan/fica-intake/internal/config"
	"github.com/jonathan/fica-intake/internal/db"
	"github.com/jonathan/fica-intake/internal/llm"
	"github.com/jonathan/fica-intake/internal/metrics"
	"github.com/jonathan/fica-intake/internal/server/middleware"
	"github.com/jonathan/fica-intake/internal/server/ratelimit"
	"github.com/jonathan/fica-intake/internal/submission"
	"github.com/jonathan/fica-intake/internal/upload"
)

// AuditStore records forwarded submissions and reads them back per case.
type AuditStore interface {
	RecordSubmission(ctx context.Context, rec *db.SubmissionRecord) error
	ListSubmissionsByCase(ctx context.Context, caseNumber string) ([]db.SubmissionRecord, error)
}

// Deps are the collaborators a Server is built from. Nil fields disable the
// features that need them.
type Deps struct {
	LLM        llm.Client
	HTTPClient *http.Client
	Audit      AuditStore
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
	RateLimit  *ratelimit.Config
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	logger      *zap.Logger
	metrics     *metrics.Metrics
	analyzer    *analysis.Service
	forwarder   *submission.Forwarder
	audit       AuditStore
	tokens      *CaseTokenService
	tokensErr   error
	rateLimiter *ratelimit.Limiter
	uploads     upload.Policy
	closers     []func()
}

// New creates a server from an explicit configuration and its collaborators.
func New(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}
	rl := deps.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig()
	}

	s := &Server{
		cfg:         cfg,
		logger:      logger,
		metrics:     m,
		analyzer:    analysis.NewService(deps.LLM, logger, m),
		forwarder:   submission.NewForwarder(cfg.UpstreamEndpoint, cfg.UpstreamToken, deps.HTTPClient),
		audit:       deps.Audit,
		rateLimiter: ratelimit.NewLimiter(rl),
		uploads:     upload.Policy{MaxBytes: cfg.MaxUploadBytes, Allowed: cfg.AllowedUploadTypes},
	}
	tc, err := cfg.CaseTokens()
	switch {
	case err != nil:
		logger.Error("case token settings rejected", zap.Error(err))
		s.tokensErr = err
	case tc != nil:
		s.tokens = NewCaseTokenService(tc)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze-doc", s.handleAnalyzeDoc)
	mux.HandleFunc("POST /api/analyze-id", s.handleAnalyzeID)
	mux.Handle("POST /api/submit", s.withCaseToken(http.HandlerFunc(s.handleSubmit)))
	mux.HandleFunc("GET /api/checklist", s.handleChecklist)
	mux.HandleFunc("GET /api/document-types/{id}", s.handleDocumentType)
	mux.Handle("GET /api/case", s.withCaseToken(http.HandlerFunc(s.handleCase)))
	mux.Handle("GET /api/case/submissions", s.withCaseToken(http.HandlerFunc(s.handleCaseSubmissions)))
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", m.Handler())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withRecover(s.withCORS(mux)))),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 300 * time.Second, // Model calls and upstream forwards are slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Open builds a server from configuration, creating the Gemini client when an
// API key is set and connecting the audit database when a URL is set.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	deps := Deps{Logger: logger}
	var closers []func()

	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig().WithModelOverride(cfg.GeminiModel), cfg.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create analysis client: %w", err)
		}
		deps.LLM = client
		closers = append(closers, func() { _ = client.Close() })
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			for _, c := range closers {
				c()
			}
			return nil, err
		}
		deps.Audit = database
		closers = append(closers, database.Close)
	}

	s := New(cfg, deps)
	s.closers = closers
	return s, nil
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Tokens returns the case token service, or nil when case tokens are disabled.
func (s *Server) Tokens() *CaseTokenService {
	return s.tokens
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			zap.String("addr", s.httpServer.Addr),
			zap.Bool("analysis_configured", s.analyzer.Configured()),
			zap.Bool("upstream_configured", s.forwarder.Configured()),
			zap.Bool("case_tokens", s.tokens != nil),
			zap.Bool("audit", s.audit != nil))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			s.Close()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.logger.Info("server stopped")
	return nil
}

// Close waits for background cleanup and releases collaborators.
func (s *Server) Close() {
	s.analyzer.Wait()
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	for _, c := range s.closers {
		c()
	}
	s.closers = nil
}

// withCaseToken requires a valid case token when case tokens are enabled.
// Invalid token settings fail closed.
func (s *Server) withCaseToken(next http.Handler) http.Handler {
	if s.tokensErr != nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.errorResponse(w, r, s.tokensErr)
		})
	}
	if s.tokens == nil {
		return next
	}
	return middleware.AuthMiddleware(s.tokens.AsTokenValidator())(next)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes err with its mapped status and body
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	s.jsonResponse(w, status, errorBody(err))
}
