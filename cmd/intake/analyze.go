package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/fica-intake/internal/analysis"
	"github.com/jonathan/fica-intake/internal/config"
	"github.com/jonathan/fica-intake/internal/llm"
	"github.com/jonathan/fica-intake/internal/observability"
	"github.com/jonathan/fica-intake/internal/upload"
)

var (
	analyzeFile     string
	analyzeExpected string
	analyzeJSON     bool
	analyzeAPIKey   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Check a document file against its expected type",
	Long:  "Upload a local document to the analysis model and report whether it matches the expected type and is legible.",
	RunE:  runAnalyze,
}

var checkIDCmd = &cobra.Command{
	Use:   "check-id",
	Short: "Check that a file is a legible identity document",
	RunE:  runCheckID,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to the document (required)")
	analyzeCmd.Flags().StringVarP(&analyzeExpected, "expected", "e", "", "Expected document id or type (required), e.g. proofOfAddress")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output the API response JSON")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	_ = analyzeCmd.MarkFlagRequired("file")
	_ = analyzeCmd.MarkFlagRequired("expected")
	rootCmd.AddCommand(analyzeCmd)

	checkIDCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to the document (required)")
	checkIDCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output the API response JSON")
	checkIDCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	_ = checkIDCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(checkIDCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	return withAnalysis(cmd, func(ctx context.Context, svc *analysis.Service, up analysis.Upload) error {
		check, err := svc.AnalyzeDocument(ctx, up, analyzeExpected)
		if err != nil {
			return err
		}
		resp := check.Response()
		if analyzeJSON {
			return writeJSON(cmd.OutOrStdout(), resp)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintDocumentAnalysis(analyzeExpected, &resp)
		return nil
	})
}

func runCheckID(cmd *cobra.Command, _ []string) error {
	return withAnalysis(cmd, func(ctx context.Context, svc *analysis.Service, up analysis.Upload) error {
		check, err := svc.CheckID(ctx, up)
		if err != nil {
			return err
		}
		resp := check.Response()
		if analyzeJSON {
			return writeJSON(cmd.OutOrStdout(), resp)
		}
		observability.NewPrinter(cmd.OutOrStdout()).PrintIDAnalysis(&resp)
		return nil
	})
}

// withAnalysis admits the --file upload, builds an analysis service and runs fn.
// Pending file deletions are awaited before returning.
func withAnalysis(cmd *cobra.Command, fn func(context.Context, *analysis.Service, analysis.Upload) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = cfg.GeminiAPIKey
	}
	if apiKey == "" {
		return &config.NotConfiguredError{Setting: "GEMINI_API_KEY"}
	}

	f, err := os.Open(analyzeFile)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	up, err := admitLocal(f, upload.Policy{MaxBytes: cfg.MaxUploadBytes, Allowed: cfg.AllowedUploadTypes})
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := contextOrBackground(cmd)
	client, err := llm.NewClient(ctx, llm.DefaultConfig().WithModelOverride(cfg.GeminiModel), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create analysis client: %w", err)
	}
	defer func() { _ = client.Close() }()

	svc := analysis.NewService(client, logger, nil)
	defer svc.Wait()

	logger.Debug("analyzing file",
		zap.String("file", up.Filename),
		zap.String("mime_type", up.MIMEType))
	return fn(ctx, svc, up)
}

// admitLocal applies policy to a local file and rewinds it for upload.
func admitLocal(f *os.File, policy upload.Policy) (analysis.Upload, error) {
	info, err := f.Stat()
	if err != nil {
		return analysis.Upload{}, fmt.Errorf("failed to stat file: %w", err)
	}
	head, err := upload.Head(f)
	if err != nil {
		return analysis.Upload{}, err
	}
	mimeType, err := policy.Check(info.Size(), head)
	if err != nil {
		return analysis.Upload{}, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return analysis.Upload{}, fmt.Errorf("failed to rewind file: %w", err)
	}
	return analysis.Upload{Body: f, Filename: filepath.Base(f.Name()), MIMEType: mimeType}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
