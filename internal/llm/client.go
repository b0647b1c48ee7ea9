package llm

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// File is a document uploaded to the provider for the duration of one analysis.
type File struct {
	Name     string
	URI      string
	MIMEType string
}

// Client is an abstraction over the document analysis provider.
type Client interface {
	// UploadFile stores r with the provider so it can be referenced from a prompt.
	UploadFile(ctx context.Context, displayName string, r io.Reader, mimeType string) (*File, error)
	// GenerateJSON runs prompt against an uploaded file and returns the raw model text.
	GenerateJSON(ctx context.Context, prompt string, file *File, tier ModelTier) (string, error)
	// DeleteFile removes an uploaded file from the provider.
	DeleteFile(ctx context.Context, name string) error
	// GetModel returns the provider model name used for a tier.
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return NewGeminiClient(ctx, config, apiKey)
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// UploadFile uploads a document through the Gemini Files API.
func (c *GeminiClient) UploadFile(ctx context.Context, displayName string, r io.Reader, mimeType string) (*File, error) {
	f, err := c.client.UploadFile(ctx, "", r, &genai.UploadFileOptions{
		DisplayName: displayName,
		MIMEType:    mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	return &File{Name: f.Name, URI: f.URI, MIMEType: f.MIMEType}, nil
}

// GenerateJSON asks the model for a JSON answer about file.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, file *File, tier ModelTier) (string, error) {
	if file == nil {
		return "", fmt.Errorf("no file to analyze")
	}
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.FileData{MIMEType: file.MIMEType, URI: file.URI},
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// DeleteFile deletes an uploaded file by its provider name.
func (c *GeminiClient) DeleteFile(ctx context.Context, name string) error {
	if err := c.client.DeleteFile(ctx, name); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", name, err)
	}
	return nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
