package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"reel-digest/domain/summary"
)

// DefaultModel is the Gemini model used when none is configured
const DefaultModel = "gemini-2.0-flash"

// GenAIService defines the subset of the Gemini models API the client uses
// This allows mocking the Gemini API in tests
type GenAIService interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	CountTokens(ctx context.Context, model string, contents []*genai.Content, config *genai.CountTokensConfig) (*genai.CountTokensResponse, error)
}

// NewGoogleService creates the production Gemini service authenticated with apiKey
func NewGoogleService(ctx context.Context, apiKey string) (GenAIService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return client.Models, nil
}

// Client implements summary.Model using Gemini
type Client struct {
	service GenAIService
	model   string
	config  *genai.GenerateContentConfig
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithModel sets the Gemini model name
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithGenerateConfig sets generation parameters such as temperature
func WithGenerateConfig(cfg *genai.GenerateContentConfig) ClientOption {
	return func(c *Client) {
		c.config = cfg
	}
}

// NewClient creates a new Gemini client on top of service
func NewClient(service GenAIService, opts ...ClientOption) *Client {
	c := &Client{
		service: service,
		model:   DefaultModel,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// CountTokens implements summary.Model
func (c *Client) CountTokens(ctx context.Context, req *summary.Request) (int, error) {
	resp, err := c.service.CountTokens(ctx, c.model, BuildContents(req), nil)
	if err != nil {
		return 0, classify(err)
	}
	return int(resp.TotalTokens), nil
}

// Generate implements summary.Model
func (c *Client) Generate(ctx context.Context, req *summary.Request) (string, error) {
	resp, err := c.service.GenerateContent(ctx, c.model, BuildContents(req), c.config)
	if err != nil {
		return "", classify(err)
	}
	if resp == nil {
		return "", summary.ErrEmptyResponse
	}

	text := resp.Text()
	if text == "" {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: blocked: %s", summary.ErrRejected, resp.PromptFeedback.BlockReason)
		}
		return "", summary.ErrEmptyResponse
	}
	return text, nil
}

// BuildContents lays out one user turn: instruction text first, then the frames
// in capture order, then the audio clip when present
func BuildContents(req *summary.Request) []*genai.Content {
	parts := make([]*genai.Part, 0, req.MediaParts()+1)
	parts = append(parts, genai.NewPartFromText(req.Instruction()))
	for _, f := range req.Frames() {
		parts = append(parts, genai.NewPartFromBytes(f.Image, f.MimeType))
	}
	if audio := req.Audio(); audio != nil {
		parts = append(parts, genai.NewPartFromBytes(audio.Data, audio.MimeType))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

// classify marks client-side API errors as rejected so they are not retried
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%w: %v", summary.ErrRejected, err)
		}
	}
	return err
}

// Ensure Client implements summary.Model
var _ summary.Model = (*Client)(nil)
