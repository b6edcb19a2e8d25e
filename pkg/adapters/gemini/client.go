// Package gemini adapts the Google Gemini API to ports.Generator.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/generation"
	"google.golang.org/genai"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// APIKeyEnv is consulted when Config.APIKey is empty.
const APIKeyEnv = "GEMINI_API_KEY"


// Config configures the client.
type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint (proxies, tests).
	BaseURL    string
	HTTPClient *http.Client
}

// Client is a ports.Generator backed by genai.
type Client struct {
	cli   *genai.Client
	model string
}

// New creates a Gemini-backed generator.
func New(ctx context.Context, cfg Config) (*Client, error) {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv(APIKeyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("gemini: %s is not set", APIKeyEnv)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &Client{cli: cli, model: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Invoke sends system messages as the system instruction and the rest as turns.
// A reply without text is not an error and comes back as "".
func (c *Client) Invoke(ctx context.Context, messages []domain.Message, temperature float64) (string, error) {
	var (
		system   []*genai.Part
		contents []*genai.Content
	)
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			system = append(system, &genai.Part{Text: m.Content})
		case domain.RoleAssistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{{Text: m.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: m.Content}}})
		}
	}
	if len(contents) == 0 {
		return "", &generation.PermanentError{Err: errors.New("gemini: no user content")}
	}

	temp := float32(temperature)
	cfg := &genai.GenerateContentConfig{Temperature: &temp}
	if len(system) > 0 {
		cfg.SystemInstruction = &genai.Content{Parts: system}
	}

	resp, err := c.cli.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", classify(err)
	}
	// No candidates or no text parts yield "". Callers decide what an empty reply means.
	return responseText(resp), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		if p != nil {
			sb.WriteString(p.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// classify marks client errors other than rate limiting as permanent.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests && apiErr.Code != http.StatusRequestTimeout {
			return &generation.PermanentError{Err: fmt.Errorf("gemini: %w", err)}
		}
	}
	return fmt.Errorf("gemini: %w", err)
}
