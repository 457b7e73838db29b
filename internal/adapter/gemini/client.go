package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/couchcryptid/sharda-atlas/internal/domain"
	"github.com/couchcryptid/sharda-atlas/internal/observability"
)

const (
	DefaultModel    = "gemini-2.5-flash"
	DefaultFallback = "{}"

	responseMIMEJSON = "application/json"
)

// Config configures one Gemini-backed generator.
type Config struct {
	APIKey string
	// Model defaults to DefaultModel.
	Model string
	// BaseURL optionally overrides the Gemini endpoint.
	BaseURL string
	// Timeout bounds each generation call. Zero leaves the caller's context
	// as the only deadline.
	Timeout time.Duration
	// Fallback is returned when the model responds without text.
	Fallback string
}

type modelsClient interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Client implements domain.Generator on the Gemini API. It never retries.
type Client struct {
	models   modelsClient
	model    string
	timeout  time.Duration
	fallback string
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewClient builds a Gemini API client.
func NewClient(cfg Config, logger *slog.Logger, metrics *observability.Metrics) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("new gemini client: missing api key")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("new gemini client: base url must include scheme and host")
		}
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("new gemini client: %w", err)
	}
	if client == nil || client.Models == nil {
		return nil, fmt.Errorf("new gemini client: models client is nil")
	}

	return newClient(client.Models, cfg, logger, metrics), nil
}

func newClient(models modelsClient, cfg Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	fallback := cfg.Fallback
	if fallback == "" {
		fallback = DefaultFallback
	}
	return &Client{
		models:   models,
		model:    model,
		timeout:  cfg.Timeout,
		fallback: fallback,
		logger:   logger,
		metrics:  metrics,
	}
}

// Model returns the model identifier sent with every request.
func (c *Client) Model() string {
	return c.model
}

// Generate sends one prompt and returns the concatenated text parts of the
// first candidate, or the fallback when there are none. Failures wrap
// domain.ErrGeneration.
func (c *Client) Generate(ctx context.Context, prompt string, params domain.GenerationParams) (string, error) {
	return c.GenerateWithAttachment(ctx, prompt, nil, params)
}

// GenerateWithAttachment is Generate with an optional inline file sent as a
// second part after the prompt text.
func (c *Client) GenerateWithAttachment(
	ctx context.Context,
	prompt string,
	attachment *domain.Attachment,
	params domain.GenerationParams,
) (string, error) {
	config, err := mapParams(params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	parts := []*genai.Part{{Text: prompt}}
	if attachment != nil {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: attachment.MIMEType,
			Data:     attachment.Data,
		}})
	}
	contents := []*genai.Content{{
		Role:  string(genai.RoleUser),
		Parts: parts,
	}}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.GenerationDuration.WithLabelValues("error").Observe(elapsed.Seconds())
		return "", fmt.Errorf("%w: gemini %s: %v", domain.ErrGeneration, c.model, err)
	}

	text := responseText(resp)
	if text == "" {
		c.metrics.GenerationDuration.WithLabelValues("empty").Observe(elapsed.Seconds())
		c.logger.Warn("gemini returned no text, using fallback", "model", c.model)
		if params.Fallback != "" {
			return params.Fallback, nil
		}
		return c.fallback, nil
	}

	c.metrics.GenerationDuration.WithLabelValues("success").Observe(elapsed.Seconds())
	c.logger.Debug("gemini generation complete",
		"model", c.model,
		"duration_ms", elapsed.Milliseconds(),
		"chars", len(text),
	)
	return text, nil
}

func mapParams(params domain.GenerationParams) (*genai.GenerateContentConfig, error) {
	temperature := float32(params.Temperature)
	config := &genai.GenerateContentConfig{Temperature: &temperature}
	if params.MaxOutputTokens > 0 {
		if params.MaxOutputTokens > math.MaxInt32 {
			return nil, fmt.Errorf("max_output_tokens exceeds int32 range")
		}
		config.MaxOutputTokens = int32(params.MaxOutputTokens)
	}
	if params.Structured {
		config.ResponseMIMEType = responseMIMEJSON
		config.ResponseSchema = regionRecordSchema()
	}
	return config, nil
}

// responseText joins the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

var _ domain.AttachmentGenerator = (*Client)(nil)
