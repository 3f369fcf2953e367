// Package llm wraps the OpenAI Responses API behind the domain's LLMClient
// interface, handling model resolution and the single fallback-model retry.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ecocart/backend/internal/domain"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// Config holds OpenAI client configuration
type Config struct {
	APIKey        string
	BaseURL       string // override for tests; empty means the public API
	DefaultModel  string
	FallbackModel string
	Timeout       time.Duration
}

// Client calls the OpenAI Responses API. Retries are handled here, not in
// the SDK: exactly one retry against the fallback model when the primary is
// rate limited and differs from the fallback.
type Client struct {
	api     openai.Client
	cfg     Config
	backoff time.Duration
	debug   bool
}

// NewClient creates a new OpenAI client
func NewClient(cfg Config) *Client {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = "gpt-4o-mini"
	}
	if cfg.FallbackModel == "" {
		cfg.FallbackModel = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	api := openai.NewClient(opts...)

	return &Client{
		api:     api,
		cfg:     cfg,
		backoff: 1500 * time.Millisecond,
	}
}

// SetDebug enables dumping of raw model responses
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Generate invokes the model and returns its plain-text output. The
// per-request model override takes precedence over the configured default.
func (c *Client) Generate(ctx context.Context, req domain.LLMRequest) (string, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.cfg.DefaultModel
	}

	resp, err := c.createResponse(ctx, model, req)
	if err != nil {
		if !isRateLimited(err) || model == c.cfg.FallbackModel {
			log.Printf("[OPENAI] model %s failed: %v", model, err)
			return "", fmt.Errorf("%w: %v", domain.ErrOpenAIAPI, err)
		}

		log.Printf("[OPENAI] model %s rate limited, retrying with %s after backoff", model, c.cfg.FallbackModel)
		select {
		case <-time.After(c.backoff):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", domain.ErrOpenAIAPI, ctx.Err())
		}

		resp, err = c.createResponse(ctx, c.cfg.FallbackModel, req)
		if err != nil {
			log.Printf("[OPENAI] fallback model %s failed: %v", c.cfg.FallbackModel, err)
			return "", fmt.Errorf("%w: %v", domain.ErrOpenAIAPI, err)
		}
	}

	text := outputText(resp)
	if c.debug {
		log.Printf("[OPENAI] raw response: %s", resp.RawJSON())
		log.Printf("[OPENAI] output text: %s", text)
	}
	return text, nil
}

// createResponse performs one Responses API call with the given model.
func (c *Client) createResponse(ctx context.Context, model string, req domain.LLMRequest) (*responses.Response, error) {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(model),
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(req.Prompt)},
	}
	if req.UseSearchTool {
		params.Tools = []responses.ToolUnionParam{{
			OfWebSearchPreview: &responses.WebSearchToolParam{
				Type: responses.WebSearchToolTypeWebSearchPreview,
			},
		}}
	}
	return c.api.Responses.New(ctx, params)
}

// outputText extracts the model's plain-text output, walking the response
// content for the first text segment when the aggregate field is empty.
func outputText(resp *responses.Response) string {
	if resp == nil {
		return ""
	}
	if text := resp.OutputText(); text != "" {
		return text
	}
	for _, item := range resp.Output {
		for _, part := range item.Content {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

// isRateLimited classifies an upstream failure as rate limiting. The
// upstream error surface is not a structured contract beyond the HTTP
// status, so the message substrings are a documented best-effort taxonomy.
func isRateLimited(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}
