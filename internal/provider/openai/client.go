// Package openai implements the OpenAI chat-completion provider.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mandalnilabja/sommelier/internal/provider"
	"github.com/mandalnilabja/sommelier/internal/types"
)

// Provider implements provider.Provider for the OpenAI API.
type Provider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient replaces the HTTP client used for upstream calls.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.client = c
	}
}

// New creates a new OpenAI provider for the given endpoint and API key.
// The default client has no timeout: a slow upstream delays the caller.
func New(endpoint, apiKey string, opts ...Option) *Provider {
	p := &Provider{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "openai"
}

// BaseURL returns the chat-completion endpoint
func (p *Provider) BaseURL() string {
	return p.endpoint
}

// PrepareRequest sets the JSON content type and bearer credential
func (p *Provider) PrepareRequest(ctx context.Context, req *http.Request) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	return nil
}

// Complete issues a single chat-completion call. No retries are attempted.
func (p *Provider) Complete(ctx context.Context, creq *types.ChatCompletionRequest) (*provider.Result, error) {
	startTime := time.Now()
	result := &provider.Result{Model: creq.Model}

	payload, err := json.Marshal(creq)
	if err != nil {
		return result, fmt.Errorf("failed to encode upstream request: %w", err)
	}

	upstreamReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL(), bytes.NewReader(payload))
	if err != nil {
		return result, fmt.Errorf("failed to create upstream request: %w", err)
	}

	if err := p.PrepareRequest(ctx, upstreamReq); err != nil {
		return result, fmt.Errorf("failed to prepare upstream request: %w", err)
	}

	resp, err := p.client.Do(upstreamReq)
	if err != nil {
		return result, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, fmt.Errorf("failed to read upstream response: %w", err)
	}

	result.StatusCode = resp.StatusCode
	result.Duration = time.Since(startTime)
	result.Body = body

	if !json.Valid(body) {
		return result, fmt.Errorf("%w (status %d)", provider.ErrUpstreamBody, resp.StatusCode)
	}

	if result.OK() {
		extractUsage(body, result)
	} else {
		extractError(body, result)
	}

	return result, nil
}

// extractUsage reads usage and model from a completion without altering the body.
func extractUsage(body []byte, result *provider.Result) {
	var completion types.ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return
	}
	if completion.Usage != nil {
		result.PromptTokens = completion.Usage.PromptTokens
		result.CompletionTokens = completion.Usage.CompletionTokens
		result.TotalTokens = completion.Usage.TotalTokens
	}
	if completion.Model != "" {
		result.Model = completion.Model
	}
}

// extractError reads the upstream error message for logging.
func extractError(body []byte, result *provider.Result) {
	var apiErr types.UpstreamError
	if err := json.Unmarshal(body, &apiErr); err == nil {
		result.ErrorMessage = apiErr.Error.Message
	}
}
