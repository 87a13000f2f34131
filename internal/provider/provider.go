// Package provider defines the upstream chat-completion client contract.
package provider

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mandalnilabja/sommelier/internal/types"
)

// ErrUpstreamBody is returned when the upstream body is not valid JSON.
var ErrUpstreamBody = errors.New("upstream returned a non-JSON body")

// Provider defines the interface an upstream LLM API must implement
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// BaseURL returns the provider's chat-completion endpoint
	BaseURL() string

	// PrepareRequest adds provider-specific headers and modifications
	PrepareRequest(ctx context.Context, req *http.Request) error

	// Complete sends one chat-completion request and returns the raw upstream
	// response. A non-2xx upstream status is not an error; transport failures
	// and unreadable or non-JSON bodies are.
	Complete(ctx context.Context, req *types.ChatCompletionRequest) (*Result, error)
}

// Result contains the upstream response and metadata for logging
type Result struct {
	// Model reported by upstream, or the requested model
	Model string

	// StatusCode is the upstream HTTP status
	StatusCode int

	// Body is the upstream JSON body, relayed verbatim
	Body []byte

	// Token counts reported by upstream (zero when absent)
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int

	// Duration of the upstream round trip
	Duration time.Duration

	// ErrorMessage extracted from an upstream error body, if any
	ErrorMessage string
}

// OK reports whether the upstream status indicates success.
func (r *Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
