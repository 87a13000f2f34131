package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mandalnilabja/sommelier/internal/metrics"
	"github.com/mandalnilabja/sommelier/internal/prompt"
	"github.com/mandalnilabja/sommelier/internal/provider"
	"github.com/mandalnilabja/sommelier/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/sommelier/internal/transport/http/middleware"
	"github.com/mandalnilabja/sommelier/internal/types"
)

// Recommend pins language and budget, calls upstream once and relays the
// result. Local failures become an opaque 500; upstream failures keep the
// upstream status and body.
func (h *Handlers) Recommend(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		types.WriteError(w, http.StatusMethodNotAllowed, types.ErrMethodNotAllowed())
		return
	}

	ex := &exchange{
		requestID: middleware.GetRequestID(r.Context()),
		start:     time.Now(),
	}
	if ex.requestID == "" {
		ex.requestID = uuid.NewString()
	}

	req, err := decodeRequest(r.Body)
	if err != nil {
		h.fail(w, r, ex, err)
		return
	}
	ex.history = len(req.Messages)
	ex.lang = prompt.ResolveLanguage(req.Lang.String())
	if req.PriceRange.IsSet() {
		ex.priceRange = prompt.ResolveBudget(req.PriceRange.String())
	}

	messages, err := h.Builder.Assemble(req)
	if err != nil {
		h.fail(w, r, ex, err)
		return
	}
	ex.messages = messages

	result, err := h.Provider.Complete(r.Context(), &types.ChatCompletionRequest{
		Model:    h.Model,
		Messages: messages,
	})
	ex.result = result
	if err != nil {
		h.fail(w, r, ex, err)
		return
	}
	h.Metrics.RecordUpstream(result.Model, result.Duration)

	if !result.OK() {
		h.Logger.ErrorContext(r.Context(), "upstream error",
			"request_id", ex.requestID,
			"status", result.StatusCode,
			"error", result.ErrorMessage,
			"body", string(result.Body),
		)
		ex.status = result.StatusCode
		ex.outcome = metrics.OutcomeUpstream
		shared.WriteRaw(w, result.Body, result.StatusCode)
		h.finish(ex)
		return
	}

	ex.status = http.StatusOK
	ex.outcome = metrics.OutcomeSuccess
	shared.WriteRaw(w, result.Body, http.StatusOK)
	h.finish(ex)
}

// decodeRequest reads the caller's JSON object. An absent messages field
// decodes to an empty history.
func decodeRequest(body io.Reader) (*types.RecommendRequest, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	var req types.RecommendRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	return &req, nil
}

// fail logs the cause and writes the opaque internal error.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, ex *exchange, cause error) {
	attrs := []any{
		"request_id", ex.requestID,
		"error", cause,
	}
	if errors.Is(cause, provider.ErrUpstreamBody) && ex.result != nil {
		attrs = append(attrs, "upstream_status", ex.result.StatusCode)
	}
	h.Logger.ErrorContext(r.Context(), "recommendation failed", attrs...)

	ex.status = http.StatusInternalServerError
	ex.outcome = metrics.OutcomeInternal
	ex.cause = cause
	types.WriteError(w, http.StatusInternalServerError, types.ErrInternal())
	h.finish(ex)
}
