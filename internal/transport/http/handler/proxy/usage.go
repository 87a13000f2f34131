package proxy

import (
	"encoding/json"
	"time"

	"github.com/mandalnilabja/sommelier/internal/provider"
	"github.com/mandalnilabja/sommelier/internal/storage"
	"github.com/mandalnilabja/sommelier/internal/tokenizer"
)

// exchange collects what is known about one request for metrics and logging.
type exchange struct {
	requestID  string
	lang       string
	priceRange string
	history    int
	messages   []json.RawMessage
	result     *provider.Result
	status     int
	outcome    string
	cause      error
	start      time.Time
}

// finish records metrics and hands the usage entry to a background writer so
// the caller never waits on the tokenizer or the database.
func (h *Handlers) finish(ex *exchange) {
	lang := ex.lang
	if lang == "" {
		lang = "unknown"
	}
	h.Metrics.RecordRequest(lang, ex.outcome, ex.status)

	if h.Storage == nil && h.Metrics == nil {
		return
	}

	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		h.recordUsage(ex, lang)
	}()
}

// recordUsage writes the request log and daily aggregate. Upstream usage wins;
// the local estimate fills in a missing prompt count.
func (h *Handlers) recordUsage(ex *exchange, lang string) {
	model := h.Model
	var prompt, completion, total int
	var errMsg string

	if ex.result != nil {
		if ex.result.Model != "" {
			model = ex.result.Model
		}
		prompt = ex.result.PromptTokens
		completion = ex.result.CompletionTokens
		total = ex.result.TotalTokens
		errMsg = ex.result.ErrorMessage
	}
	if ex.cause != nil {
		errMsg = ex.cause.Error()
	}

	if prompt == 0 && h.Tokenizer != nil && len(ex.messages) > 0 {
		if n, err := tokenizer.CountPrompt(h.Tokenizer, ex.messages, h.Model); err == nil {
			prompt = n
		} else {
			h.Logger.Debug("token estimate failed", "request_id", ex.requestID, "error", err)
		}
	}
	if total == 0 {
		total = prompt + completion
	}

	h.Metrics.RecordTokens(lang, prompt, completion)

	if h.Storage == nil {
		return
	}

	now := time.Now().UTC()
	log := &storage.RequestLog{
		RequestID:        ex.requestID,
		Model:            model,
		Provider:         h.Provider.Name(),
		Lang:             lang,
		PriceRange:       ex.priceRange,
		MessageCount:     ex.history,
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      total,
		StatusCode:       ex.status,
		ErrorMessage:     errMsg,
		DurationMs:       time.Since(ex.start).Milliseconds(),
		CreatedAt:        now,
	}
	if err := h.Storage.LogRequest(log); err != nil {
		h.Logger.Warn("failed to store request log", "request_id", ex.requestID, "error", err)
	}

	errorCount := 0
	if ex.status >= 400 {
		errorCount = 1
	}
	usage := &storage.DailyUsage{
		Date:             now.Format("2006-01-02"),
		Model:            model,
		Lang:             lang,
		RequestCount:     1,
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      total,
		ErrorCount:       errorCount,
	}
	if err := h.Storage.UpdateDailyUsage(usage); err != nil {
		h.Logger.Warn("failed to update daily usage", "request_id", ex.requestID, "error", err)
	}
}
