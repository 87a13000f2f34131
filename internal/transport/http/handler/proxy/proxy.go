// Package proxy serves the wine recommendation endpoint: it pins the reply
// language and budget ahead of the caller's chat history and relays the
// upstream completion verbatim.
package proxy

import (
	"log/slog"
	"sync"

	"github.com/mandalnilabja/sommelier/internal/metrics"
	"github.com/mandalnilabja/sommelier/internal/prompt"
	"github.com/mandalnilabja/sommelier/internal/provider"
	"github.com/mandalnilabja/sommelier/internal/storage"
	"github.com/mandalnilabja/sommelier/internal/tokenizer"
)

// Handlers holds the dependencies for proxy HTTP handlers.
// Storage, Tokenizer and Metrics are optional.
type Handlers struct {
	Provider  provider.Provider
	Builder   *prompt.Builder
	Model     string
	Storage   storage.Storage
	Tokenizer tokenizer.Tokenizer
	Metrics   *metrics.Collector
	Logger    *slog.Logger

	// pending tracks asynchronous usage writes.
	pending sync.WaitGroup
}

// Options configures proxy handlers.
type Options struct {
	Model     string
	Storage   storage.Storage
	Tokenizer tokenizer.Tokenizer
	Metrics   *metrics.Collector
	Logger    *slog.Logger
}

// New creates a new instance of proxy handlers.
func New(prov provider.Provider, builder *prompt.Builder, opts Options) *Handlers {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Provider:  prov,
		Builder:   builder,
		Model:     opts.Model,
		Storage:   opts.Storage,
		Tokenizer: opts.Tokenizer,
		Metrics:   opts.Metrics,
		Logger:    logger,
	}
}

// Wait blocks until every pending usage write has finished.
func (h *Handlers) Wait() {
	h.pending.Wait()
}
