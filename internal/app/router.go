package app

import (
	"log/slog"
	"net/http"

	"github.com/mandalnilabja/sommelier/internal/metrics"
	"github.com/mandalnilabja/sommelier/internal/transport/http/handler"
	"github.com/mandalnilabja/sommelier/internal/transport/http/middleware"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	Logger  *slog.Logger
	Metrics *metrics.Collector
}

// NewRouter creates and configures the HTTP router with all application routes.
// Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mux := http.NewServeMux()

	// Infrastructure
	mux.HandleFunc("GET /api/health", repo.Infra.HealthCheck)
	mux.HandleFunc("GET /api/info", repo.Infra.Info)
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics.Handler())
	}

	// Recommendation endpoint. The handler does its own method gating so
	// that every other method gets the JSON 405 body.
	mux.HandleFunc("/api/recomienda", repo.Proxy.Recommend)
	mux.HandleFunc("/", repo.Proxy.Recommend)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Order: outer to inner. CORS sits outside recovery so that panics
	// still carry the CORS headers.
	return middleware.Chain(mux,
		middleware.CORS,
		middleware.RequestID,
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
	)
}
