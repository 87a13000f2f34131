package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mandalnilabja/sommelier/internal/app"
	"github.com/mandalnilabja/sommelier/internal/config"
	"github.com/mandalnilabja/sommelier/internal/metrics"
	"github.com/mandalnilabja/sommelier/internal/prompt"
	"github.com/mandalnilabja/sommelier/internal/provider/openai"
	"github.com/mandalnilabja/sommelier/internal/storage"
	"github.com/mandalnilabja/sommelier/internal/storage/retention"
	"github.com/mandalnilabja/sommelier/internal/tokenizer"
	"github.com/mandalnilabja/sommelier/internal/transport/http/handler"
	"github.com/mandalnilabja/sommelier/internal/transport/http/handler/proxy"
)

func main() {
	// A missing .env is normal in production
	_ = godotenv.Load()

	if err := config.EnsureConfigFile(); err != nil {
		slog.Warn("could not create default config file", "error", err)
	}
	cfg := config.Load()

	logger := setupLogger(cfg)
	slog.SetDefault(logger)
	printStartupBanner(cfg)

	if !cfg.HasAPIKey() {
		logger.Warn("OPENAI_API_KEY is not set; upstream calls will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	builder := prompt.NewBuilder(cfg.BasePrompt, prompt.ParseLocale(cfg.PinLocale))
	if cfg.PromptFile != "" {
		w, err := prompt.WatchFile(cfg.PromptFile, builder, logger)
		if err != nil {
			logger.Error("failed to load prompt file", "path", cfg.PromptFile, "error", err)
			os.Exit(1)
		}
		defer w.Close()
	} else if cfg.BasePrompt == config.DefaultBasePrompt {
		logger.Warn("SOMMELIER_PROMPT_RECOMIENDA is not set; using placeholder prompt")
	}

	store := openStorage(ctx, cfg, logger)

	tok := tokenizer.New()
	defer tok.Close()

	var collector *metrics.Collector
	if cfg.EnableMetrics {
		collector = metrics.NewCollector(nil)
	}

	recommend := proxy.New(
		openai.New(cfg.UpstreamURL, cfg.APIKey),
		builder,
		proxy.Options{
			Model:     cfg.Model,
			Storage:   store,
			Tokenizer: tok,
			Metrics:   collector,
			Logger:    logger,
		},
	)

	router := app.NewRouter(handler.NewRepo(recommend), &app.RouterOptions{
		Logger:  logger,
		Metrics: collector,
	})
	srv := app.NewServer(cfg, router, logger)

	err := srv.Run(ctx)

	// Flush usage writes before the database closes
	recommend.Wait()
	if store != nil {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}

	if err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStorage opens the usage log when configured, prunes old entries and
// schedules further pruning until ctx ends. Failures disable the log rather
// than the proxy.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) storage.Storage {
	if cfg.UsageDBPath == "" {
		return nil
	}

	store, err := storage.NewSQLiteStorage(cfg.UsageDBPath)
	if err != nil {
		logger.Error("usage log disabled", "path", cfg.UsageDBPath, "error", err)
		return nil
	}

	pruner := retention.NewPruner(store, cfg.RetentionDays, logger)
	if _, err := pruner.Prune(); err != nil {
		logger.Warn("startup pruning failed", "error", err)
	}
	if err := retention.NewScheduler(pruner, cfg.PruneSchedule).Start(ctx); err != nil {
		logger.Warn("retention scheduler disabled", "error", err)
	}

	return store
}
