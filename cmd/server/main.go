package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/gdpview/internal/config"
	"github.com/JonMunkholm/gdpview/internal/core"
	"github.com/JonMunkholm/gdpview/internal/logging"
	"github.com/JonMunkholm/gdpview/internal/store"
	"github.com/JonMunkholm/gdpview/internal/web"
)

// maxIssuesLogged caps the per-cell warnings printed at startup.
const maxIssuesLogged = 20

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"dataset_source", cfg.Dataset.Source,
		"abbreviations", cfg.Dataset.Abbreviations,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The dataset is read once; a failure here is fatal.
	ds, err := loadDataset(ctx, cfg)
	if err != nil {
		slog.Error("failed to load dataset", "error", err, "user_message", core.FormatUserError(err))
		os.Exit(1)
	}

	slog.Info("dataset loaded",
		"countries", ds.Len(),
		"first_year", ds.FirstYear(),
		"last_year", ds.LastYear(),
		"version", ds.Version(),
	)

	transformer := core.NewTransformer(ds, core.NewCoercer(cfg.Dataset.Markers()))

	// Bad cells only fail the selections that include them, so they are
	// reported here rather than refused.
	if issues := transformer.Check(); len(issues) > 0 {
		slog.Warn("dataset has values that cannot be read as numbers", "count", len(issues))
		for i, issue := range issues {
			if i == maxIssuesLogged {
				break
			}
			slog.Debug("unreadable value", "country", issue.Country, "year", issue.Year, "raw", issue.Raw)
		}
	}

	server := web.NewServer(transformer, cfg)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// loadDataset reads the table from the configured source.
func loadDataset(ctx context.Context, cfg *config.Config) (*core.Dataset, error) {
	opts := core.LoadOptions{
		CountryColumn: cfg.Dataset.CountryColumn,
		Sheet:         cfg.Dataset.Sheet,
		Delimiter:     cfg.Dataset.DelimiterRune(),
	}

	if strings.ToLower(cfg.Dataset.Source) != config.SourcePostgres {
		slog.Info("reading dataset file", "path", cfg.Dataset.Path)
		return core.Load(cfg.Dataset.Path, opts)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	pool, err := store.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	// The table is pivoted into memory, so the pool is not needed afterwards.
	defer pool.Close()

	slog.Info("reading dataset table", "table", cfg.Dataset.Table)
	return store.LoadDataset(ctx, pool, cfg.Dataset.Table, opts)
}
