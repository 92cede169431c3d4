// Package app wires configuration, storage, services and transport into a
// runnable application shared by the HTTP server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/heartmarshall/lexipath/internal/adapter/kv"
	"github.com/heartmarshall/lexipath/internal/adapter/postgres"
	"github.com/heartmarshall/lexipath/internal/adapter/provider/datamuse"
	"github.com/heartmarshall/lexipath/internal/adapter/provider/freedict"
	"github.com/heartmarshall/lexipath/internal/config"
	"github.com/heartmarshall/lexipath/internal/ingest"
	"github.com/heartmarshall/lexipath/internal/service/enrichment"
	"github.com/heartmarshall/lexipath/internal/service/progress"
	"github.com/heartmarshall/lexipath/internal/service/vocabulary"
	"github.com/heartmarshall/lexipath/internal/transport/middleware"
	"github.com/heartmarshall/lexipath/internal/transport/rest"
)

// storage is what every key-value backend provides.
type storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// App holds the wired components. Close releases storage.
type App struct {
	Config     *config.Config
	Log        *slog.Logger
	Vocabulary *vocabulary.Service

	storage storage
	limiter *middleware.RateLimiter
}

// New opens the configured storage backend and builds every service.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	codec, err := progress.CodecByName(cfg.Storage.Codec)
	if err != nil {
		store.Close()
		return nil, err
	}

	progressStore := progress.NewStore(logger, store, codec)
	parser := ingest.NewParser(logger, ingest.Options{
		FetchTimeout: cfg.Import.FetchTimeout,
		MaxBytes:     cfg.Import.MaxBytes,
		UserAgent:    cfg.Import.UserAgent,
	})
	enricher := enrichment.NewService(logger,
		freedict.NewProvider(logger, cfg.Enrichment.DictionaryURL, cfg.Enrichment.Timeout),
		datamuse.NewProvider(logger, cfg.Enrichment.SynonymURL, cfg.Enrichment.Timeout),
		enrichment.Limits{
			MaxSynonyms:        cfg.Enrichment.MaxSynonyms,
			MaxFetchedExamples: cfg.Enrichment.MaxFetchedExamples,
			MaxExamples:        cfg.Enrichment.MaxExamples,
		},
	)

	logger.Debug("storage opened",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("codec", codec.Name()),
	)

	return &App{
		Config:     cfg,
		Log:        logger,
		Vocabulary: vocabulary.NewService(logger, progressStore, parser, enricher, cfg.Enrichment),
		storage:    store,
	}, nil
}

func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return kv.NewMemory(), nil

	case config.DriverBadger:
		return kv.NewBadger(kv.BadgerOptions{
			Dir:    cfg.Storage.Path,
			Logger: logger.With("adapter", "badger"),
		})

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Storage.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return kv.NewSQLite(ctx, cfg.Storage.Path)

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return postgres.NewKVStore(pool), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Handler builds the HTTP handler with the global middleware chain.
func (a *App) Handler() http.Handler {
	if a.limiter == nil {
		a.limiter = middleware.NewRateLimiter(time.Minute)
	}

	router := rest.NewRouter(rest.Routes{
		Health:     rest.NewHealthHandler(rest.HealthDeps{
			Storage:    a.storage,
			Collection: a.Vocabulary,
			Driver:     a.Config.Storage.Driver,
			Version:    BuildVersion(),
		}),
		Vocabulary: rest.NewVocabularyHandler(a.Vocabulary, a.Log, a.Config.Import.MaxBytes),
		External:   a.limiter.Limit(a.Config.Server.ExternalRateLimit),
	})

	return middleware.Chain(
		middleware.Recovery(a.Log),
		middleware.RequestID(),
		middleware.Logger(a.Log),
		middleware.CORS(a.Config.CORS),
	)(router)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.Config.Server.Addr(),
		Handler:      a.Handler(),
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("http server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.Log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Close stops background work and releases storage.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if err := a.storage.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}

// Run is the server entry point: it loads configuration, initializes the
// logger, wires the application and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Storage.Driver),
	)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("close application", slog.String("error", err.Error()))
		}
	}()

	return a.Serve(ctx)
}
