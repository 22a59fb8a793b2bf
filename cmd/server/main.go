package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meur/gamecatalog/internal/api"
	"github.com/meur/gamecatalog/internal/catalog"
	"github.com/meur/gamecatalog/internal/config"
	"github.com/meur/gamecatalog/internal/logging"
	"github.com/meur/gamecatalog/internal/ratelimit"
	"github.com/meur/gamecatalog/internal/storage"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "TOML config file (default ./config.toml if present)")
	port := flag.String("port", "", "Server port")
	dbPath := flag.String("db", "", "SQLite database path")
	catalogFile := flag.String("catalog", "", "JSON catalog file, used instead of the database")
	staticDir := flag.String("static", "", "Front-end build directory to serve at /")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load(*configPath, config.Overrides{
		Port:        *port,
		DBPath:      *dbPath,
		CatalogFile: *catalogFile,
		StaticDir:   *staticDir,
		LogLevel:    *logLevel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded",
		zap.Int("games", cat.Len()),
		zap.String("db", cfg.Storage.DBPath),
		zap.String("catalog_file", cfg.Storage.CatalogFile),
	)

	var limiter *ratelimit.Limiter
	if cfg.Search.RateLimit > 0 {
		limiter = ratelimit.New(cfg.Search.RateLimit, cfg.Search.Burst)
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.New(cat, api.Options{
			Logger:         logger,
			Limiter:        limiter,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			StaticDir:      cfg.Server.StaticDir,
		}),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("catalog server starting", zap.String("addr", "http://localhost"+srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if limiter != nil {
		g.Go(func() error {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if n := limiter.Prune(10 * time.Minute); n > 0 {
						logger.Debug("pruned idle rate limiters", zap.Int("removed", n))
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// loadCatalog builds the in-memory catalog from the configured source
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Storage.CatalogFile != "" {
		cat, err := catalog.LoadFile(cfg.Storage.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("load catalog file: %w", err)
		}
		return cat, nil
	}

	store, err := storage.New(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	// records never change after startup, so the store is only needed once
	defer store.Close()

	return catalog.Load(store)
}
