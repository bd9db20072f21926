package app

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/bocspot/config"
	"github.com/guttosm/bocspot/internal/api"
	"github.com/guttosm/bocspot/internal/chart"
	"github.com/guttosm/bocspot/internal/fetcher"
	"github.com/guttosm/bocspot/internal/logger"
	"github.com/guttosm/bocspot/internal/service"
	"github.com/guttosm/bocspot/internal/storage"
)

// Components are the wired dependencies shared by every CLI mode.
type Components struct {
	LogFile *storage.LogFile
	Service service.QuoteService
	DB      *sql.DB // nil unless the Postgres mirror is enabled
}

// Build wires fetcher, log file, optional Postgres mirror and service from cfg.
//
// When the mirror is enabled the database must be reachable and its schema is
// ensured before Build returns. The cleanup function releases the connection
// pool and is never nil on success.
func Build(ctx context.Context, cfg config.Config) (*Components, func(), error) {
	logFile := storage.NewLogFile(cfg.Storage.DataFile)

	var (
		db     *sql.DB
		mirror storage.QuotesRepository
	)
	cleanup := func() {}

	if cfg.Postgres.Enabled {
		var err error
		db, err = postgresOpener(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		repo := storage.NewQuotesRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		mirror = repo
		cleanup = func() { _ = db.Close() }
		logger.L().Debug().Str("host", cfg.Postgres.Host).Str("db", cfg.Postgres.DBName).Msg("postgres mirror enabled")
	}

	svc := service.NewQuoteService(
		fetcher.New(cfg.Source),
		logFile,
		mirror,
		chart.Options{Title: cfg.Plot.Title, DPI: cfg.Plot.DPI},
	)
	return &Components{LogFile: logFile, Service: svc, DB: db}, cleanup, nil
}

// InitializeApp builds the components and the gin router for serve mode,
// including the health probes.
func InitializeApp(ctx context.Context, cfg config.Config) (*gin.Engine, func(), error) {
	comps, cleanup, err := Build(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	router := api.NewRouter(api.NewHandler(comps.Service))

	var ping func(context.Context) error
	if comps.DB != nil {
		ping = comps.DB.PingContext
	}
	api.NewHealthHandler(filepath.Dir(comps.LogFile.Path()), ping).Register(router)

	return router, cleanup, nil
}
