package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lumiverse/internal/config"
	"lumiverse/internal/settings"
	"lumiverse/internal/store"
	"lumiverse/internal/store/postgres"
	"lumiverse/internal/store/sqlite"
)

func openDB(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	var (
		db  store.Store
		err error
	)
	switch config.DriverFor(cfg.Database.DSN) {
	case "sqlite":
		db, err = sqlite.New(ctx, cfg.Database.DSN)
	case "postgres":
		db, err = postgres.New(ctx, cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database dsn %q", cfg.Database.DSN)
	}
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}
	return db, nil
}

// newLogger writes to stderr so command output on stdout stays parseable.
func newLogger(level string) (*zap.Logger, error) {
	var zcfg zap.Config
	if verbose {
		zcfg = zap.NewDevelopmentConfig()
		level = "debug"
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}

// project bundles what every settings-backed command needs.
type project struct {
	cfg     *config.ProjectConfig
	logger  *zap.Logger
	db      store.Store
	service *settings.Service
}

func openProject(ctx context.Context) (*project, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	service, err := settings.Open(ctx, db, settings.Options{
		Migrate: settings.MigrateOptions{
			LegacyPackName: cfg.Legacy.PackName,
			SourceMarker:   cfg.Legacy.SourceMarker,
		},
		Logger: logger,
	})
	if err != nil {
		db.Close(ctx)
		return nil, err
	}
	return &project{cfg: cfg, logger: logger, db: db, service: service}, nil
}

func (p *project) Close(ctx context.Context) {
	p.db.Close(ctx)
	_ = p.logger.Sync()
}
