package cmd

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/jengzang/trackcore-go/internal/correction"
	"github.com/jengzang/trackcore-go/internal/database"
	"github.com/jengzang/trackcore-go/internal/elevation"
	"github.com/jengzang/trackcore-go/internal/logger"
	"github.com/jengzang/trackcore-go/internal/service"
)

// app holds what every command needs once the configuration is loaded.
type app struct {
	db     *sql.DB
	lookup correction.ElevationLookup
	svc    *service.Services
}

func newApp() (*app, error) {
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	logger.Set(log)

	db, err := database.Open(database.Config{Path: cfg.DBPath}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var lookup correction.ElevationLookup
	if cfg.ElevationURL != "" {
		lookup = elevation.NewClient(cfg.ElevationURL, cfg.ElevationTimeout)
	}

	return &app{db: db, lookup: lookup, svc: service.New(db, lookup, log)}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		logger.L().Warn("failed to close database", zap.Error(err))
	}
	_ = logger.L().Sync()
}
