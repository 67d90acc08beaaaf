package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/atscheck/internal/ats"
	"github.com/vijay-prabhu/atscheck/internal/config"
	"github.com/vijay-prabhu/atscheck/internal/database"
	"github.com/vijay-prabhu/atscheck/internal/logger"
	"github.com/vijay-prabhu/atscheck/internal/tracker"
)

// app bundles what a command needs: config, logger, history and tracker
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *database.DB
	tracker *tracker.Tracker
}

// loadApp reads the config and wires the tracker
func loadApp(withHistory bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newApp(cfg, withHistory)
}

// loadConfig reads the config file, falling back to defaults when it is missing
func loadConfig() (*config.Config, error) {
	return config.LoadOrDefault(configPath)
}

// newApp wires logger, scorer and tracker. The history database is opened
// when withHistory is set; otherwise db stays nil.
func newApp(cfg *config.Config, withHistory bool) (*app, error) {
	log, err := logger.New(cfg.Logging.JSON || jsonLogs, cfg.Logging.Debug || debugLogs)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}

	if withHistory {
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, err
		}
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.db = db
		log.Debug("history opened", zap.String("path", cfg.Database.Path))
	}

	scorer := ats.New(ats.WithTables(cfg.Scoring.Tables()))
	a.tracker = tracker.New(scorer, a.db, cfg, log)
	return a, nil
}

// Close releases the database and flushes the logger
func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("close database", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
