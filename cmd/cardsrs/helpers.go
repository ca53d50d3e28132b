package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/at-ishikawa/cardsrs/internal/card"
	"github.com/at-ishikawa/cardsrs/internal/config"
	"github.com/at-ishikawa/cardsrs/internal/database"
	"github.com/at-ishikawa/cardsrs/internal/logging"
	"github.com/at-ishikawa/cardsrs/internal/review"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func setupLogger(cfg config.LogConfig) (*logrus.Logger, error) {
	logger, err := logging.New(cfg, os.Stderr, debugMode)
	if err != nil {
		return nil, fmt.Errorf("logging.New() > %w", err)
	}
	return logger, nil
}

func currentUser() (int64, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("--user must be a positive id, got %d", userID)
	}
	return userID, nil
}

// environment holds what a command needs to work on the cards.
type environment struct {
	cfg    *config.Config
	logger *logrus.Logger
	db     *sqlx.DB
	repo   *card.DBRepository
	svc    *review.Service
}

// setupEnvironment loads the configuration and opens the database.
// SQLite databases are migrated on open; MySQL ones are migrated with the migrate command.
func setupEnvironment(ctx context.Context) (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := setupLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	if cfg.Database.Driver == database.DriverSQLite {
		if _, err := database.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("database.Migrate() > %w", err)
		}
	}

	repo := card.NewDBRepository(db)
	svc, err := review.NewService(repo, logger, review.WithMaxAttempts(cfg.Review.MaxRetryAttempts))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("review.NewService() > %w", err)
	}
	return &environment{
		cfg:    cfg,
		logger: logger,
		db:     db,
		repo:   repo,
		svc:    svc,
	}, nil
}

func (e *environment) Close() error {
	return e.db.Close()
}
