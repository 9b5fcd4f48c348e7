package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ntgptit/repeatwise-sub002/internal/adapter/postgres"
	"github.com/ntgptit/repeatwise-sub002/internal/adapter/postgres/boxposition"
	"github.com/ntgptit/repeatwise-sub002/internal/adapter/postgres/counters"
	"github.com/ntgptit/repeatwise-sub002/internal/adapter/postgres/deck"
	"github.com/ntgptit/repeatwise-sub002/internal/adapter/postgres/ratingevent"
	"github.com/ntgptit/repeatwise-sub002/internal/config"
	"github.com/ntgptit/repeatwise-sub002/internal/domain"
	"github.com/ntgptit/repeatwise-sub002/internal/service/srs"
)

// App bundles the wired scheduling engine and its shared resources.
// The transport surface (HTTP, RPC) is owned by the embedding service;
// App only exposes the engine.
type App struct {
	Engine *srs.Service
	Log    *slog.Logger
	Cfg    *config.Config

	close func()
}

// New loads configuration, builds the logger, connects to PostgreSQL and
// wires the scheduling engine. Callers must Close the returned App.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting scheduling engine",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Int("box_count", cfg.SRS.BoxCount),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	engine, err := srs.NewService(
		logger,
		boxposition.New(pool),
		ratingevent.New(pool),
		counters.New(pool),
		deck.New(pool),
		postgres.NewTxManager(pool),
		srs.Config{
			BoxIntervals:        cfg.SRS.BoxIntervals,
			HardPenaltyFactor:   cfg.SRS.HardPenaltyFactor,
			ForgottenPolicy:     domain.ForgottenPolicy(cfg.SRS.ForgottenPolicy),
			MoveDownBoxes:       cfg.SRS.MoveDownBoxes,
			MaxNewCardsPerDay:   cfg.SRS.MaxNewCardsPerDay,
			MaxReviewsPerDay:    cfg.SRS.MaxReviewsPerDay,
			SessionLimit:        cfg.SRS.SessionLimit,
			LearnedBoxThreshold: cfg.SRS.LearnedBoxThreshold,
			DefaultTimezone:     cfg.SRS.DefaultTimezone,
		},
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("build srs service: %w", err)
	}

	return &App{
		Engine: engine,
		Log:    logger,
		Cfg:    cfg,
		close:  pool.Close,
	}, nil
}

// Close releases the database pool.
func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}
