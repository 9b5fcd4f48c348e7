// Package ratingevent implements the single-slot undo log using PostgreSQL.
package ratingevent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/ntgptit/repeatwise-sub002/internal/adapter/postgres"
	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

const getSQL = `
SELECT user_id, card_id, rating, prev_box, prev_interval_days, prev_due_date,
       prev_review_count, prev_lapse_count, prev_last_reviewed_at,
       consumed_new, counter_date, applied_at
FROM rating_events
WHERE user_id = $1`

const putSQL = `
INSERT INTO rating_events
  (user_id, card_id, rating, prev_box, prev_interval_days, prev_due_date,
   prev_review_count, prev_lapse_count, prev_last_reviewed_at,
   consumed_new, counter_date, applied_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (user_id) DO UPDATE SET
  card_id               = EXCLUDED.card_id,
  rating                = EXCLUDED.rating,
  prev_box              = EXCLUDED.prev_box,
  prev_interval_days    = EXCLUDED.prev_interval_days,
  prev_due_date         = EXCLUDED.prev_due_date,
  prev_review_count     = EXCLUDED.prev_review_count,
  prev_lapse_count      = EXCLUDED.prev_lapse_count,
  prev_last_reviewed_at = EXCLUDED.prev_last_reviewed_at,
  consumed_new          = EXCLUDED.consumed_new,
  counter_date          = EXCLUDED.counter_date,
  applied_at            = EXCLUDED.applied_at`

const deleteSQL = `DELETE FROM rating_events WHERE user_id = $1`

// Repo persists the per-user undo slot.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new rating-event repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Get returns the user's live rating event, or domain.ErrNotFound when there
// is nothing to undo.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID) (*domain.RatingEvent, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		e      domain.RatingEvent
		rating string
	)
	err := querier.QueryRow(ctx, getSQL, userID).Scan(
		&e.UserID, &e.CardID, &rating,
		&e.Prev.Box, &e.Prev.IntervalDays, &e.Prev.DueDate,
		&e.Prev.ReviewCount, &e.Prev.LapseCount, &e.Prev.LastReviewedAt,
		&e.ConsumedNew, &e.Date, &e.AppliedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("rating event %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("rating event %s: %w", userID, err)
	}
	e.Rating = domain.Rating(rating)

	return &e, nil
}

// Put stores the event, overwriting any previous slot for the user.
func (r *Repo) Put(ctx context.Context, event *domain.RatingEvent) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := querier.Exec(ctx, putSQL,
		event.UserID, event.CardID, string(event.Rating),
		event.Prev.Box, event.Prev.IntervalDays, event.Prev.DueDate,
		event.Prev.ReviewCount, event.Prev.LapseCount, event.Prev.LastReviewedAt,
		event.ConsumedNew, event.Date, event.AppliedAt,
	)
	if err != nil {
		return fmt.Errorf("put rating event %s: %w", event.UserID, err)
	}

	return nil
}

// Delete clears the user's undo slot. Deleting an empty slot is not an error.
func (r *Repo) Delete(ctx context.Context, userID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, deleteSQL, userID); err != nil {
		return fmt.Errorf("delete rating event %s: %w", userID, err)
	}

	return nil
}
