// Package counters implements daily study counters using PostgreSQL.
package counters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/ntgptit/repeatwise-sub002/internal/adapter/postgres"
	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

const getSQL = `
SELECT user_id, day, new_cards_consumed, reviews_consumed
FROM daily_counters
WHERE user_id = $1 AND day = $2`

// Increment upserts so the first rating of a day creates the row.
const incrementSQL = `
INSERT INTO daily_counters (user_id, day, new_cards_consumed, reviews_consumed)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, day) DO UPDATE SET
  new_cards_consumed = daily_counters.new_cards_consumed + EXCLUDED.new_cards_consumed,
  reviews_consumed   = daily_counters.reviews_consumed + EXCLUDED.reviews_consumed`

// Decrement floors at zero so an undo after a manual reset never violates
// the non-negative check constraints.
const decrementSQL = `
UPDATE daily_counters SET
  new_cards_consumed = GREATEST(new_cards_consumed - $3, 0),
  reviews_consumed   = GREATEST(reviews_consumed - $4, 0)
WHERE user_id = $1 AND day = $2`

// Repo persists per-user daily counters keyed by user-local calendar day.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new counter repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Get returns the counters for one day, or domain.ErrNotFound when no rating
// has been recorded for that day yet.
func (r *Repo) Get(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DailyCounters, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var c domain.DailyCounters
	err := querier.QueryRow(ctx, getSQL, userID, date).Scan(
		&c.UserID, &c.Date, &c.NewCardsConsumed, &c.ReviewsConsumed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("counters %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("counters %s: %w", userID, err)
	}

	return &c, nil
}

// Increment books one rating against the day: the new-card counter when
// newCard is true, the review counter otherwise.
func (r *Repo) Increment(ctx context.Context, userID uuid.UUID, date time.Time, newCard bool) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	newDelta, reviewDelta := deltas(newCard)
	if _, err := querier.Exec(ctx, incrementSQL, userID, date, newDelta, reviewDelta); err != nil {
		return fmt.Errorf("increment counters %s: %w", userID, err)
	}

	return nil
}

// Decrement rolls back one rating on the given day. Missing rows and already
// zero counters are left as-is.
func (r *Repo) Decrement(ctx context.Context, userID uuid.UUID, date time.Time, newCard bool) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	newDelta, reviewDelta := deltas(newCard)
	if _, err := querier.Exec(ctx, decrementSQL, userID, date, newDelta, reviewDelta); err != nil {
		return fmt.Errorf("decrement counters %s: %w", userID, err)
	}

	return nil
}

func deltas(newCard bool) (newDelta, reviewDelta int) {
	if newCard {
		return 1, 0
	}
	return 0, 1
}
