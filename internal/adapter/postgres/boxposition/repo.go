// Package boxposition implements the box-position repository using PostgreSQL.
package boxposition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/ntgptit/repeatwise-sub002/internal/adapter/postgres"
	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

const positionColumns = `user_id, card_id, current_box, interval_days, due_date,
       review_count, lapse_count, last_reviewed_at, created_at, updated_at`

const getSQL = `
SELECT ` + positionColumns + `
FROM box_positions
WHERE user_id = $1 AND card_id = $2`

const getForUpdateSQL = getSQL + `
FOR UPDATE`

const getByCardIDsSQL = `
SELECT ` + positionColumns + `
FROM box_positions
WHERE user_id = $1 AND card_id = ANY($2::uuid[])`

const upsertSQL = `
INSERT INTO box_positions
  (user_id, card_id, current_box, interval_days, due_date, review_count,
   lapse_count, last_reviewed_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (user_id, card_id) DO UPDATE SET
  current_box      = EXCLUDED.current_box,
  interval_days    = EXCLUDED.interval_days,
  due_date         = EXCLUDED.due_date,
  review_count     = EXCLUDED.review_count,
  lapse_count      = EXCLUDED.lapse_count,
  last_reviewed_at = EXCLUDED.last_reviewed_at,
  updated_at       = EXCLUDED.updated_at`

const countDueSQL = `
SELECT count(*)
FROM box_positions p
JOIN cards c ON p.card_id = c.id
WHERE p.user_id = $1 AND c.deleted_at IS NULL AND p.due_date <= $2`

const listDueCountsSQL = `
SELECT p.user_id, count(*)
FROM box_positions p
JOIN cards c ON p.card_id = c.id
WHERE c.deleted_at IS NULL AND p.due_date <= $1
GROUP BY p.user_id
ORDER BY p.user_id`

const countByBoxSQL = `
SELECT p.current_box, count(*)
FROM box_positions p
JOIN cards c ON p.card_id = c.id
WHERE p.user_id = $1 AND c.deleted_at IS NULL
GROUP BY p.current_box
ORDER BY p.current_box`

// Repo provides box-position persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new box-position repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Get returns the position for one card, or domain.ErrNotFound if the card
// has no position yet.
func (r *Repo) Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardBoxPosition, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	pos, err := scanPosition(querier.QueryRow(ctx, getSQL, userID, cardID))
	if err != nil {
		return nil, mapError(err, "position", cardID)
	}

	return pos, nil
}

// GetForUpdate returns the position with a row lock held until the enclosing
// transaction ends. Must run inside RunInTx.
func (r *Repo) GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardBoxPosition, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	pos, err := scanPosition(querier.QueryRow(ctx, getForUpdateSQL, userID, cardID))
	if err != nil {
		return nil, mapError(err, "position", cardID)
	}

	return pos, nil
}

// GetByCardIDs returns positions for the given cards, keyed by card ID.
// Cards without a position are simply absent from the map.
func (r *Repo) GetByCardIDs(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (map[uuid.UUID]*domain.CardBoxPosition, error) {
	result := make(map[uuid.UUID]*domain.CardBoxPosition, len(cardIDs))
	if len(cardIDs) == 0 {
		return result, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getByCardIDsSQL, userID, cardIDs)
	if err != nil {
		return nil, fmt.Errorf("get positions by card_ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		pos, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		result[pos.CardID] = pos
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate positions: %w", err)
	}

	return result, nil
}

// Upsert inserts or fully replaces the position for a card. CreatedAt and
// UpdatedAt are maintained here and written back into pos.
func (r *Repo) Upsert(ctx context.Context, pos *domain.CardBoxPosition) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	if pos.CreatedAt.IsZero() {
		pos.CreatedAt = now
	}
	pos.UpdatedAt = now

	_, err := querier.Exec(ctx, upsertSQL,
		pos.UserID, pos.CardID, pos.CurrentBox, pos.IntervalDays, pos.DueDate,
		pos.ReviewCount, pos.LapseCount, pos.LastReviewedAt, pos.CreatedAt, pos.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "position", pos.CardID)
	}

	return nil
}

// CountDue returns how many of the user's cards are due on or before the
// given date. Soft-deleted cards are excluded.
func (r *Repo) CountDue(ctx context.Context, userID uuid.UUID, today time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countDueSQL, userID, today).Scan(&count); err != nil {
		return 0, fmt.Errorf("count due positions: %w", err)
	}

	return count, nil
}

// CountByBox returns card counts grouped by box, ascending. Only non-empty
// boxes are returned.
func (r *Repo) CountByBox(ctx context.Context, userID uuid.UUID) ([]domain.BoxCount, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, countByBoxSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("count positions by box: %w", err)
	}
	defer rows.Close()

	var counts []domain.BoxCount
	for rows.Next() {
		var bc domain.BoxCount
		if err := rows.Scan(&bc.Box, &bc.Count); err != nil {
			return nil, fmt.Errorf("scan box count: %w", err)
		}
		counts = append(counts, bc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate box counts: %w", err)
	}

	if counts == nil {
		counts = []domain.BoxCount{}
	}

	return counts, nil
}

// ListDueCounts returns due-card counts for every user with at least one due
// card on the given date. Soft-deleted cards are excluded.
func (r *Repo) ListDueCounts(ctx context.Context, today time.Time) ([]domain.UserDueCount, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listDueCountsSQL, today)
	if err != nil {
		return nil, fmt.Errorf("list due counts: %w", err)
	}
	defer rows.Close()

	var counts []domain.UserDueCount
	for rows.Next() {
		var uc domain.UserDueCount
		if err := rows.Scan(&uc.UserID, &uc.DueCount); err != nil {
			return nil, fmt.Errorf("scan due count: %w", err)
		}
		counts = append(counts, uc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due counts: %w", err)
	}

	if counts == nil {
		counts = []domain.UserDueCount{}
	}

	return counts, nil
}

// scanPosition scans one row into a domain.CardBoxPosition.
func scanPosition(row pgx.Row) (*domain.CardBoxPosition, error) {
	var p domain.CardBoxPosition
	err := row.Scan(
		&p.UserID, &p.CardID, &p.CurrentBox, &p.IntervalDays, &p.DueDate,
		&p.ReviewCount, &p.LapseCount, &p.LastReviewedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
