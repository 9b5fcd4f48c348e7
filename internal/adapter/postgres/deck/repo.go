// Package deck implements the read-only hierarchy repository the scheduler
// uses to resolve review scopes. Decks, folders, and cards are owned by the
// surrounding application; this package only reads them.
package deck

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/ntgptit/repeatwise-sub002/internal/adapter/postgres"
	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

// maxFolderDepth caps the recursive folder walk; deeper trees are cut off
// rather than risking a runaway CTE on corrupted parent links.
const maxFolderDepth = 10

const descendantDecksSQL = `
WITH RECURSIVE subtree AS (
    SELECT id, 0 AS depth
    FROM folders
    WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
  UNION ALL
    SELECT f.id, s.depth + 1
    FROM folders f
    JOIN subtree s ON f.parent_id = s.id
    WHERE f.deleted_at IS NULL AND s.depth < $3
)
SELECT d.id
FROM decks d
JOIN subtree s ON d.folder_id = s.id
WHERE d.user_id = $2 AND d.deleted_at IS NULL
ORDER BY d.created_at, d.id`

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo reads the folder/deck/card hierarchy from PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new hierarchy repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ListCardsInDeck returns the IDs of all live cards in a deck, oldest first.
// Returns domain.ErrNotFound when the deck does not exist, is soft-deleted,
// or belongs to another user.
func (r *Repo) ListCardsInDeck(ctx context.Context, userID, deckID uuid.UUID) ([]uuid.UUID, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if err := r.checkExists(ctx, "decks", userID, deckID); err != nil {
		return nil, fmt.Errorf("deck %s: %w", deckID, err)
	}

	query := builder.
		Select("id").
		From("cards").
		Where(squirrel.Eq{"deck_id": deckID, "user_id": userID, "deleted_at": nil}).
		OrderBy("created_at", "id")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build cards query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list cards in deck %s: %w", deckID, err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// ListDescendantDeckIDs returns the IDs of all live decks in the folder
// subtree rooted at folderID, the root folder included. Returns
// domain.ErrNotFound when the folder does not exist, is soft-deleted, or
// belongs to another user.
func (r *Repo) ListDescendantDeckIDs(ctx context.Context, userID, folderID uuid.UUID) ([]uuid.UUID, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if err := r.checkExists(ctx, "folders", userID, folderID); err != nil {
		return nil, fmt.Errorf("folder %s: %w", folderID, err)
	}

	rows, err := querier.Query(ctx, descendantDecksSQL, folderID, userID, maxFolderDepth)
	if err != nil {
		return nil, fmt.Errorf("list decks in folder %s: %w", folderID, err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// checkExists verifies that a live row owned by the user exists in the given
// table. Returns domain.ErrNotFound otherwise.
func (r *Repo) checkExists(ctx context.Context, table string, userID, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query := builder.
		Select("1").
		From(table).
		Where(squirrel.Eq{"id": id, "user_id": userID, "deleted_at": nil})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build exists query: %w", err)
	}

	var one int
	if err := querier.QueryRow(ctx, sql, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

func scanIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}

	if ids == nil {
		ids = []uuid.UUID{}
	}

	return ids, nil
}
