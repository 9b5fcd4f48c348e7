package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedFolder creates a folder for the given user. parentID may be uuid.Nil for
// a root folder. Returns the folder ID.
func SeedFolder(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, parentID uuid.UUID) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	id := uuid.New()
	var parent *uuid.UUID
	if parentID != uuid.Nil {
		parent = &parentID
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO folders (id, user_id, parent_id, name) VALUES ($1, $2, $3, $4)`,
		id, userID, parent, "Folder "+uniqueSuffix(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedFolder insert: %v", err)
	}

	return id
}

// SeedDeck creates a deck for the given user, optionally inside a folder
// (uuid.Nil for no folder). Returns the deck ID.
func SeedDeck(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, folderID uuid.UUID) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	id := uuid.New()
	var folder *uuid.UUID
	if folderID != uuid.Nil {
		folder = &folderID
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO decks (id, user_id, folder_id, name) VALUES ($1, $2, $3, $4)`,
		id, userID, folder, "Deck "+uniqueSuffix(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDeck insert: %v", err)
	}

	return id
}

// SeedCards creates n cards in the given deck with monotonically increasing
// created_at timestamps so ordering in tests is deterministic. Returns the
// card IDs in creation order.
func SeedCards(t *testing.T, pool *pgxpool.Pool, userID, deckID uuid.UUID, n int) []uuid.UUID {
	t.Helper()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Microsecond)
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
		_, err := pool.Exec(ctx,
			`INSERT INTO cards (id, user_id, deck_id, created_at) VALUES ($1, $2, $3, $4)`,
			ids[i], userID, deckID, base.Add(time.Duration(i)*time.Second),
		)
		if err != nil {
			t.Fatalf("testhelper: SeedCards insert card[%d]: %v", i, err)
		}
	}

	return ids
}

// SoftDeleteDeck marks a deck as deleted.
func SoftDeleteDeck(t *testing.T, pool *pgxpool.Pool, deckID uuid.UUID) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`UPDATE decks SET deleted_at = now() WHERE id = $1`, deckID)
	if err != nil {
		t.Fatalf("testhelper: SoftDeleteDeck: %v", err)
	}
}

// SoftDeleteCard marks a card as deleted.
func SoftDeleteCard(t *testing.T, pool *pgxpool.Pool, cardID uuid.UUID) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`UPDATE cards SET deleted_at = now() WHERE id = $1`, cardID)
	if err != nil {
		t.Fatalf("testhelper: SoftDeleteCard: %v", err)
	}
}

// SeedPosition inserts a box position row for the given card. The position
// should be built with domain.NewCardBoxPosition and mutated as the test needs.
func SeedPosition(t *testing.T, pool *pgxpool.Pool, pos domain.CardBoxPosition) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO box_positions
		   (user_id, card_id, current_box, interval_days, due_date, review_count,
		    lapse_count, last_reviewed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		pos.UserID, pos.CardID, pos.CurrentBox, pos.IntervalDays, pos.DueDate,
		pos.ReviewCount, pos.LapseCount, pos.LastReviewedAt, pos.CreatedAt, pos.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPosition insert: %v", err)
	}
}
