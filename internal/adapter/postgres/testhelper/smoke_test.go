package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	userID := uuid.New()
	deckID := SeedDeck(t, pool, userID, uuid.Nil)
	cardIDs := SeedCards(t, pool, userID, deckID, 3)

	var count int
	err := pool.QueryRow(
		context.Background(),
		`SELECT count(*) FROM cards WHERE deck_id = $1`,
		deckID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("expected cards in DB, got error: %v", err)
	}

	if count != len(cardIDs) {
		t.Fatalf("expected %d cards, got %d", len(cardIDs), count)
	}
}
