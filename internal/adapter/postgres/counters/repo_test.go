package counters_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ntgptit/repeatwise-sub002/internal/adapter/postgres/counters"
	"github.com/ntgptit/repeatwise-sub002/internal/adapter/postgres/testhelper"
	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

var day = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func TestRepo_Increment_CreatesAndAccumulates(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := counters.New(pool)
	ctx := context.Background()

	userID := uuid.New()

	// Two new cards and one review on the same day.
	if err := repo.Increment(ctx, userID, day, true); err != nil {
		t.Fatalf("Increment[new 1]: unexpected error: %v", err)
	}
	if err := repo.Increment(ctx, userID, day, true); err != nil {
		t.Fatalf("Increment[new 2]: unexpected error: %v", err)
	}
	if err := repo.Increment(ctx, userID, day, false); err != nil {
		t.Fatalf("Increment[review]: unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, userID, day)
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if got.NewCardsConsumed != 2 {
		t.Errorf("NewCardsConsumed mismatch: got %d, want 2", got.NewCardsConsumed)
	}
	if got.ReviewsConsumed != 1 {
		t.Errorf("ReviewsConsumed mismatch: got %d, want 1", got.ReviewsConsumed)
	}
}

func TestRepo_Increment_SeparateDays(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := counters.New(pool)
	ctx := context.Background()

	userID := uuid.New()
	nextDay := day.AddDate(0, 0, 1)

	if err := repo.Increment(ctx, userID, day, false); err != nil {
		t.Fatalf("Increment[day 1]: unexpected error: %v", err)
	}
	if err := repo.Increment(ctx, userID, nextDay, false); err != nil {
		t.Fatalf("Increment[day 2]: unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, userID, nextDay)
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if got.ReviewsConsumed != 1 {
		t.Errorf("expected day 2 to count independently, got %d reviews", got.ReviewsConsumed)
	}
}

func TestRepo_Decrement(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := counters.New(pool)
	ctx := context.Background()

	userID := uuid.New()

	if err := repo.Increment(ctx, userID, day, true); err != nil {
		t.Fatalf("Increment: unexpected error: %v", err)
	}
	if err := repo.Decrement(ctx, userID, day, true); err != nil {
		t.Fatalf("Decrement: unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, userID, day)
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if got.NewCardsConsumed != 0 {
		t.Errorf("expected new counter back to 0, got %d", got.NewCardsConsumed)
	}

	// Decrementing past zero floors instead of going negative.
	if err := repo.Decrement(ctx, userID, day, true); err != nil {
		t.Fatalf("Decrement[floor]: unexpected error: %v", err)
	}
	got, err = repo.Get(ctx, userID, day)
	if err != nil {
		t.Fatalf("Get after floor: unexpected error: %v", err)
	}
	if got.NewCardsConsumed != 0 {
		t.Errorf("expected counter floored at 0, got %d", got.NewCardsConsumed)
	}
}

func TestRepo_Decrement_MissingRow(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := counters.New(pool)

	// No row for the day; decrement is a no-op, not an error.
	if err := repo.Decrement(context.Background(), uuid.New(), day, false); err != nil {
		t.Fatalf("Decrement: unexpected error: %v", err)
	}
}

func TestRepo_Get_NotFound(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := counters.New(pool)

	_, err := repo.Get(context.Background(), uuid.New(), day)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}
