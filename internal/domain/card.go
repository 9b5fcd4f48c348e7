package domain

import (
	"time"

	"github.com/google/uuid"
)

// CardBoxPosition tracks one card's place in the Leitner schedule for one user.
// DueDate is a calendar date in the user's timezone (time component is zero);
// it is derived from the box and the last rating, never set by callers.
type CardBoxPosition struct {
	UserID         uuid.UUID
	CardID         uuid.UUID
	CurrentBox     int
	IntervalDays   int
	DueDate        time.Time
	ReviewCount    int
	LapseCount     int
	LastReviewedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsNew reports whether the card has never been rated.
// The new-card flag is exactly ReviewCount == 0 (iff LastReviewedAt == nil).
func (p *CardBoxPosition) IsNew() bool {
	return p.ReviewCount == 0
}

// IsDue reports whether the card needs review on the given user-local date.
func (p *CardBoxPosition) IsDue(today time.Time) bool {
	return !p.DueDate.After(today)
}

// NewCardBoxPosition creates the lazy initial position for a card:
// box 1, due today, never reviewed.
func NewCardBoxPosition(userID, cardID uuid.UUID, today time.Time) *CardBoxPosition {
	return &CardBoxPosition{
		UserID:     userID,
		CardID:     cardID,
		CurrentBox: 1,
		DueDate:    today,
	}
}

// PositionSnapshot captures a CardBoxPosition before a rating mutates it.
type PositionSnapshot struct {
	Box            int
	IntervalDays   int
	DueDate        time.Time
	ReviewCount    int
	LapseCount     int
	LastReviewedAt *time.Time
}

// Snapshot copies the mutable scheduling fields of the position.
func (p *CardBoxPosition) Snapshot() PositionSnapshot {
	return PositionSnapshot{
		Box:            p.CurrentBox,
		IntervalDays:   p.IntervalDays,
		DueDate:        p.DueDate,
		ReviewCount:    p.ReviewCount,
		LapseCount:     p.LapseCount,
		LastReviewedAt: p.LastReviewedAt,
	}
}

// RatingEvent is the single-slot undo log: the most recent rating applied by
// a user, carrying the pre-mutation snapshot needed to roll it back.
// At most one live event exists per user; the next rating overwrites it and
// a successful undo deletes it.
type RatingEvent struct {
	UserID      uuid.UUID
	CardID      uuid.UUID
	Rating      Rating
	Prev        PositionSnapshot
	ConsumedNew bool      // true if the rating consumed a new-card allowance, false for a review allowance
	Date        time.Time // the counter day the rating was booked against, so undo hits the same row across midnight
	AppliedAt   time.Time
}

// DailyCounters tracks how many new cards and reviews a user has consumed on
// one user-local calendar day. Midnight reset is implicit in the date key.
type DailyCounters struct {
	UserID           uuid.UUID
	Date             time.Time
	NewCardsConsumed int
	ReviewsConsumed  int
}

// RemainingNew returns how many new cards the user may still study today.
func (c *DailyCounters) RemainingNew(maxNewPerDay int) int {
	if r := maxNewPerDay - c.NewCardsConsumed; r > 0 {
		return r
	}
	return 0
}

// RemainingReviews returns how many review cards the user may still study today.
func (c *DailyCounters) RemainingReviews(maxReviewsPerDay int) int {
	if r := maxReviewsPerDay - c.ReviewsConsumed; r > 0 {
		return r
	}
	return 0
}

// Scope identifies the set of cards a session draws from: a single deck or
// a folder subtree.
type Scope struct {
	Kind ScopeKind
	ID   uuid.UUID
}

// DeckScope builds a deck scope.
func DeckScope(id uuid.UUID) Scope { return Scope{Kind: ScopeKindDeck, ID: id} }

// FolderScope builds a folder scope.
func FolderScope(id uuid.UUID) Scope { return Scope{Kind: ScopeKindFolder, ID: id} }

// BoxCount holds the number of cards sitting in one box.
type BoxCount struct {
	Box   int
	Count int
}

// UserDueCount pairs a user with their number of due cards. Consumed by the
// reminder cron.
type UserDueCount struct {
	UserID   uuid.UUID
	DueCount int
}

// StudyOverview holds aggregated scheduling statistics for a user.
type StudyOverview struct {
	DueCount          int
	NewRemainingToday int
	NewConsumedToday  int
	ReviewsConsumed   int
	BoxCounts         []BoxCount
}
