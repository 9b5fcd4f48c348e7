package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardBoxPosition_IsNew(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	pos := NewCardBoxPosition(uuid.New(), uuid.New(), now)
	require.True(t, pos.IsNew(), "fresh position must be new")

	pos.ReviewCount = 1
	pos.LastReviewedAt = &now
	require.False(t, pos.IsNew(), "reviewed position must not be new")
}

func TestCardBoxPosition_IsDue(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want bool
	}{
		{name: "due yesterday is due", due: today.AddDate(0, 0, -1), want: true},
		{name: "due today is due", due: today, want: true},
		{name: "due tomorrow is not due", due: today.AddDate(0, 0, 1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pos := CardBoxPosition{DueDate: tt.due}
			assert.Equal(t, tt.want, pos.IsDue(today))
		})
	}
}

func TestCardBoxPosition_Snapshot(t *testing.T) {
	t.Parallel()

	reviewed := time.Date(2026, 2, 28, 20, 15, 0, 0, time.UTC)
	pos := CardBoxPosition{
		CurrentBox:     4,
		IntervalDays:   7,
		DueDate:        time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		ReviewCount:    12,
		LapseCount:     2,
		LastReviewedAt: &reviewed,
	}

	snap := pos.Snapshot()

	assert.Equal(t, 4, snap.Box)
	assert.Equal(t, 7, snap.IntervalDays)
	assert.Equal(t, 12, snap.ReviewCount)
	assert.Equal(t, 2, snap.LapseCount)
	assert.True(t, snap.DueDate.Equal(pos.DueDate))
	require.NotNil(t, snap.LastReviewedAt)
	assert.True(t, snap.LastReviewedAt.Equal(reviewed))
}

func TestDailyCounters_Remaining(t *testing.T) {
	t.Parallel()

	c := DailyCounters{NewCardsConsumed: 5, ReviewsConsumed: 210}

	assert.Equal(t, 15, c.RemainingNew(20))
	assert.Equal(t, 0, c.RemainingReviews(200), "remaining is never negative")
}
