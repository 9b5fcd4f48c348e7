package srs

import (
	"context"
	"fmt"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
	"github.com/ntgptit/repeatwise-sub002/pkg/ctxutil"
)

// Overview returns aggregated scheduling statistics for the user: how many
// cards are due, how much of today's allowances is consumed, and the card
// distribution across boxes.
func (s *Service) Overview(ctx context.Context, timezone string) (domain.StudyOverview, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.StudyOverview{}, domain.ErrUnauthorized
	}

	today := s.userToday(timezone, s.now())

	dueCount, err := s.positions.CountDue(ctx, userID, today)
	if err != nil {
		return domain.StudyOverview{}, fmt.Errorf("count due: %w", err)
	}

	boxCounts, err := s.positions.CountByBox(ctx, userID)
	if err != nil {
		return domain.StudyOverview{}, fmt.Errorf("count by box: %w", err)
	}

	counters, err := s.todayCounters(ctx, userID, today)
	if err != nil {
		return domain.StudyOverview{}, err
	}

	newRemaining := counters.RemainingNew(s.cfg.MaxNewCardsPerDay)

	return domain.StudyOverview{
		DueCount:          dueCount,
		NewRemainingToday: newRemaining,
		NewConsumedToday:  counters.NewCardsConsumed,
		ReviewsConsumed:   counters.ReviewsConsumed,
		BoxCounts:         boxCounts,
	}, nil
}

// DueReminders returns every user that has at least one due card, with their
// due count, evaluated against the given timezone's current date. Intended
// for the reminder cron, so no per-user auth context is required.
func (s *Service) DueReminders(ctx context.Context, timezone string) ([]domain.UserDueCount, error) {
	today := s.userToday(timezone, s.now())

	counts, err := s.positions.ListDueCounts(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("list due counts: %w", err)
	}

	return counts, nil
}
