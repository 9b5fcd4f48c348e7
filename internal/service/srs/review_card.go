package srs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
	"github.com/ntgptit/repeatwise-sub002/pkg/ctxutil"
)

// ReviewCard rates a single card outside any session (force review). Unlike
// the session selector, which silently withholds over-quota cards, a direct
// review past the remaining daily allowance is rejected with
// ErrDailyLimitExceeded so the UI can explain why the card was withheld.
func (s *Service) ReviewCard(ctx context.Context, input ReviewCardInput) (*domain.CardBoxPosition, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	now := s.now()
	today := s.userToday(input.Timezone, now)

	pos, err := s.positions.Get(ctx, userID, input.CardID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get position: %w", err)
	}
	isNew := pos == nil || pos.IsNew()

	counters, err := s.todayCounters(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if isNew && counters.RemainingNew(s.cfg.MaxNewCardsPerDay) == 0 {
		return nil, fmt.Errorf("new-card allowance exhausted: %w", domain.ErrDailyLimitExceeded)
	}
	if !isNew && counters.RemainingReviews(s.cfg.MaxReviewsPerDay) == 0 {
		return nil, fmt.Errorf("review allowance exhausted: %w", domain.ErrDailyLimitExceeded)
	}

	updated, err := s.applyRatingTx(ctx, userID, input.CardID, input.Rating, now, today)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "card reviewed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", input.CardID.String()),
		slog.String("rating", string(input.Rating)),
		slog.Int("box", updated.CurrentBox),
	)

	return updated, nil
}
