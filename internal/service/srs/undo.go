package srs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
	"github.com/ntgptit/repeatwise-sub002/pkg/ctxutil"
)

// UndoLastReview reverts the user's single most recent rating: the position
// is restored from the snapshot, the daily counter the rating consumed is
// decremented by one, and the undo record is deleted, all in one
// transaction. A second undo in a row fails with ErrNothingToUndo; the undo
// is a strict inverse, not a silent no-op. Session cursors are untouched:
// whether the card re-enters a running queue is the caller's decision.
func (s *Service) UndoLastReview(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}

	unlock := s.lockUser(userID)
	defer unlock()

	var cardID uuid.UUID
	var undoneRating domain.Rating

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		event, err := s.events.Get(txCtx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNothingToUndo
			}
			return fmt.Errorf("get rating event: %w", err)
		}

		pos, err := s.positions.GetForUpdate(txCtx, userID, event.CardID)
		if err != nil {
			return fmt.Errorf("get position: %w", err)
		}

		prev := event.Prev
		pos.CurrentBox = prev.Box
		pos.IntervalDays = prev.IntervalDays
		pos.DueDate = prev.DueDate
		pos.ReviewCount = prev.ReviewCount
		pos.LapseCount = prev.LapseCount
		pos.LastReviewedAt = prev.LastReviewedAt

		if err := s.positions.Upsert(txCtx, pos); err != nil {
			return fmt.Errorf("restore position: %w", err)
		}

		// Decrement the counter row the rating actually consumed; the event
		// carries its day so an undo after local midnight stays correct.
		if err := s.counters.Decrement(txCtx, userID, event.Date, event.ConsumedNew); err != nil {
			return fmt.Errorf("decrement counters: %w", err)
		}

		if err := s.events.Delete(txCtx, userID); err != nil {
			return fmt.Errorf("delete rating event: %w", err)
		}

		cardID = event.CardID
		undoneRating = event.Rating
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.log.InfoContext(ctx, "review undone",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("undone_rating", string(undoneRating)),
	)

	return cardID, nil
}
