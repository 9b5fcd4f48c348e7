package srs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
	"github.com/ntgptit/repeatwise-sub002/pkg/ctxutil"
)

// StartReview selects due cards for the scope and opens a review session.
// An empty selection completes the session immediately.
func (s *Service) StartReview(ctx context.Context, input StartReviewInput) (*domain.StudySession, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	today := s.userToday(input.Timezone, now)

	limit := input.Limit
	if limit == 0 {
		limit = s.cfg.SessionLimit
	}

	order := input.Order
	if order == "" {
		order = domain.ReviewOrderOldestFirst
	}

	queue, err := s.selectDue(ctx, userID, input.Scope, today, order, limit)
	if err != nil {
		return nil, err
	}

	session := &domain.StudySession{
		ID:         uuid.New(),
		UserID:     userID,
		Kind:       domain.SessionKindReview,
		Scope:      input.Scope,
		Status:     domain.SessionStatusInProgress,
		Queue:      queue,
		ApplyToSRS: true,
		StartedAt:  now,
	}
	if len(queue) == 0 {
		session.Status = domain.SessionStatusCompleted
	}
	// The store keeps its own copy; the returned session is a detached
	// snapshot that later submits will not mutate under the caller.
	s.sessions.put(session.Clone())

	s.log.InfoContext(ctx, "review session started",
		slog.String("user_id", userID.String()),
		slog.String("session_id", session.ID.String()),
		slog.String("scope", input.Scope.Kind.String()),
		slog.Int("queue_size", len(queue)),
	)

	return session, nil
}

// SubmitRating rates the current card of a session. The protocol is strictly
// sequential: the submitted card must be the cursor card, one rating at a
// time. For sessions applying to SRS, the position update, the single-slot
// undo record and the daily counter land in one transaction, so a failed
// submit leaves no partial state and can be retried whole.
func (s *Service) SubmitRating(ctx context.Context, input SubmitRatingInput) (*SubmitResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	session, ok := s.sessions.get(userID, input.SessionID)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", input.SessionID, domain.ErrSessionNotFound)
	}
	if session.Status != domain.SessionStatusInProgress {
		return nil, fmt.Errorf("session %s already completed: %w", session.ID, domain.ErrOutOfOrderSubmission)
	}

	current := session.CurrentCard()
	if input.CardID != current {
		if sessionContains(session, input.CardID) {
			return nil, fmt.Errorf("card %s is not the current card: %w", input.CardID, domain.ErrOutOfOrderSubmission)
		}
		return nil, fmt.Errorf("card %s: %w", input.CardID, domain.ErrCardNotDueForReview)
	}

	now := s.now()
	today := s.userToday(input.Timezone, now)

	if session.ApplyToSRS {
		if _, err := s.applyRatingTx(ctx, userID, input.CardID, input.Rating, now, today); err != nil {
			return nil, err
		}
	}

	session.Grades.Add(input.Rating)
	session.Cursor++
	if session.Cursor >= len(session.Queue) {
		session.Status = domain.SessionStatusCompleted
	}

	result := &SubmitResult{
		NextCardID: session.CurrentCard(),
		Remaining:  session.Remaining(),
		Progress:   session.Progress(),
	}
	if session.Status == domain.SessionStatusCompleted {
		summary := session.Summarize(now)
		result.Summary = &summary
	}

	s.log.InfoContext(ctx, "rating submitted",
		slog.String("user_id", userID.String()),
		slog.String("session_id", session.ID.String()),
		slog.String("card_id", input.CardID.String()),
		slog.String("rating", string(input.Rating)),
		slog.Int("remaining", result.Remaining),
		slog.Bool("applied_to_srs", session.ApplyToSRS),
	)

	return result, nil
}

// GetSession returns a snapshot of a session owned by the user. The snapshot
// is detached: a concurrent or later SubmitRating does not move it.
func (s *Service) GetSession(ctx context.Context, sessionID uuid.UUID) (*domain.StudySession, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	// Cloning must not overlap a submit's writes to the same session.
	unlock := s.lockUser(userID)
	defer unlock()

	session, found := s.sessions.get(userID, sessionID)
	if !found {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrSessionNotFound)
	}
	return session.Clone(), nil
}

// AbandonSession drops a session from the store. Idempotent: abandoning a
// session that no longer exists is a no-op. Already-applied ratings stay
// applied; only the in-memory queue is discarded.
func (s *Service) AbandonSession(ctx context.Context, sessionID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if _, found := s.sessions.get(userID, sessionID); !found {
		return nil
	}
	s.sessions.delete(sessionID)

	s.log.InfoContext(ctx, "session abandoned",
		slog.String("user_id", userID.String()),
		slog.String("session_id", sessionID.String()),
	)
	return nil
}

// ExpireSessions removes sessions started before the cutoff. The engine has
// no internal timer; the host's timeout policy decides when to call this.
func (s *Service) ExpireSessions(cutoff time.Time) int {
	return s.sessions.Expire(cutoff)
}

func sessionContains(session *domain.StudySession, cardID uuid.UUID) bool {
	for _, id := range session.Queue {
		if id == cardID {
			return true
		}
	}
	return false
}

// applyRatingTx persists one rating: the advanced position, the overwritten
// single-slot undo record, and the incremented daily counter, atomically.
// The position row is locked first so concurrent submits for the same user
// serialize at the storage layer too.
func (s *Service) applyRatingTx(ctx context.Context, userID, cardID uuid.UUID, rating domain.Rating, now, today time.Time) (*domain.CardBoxPosition, error) {
	var updated *domain.CardBoxPosition

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		pos, err := s.positions.GetForUpdate(txCtx, userID, cardID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("get position: %w", err)
			}
			// First contact with this card: lazy position, box 1, due today.
			pos = domain.NewCardBoxPosition(userID, cardID, today)
		}

		consumedNew := pos.IsNew()
		snapshot := pos.Snapshot()

		result, err := ApplyRating(s.cfg, pos.CurrentBox, rating, today)
		if err != nil {
			return err
		}

		pos.CurrentBox = result.Box
		pos.IntervalDays = result.IntervalDays
		pos.DueDate = result.DueDate
		pos.ReviewCount++
		if result.Lapse {
			pos.LapseCount++
		}
		reviewedAt := now
		pos.LastReviewedAt = &reviewedAt

		if err := s.positions.Upsert(txCtx, pos); err != nil {
			return fmt.Errorf("save position: %w", err)
		}

		event := &domain.RatingEvent{
			UserID:      userID,
			CardID:      cardID,
			Rating:      rating,
			Prev:        snapshot,
			ConsumedNew: consumedNew,
			Date:        today,
			AppliedAt:   now,
		}
		if err := s.events.Put(txCtx, event); err != nil {
			return fmt.Errorf("save rating event: %w", err)
		}

		if err := s.counters.Increment(txCtx, userID, today, consumedNew); err != nil {
			return fmt.Errorf("increment counters: %w", err)
		}

		updated = pos
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
