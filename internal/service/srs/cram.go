package srs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
	"github.com/ntgptit/repeatwise-sub002/pkg/ctxutil"
)

// StartCram opens a cram session over a scope. Cram ignores daily caps and
// the new/review partition: every card in scope is eligible, optionally
// narrowed by a box range and the include-learned flag. Whether ratings are
// applied to the SRS state is fixed at start and cannot change mid-session;
// with ApplyToSRS=false ratings only feed the session score.
func (s *Service) StartCram(ctx context.Context, input StartCramInput) (*domain.StudySession, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()

	cardIDs, err := s.resolveScope(ctx, userID, input.Scope)
	if err != nil {
		return nil, err
	}

	queue, err := s.filterCram(ctx, userID, cardIDs, input)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.cfg.SessionLimit
	}
	if len(queue) > limit {
		queue = queue[:limit]
	}

	session := &domain.StudySession{
		ID:         uuid.New(),
		UserID:     userID,
		Kind:       domain.SessionKindCram,
		Scope:      input.Scope,
		Status:     domain.SessionStatusInProgress,
		Queue:      queue,
		ApplyToSRS: input.ApplyToSRS,
		StartedAt:  now,
	}
	if len(queue) == 0 {
		session.Status = domain.SessionStatusCompleted
	}
	// Detached snapshot out, store-owned copy in, same as StartReview.
	s.sessions.put(session.Clone())

	s.log.InfoContext(ctx, "cram session started",
		slog.String("user_id", userID.String()),
		slog.String("session_id", session.ID.String()),
		slog.String("scope", input.Scope.Kind.String()),
		slog.Int("queue_size", len(queue)),
		slog.Bool("apply_to_srs", input.ApplyToSRS),
	)

	return session, nil
}

// filterCram applies the box-range and learned filters and orders the queue.
// Cards without a stored position sit in box 1 by definition.
func (s *Service) filterCram(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID, input StartCramInput) ([]uuid.UUID, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}

	positions, err := s.positions.GetByCardIDs(ctx, userID, cardIDs)
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}

	var part []candidate
	for i, id := range cardIDs {
		pos := positions[id]
		box := 1
		if pos != nil {
			box = pos.CurrentBox
		}
		if input.MinBox > 0 && box < input.MinBox {
			continue
		}
		if input.MaxBox > 0 && box > input.MaxBox {
			continue
		}
		if !input.IncludeLearned && box >= s.cfg.LearnedBoxThreshold {
			continue
		}
		part = append(part, candidate{cardID: id, seq: i, pos: pos})
	}

	order := input.Order
	if order == "" {
		order = domain.ReviewOrderRandom
	}
	s.order(part, order)

	queue := make([]uuid.UUID, len(part))
	for i, c := range part {
		queue[i] = c.cardID
	}
	return queue, nil
}
