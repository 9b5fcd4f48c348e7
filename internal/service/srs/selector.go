package srs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

// candidate pairs a card id with its (possibly absent) box position for
// ordering. A nil position means the card has never been touched: box 1,
// never reviewed. seq is the card's index in the scope listing, which the
// deck adapter returns in creation order.
type candidate struct {
	cardID uuid.UUID
	seq    int
	pos    *domain.CardBoxPosition
}

// selectDue builds the ordered study queue for a scope: the new partition
// first, then the due-review partition, each capped by the remaining daily
// allowance and ordered per the requested ReviewOrder. An exhausted cap
// contributes zero cards from that partition, without error; the cap error
// is reserved for explicit force-reviews (ReviewCard).
func (s *Service) selectDue(ctx context.Context, userID uuid.UUID, scope domain.Scope, today time.Time, order domain.ReviewOrder, limit int) ([]uuid.UUID, error) {
	cardIDs, err := s.resolveScope(ctx, userID, scope)
	if err != nil {
		return nil, err
	}
	if len(cardIDs) == 0 {
		return nil, nil
	}

	positions, err := s.positions.GetByCardIDs(ctx, userID, cardIDs)
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}

	var newPart, reviewPart []candidate
	for i, id := range cardIDs {
		pos := positions[id]
		switch {
		case pos == nil || pos.IsNew():
			newPart = append(newPart, candidate{cardID: id, seq: i, pos: pos})
		case pos.IsDue(today):
			reviewPart = append(reviewPart, candidate{cardID: id, seq: i, pos: pos})
		}
	}

	counters, err := s.todayCounters(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	newAllowed := counters.RemainingNew(s.cfg.MaxNewCardsPerDay)
	reviewAllowed := counters.RemainingReviews(s.cfg.MaxReviewsPerDay)

	s.order(newPart, order)
	s.order(reviewPart, order)

	if len(newPart) > newAllowed {
		newPart = newPart[:newAllowed]
	}
	if len(reviewPart) > reviewAllowed {
		reviewPart = reviewPart[:reviewAllowed]
	}

	queue := make([]uuid.UUID, 0, len(newPart)+len(reviewPart))
	for _, c := range newPart {
		queue = append(queue, c.cardID)
	}
	for _, c := range reviewPart {
		queue = append(queue, c.cardID)
	}

	if limit > 0 && len(queue) > limit {
		queue = queue[:limit]
	}
	return queue, nil
}

// order sorts one partition in place. OLDEST_FIRST and NEWEST_FIRST are
// deterministic (card id or listing position as final tie-break), so
// repeated calls against unchanged state return the same queue. RANDOM uses
// the service's seedable source.
func (s *Service) order(part []candidate, order domain.ReviewOrder) {
	switch order {
	case domain.ReviewOrderRandom:
		ids := make([]uuid.UUID, len(part))
		for i, c := range part {
			ids[i] = c.cardID
		}
		s.shuffle(ids)
		byID := make(map[uuid.UUID]candidate, len(part))
		for _, c := range part {
			byID[c.cardID] = c
		}
		for i, id := range ids {
			part[i] = byID[id]
		}

	case domain.ReviewOrderNewestFirst:
		sort.SliceStable(part, func(i, j int) bool {
			a, b := part[i], part[j]
			// Untouched cards carry no timestamp; they rank newest,
			// ordered by their place in the creation-ordered listing.
			switch {
			case a.pos == nil && b.pos == nil:
				return a.seq > b.seq
			case a.pos == nil:
				return true
			case b.pos == nil:
				return false
			}
			if !a.pos.CreatedAt.Equal(b.pos.CreatedAt) {
				return a.pos.CreatedAt.After(b.pos.CreatedAt)
			}
			return bytes.Compare(a.cardID[:], b.cardID[:]) > 0
		})

	default: // OLDEST_FIRST
		sort.SliceStable(part, func(i, j int) bool {
			a, b := sortInstant(part[i]), sortInstant(part[j])
			if !a.Equal(b) {
				return a.Before(b)
			}
			return bytes.Compare(part[i].cardID[:], part[j].cardID[:]) < 0
		})
	}
}

// sortInstant is the OLDEST_FIRST key: due date for review cards, last
// review (zero for untouched cards) for new ones.
func sortInstant(c candidate) time.Time {
	if c.pos == nil {
		return time.Time{}
	}
	if c.pos.IsNew() {
		if c.pos.LastReviewedAt != nil {
			return *c.pos.LastReviewedAt
		}
		return c.pos.CreatedAt
	}
	return c.pos.DueDate
}

// todayCounters loads the user's counters for the given local date, treating
// a missing row as zero consumption.
func (s *Service) todayCounters(ctx context.Context, userID uuid.UUID, today time.Time) (*domain.DailyCounters, error) {
	counters, err := s.counters.Get(ctx, userID, today)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.DailyCounters{UserID: userID, Date: today}, nil
		}
		return nil, fmt.Errorf("load daily counters: %w", err)
	}
	return counters, nil
}

// CountDueCards returns the size of the due-review partition across all of
// the user's cards, ignoring daily caps. The notification scheduler calls
// this to decide whether a reminder is worth sending.
func (s *Service) CountDueCards(ctx context.Context, userID uuid.UUID, today time.Time) (int, error) {
	n, err := s.positions.CountDue(ctx, userID, today)
	if err != nil {
		return 0, fmt.Errorf("count due cards: %w", err)
	}
	return n, nil
}
