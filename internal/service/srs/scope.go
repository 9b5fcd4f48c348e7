package srs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

// resolveScope flattens a deck or folder scope into the set of card ids it
// contains. Folder scopes include every non-deleted descendant deck; the
// external hierarchy bounds nesting at 10 levels, so the union here needs no
// depth tracking of its own. The result order is unspecified; selection
// re-orders it.
func (s *Service) resolveScope(ctx context.Context, userID uuid.UUID, scope domain.Scope) ([]uuid.UUID, error) {
	switch scope.Kind {
	case domain.ScopeKindDeck:
		cards, err := s.hierarchy.ListCardsInDeck(ctx, userID, scope.ID)
		if err != nil {
			return nil, scopeError(err, scope)
		}
		return cards, nil

	case domain.ScopeKindFolder:
		deckIDs, err := s.hierarchy.ListDescendantDeckIDs(ctx, userID, scope.ID)
		if err != nil {
			return nil, scopeError(err, scope)
		}

		seen := make(map[uuid.UUID]struct{})
		var cards []uuid.UUID
		for _, deckID := range deckIDs {
			deckCards, err := s.hierarchy.ListCardsInDeck(ctx, userID, deckID)
			if err != nil {
				// A deck listed as a descendant may be deleted concurrently;
				// skip it rather than failing the whole scope.
				if errors.Is(err, domain.ErrNotFound) {
					continue
				}
				return nil, fmt.Errorf("list cards in deck %s: %w", deckID, err)
			}
			for _, id := range deckCards {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				cards = append(cards, id)
			}
		}
		return cards, nil

	default:
		return nil, domain.NewValidationError("scope_kind", "must be DECK or FOLDER")
	}
}

// scopeError maps a hierarchy not-found onto the scope-specific sentinel so
// callers can tell "bad scope" apart from storage faults.
func scopeError(err error, scope domain.Scope) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", scope.Kind, scope.ID, domain.ErrScopeNotFound)
	}
	return fmt.Errorf("resolve %s %s: %w", scope.Kind, scope.ID, err)
}
