package srs

import (
	"fmt"
	"time"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

// RatingResult is the outcome of applying one rating to a card's box state.
// It carries the new scheduling fields only; the caller is responsible for
// bumping reviewCount, lapseCount and lastReviewedAt on the stored position.
type RatingResult struct {
	Box          int
	IntervalDays int
	DueDate      time.Time
	Lapse        bool
}

// ApplyRating is the rating state machine. Pure function: no DB, no context,
// no logger. All forward transitions are capped into [1, BoxCount], so valid
// (box, rating) pairs never fail; an out-of-range box or unknown rating is a
// programmer error.
func ApplyRating(cfg Config, currentBox int, rating domain.Rating, today time.Time) (RatingResult, error) {
	if currentBox < 1 || currentBox > cfg.BoxCount() {
		return RatingResult{}, fmt.Errorf("box %d: %w", currentBox, domain.ErrInvalidBox)
	}

	newBox, hardPenalty, lapse, err := transitionBox(cfg, currentBox, rating)
	if err != nil {
		return RatingResult{}, err
	}

	due, err := cfg.NextDueDate(newBox, hardPenalty, today)
	if err != nil {
		return RatingResult{}, err
	}

	interval, err := cfg.IntervalDays(newBox)
	if err != nil {
		return RatingResult{}, err
	}

	return RatingResult{
		Box:          newBox,
		IntervalDays: interval,
		DueDate:      due,
		Lapse:        lapse,
	}, nil
}

// transitionBox maps (box, rating) to the next box. AGAIN applies the
// configured forgotten-card policy and never increases the box; HARD and
// GOOD advance one box, EASY advances two, all capped at the last box.
func transitionBox(cfg Config, box int, rating domain.Rating) (newBox int, hardPenalty, lapse bool, err error) {
	maxBox := cfg.BoxCount()

	switch rating {
	case domain.RatingAgain:
		if cfg.ForgottenPolicy == domain.ForgottenPolicyMoveDown {
			newBox = max(1, box-cfg.MoveDownBoxes)
		} else {
			newBox = 1
		}
		return newBox, false, true, nil

	case domain.RatingHard:
		return min(box+1, maxBox), true, false, nil

	case domain.RatingGood:
		return min(box+1, maxBox), false, false, nil

	case domain.RatingEasy:
		return min(box+2, maxBox), false, false, nil

	default:
		return 0, false, false, fmt.Errorf("rating %q: %w", rating, domain.ErrInvalidRating)
	}
}
