package srs

import (
	"github.com/google/uuid"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

// StartReviewInput holds the parameters for starting a review session.
// Timezone is the user's IANA timezone name; empty falls back to the
// configured default. Limit 0 means the configured session limit.
type StartReviewInput struct {
	Scope    domain.Scope
	Order    domain.ReviewOrder
	Timezone string
	Limit    int
}

// Validate checks all fields and collects all errors.
func (i *StartReviewInput) Validate() error {
	var errs []domain.FieldError

	if !i.Scope.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "scope_kind", Message: "must be DECK or FOLDER"})
	}
	if i.Scope.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "scope_id", Message: "required"})
	}
	if i.Order != "" && !i.Order.IsValid() {
		errs = append(errs, domain.FieldError{Field: "review_order", Message: "must be RANDOM, OLDEST_FIRST, or NEWEST_FIRST"})
	}
	if i.Limit < 0 || i.Limit > 500 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 500"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// StartCramInput holds the parameters for starting a cram session.
// MinBox/MaxBox of 0 mean unbounded on that side. ApplyToSRS is fixed
// for the lifetime of the session.
type StartCramInput struct {
	Scope          domain.Scope
	Order          domain.ReviewOrder
	MinBox         int
	MaxBox         int
	IncludeLearned bool
	ApplyToSRS     bool
	Timezone       string
	Limit          int
}

// Validate checks all fields and collects all errors.
func (i *StartCramInput) Validate() error {
	var errs []domain.FieldError

	if !i.Scope.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "scope_kind", Message: "must be DECK or FOLDER"})
	}
	if i.Scope.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "scope_id", Message: "required"})
	}
	if i.Order != "" && !i.Order.IsValid() {
		errs = append(errs, domain.FieldError{Field: "review_order", Message: "must be RANDOM, OLDEST_FIRST, or NEWEST_FIRST"})
	}
	if i.MinBox < 0 {
		errs = append(errs, domain.FieldError{Field: "min_box", Message: "must be >= 0"})
	}
	if i.MaxBox < 0 {
		errs = append(errs, domain.FieldError{Field: "max_box", Message: "must be >= 0"})
	}
	if i.MinBox > 0 && i.MaxBox > 0 && i.MinBox > i.MaxBox {
		errs = append(errs, domain.FieldError{Field: "min_box", Message: "must not exceed max_box"})
	}
	if i.Limit < 0 || i.Limit > 500 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 500"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SubmitRatingInput holds the parameters for rating the current session card.
type SubmitRatingInput struct {
	SessionID uuid.UUID
	CardID    uuid.UUID
	Rating    domain.Rating
	Timezone  string
}

// Validate checks all fields and collects all errors.
func (i *SubmitRatingInput) Validate() error {
	var errs []domain.FieldError

	if i.SessionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "session_id", Message: "required"})
	}
	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}
	if !i.Rating.IsValid() {
		errs = append(errs, domain.FieldError{Field: "rating", Message: "must be AGAIN, HARD, GOOD, or EASY"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ReviewCardInput holds the parameters for rating a single card outside a
// session (force review). Daily caps are enforced here, not silently ignored.
type ReviewCardInput struct {
	CardID   uuid.UUID
	Rating   domain.Rating
	Timezone string
}

// Validate checks all fields and collects all errors.
func (i *ReviewCardInput) Validate() error {
	var errs []domain.FieldError

	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}
	if !i.Rating.IsValid() {
		errs = append(errs, domain.FieldError{Field: "rating", Message: "must be AGAIN, HARD, GOOD, or EASY"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SubmitResult is returned after each accepted rating: the next card to show
// (uuid.Nil when the session just completed), how many cards remain, the
// completed/total progress tuple, and the summary once completed.
type SubmitResult struct {
	NextCardID uuid.UUID
	Remaining  int
	Progress   domain.SessionProgress
	Summary    *domain.SessionSummary
}
