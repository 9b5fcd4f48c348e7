package srs

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

func fieldNames(t *testing.T, err error) map[string]bool {
	t.Helper()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *domain.ValidationError, got %T: %v", err, err)
	}
	fields := make(map[string]bool, len(verr.Errors))
	for _, fe := range verr.Errors {
		fields[fe.Field] = true
	}
	return fields
}

func TestStartReviewInput_Validate(t *testing.T) {
	t.Parallel()

	valid := StartReviewInput{
		Scope: domain.DeckScope(uuid.New()),
		Order: domain.ReviewOrderRandom,
		Limit: 20,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input: unexpected error: %v", err)
	}

	// Empty order means "use default" and must pass.
	noOrder := valid
	noOrder.Order = ""
	if err := noOrder.Validate(); err != nil {
		t.Fatalf("empty order: unexpected error: %v", err)
	}

	bad := StartReviewInput{
		Scope: domain.Scope{Kind: "EVERYTHING"},
		Order: "SHUFFLED",
		Limit: 1000,
	}
	fields := fieldNames(t, bad.Validate())
	for _, want := range []string{"scope_kind", "scope_id", "review_order", "limit"} {
		if !fields[want] {
			t.Errorf("expected field error for %q, got %v", want, fields)
		}
	}
}

func TestStartCramInput_Validate(t *testing.T) {
	t.Parallel()

	valid := StartCramInput{
		Scope:  domain.FolderScope(uuid.New()),
		MinBox: 2,
		MaxBox: 5,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input: unexpected error: %v", err)
	}

	inverted := valid
	inverted.MinBox = 5
	inverted.MaxBox = 2
	fields := fieldNames(t, inverted.Validate())
	if !fields["min_box"] {
		t.Errorf("expected min_box error, got %v", fields)
	}

	negative := valid
	negative.MinBox = -1
	negative.MaxBox = -3
	fields = fieldNames(t, negative.Validate())
	if !fields["min_box"] || !fields["max_box"] {
		t.Errorf("expected min_box and max_box errors, got %v", fields)
	}

	// MinBox/MaxBox of zero mean unbounded and must pass.
	unbounded := StartCramInput{Scope: domain.DeckScope(uuid.New())}
	if err := unbounded.Validate(); err != nil {
		t.Fatalf("unbounded boxes: unexpected error: %v", err)
	}
}

func TestSubmitRatingInput_Validate(t *testing.T) {
	t.Parallel()

	valid := SubmitRatingInput{
		SessionID: uuid.New(),
		CardID:    uuid.New(),
		Rating:    domain.RatingGood,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input: unexpected error: %v", err)
	}

	bad := SubmitRatingInput{Rating: "OK"}
	fields := fieldNames(t, bad.Validate())
	for _, want := range []string{"session_id", "card_id", "rating"} {
		if !fields[want] {
			t.Errorf("expected field error for %q, got %v", want, fields)
		}
	}
}

func TestReviewCardInput_Validate(t *testing.T) {
	t.Parallel()

	valid := ReviewCardInput{CardID: uuid.New(), Rating: domain.RatingAgain}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid input: unexpected error: %v", err)
	}

	bad := ReviewCardInput{}
	fields := fieldNames(t, bad.Validate())
	if !fields["card_id"] || !fields["rating"] {
		t.Errorf("expected card_id and rating errors, got %v", fields)
	}
}
