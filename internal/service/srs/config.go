package srs

import (
	"fmt"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

// Config holds the Leitner scheduling parameters. It is read-only after
// startup and shared by all users.
type Config struct {
	// BoxIntervals is the interval table: index i holds the interval in days
	// for box i+1. Must be non-empty and non-decreasing.
	BoxIntervals []int

	// HardPenaltyFactor scales the interval on a HARD rating (ceil rounding).
	HardPenaltyFactor float64

	// ForgottenPolicy and MoveDownBoxes control where AGAIN sends a card.
	ForgottenPolicy domain.ForgottenPolicy
	MoveDownBoxes   int

	MaxNewCardsPerDay int
	MaxReviewsPerDay  int

	// SessionLimit bounds how many cards one session pulls.
	SessionLimit int

	// LearnedBoxThreshold is the box from which a card counts as "learned"
	// for cram filtering.
	LearnedBoxThreshold int

	// DefaultTimezone is used when a call does not carry the user's timezone.
	DefaultTimezone string
}

// DefaultConfig returns the stock seven-box table with standard caps.
func DefaultConfig() Config {
	return Config{
		BoxIntervals:        []int{0, 0, 3, 7, 14, 30, 60},
		HardPenaltyFactor:   0.7,
		ForgottenPolicy:     domain.ForgottenPolicyMoveToBox1,
		MoveDownBoxes:       1,
		MaxNewCardsPerDay:   20,
		MaxReviewsPerDay:    200,
		SessionLimit:        50,
		LearnedBoxThreshold: 5,
		DefaultTimezone:     "UTC",
	}
}

// BoxCount returns the number of boxes in the interval table.
func (c Config) BoxCount() int { return len(c.BoxIntervals) }

func (c Config) validate() error {
	if len(c.BoxIntervals) == 0 {
		return fmt.Errorf("interval table is empty")
	}
	for i := 1; i < len(c.BoxIntervals); i++ {
		if c.BoxIntervals[i] < c.BoxIntervals[i-1] {
			return fmt.Errorf("interval table must be non-decreasing (box %d)", i+1)
		}
	}
	if c.BoxIntervals[0] < 0 {
		return fmt.Errorf("intervals must be >= 0")
	}
	if c.HardPenaltyFactor <= 0 || c.HardPenaltyFactor > 1 {
		return fmt.Errorf("hard penalty factor must be in (0, 1]")
	}
	if !c.ForgottenPolicy.IsValid() {
		return fmt.Errorf("unknown forgotten policy %q", c.ForgottenPolicy)
	}
	if c.MoveDownBoxes < 1 {
		return fmt.Errorf("move-down distance must be >= 1")
	}
	if c.MaxNewCardsPerDay < 0 || c.MaxReviewsPerDay < 0 {
		return fmt.Errorf("daily caps must be >= 0")
	}
	if c.SessionLimit < 1 {
		return fmt.Errorf("session limit must be >= 1")
	}
	if c.LearnedBoxThreshold < 1 || c.LearnedBoxThreshold > len(c.BoxIntervals) {
		return fmt.Errorf("learned box threshold out of range")
	}
	return nil
}
