package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.SRS.validate(); err != nil {
		return fmt.Errorf("srs: %w", err)
	}
	return nil
}

func (s *SRSConfig) validate() error {
	if s.BoxCount < 1 {
		return fmt.Errorf("box_count must be >= 1 (got %d)", s.BoxCount)
	}

	intervals, err := ParseBoxIntervals(s.BoxIntervalsRaw)
	if err != nil {
		return fmt.Errorf("box_intervals: %w", err)
	}
	if len(intervals) != s.BoxCount {
		return fmt.Errorf("box_intervals: expected %d values, got %d", s.BoxCount, len(intervals))
	}
	for i := 1; i < len(intervals); i++ {
		if intervals[i] < intervals[i-1] {
			return fmt.Errorf("box_intervals: must be non-decreasing (box %d: %d < %d)", i+1, intervals[i], intervals[i-1])
		}
	}
	s.BoxIntervals = intervals

	if s.HardPenaltyFactor <= 0 || s.HardPenaltyFactor > 1 {
		return fmt.Errorf("hard_penalty_factor must be in (0, 1] (got %v)", s.HardPenaltyFactor)
	}
	if !domain.ForgottenPolicy(s.ForgottenPolicy).IsValid() {
		return fmt.Errorf("forgotten_policy: unknown policy %q", s.ForgottenPolicy)
	}
	if s.MoveDownBoxes < 1 {
		return fmt.Errorf("move_down_boxes must be >= 1 (got %d)", s.MoveDownBoxes)
	}
	if s.MaxNewCardsPerDay < 0 {
		return fmt.Errorf("max_new_cards_per_day must be >= 0 (got %d)", s.MaxNewCardsPerDay)
	}
	if s.MaxReviewsPerDay < 0 {
		return fmt.Errorf("max_reviews_per_day must be >= 0 (got %d)", s.MaxReviewsPerDay)
	}
	if s.SessionLimit < 1 {
		return fmt.Errorf("session_limit must be >= 1 (got %d)", s.SessionLimit)
	}
	if s.LearnedBoxThreshold < 1 || s.LearnedBoxThreshold > s.BoxCount {
		return fmt.Errorf("learned_box_threshold must be in [1, %d] (got %d)", s.BoxCount, s.LearnedBoxThreshold)
	}
	if _, err := time.LoadLocation(s.DefaultTimezone); err != nil {
		return fmt.Errorf("default_timezone: %w", err)
	}
	if s.SessionIdleTimeout <= 0 {
		return fmt.Errorf("session_idle_timeout must be > 0 (got %v)", s.SessionIdleTimeout)
	}

	return nil
}

// ParseBoxIntervals parses a comma-separated list of non-negative day counts
// (e.g. "0,0,3,7,14,30,60") into a slice of ints.
func ParseBoxIntervals(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty interval list")
	}

	parts := strings.Split(raw, ",")
	intervals := make([]int, 0, len(parts))
	for _, p := range parts {
		days, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid interval %q: %w", p, err)
		}
		if days < 0 {
			return nil, fmt.Errorf("interval must be >= 0 (got %d)", days)
		}
		intervals = append(intervals, days)
	}
	return intervals, nil
}
