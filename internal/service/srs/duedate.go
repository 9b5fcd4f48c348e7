package srs

import (
	"math"
	"time"
)

// NextDueDate computes the calendar date a card in the given box becomes due
// again. Today must be the user's local calendar date (midnight, see
// LocalDate). A zero interval means due immediately, in the same session.
// A hard penalty shortens the interval to ceil(interval * factor); it applies
// only when a HARD rating still advanced the box, never on AGAIN.
func (c Config) NextDueDate(box int, hardPenalty bool, today time.Time) (time.Time, error) {
	interval, err := c.IntervalDays(box)
	if err != nil {
		return time.Time{}, err
	}

	if interval == 0 {
		return today, nil
	}

	days := interval
	if hardPenalty {
		days = int(math.Ceil(float64(interval) * c.HardPenaltyFactor))
	}
	return today.AddDate(0, 0, days), nil
}
