package srs

import (
	"fmt"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

// IntervalDays returns the interval length for a box. Boxes are numbered
// from 1; anything outside [1, BoxCount] is a programmer or config error.
func (c Config) IntervalDays(box int) (int, error) {
	if box < 1 || box > len(c.BoxIntervals) {
		return 0, fmt.Errorf("box %d: %w", box, domain.ErrInvalidBox)
	}
	return c.BoxIntervals[box-1], nil
}
