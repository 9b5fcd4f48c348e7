package srs

import "time"

// LocalDate returns the user's local calendar date at the given instant,
// normalized to midnight UTC so that due-date comparisons are timezone-free.
func LocalDate(now time.Time, tz *time.Location) time.Time {
	local := now.In(tz)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// NextLocalDate returns the day after the user's local calendar date.
// AddDate is used so DST transitions cannot produce a skipped or doubled day.
func NextLocalDate(now time.Time, tz *time.Location) time.Time {
	return LocalDate(now, tz).AddDate(0, 0, 1)
}

// ParseTimezone parses a timezone string, returning UTC as fallback.
func ParseTimezone(tz string) *time.Location {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
