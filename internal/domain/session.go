package domain

import (
	"time"

	"github.com/google/uuid"
)

// StudySession is the ephemeral per-session state for a review or cram run.
// It lives in memory only and does not survive a process restart.
type StudySession struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Kind       SessionKind
	Scope      Scope
	Status     SessionStatus
	Queue      []uuid.UUID
	Cursor     int
	ApplyToSRS bool // fixed at start; always true for REVIEW sessions
	Grades     GradeCounts
	StartedAt  time.Time
}

// Clone returns an independent copy of the session. The queue is copied,
// so neither side observes the other's later mutations.
func (s *StudySession) Clone() *StudySession {
	out := *s
	out.Queue = append([]uuid.UUID(nil), s.Queue...)
	return &out
}

// CurrentCard returns the card the session expects a rating for,
// or uuid.Nil when the session is completed.
func (s *StudySession) CurrentCard() uuid.UUID {
	if s.Cursor >= len(s.Queue) {
		return uuid.Nil
	}
	return s.Queue[s.Cursor]
}

// Remaining returns how many cards are left including the current one.
func (s *StudySession) Remaining() int {
	return len(s.Queue) - s.Cursor
}

// Progress returns the completed/total tuple for the session.
func (s *StudySession) Progress() SessionProgress {
	return SessionProgress{Completed: s.Cursor, Total: len(s.Queue)}
}

// SessionProgress is the completed/total tuple reported after each rating.
type SessionProgress struct {
	Completed int
	Total     int
}

// GradeCounts holds per-rating counters for a session.
type GradeCounts struct {
	Again int
	Hard  int
	Good  int
	Easy  int
}

// Add increments the counter matching the rating.
func (g *GradeCounts) Add(r Rating) {
	switch r {
	case RatingAgain:
		g.Again++
	case RatingHard:
		g.Hard++
	case RatingGood:
		g.Good++
	case RatingEasy:
		g.Easy++
	}
}

// Total returns the number of ratings recorded.
func (g GradeCounts) Total() int {
	return g.Again + g.Hard + g.Good + g.Easy
}

// SessionSummary holds the aggregated result of a session. For cram sessions
// started with ApplyToSRS=false this is the only output of the run.
type SessionSummary struct {
	Kind          SessionKind
	TotalReviewed int
	Grades        GradeCounts
	AccuracyRate  float64
	DurationMs    int64
}

// Summarize builds the summary for the session as of now.
func (s *StudySession) Summarize(now time.Time) SessionSummary {
	total := s.Grades.Total()
	var accuracy float64
	if total > 0 {
		accuracy = float64(total-s.Grades.Again) / float64(total)
	}
	return SessionSummary{
		Kind:          s.Kind,
		TotalReviewed: total,
		Grades:        s.Grades,
		AccuracyRate:  accuracy,
		DurationMs:    now.Sub(s.StartedAt).Milliseconds(),
	}
}
