package domain

// Rating represents the user's self-assessed recall quality for one card.
type Rating string

const (
	RatingAgain Rating = "AGAIN"
	RatingHard  Rating = "HARD"
	RatingGood  Rating = "GOOD"
	RatingEasy  Rating = "EASY"
)

func (r Rating) String() string { return string(r) }

func (r Rating) IsValid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	}
	return false
}

// ReviewOrder determines how selected cards are ordered within a session.
type ReviewOrder string

const (
	ReviewOrderRandom      ReviewOrder = "RANDOM"
	ReviewOrderOldestFirst ReviewOrder = "OLDEST_FIRST"
	ReviewOrderNewestFirst ReviewOrder = "NEWEST_FIRST"
)

func (o ReviewOrder) String() string { return string(o) }

func (o ReviewOrder) IsValid() bool {
	switch o {
	case ReviewOrderRandom, ReviewOrderOldestFirst, ReviewOrderNewestFirst:
		return true
	}
	return false
}

// ScopeKind identifies whether a review scope targets a single deck
// or a folder subtree.
type ScopeKind string

const (
	ScopeKindDeck   ScopeKind = "DECK"
	ScopeKindFolder ScopeKind = "FOLDER"
)

func (k ScopeKind) String() string { return string(k) }

func (k ScopeKind) IsValid() bool {
	switch k {
	case ScopeKindDeck, ScopeKindFolder:
		return true
	}
	return false
}

// ForgottenPolicy controls where an AGAIN rating sends a card.
type ForgottenPolicy string

const (
	// ForgottenPolicyMoveToBox1 resets a forgotten card to box 1.
	ForgottenPolicyMoveToBox1 ForgottenPolicy = "MOVE_TO_BOX_1"
	// ForgottenPolicyMoveDown moves a forgotten card down a configured
	// number of boxes, floored at box 1.
	ForgottenPolicyMoveDown ForgottenPolicy = "MOVE_DOWN"
)

func (p ForgottenPolicy) String() string { return string(p) }

func (p ForgottenPolicy) IsValid() bool {
	switch p {
	case ForgottenPolicyMoveToBox1, ForgottenPolicyMoveDown:
		return true
	}
	return false
}

// SessionStatus represents the lifecycle state of a review or cram session.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
)

func (s SessionStatus) String() string { return string(s) }

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusInProgress, SessionStatusCompleted:
		return true
	}
	return false
}

// SessionKind distinguishes normal SRS review sessions from cram sessions.
type SessionKind string

const (
	SessionKindReview SessionKind = "REVIEW"
	SessionKindCram   SessionKind = "CRAM"
)

func (k SessionKind) String() string { return string(k) }

func (k SessionKind) IsValid() bool {
	switch k {
	case SessionKindReview, SessionKindCram:
		return true
	}
	return false
}
