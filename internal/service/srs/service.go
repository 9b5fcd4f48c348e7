package srs

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ntgptit/repeatwise-sub002/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type positionRepo interface {
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardBoxPosition, error)
	GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardBoxPosition, error)
	GetByCardIDs(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (map[uuid.UUID]*domain.CardBoxPosition, error)
	Upsert(ctx context.Context, pos *domain.CardBoxPosition) error
	CountDue(ctx context.Context, userID uuid.UUID, today time.Time) (int, error)
	CountByBox(ctx context.Context, userID uuid.UUID) ([]domain.BoxCount, error)
	ListDueCounts(ctx context.Context, today time.Time) ([]domain.UserDueCount, error)
}

type ratingEventRepo interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.RatingEvent, error)
	Put(ctx context.Context, event *domain.RatingEvent) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type counterRepo interface {
	Get(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DailyCounters, error)
	Increment(ctx context.Context, userID uuid.UUID, date time.Time, newCard bool) error
	Decrement(ctx context.Context, userID uuid.UUID, date time.Time, newCard bool) error
}

// hierarchyRepo is the read-only view of the external folder/deck tree.
// Both queries must exclude soft-deleted entities and entities the user
// does not own.
type hierarchyRepo interface {
	ListCardsInDeck(ctx context.Context, userID, deckID uuid.UUID) ([]uuid.UUID, error)
	ListDescendantDeckIDs(ctx context.Context, userID, folderID uuid.UUID) ([]uuid.UUID, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the spaced-repetition scheduling engine: due-card
// selection, review and cram sessions, single-step undo, and the due-count
// query consumed by the notification scheduler.
type Service struct {
	positions positionRepo
	events    ratingEventRepo
	counters  counterRepo
	hierarchy hierarchyRepo
	tx        txManager
	log       *slog.Logger
	cfg       Config

	sessions *sessionStore
	now      func() time.Time

	// userLocks serializes submit/undo per user; cross-user calls stay
	// fully parallel. The DB row locks give the same guarantee at the
	// storage layer, this protects the single-slot undo record when the
	// repos are not transactional (tests, in-memory backends).
	userLocks sync.Map // uuid.UUID -> *sync.Mutex

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService creates the scheduling engine. The rand seed only affects
// RANDOM review order; pass 0 for a time-based seed.
func NewService(
	log *slog.Logger,
	positions positionRepo,
	events ratingEventRepo,
	counters counterRepo,
	hierarchy hierarchyRepo,
	tx txManager,
	cfg Config,
) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid srs config: %w", err)
	}

	return &Service{
		positions: positions,
		events:    events,
		counters:  counters,
		hierarchy: hierarchy,
		tx:        tx,
		log:       log.With("service", "srs"),
		cfg:       cfg,
		sessions:  newSessionStore(),
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// SeedRand replaces the random source used for RANDOM ordering.
// Intended for tests and reproducible sessions.
func (s *Service) SeedRand(seed int64) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng = rand.New(rand.NewSource(seed))
}

func (s *Service) shuffle(ids []uuid.UUID) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

// lockUser serializes per-user mutating calls. Returns the unlock func.
func (s *Service) lockUser(userID uuid.UUID) func() {
	v, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// userToday resolves the user's local calendar date from a timezone string,
// falling back to the configured default timezone.
func (s *Service) userToday(tz string, now time.Time) time.Time {
	if tz == "" {
		tz = s.cfg.DefaultTimezone
	}
	return LocalDate(now, ParseTimezone(tz))
}
