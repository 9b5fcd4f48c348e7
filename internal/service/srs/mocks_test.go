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

// Hand-rolled mocks in the moq style: one Func field per method plus recorded
// calls. A nil Func means the test does not expect that call.

type positionRepoMock struct {
	GetFunc           func(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardBoxPosition, error)
	GetForUpdateFunc  func(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardBoxPosition, error)
	GetByCardIDsFunc  func(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (map[uuid.UUID]*domain.CardBoxPosition, error)
	UpsertFunc        func(ctx context.Context, pos *domain.CardBoxPosition) error
	CountDueFunc      func(ctx context.Context, userID uuid.UUID, today time.Time) (int, error)
	CountByBoxFunc    func(ctx context.Context, userID uuid.UUID) ([]domain.BoxCount, error)
	ListDueCountsFunc func(ctx context.Context, today time.Time) ([]domain.UserDueCount, error)

	mu      sync.Mutex
	upserts []domain.CardBoxPosition
}

func (m *positionRepoMock) Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardBoxPosition, error) {
	if m.GetFunc == nil {
		panic("positionRepoMock: unexpected call to Get")
	}
	return m.GetFunc(ctx, userID, cardID)
}

func (m *positionRepoMock) GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.CardBoxPosition, error) {
	if m.GetForUpdateFunc == nil {
		panic("positionRepoMock: unexpected call to GetForUpdate")
	}
	return m.GetForUpdateFunc(ctx, userID, cardID)
}

func (m *positionRepoMock) GetByCardIDs(ctx context.Context, userID uuid.UUID, cardIDs []uuid.UUID) (map[uuid.UUID]*domain.CardBoxPosition, error) {
	if m.GetByCardIDsFunc == nil {
		panic("positionRepoMock: unexpected call to GetByCardIDs")
	}
	return m.GetByCardIDsFunc(ctx, userID, cardIDs)
}

func (m *positionRepoMock) Upsert(ctx context.Context, pos *domain.CardBoxPosition) error {
	if m.UpsertFunc == nil {
		panic("positionRepoMock: unexpected call to Upsert")
	}
	m.mu.Lock()
	m.upserts = append(m.upserts, *pos)
	m.mu.Unlock()
	return m.UpsertFunc(ctx, pos)
}

// UpsertCalls returns copies of every position passed to Upsert, in order.
func (m *positionRepoMock) UpsertCalls() []domain.CardBoxPosition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CardBoxPosition(nil), m.upserts...)
}

func (m *positionRepoMock) CountDue(ctx context.Context, userID uuid.UUID, today time.Time) (int, error) {
	if m.CountDueFunc == nil {
		panic("positionRepoMock: unexpected call to CountDue")
	}
	return m.CountDueFunc(ctx, userID, today)
}

func (m *positionRepoMock) CountByBox(ctx context.Context, userID uuid.UUID) ([]domain.BoxCount, error) {
	if m.CountByBoxFunc == nil {
		panic("positionRepoMock: unexpected call to CountByBox")
	}
	return m.CountByBoxFunc(ctx, userID)
}

func (m *positionRepoMock) ListDueCounts(ctx context.Context, today time.Time) ([]domain.UserDueCount, error) {
	if m.ListDueCountsFunc == nil {
		panic("positionRepoMock: unexpected call to ListDueCounts")
	}
	return m.ListDueCountsFunc(ctx, today)
}

type ratingEventRepoMock struct {
	GetFunc    func(ctx context.Context, userID uuid.UUID) (*domain.RatingEvent, error)
	PutFunc    func(ctx context.Context, event *domain.RatingEvent) error
	DeleteFunc func(ctx context.Context, userID uuid.UUID) error

	mu      sync.Mutex
	puts    []domain.RatingEvent
	deletes int
}

func (m *ratingEventRepoMock) Get(ctx context.Context, userID uuid.UUID) (*domain.RatingEvent, error) {
	if m.GetFunc == nil {
		panic("ratingEventRepoMock: unexpected call to Get")
	}
	return m.GetFunc(ctx, userID)
}

func (m *ratingEventRepoMock) Put(ctx context.Context, event *domain.RatingEvent) error {
	if m.PutFunc == nil {
		panic("ratingEventRepoMock: unexpected call to Put")
	}
	m.mu.Lock()
	m.puts = append(m.puts, *event)
	m.mu.Unlock()
	return m.PutFunc(ctx, event)
}

func (m *ratingEventRepoMock) PutCalls() []domain.RatingEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.RatingEvent(nil), m.puts...)
}

func (m *ratingEventRepoMock) Delete(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteFunc == nil {
		panic("ratingEventRepoMock: unexpected call to Delete")
	}
	m.mu.Lock()
	m.deletes++
	m.mu.Unlock()
	return m.DeleteFunc(ctx, userID)
}

func (m *ratingEventRepoMock) DeleteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletes
}

type counterCall struct {
	Date    time.Time
	NewCard bool
}

type counterRepoMock struct {
	GetFunc       func(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DailyCounters, error)
	IncrementFunc func(ctx context.Context, userID uuid.UUID, date time.Time, newCard bool) error
	DecrementFunc func(ctx context.Context, userID uuid.UUID, date time.Time, newCard bool) error

	mu         sync.Mutex
	increments []counterCall
	decrements []counterCall
}

func (m *counterRepoMock) Get(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DailyCounters, error) {
	if m.GetFunc == nil {
		panic("counterRepoMock: unexpected call to Get")
	}
	return m.GetFunc(ctx, userID, date)
}

func (m *counterRepoMock) Increment(ctx context.Context, userID uuid.UUID, date time.Time, newCard bool) error {
	if m.IncrementFunc == nil {
		panic("counterRepoMock: unexpected call to Increment")
	}
	m.mu.Lock()
	m.increments = append(m.increments, counterCall{Date: date, NewCard: newCard})
	m.mu.Unlock()
	return m.IncrementFunc(ctx, userID, date, newCard)
}

func (m *counterRepoMock) IncrementCalls() []counterCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]counterCall(nil), m.increments...)
}

func (m *counterRepoMock) Decrement(ctx context.Context, userID uuid.UUID, date time.Time, newCard bool) error {
	if m.DecrementFunc == nil {
		panic("counterRepoMock: unexpected call to Decrement")
	}
	m.mu.Lock()
	m.decrements = append(m.decrements, counterCall{Date: date, NewCard: newCard})
	m.mu.Unlock()
	return m.DecrementFunc(ctx, userID, date, newCard)
}

func (m *counterRepoMock) DecrementCalls() []counterCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]counterCall(nil), m.decrements...)
}

type hierarchyRepoMock struct {
	ListCardsInDeckFunc       func(ctx context.Context, userID, deckID uuid.UUID) ([]uuid.UUID, error)
	ListDescendantDeckIDsFunc func(ctx context.Context, userID, folderID uuid.UUID) ([]uuid.UUID, error)
}

func (m *hierarchyRepoMock) ListCardsInDeck(ctx context.Context, userID, deckID uuid.UUID) ([]uuid.UUID, error) {
	if m.ListCardsInDeckFunc == nil {
		panic("hierarchyRepoMock: unexpected call to ListCardsInDeck")
	}
	return m.ListCardsInDeckFunc(ctx, userID, deckID)
}

func (m *hierarchyRepoMock) ListDescendantDeckIDs(ctx context.Context, userID, folderID uuid.UUID) ([]uuid.UUID, error) {
	if m.ListDescendantDeckIDsFunc == nil {
		panic("hierarchyRepoMock: unexpected call to ListDescendantDeckIDs")
	}
	return m.ListDescendantDeckIDsFunc(ctx, userID, folderID)
}

// txManagerMock runs the callback directly, no transaction semantics.
type txManagerMock struct {
	mu    sync.Mutex
	calls int
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return fn(ctx)
}

func (m *txManagerMock) RunInTxCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// ---------------------------------------------------------------------------
// Shared fixtures
// ---------------------------------------------------------------------------

var (
	testNow   = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	testToday = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
)

// newTestService builds a Service with a fixed clock, a deterministic random
// source, and a pass-through tx manager. Repos default to panicking mocks so
// an unexpected storage call fails loudly; tests assign what they need.
func newTestService(cfg Config) *Service {
	return &Service{
		positions: &positionRepoMock{},
		events:    &ratingEventRepoMock{},
		counters:  &counterRepoMock{},
		hierarchy: &hierarchyRepoMock{},
		tx:        &txManagerMock{},
		log:       slog.Default(),
		cfg:       cfg,
		sessions:  newSessionStore(),
		now:       func() time.Time { return testNow },
		rng:       rand.New(rand.NewSource(1)),
	}
}

// memBackend wires all repo mocks over shared in-memory state so multi-step
// flows (start session, submit, undo) observe their own writes. Single user
// per backend; positions are keyed by card id.
type memBackend struct {
	positions *positionRepoMock
	events    *ratingEventRepoMock
	counters  *counterRepoMock
	hierarchy *hierarchyRepoMock
	tx        *txManagerMock

	mu      sync.Mutex
	posData map[uuid.UUID]*domain.CardBoxPosition
	event   *domain.RatingEvent
	days    map[time.Time]*domain.DailyCounters
	decks   map[uuid.UUID][]uuid.UUID // deckID -> card ids
	folders map[uuid.UUID][]uuid.UUID // folderID -> deck ids
}

func newMemBackend() *memBackend {
	b := &memBackend{
		posData: make(map[uuid.UUID]*domain.CardBoxPosition),
		days:    make(map[time.Time]*domain.DailyCounters),
		decks:   make(map[uuid.UUID][]uuid.UUID),
		folders: make(map[uuid.UUID][]uuid.UUID),
		tx:      &txManagerMock{},
	}

	b.positions = &positionRepoMock{
		GetFunc:          b.getPosition,
		GetForUpdateFunc: b.getPosition,
		GetByCardIDsFunc: func(_ context.Context, _ uuid.UUID, cardIDs []uuid.UUID) (map[uuid.UUID]*domain.CardBoxPosition, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			out := make(map[uuid.UUID]*domain.CardBoxPosition, len(cardIDs))
			for _, id := range cardIDs {
				if p, ok := b.posData[id]; ok {
					cp := *p
					out[id] = &cp
				}
			}
			return out, nil
		},
		UpsertFunc: func(_ context.Context, pos *domain.CardBoxPosition) error {
			b.mu.Lock()
			defer b.mu.Unlock()
			cp := *pos
			b.posData[pos.CardID] = &cp
			return nil
		},
		CountDueFunc: func(_ context.Context, _ uuid.UUID, today time.Time) (int, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			n := 0
			for _, p := range b.posData {
				if p.IsDue(today) {
					n++
				}
			}
			return n, nil
		},
	}

	b.events = &ratingEventRepoMock{
		GetFunc: func(_ context.Context, userID uuid.UUID) (*domain.RatingEvent, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.event == nil {
				return nil, fmt.Errorf("rating event %s: %w", userID, domain.ErrNotFound)
			}
			cp := *b.event
			return &cp, nil
		},
		PutFunc: func(_ context.Context, event *domain.RatingEvent) error {
			b.mu.Lock()
			defer b.mu.Unlock()
			cp := *event
			b.event = &cp
			return nil
		},
		DeleteFunc: func(_ context.Context, _ uuid.UUID) error {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.event = nil
			return nil
		},
	}

	b.counters = &counterRepoMock{
		GetFunc: func(_ context.Context, userID uuid.UUID, date time.Time) (*domain.DailyCounters, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.days[date]; ok {
				cp := *c
				return &cp, nil
			}
			return nil, fmt.Errorf("counters %s: %w", userID, domain.ErrNotFound)
		},
		IncrementFunc: func(_ context.Context, userID uuid.UUID, date time.Time, newCard bool) error {
			b.mu.Lock()
			defer b.mu.Unlock()
			c, ok := b.days[date]
			if !ok {
				c = &domain.DailyCounters{UserID: userID, Date: date}
				b.days[date] = c
			}
			if newCard {
				c.NewCardsConsumed++
			} else {
				c.ReviewsConsumed++
			}
			return nil
		},
		DecrementFunc: func(_ context.Context, _ uuid.UUID, date time.Time, newCard bool) error {
			b.mu.Lock()
			defer b.mu.Unlock()
			c, ok := b.days[date]
			if !ok {
				return nil
			}
			if newCard && c.NewCardsConsumed > 0 {
				c.NewCardsConsumed--
			}
			if !newCard && c.ReviewsConsumed > 0 {
				c.ReviewsConsumed--
			}
			return nil
		},
	}

	b.hierarchy = &hierarchyRepoMock{
		ListCardsInDeckFunc: func(_ context.Context, _ uuid.UUID, deckID uuid.UUID) ([]uuid.UUID, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			cards, ok := b.decks[deckID]
			if !ok {
				return nil, fmt.Errorf("deck %s: %w", deckID, domain.ErrNotFound)
			}
			return append([]uuid.UUID(nil), cards...), nil
		},
		ListDescendantDeckIDsFunc: func(_ context.Context, _ uuid.UUID, folderID uuid.UUID) ([]uuid.UUID, error) {
			b.mu.Lock()
			defer b.mu.Unlock()
			deckIDs, ok := b.folders[folderID]
			if !ok {
				return nil, fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
			}
			return append([]uuid.UUID(nil), deckIDs...), nil
		},
	}

	return b
}

func (b *memBackend) getPosition(_ context.Context, _, cardID uuid.UUID) (*domain.CardBoxPosition, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.posData[cardID]
	if !ok {
		return nil, fmt.Errorf("position %s: %w", cardID, domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

// position returns a copy of the stored position, or nil.
func (b *memBackend) position(cardID uuid.UUID) *domain.CardBoxPosition {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.posData[cardID]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func (b *memBackend) setPosition(pos domain.CardBoxPosition) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.posData[pos.CardID] = &pos
}

func (b *memBackend) counterFor(date time.Time) domain.DailyCounters {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.days[date]; ok {
		return *c
	}
	return domain.DailyCounters{Date: date}
}

// wire attaches the backend's repos to the service.
func (b *memBackend) wire(s *Service) {
	s.positions = b.positions
	s.events = b.events
	s.counters = b.counters
	s.hierarchy = b.hierarchy
	s.tx = b.tx
}

func ptr[T any](v T) *T { return &v }
