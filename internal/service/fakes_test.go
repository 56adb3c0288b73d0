package service_test

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/raffle-manager/internal/model"
	"github.com/iliyamo/raffle-manager/internal/queue"
	"github.com/iliyamo/raffle-manager/internal/repository"
)

// MockRaffleStore is a testify mock of service.RaffleStore.
type MockRaffleStore struct {
	mock.Mock
}

func (m *MockRaffleStore) Create(ctx context.Context, rf *model.Raffle) error {
	args := m.Called(ctx, rf)
	return args.Error(0)
}

func (m *MockRaffleStore) GetByID(ctx context.Context, id uint64) (*model.Raffle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Raffle), args.Error(1)
}

func (m *MockRaffleStore) List(ctx context.Context) ([]model.Raffle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Raffle), args.Error(1)
}

// MockPublisher is a testify mock of service.DrawPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishDrawRecorded(ctx context.Context, ev queue.DrawRecordedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// memTickets is an in-memory TicketStore honoring the (raffle_id,
// number_int) uniqueness of the real table.
type memTickets struct {
	mu      sync.Mutex
	nextID  uint64
	rows    map[uint64]*model.Ticket
	bulkErr error
	calls   int
}

func newMemTickets() *memTickets {
	return &memTickets{rows: map[uint64]*model.Ticket{}}
}

func (s *memTickets) BulkCreate(_ context.Context, raffleID uint64, maxNumber uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.bulkErr != nil {
		return s.bulkErr
	}
	existing := map[uint32]bool{}
	for _, t := range s.rows {
		if t.RaffleID == raffleID {
			existing[t.NumberInt] = true
		}
	}
	for n := uint32(1); n <= maxNumber; n++ {
		if existing[n] {
			continue
		}
		s.nextID++
		s.rows[s.nextID] = &model.Ticket{ID: s.nextID, RaffleID: raffleID, NumberInt: n, CreatedAt: time.Now()}
	}
	return nil
}

// List mirrors the repository's WHERE clause: number match for integral
// queries, case-insensitive substring on name or phone, 0/1 flags.
func (s *memTickets) List(_ context.Context, raffleID uint64, f model.TicketFilter) ([]model.Ticket, error) {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	return s.filter(raffleID, func(t model.Ticket) bool {
		if q != "" {
			n, err := strconv.ParseFloat(q, 64)
			numeric := err == nil && n == math.Trunc(n) && !math.IsInf(n, 0)
			hit := (numeric && float64(t.NumberInt) == n) ||
				(t.BuyerName != nil && strings.Contains(strings.ToLower(*t.BuyerName), q)) ||
				(t.BuyerPhone != nil && strings.Contains(strings.ToLower(*t.BuyerPhone), q))
			if !hit {
				return false
			}
		}
		return flagMatches(f.Paid, t.Paid) && flagMatches(f.Reserved, t.Reserved)
	}), nil
}

func flagMatches(flag string, v bool) bool {
	switch flag {
	case "1":
		return v
	case "0":
		return !v
	}
	return true
}

func (s *memTickets) Eligible(_ context.Context, raffleID uint64, onlyPaid bool) ([]model.Ticket, error) {
	return s.filter(raffleID, func(t model.Ticket) bool { return !onlyPaid || t.Paid }), nil
}

func (s *memTickets) GetByNumber(_ context.Context, raffleID uint64, number uint32) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.rows {
		if t.RaffleID == raffleID && t.NumberInt == number {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repository.ErrTicketNotFound
}

func (s *memTickets) Update(_ context.Context, id uint64, p model.TicketPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.rows[id]
	if !ok {
		return repository.ErrTicketNotFound
	}
	if p.BuyerName != nil {
		t.BuyerName = emptyAsNil(p.BuyerName)
	}
	if p.BuyerPhone != nil {
		t.BuyerPhone = emptyAsNil(p.BuyerPhone)
	}
	if p.Paid != nil {
		t.Paid = *p.Paid
	}
	if p.Reserved != nil {
		t.Reserved = *p.Reserved
	}
	if p.Note != nil {
		t.Note = emptyAsNil(p.Note)
	}
	now := time.Now()
	t.UpdatedAt = &now
	return nil
}

func (s *memTickets) Stats(_ context.Context, raffleID uint64) (model.RaffleStats, error) {
	return s.stats()[raffleID], nil
}

func (s *memTickets) StatsAll(context.Context) (map[uint64]model.RaffleStats, error) {
	return s.stats(), nil
}

func (s *memTickets) stats() map[uint64]model.RaffleStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[uint64]model.RaffleStats{}
	for _, t := range s.rows {
		st := out[t.RaffleID]
		st.TotalTickets++
		st.MaxNumber = max(st.MaxNumber, t.NumberInt)
		out[t.RaffleID] = st
	}
	return out
}

func (s *memTickets) filter(raffleID uint64, keep func(model.Ticket) bool) []model.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Ticket{}
	for _, t := range s.rows {
		if t.RaffleID == raffleID && keep(*t) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NumberInt < out[j].NumberInt })
	return out
}

// idOf returns the id of the ticket with the given number.
func (s *memTickets) idOf(raffleID uint64, number uint32) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.rows {
		if t.RaffleID == raffleID && t.NumberInt == number {
			return id
		}
	}
	return 0
}

// memDraws is an append-only in-memory DrawStore.
type memDraws struct {
	mu    sync.Mutex
	draws []model.Draw
}

func (s *memDraws) Create(_ context.Context, d *model.Draw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = uint64(len(s.draws) + 1)
	d.CreatedAt = time.Now()
	s.draws = append(s.draws, *d)
	return nil
}

func (s *memDraws) ListByRaffle(_ context.Context, raffleID uint64) ([]model.Draw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Draw{}
	for i := len(s.draws) - 1; i >= 0; i-- {
		if s.draws[i].RaffleID == raffleID {
			out = append(out, s.draws[i])
		}
	}
	return out, nil
}

func emptyAsNil(s *string) *string {
	if *s == "" {
		return nil
	}
	return s
}

func ptr[T any](v T) *T { return &v }

// raffleStore returns a mock that knows raffle 1 only.
func raffleStore() *MockRaffleStore {
	m := new(MockRaffleStore)
	m.On("GetByID", mock.Anything, uint64(1)).Return(&model.Raffle{ID: 1, Title: "Rifa", Status: model.RaffleStatusActive}, nil).Maybe()
	m.On("GetByID", mock.Anything, mock.Anything).Return(nil, repository.ErrRaffleNotFound).Maybe()
	return m
}
