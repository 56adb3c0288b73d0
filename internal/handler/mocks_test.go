package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/raffle-manager/internal/model"
	"github.com/iliyamo/raffle-manager/internal/service"
)

type mockRaffles struct{ mock.Mock }

func (m *mockRaffles) Create(ctx context.Context, in service.CreateRaffleInput) (uint64, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockRaffles) List(ctx context.Context) ([]model.RaffleWithStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RaffleWithStats), args.Error(1)
}

func (m *mockRaffles) GetByID(ctx context.Context, id uint64) (*model.RaffleWithStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RaffleWithStats), args.Error(1)
}

func (m *mockRaffles) Public(ctx context.Context, id uint64) (*model.Raffle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Raffle), args.Error(1)
}

type mockTickets struct{ mock.Mock }

func (m *mockTickets) GenerateTickets(ctx context.Context, raffleID uint64, maxNumber int) (int, error) {
	args := m.Called(ctx, raffleID, maxNumber)
	return args.Int(0), args.Error(1)
}

func (m *mockTickets) ListTickets(ctx context.Context, raffleID uint64, f model.TicketFilter) ([]model.Ticket, error) {
	args := m.Called(ctx, raffleID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ticket), args.Error(1)
}

func (m *mockTickets) UpdateTicket(ctx context.Context, id uint64, p model.TicketPatch) error {
	return m.Called(ctx, id, p).Error(0)
}

func (m *mockTickets) PublicTicket(ctx context.Context, raffleID uint64, number uint32) (*model.Ticket, error) {
	args := m.Called(ctx, raffleID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

type mockDraws struct{ mock.Mock }

func (m *mockDraws) Draw(ctx context.Context, raffleID uint64, onlyPaid bool) (*service.DrawResult, error) {
	args := m.Called(ctx, raffleID, onlyPaid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DrawResult), args.Error(1)
}

func (m *mockDraws) History(ctx context.Context, raffleID uint64) ([]model.Draw, error) {
	args := m.Called(ctx, raffleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Draw), args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

// newCtx builds an echo context for a request with optional JSON body and
// path params given as name, value pairs.
func newCtx(method, target, body string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func ptr[T any](v T) *T { return &v }
