package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/iliyamo/raffle-manager/internal/model"
	"github.com/iliyamo/raffle-manager/internal/money"
	"github.com/iliyamo/raffle-manager/internal/repository"
)

const drawDateLayout = "2006-01-02"

// CreateRaffleInput carries the organizer's form. TicketPrice is a money
// string such as "5,00"; DrawDate is YYYY-MM-DD or empty.
type CreateRaffleInput struct {
	Title           string
	OrganizerName   *string
	ResponsibleName *string
	TicketPrice     string
	DrawDate        string
}

// RaffleService manages raffles and annotates them with ticket stats.
type RaffleService struct {
	Raffles RaffleStore
	Tickets TicketStore
}

// NewRaffleService wires a RaffleService.
func NewRaffleService(raffles RaffleStore, tickets TicketStore) *RaffleService {
	return &RaffleService{Raffles: raffles, Tickets: tickets}
}

// Create validates the input and stores a new active raffle, returning its
// id.
func (s *RaffleService) Create(ctx context.Context, in CreateRaffleInput) (uint64, error) {
	title := strings.TrimSpace(in.Title)
	organizer := trimmedOrNil(in.OrganizerName)
	responsible := trimmedOrNil(in.ResponsibleName)
	cents := money.CentsFromString(in.TicketPrice)
	drawDate := strings.TrimSpace(in.DrawDate)

	err := validation.Errors{
		"title":            validation.Validate(title, validation.Required, validation.RuneLength(1, 200)),
		"organizer_name":   validation.Validate(organizer, validation.RuneLength(0, 200)),
		"responsible_name": validation.Validate(responsible, validation.RuneLength(0, 200)),
		"ticket_price":     validation.Validate(cents, validation.Min(int64(0))),
		"draw_date":        validation.Validate(drawDate, validation.Date(drawDateLayout)),
	}.Filter()
	if err != nil {
		return 0, invalid(err)
	}

	rf := &model.Raffle{
		Title:            title,
		OrganizerName:    organizer,
		ResponsibleName:  responsible,
		TicketPriceCents: cents,
	}
	if drawDate != "" {
		d, _ := time.Parse(drawDateLayout, drawDate)
		rf.DrawDate = &d
	}
	if err := s.Raffles.Create(ctx, rf); err != nil {
		return 0, fmt.Errorf("create raffle: %w", err)
	}
	return rf.ID, nil
}

// List returns every raffle, newest first, with max_number and
// total_tickets filled in.
func (s *RaffleService) List(ctx context.Context) ([]model.RaffleWithStats, error) {
	raffles, err := s.Raffles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list raffles: %w", err)
	}
	stats, err := s.Tickets.StatsAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ticket stats: %w", err)
	}
	out := make([]model.RaffleWithStats, 0, len(raffles))
	for _, rf := range raffles {
		out = append(out, model.RaffleWithStats{Raffle: rf, RaffleStats: stats[rf.ID]})
	}
	return out, nil
}

// GetByID returns one raffle with its stats.
func (s *RaffleService) GetByID(ctx context.Context, id uint64) (*model.RaffleWithStats, error) {
	rf, err := s.raffle(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.Tickets.Stats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ticket stats: %w", err)
	}
	return &model.RaffleWithStats{Raffle: *rf, RaffleStats: stats}, nil
}

// Public returns the raffle as shown on the unauthenticated surface.
func (s *RaffleService) Public(ctx context.Context, id uint64) (*model.Raffle, error) {
	return s.raffle(ctx, id)
}

func (s *RaffleService) raffle(ctx context.Context, id uint64) (*model.Raffle, error) {
	return findRaffle(ctx, s.Raffles, id)
}

// findRaffle loads a raffle and maps a missing row to *NotFoundError.
func findRaffle(ctx context.Context, store RaffleStore, id uint64) (*model.Raffle, error) {
	rf, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRaffleNotFound) {
			return nil, &NotFoundError{Resource: "raffle"}
		}
		return nil, fmt.Errorf("get raffle: %w", err)
	}
	return rf, nil
}

func trimmedOrNil(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
