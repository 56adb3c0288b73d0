package service

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/iliyamo/raffle-manager/internal/model"
	"github.com/iliyamo/raffle-manager/internal/repository"
)

// MaxTicketNumber is the largest ticket range a raffle may generate.
const MaxTicketNumber = 100000

// TicketService generates, searches and edits raffle tickets.
type TicketService struct {
	Raffles RaffleStore
	Tickets TicketStore
}

// NewTicketService wires a TicketService.
func NewTicketService(raffles RaffleStore, tickets TicketStore) *TicketService {
	return &TicketService{Raffles: raffles, Tickets: tickets}
}

// GenerateTickets makes sure tickets 1..maxNumber exist for the raffle and
// returns maxNumber. Existing tickets keep their data, so the call may be
// repeated with the same or a different range.
func (s *TicketService) GenerateTickets(ctx context.Context, raffleID uint64, maxNumber int) (int, error) {
	err := validation.Validate(maxNumber, validation.Required, validation.Min(1), validation.Max(MaxTicketNumber))
	if err != nil {
		return 0, &ValidationError{Field: "max_number", Message: err.Error()}
	}
	if _, err := findRaffle(ctx, s.Raffles, raffleID); err != nil {
		return 0, err
	}
	if err := s.Tickets.BulkCreate(ctx, raffleID, uint32(maxNumber)); err != nil {
		return 0, fmt.Errorf("generate tickets: %w", err)
	}
	return maxNumber, nil
}

// ListTickets returns the raffle's tickets matching the filter, ordered by
// number.
func (s *TicketService) ListTickets(ctx context.Context, raffleID uint64, f model.TicketFilter) ([]model.Ticket, error) {
	if _, err := findRaffle(ctx, s.Raffles, raffleID); err != nil {
		return nil, err
	}
	tickets, err := s.Tickets.List(ctx, raffleID, f)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

// UpdateTicket applies a partial update. An empty patch is rejected.
func (s *TicketService) UpdateTicket(ctx context.Context, id uint64, p model.TicketPatch) error {
	if p.IsEmpty() {
		return &ValidationError{Message: "nothing to update"}
	}
	if err := s.Tickets.Update(ctx, id, p); err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return &NotFoundError{Resource: "ticket"}
		}
		return fmt.Errorf("update ticket: %w", err)
	}
	return nil
}

// PublicTicket looks a ticket up by its number for the public surface.
func (s *TicketService) PublicTicket(ctx context.Context, raffleID uint64, number uint32) (*model.Ticket, error) {
	t, err := s.Tickets.GetByNumber(ctx, raffleID, number)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, &NotFoundError{Resource: "ticket number"}
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}
