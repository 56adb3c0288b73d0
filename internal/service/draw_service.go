package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/raffle-manager/internal/model"
	"github.com/iliyamo/raffle-manager/internal/queue"
)

// Picker returns an index in [0, n). Implementations must be uniform.
type Picker func(n int) int

// PickUniform draws from math/rand/v2, whose IntN rejects samples instead
// of reducing modulo n, so every index has probability exactly 1/n.
func PickUniform(n int) int {
	return rand.IntN(n)
}

// DrawResult is the outcome of one draw: the stored record and the size of
// the eligible set it was drawn from.
type DrawResult struct {
	Draw     model.Draw
	Eligible int
}

// DrawService selects raffle winners and keeps the draw log.
type DrawService struct {
	Raffles   RaffleStore
	Tickets   TicketStore
	Draws     DrawStore
	Publisher DrawPublisher // optional
	Pick      Picker
}

// NewDrawService wires a DrawService using PickUniform. publisher may be
// nil.
func NewDrawService(raffles RaffleStore, tickets TicketStore, draws DrawStore, publisher DrawPublisher) *DrawService {
	return &DrawService{Raffles: raffles, Tickets: tickets, Draws: draws, Publisher: publisher, Pick: PickUniform}
}

// Draw picks one winner uniformly among the raffle's eligible tickets (the
// paid ones when onlyPaid is set, all tickets otherwise) and appends a
// draw record holding the winner's buyer data as of now. Re-drawing is
// allowed; every call writes a new record.
//
// Reading the eligible set and writing the record are not one transaction:
// a ticket edited in between keeps the snapshot taken at read time.
func (s *DrawService) Draw(ctx context.Context, raffleID uint64, onlyPaid bool) (*DrawResult, error) {
	rf, err := findRaffle(ctx, s.Raffles, raffleID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.Tickets.Eligible(ctx, raffleID, onlyPaid)
	if err != nil {
		return nil, fmt.Errorf("eligible tickets: %w", err)
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleTickets
	}

	pick := s.Pick
	if pick == nil {
		pick = PickUniform
	}
	winner := eligible[pick(len(eligible))]

	d := model.Draw{
		RaffleID:     raffleID,
		TicketNumber: winner.NumberInt,
		BuyerName:    winner.BuyerName,
		BuyerPhone:   winner.BuyerPhone,
		OnlyPaid:     onlyPaid,
	}
	if err := s.Draws.Create(ctx, &d); err != nil {
		return nil, fmt.Errorf("record draw: %w", err)
	}

	zap.L().Info("draw recorded",
		zap.Uint64("raffle_id", raffleID),
		zap.Uint64("draw_id", d.ID),
		zap.Uint32("ticket_number", d.TicketNumber),
		zap.Bool("only_paid", onlyPaid),
		zap.Int("eligible", len(eligible)),
	)
	s.publish(ctx, rf, d, len(eligible))

	return &DrawResult{Draw: d, Eligible: len(eligible)}, nil
}

// History returns the raffle's draw records, newest first.
func (s *DrawService) History(ctx context.Context, raffleID uint64) ([]model.Draw, error) {
	if _, err := findRaffle(ctx, s.Raffles, raffleID); err != nil {
		return nil, err
	}
	draws, err := s.Draws.ListByRaffle(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("list draws: %w", err)
	}
	return draws, nil
}

// publish sends the audit event. The draw is already stored, so a broker
// failure is only logged.
func (s *DrawService) publish(ctx context.Context, rf *model.Raffle, d model.Draw, eligible int) {
	if s.Publisher == nil {
		return
	}
	ev := queue.DrawRecordedEvent{
		DrawID:       d.ID,
		RaffleID:     rf.ID,
		RaffleTitle:  rf.Title,
		TicketNumber: d.TicketNumber,
		OnlyPaid:     d.OnlyPaid,
		Eligible:     eligible,
		DrawnAt:      d.CreatedAt.UTC().Format(time.RFC3339),
	}
	if d.BuyerName != nil {
		ev.BuyerName = *d.BuyerName
	}
	if d.BuyerPhone != nil {
		ev.BuyerPhone = *d.BuyerPhone
	}
	if err := s.Publisher.PublishDrawRecorded(ctx, ev); err != nil {
		zap.L().Warn("draw audit event not published", zap.Uint64("draw_id", d.ID), zap.Error(err))
	}
}
