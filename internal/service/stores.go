package service

import (
	"context"

	"github.com/iliyamo/raffle-manager/internal/model"
	"github.com/iliyamo/raffle-manager/internal/queue"
)

// RaffleStore is the raffle persistence used by the services
// (repository.RaffleRepo in production).
type RaffleStore interface {
	Create(ctx context.Context, rf *model.Raffle) error
	GetByID(ctx context.Context, id uint64) (*model.Raffle, error)
	List(ctx context.Context) ([]model.Raffle, error)
}

// TicketStore is the ticket persistence (repository.TicketRepo).
type TicketStore interface {
	BulkCreate(ctx context.Context, raffleID uint64, maxNumber uint32) error
	List(ctx context.Context, raffleID uint64, f model.TicketFilter) ([]model.Ticket, error)
	Eligible(ctx context.Context, raffleID uint64, onlyPaid bool) ([]model.Ticket, error)
	GetByNumber(ctx context.Context, raffleID uint64, number uint32) (*model.Ticket, error)
	Update(ctx context.Context, id uint64, p model.TicketPatch) error
	Stats(ctx context.Context, raffleID uint64) (model.RaffleStats, error)
	StatsAll(ctx context.Context) (map[uint64]model.RaffleStats, error)
}

// DrawStore is the append-only draw log (repository.DrawRepo).
type DrawStore interface {
	Create(ctx context.Context, d *model.Draw) error
	ListByRaffle(ctx context.Context, raffleID uint64) ([]model.Draw, error)
}

// DrawPublisher receives an audit event after every draw
// (queue.Publisher).
type DrawPublisher interface {
	PublishDrawRecorded(ctx context.Context, event queue.DrawRecordedEvent) error
}
