package model

import "time"

// Raffle statuses. New raffles start active; closing a raffle is an
// administrative action outside this service.
const (
	RaffleStatusActive = "active"
	RaffleStatusClosed = "closed"
)

// Raffle represents a numbered-ticket contest as stored in the `raffles`
// table.
//
// Fields:
//  ID               – primary key identifier.
//  Title            – display title (never empty).
//  OrganizerName    – optional organizer shown on exports.
//  ResponsibleName  – optional person responsible for the raffle.
//  TicketPriceCents – ticket price in cents.
//  DrawDate         – optional calendar date of the draw.
//  Status           – active | closed.
//  CreatedAt        – creation timestamp.
type Raffle struct {
	ID               uint64     // raffles.id
	Title            string     // raffles.title
	OrganizerName    *string    // raffles.organizer_name (nullable)
	ResponsibleName  *string    // raffles.responsible_name (nullable)
	TicketPriceCents int64      // raffles.ticket_price_cents
	DrawDate         *time.Time // raffles.draw_date (nullable DATE)
	Status           string     // raffles.status
	CreatedAt        time.Time  // raffles.created_at
}

// RaffleStats holds values derived from a raffle's tickets.
type RaffleStats struct {
	MaxNumber    uint32 // highest number_int, 0 when no tickets
	TotalTickets uint64 // number of tickets
}

// RaffleWithStats is a raffle annotated with its ticket stats.
type RaffleWithStats struct {
	Raffle
	RaffleStats
}
