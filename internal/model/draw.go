package model

import "time"

// Draw is an immutable entry of the `draws` log. Buyer fields are a
// snapshot of the winning ticket at draw time.
type Draw struct {
	ID           uint64    // draws.id
	RaffleID     uint64    // draws.raffle_id
	TicketNumber uint32    // draws.ticket_number
	BuyerName    *string   // draws.buyer_name (nullable)
	BuyerPhone   *string   // draws.buyer_phone (nullable)
	OnlyPaid     bool      // draws.only_paid
	CreatedAt    time.Time // draws.created_at
}
