package model

import "time"

// Ticket is one numbered slot of a raffle (`tickets` table). NumberInt is
// unique within the owning raffle only.
type Ticket struct {
	ID         uint64     // tickets.id
	RaffleID   uint64     // tickets.raffle_id
	NumberInt  uint32     // tickets.number_int
	BuyerName  *string    // tickets.buyer_name (nullable)
	BuyerPhone *string    // tickets.buyer_phone (nullable)
	Paid       bool       // tickets.paid
	Reserved   bool       // tickets.reserved
	Note       *string    // tickets.note (nullable)
	CreatedAt  time.Time  // tickets.created_at
	UpdatedAt  *time.Time // tickets.updated_at (null until first update)
}

// TicketPatch lists the ticket fields an organizer may change. A nil field
// is left untouched.
type TicketPatch struct {
	BuyerName  *string
	BuyerPhone *string
	Paid       *bool
	Reserved   *bool
	Note       *string
}

// IsEmpty reports whether the patch sets no field at all.
func (p TicketPatch) IsEmpty() bool {
	return p.BuyerName == nil && p.BuyerPhone == nil && p.Paid == nil && p.Reserved == nil && p.Note == nil
}

// TicketFilter narrows a raffle's ticket list. Paid and Reserved only apply
// when they are exactly "0" or "1".
type TicketFilter struct {
	Query    string
	Paid     string
	Reserved string
}
