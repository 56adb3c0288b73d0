// Package queue defines the draw audit messages exchanged over RabbitMQ and
// the publisher/consumer pair that moves them.
package queue

// DrawRecordedQueue is the durable queue carrying draw audit events.
const DrawRecordedQueue = "raffle.draw.recorded"

// DrawRecordedEvent is published after a draw record is written. It carries
// enough data for an audit trail without querying the primary database.
type DrawRecordedEvent struct {
	DrawID       uint64 `json:"draw_id"`
	RaffleID     uint64 `json:"raffle_id"`
	RaffleTitle  string `json:"raffle_title"`
	TicketNumber uint32 `json:"ticket_number"`
	BuyerName    string `json:"buyer_name,omitempty"`
	BuyerPhone   string `json:"buyer_phone,omitempty"`
	OnlyPaid     bool   `json:"only_paid"`
	Eligible     int    `json:"eligible"`
	DrawnAt      string `json:"drawn_at"`
}
