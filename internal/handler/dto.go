package handler

import (
	"time"

	"github.com/iliyamo/raffle-manager/internal/model"
	"github.com/iliyamo/raffle-manager/internal/money"
)

const dateLayout = "2006-01-02"

// RaffleDTO is the organizer view of a raffle.
type RaffleDTO struct {
	ID              uint64    `json:"id"`
	Title           string    `json:"title"`
	OrganizerName   *string   `json:"organizer_name"`
	ResponsibleName *string   `json:"responsible_name"`
	TicketPrice     string    `json:"ticket_price"`
	DrawDate        *string   `json:"draw_date"`
	Status          string    `json:"status"`
	MaxNumber       uint32    `json:"max_number"`
	TotalTickets    uint64    `json:"total_tickets"`
	CreatedAt       time.Time `json:"created_at"`
}

// PublicRaffleDTO hides stats and timestamps.
type PublicRaffleDTO struct {
	ID              uint64  `json:"id"`
	Title           string  `json:"title"`
	OrganizerName   *string `json:"organizer_name"`
	ResponsibleName *string `json:"responsible_name"`
	TicketPrice     string  `json:"ticket_price"`
	DrawDate        *string `json:"draw_date"`
	Status          string  `json:"status"`
}

// TicketDTO is the organizer view of a ticket.
type TicketDTO struct {
	ID         uint64     `json:"id"`
	RaffleID   uint64     `json:"raffle_id"`
	Number     uint32     `json:"number"`
	BuyerName  *string    `json:"buyer_name"`
	BuyerPhone *string    `json:"buyer_phone"`
	Paid       bool       `json:"paid"`
	Reserved   bool       `json:"reserved"`
	Note       *string    `json:"note"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

// PublicTicketDTO leaves out the buyer's phone and the organizer note.
type PublicTicketDTO struct {
	Number    uint32  `json:"number"`
	BuyerName *string `json:"buyer_name"`
	Paid      bool    `json:"paid"`
	Reserved  bool    `json:"reserved"`
}

// DrawDTO is one entry of the draw log.
type DrawDTO struct {
	ID           uint64    `json:"id"`
	RaffleID     uint64    `json:"raffle_id"`
	TicketNumber uint32    `json:"ticket_number"`
	BuyerName    *string   `json:"buyer_name"`
	BuyerPhone   *string   `json:"buyer_phone"`
	OnlyPaid     bool      `json:"only_paid"`
	CreatedAt    time.Time `json:"created_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toRaffleDTO(rf model.RaffleWithStats) RaffleDTO {
	return RaffleDTO{
		ID:              rf.ID,
		Title:           rf.Title,
		OrganizerName:   rf.OrganizerName,
		ResponsibleName: rf.ResponsibleName,
		TicketPrice:     money.StringFromCents(rf.TicketPriceCents),
		DrawDate:        formatDate(rf.DrawDate),
		Status:          rf.Status,
		MaxNumber:       rf.MaxNumber,
		TotalTickets:    rf.TotalTickets,
		CreatedAt:       rf.CreatedAt,
	}
}

func toPublicRaffleDTO(rf model.Raffle) PublicRaffleDTO {
	return PublicRaffleDTO{
		ID:              rf.ID,
		Title:           rf.Title,
		OrganizerName:   rf.OrganizerName,
		ResponsibleName: rf.ResponsibleName,
		TicketPrice:     money.StringFromCents(rf.TicketPriceCents),
		DrawDate:        formatDate(rf.DrawDate),
		Status:          rf.Status,
	}
}

func toTicketDTO(t model.Ticket) TicketDTO {
	return TicketDTO{
		ID:         t.ID,
		RaffleID:   t.RaffleID,
		Number:     t.NumberInt,
		BuyerName:  t.BuyerName,
		BuyerPhone: t.BuyerPhone,
		Paid:       t.Paid,
		Reserved:   t.Reserved,
		Note:       t.Note,
		UpdatedAt:  t.UpdatedAt,
	}
}

func toDrawDTO(d model.Draw) DrawDTO {
	return DrawDTO{
		ID:           d.ID,
		RaffleID:     d.RaffleID,
		TicketNumber: d.TicketNumber,
		BuyerName:    d.BuyerName,
		BuyerPhone:   d.BuyerPhone,
		OnlyPaid:     d.OnlyPaid,
		CreatedAt:    d.CreatedAt,
	}
}
