package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/raffle-manager/internal/export"
	"github.com/iliyamo/raffle-manager/internal/service"
)

// PublicHandler serves the unauthenticated raffle pages. Responses leave
// out stats, phones and notes.
type PublicHandler struct {
	Raffles       RaffleService
	Tickets       TicketService
	PublicBaseURL string
}

func NewPublicHandler(raffles RaffleService, tickets TicketService, publicBaseURL string) *PublicHandler {
	return &PublicHandler{Raffles: raffles, Tickets: tickets, PublicBaseURL: publicBaseURL}
}

// GetRaffle handles GET /v1/public/raffles/:id.
func (h *PublicHandler) GetRaffle(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "get raffle", err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	rf, err := h.Raffles.Public(ctx, id)
	if err != nil {
		return respondError(c, "get raffle", err)
	}
	return c.JSON(http.StatusOK, toPublicRaffleDTO(*rf))
}

// GetTicket handles GET /v1/public/raffles/:id/tickets/:number.
func (h *PublicHandler) GetTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "get ticket", err)
	}
	n, err := strconv.ParseUint(c.Param("number"), 10, 32)
	if err != nil || n == 0 {
		return respondError(c, "get ticket", &service.ValidationError{Field: "number", Message: "must be a positive integer"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	t, err := h.Tickets.PublicTicket(ctx, id, uint32(n))
	if err != nil {
		return respondError(c, "get ticket", err)
	}
	return c.JSON(http.StatusOK, PublicTicketDTO{
		Number:    t.NumberInt,
		BuyerName: t.BuyerName,
		Paid:      t.Paid,
		Reserved:  t.Reserved,
	})
}

// QR handles GET /v1/public/raffles/:id/qr.png. The raffle must exist.
func (h *PublicHandler) QR(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "qr", err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if _, err := h.Raffles.Public(ctx, id); err != nil {
		return respondError(c, "qr", err)
	}
	size := export.DefaultQRSize
	if s, err := strconv.Atoi(c.QueryParam("size")); err == nil && s >= 64 && s <= 1024 {
		size = s
	}
	png, err := export.RaffleQR(export.PublicRaffleURL(baseURL(c, h.PublicBaseURL), id), size)
	if err != nil {
		return respondError(c, "qr", err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
