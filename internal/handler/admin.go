package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/raffle-manager/internal/export"
	"github.com/iliyamo/raffle-manager/internal/model"
	"github.com/iliyamo/raffle-manager/internal/service"
)

// RaffleService is the raffle surface used by handlers (*service.RaffleService).
type RaffleService interface {
	Create(ctx context.Context, in service.CreateRaffleInput) (uint64, error)
	List(ctx context.Context) ([]model.RaffleWithStats, error)
	GetByID(ctx context.Context, id uint64) (*model.RaffleWithStats, error)
	Public(ctx context.Context, id uint64) (*model.Raffle, error)
}

// TicketService is the ticket surface used by handlers (*service.TicketService).
type TicketService interface {
	GenerateTickets(ctx context.Context, raffleID uint64, maxNumber int) (int, error)
	ListTickets(ctx context.Context, raffleID uint64, f model.TicketFilter) ([]model.Ticket, error)
	UpdateTicket(ctx context.Context, id uint64, p model.TicketPatch) error
	PublicTicket(ctx context.Context, raffleID uint64, number uint32) (*model.Ticket, error)
}

// DrawService is the draw surface used by handlers (*service.DrawService).
type DrawService interface {
	Draw(ctx context.Context, raffleID uint64, onlyPaid bool) (*service.DrawResult, error)
	History(ctx context.Context, raffleID uint64) ([]model.Draw, error)
}

// AdminHandler serves the organizer endpoints. Every route is behind
// JWTAuth and RequireRole(ADMIN).
type AdminHandler struct {
	Raffles RaffleService
	Tickets TicketService
	Draws   DrawService

	PublicBaseURL string
	PDFFontPath   string

	// GenerateTimeout replaces the per-request store timeout for ticket
	// generation. Zero means DefaultGenerateTimeout.
	GenerateTimeout time.Duration
}

// NewAdminHandler panics if a service is missing.
func NewAdminHandler(raffles RaffleService, tickets TicketService, draws DrawService, publicBaseURL, pdfFontPath string) *AdminHandler {
	if raffles == nil || tickets == nil || draws == nil {
		panic("nil service passed to NewAdminHandler")
	}
	return &AdminHandler{
		Raffles:       raffles,
		Tickets:       tickets,
		Draws:         draws,
		PublicBaseURL: publicBaseURL,
		PDFFontPath:   pdfFontPath,
	}
}

type createRaffleReq struct {
	Title           string     `json:"title"`
	OrganizerName   *string    `json:"organizer_name"`
	ResponsibleName *string    `json:"responsible_name"`
	TicketPrice     moneyInput `json:"ticket_price"`
	DrawDate        *string    `json:"draw_date"`
}

// CreateRaffle handles POST /v1/raffles.
func (h *AdminHandler) CreateRaffle(c echo.Context) error {
	var req createRaffleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in := service.CreateRaffleInput{
		Title:           req.Title,
		OrganizerName:   req.OrganizerName,
		ResponsibleName: req.ResponsibleName,
		TicketPrice:     string(req.TicketPrice),
	}
	if req.DrawDate != nil {
		in.DrawDate = *req.DrawDate
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	id, err := h.Raffles.Create(ctx, in)
	if err != nil {
		return respondError(c, "create raffle", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// ListRaffles handles GET /v1/raffles.
func (h *AdminHandler) ListRaffles(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	raffles, err := h.Raffles.List(ctx)
	if err != nil {
		return respondError(c, "list raffles", err)
	}
	out := make([]RaffleDTO, 0, len(raffles))
	for _, rf := range raffles {
		out = append(out, toRaffleDTO(rf))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetRaffle handles GET /v1/raffles/:id.
func (h *AdminHandler) GetRaffle(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "get raffle", err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	rf, err := h.Raffles.GetByID(ctx, id)
	if err != nil {
		return respondError(c, "get raffle", err)
	}
	return c.JSON(http.StatusOK, toRaffleDTO(*rf))
}

type generateReq struct {
	MaxNumber json.RawMessage `json:"max_number"`
}

// GenerateTickets handles POST /v1/raffles/:id/generate-tickets.
func (h *AdminHandler) GenerateTickets(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "generate tickets", err)
	}
	var req generateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	maxNumber, err := intField("max_number", req.MaxNumber)
	if err != nil {
		return respondError(c, "generate tickets", err)
	}

	timeout := h.GenerateTimeout
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()
	n, err := h.Tickets.GenerateTickets(ctx, id, maxNumber)
	if err != nil {
		return respondError(c, "generate tickets", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "generated": n})
}

// ListTickets handles GET /v1/raffles/:id/tickets?q=&paid=&reserved=.
func (h *AdminHandler) ListTickets(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "list tickets", err)
	}
	f := model.TicketFilter{
		Query:    c.QueryParam("q"),
		Paid:     c.QueryParam("paid"),
		Reserved: c.QueryParam("reserved"),
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	tickets, err := h.Tickets.ListTickets(ctx, id, f)
	if err != nil {
		return respondError(c, "list tickets", err)
	}
	out := make([]TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketDTO(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

type updateTicketReq struct {
	BuyerName  optString `json:"buyer_name"`
	BuyerPhone optString `json:"buyer_phone"`
	Paid       optBool   `json:"paid"`
	Reserved   optBool   `json:"reserved"`
	Note       optString `json:"note"`
}

// UpdateTicket handles PATCH /v1/tickets/:id. Only fields present in the
// body change.
func (h *AdminHandler) UpdateTicket(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "update ticket", err)
	}
	var req updateTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	patch := model.TicketPatch{
		BuyerName:  req.BuyerName.Ptr(),
		BuyerPhone: req.BuyerPhone.Ptr(),
		Paid:       req.Paid.Ptr(),
		Reserved:   req.Reserved.Ptr(),
		Note:       req.Note.Ptr(),
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Tickets.UpdateTicket(ctx, id, patch); err != nil {
		return respondError(c, "update ticket", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

type drawReq struct {
	OnlyPaid optBool `json:"only_paid"`
}

// Draw handles POST /v1/raffles/:id/draw. only_paid defaults to true and
// an empty body is accepted.
func (h *AdminHandler) Draw(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "draw", err)
	}
	var req drawReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	onlyPaid := true
	if req.OnlyPaid.Set {
		onlyPaid = req.OnlyPaid.Value
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	res, err := h.Draws.Draw(ctx, id, onlyPaid)
	if err != nil {
		return respondError(c, "draw", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"winner": echo.Map{
			"number":      res.Draw.TicketNumber,
			"buyer_name":  res.Draw.BuyerName,
			"buyer_phone": res.Draw.BuyerPhone,
		},
		"draw":     toDrawDTO(res.Draw),
		"eligible": res.Eligible,
	})
}

// ListDraws handles GET /v1/raffles/:id/draws.
func (h *AdminHandler) ListDraws(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "list draws", err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	draws, err := h.Draws.History(ctx, id)
	if err != nil {
		return respondError(c, "list draws", err)
	}
	out := make([]DrawDTO, 0, len(draws))
	for _, d := range draws {
		out = append(out, toDrawDTO(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ExportCSV handles GET /v1/raffles/:id/export.csv.
func (h *AdminHandler) ExportCSV(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "export csv", err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	tickets, err := h.Tickets.ListTickets(ctx, id, model.TicketFilter{})
	if err != nil {
		return respondError(c, "export csv", err)
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, tickets); err != nil {
		return respondError(c, "export csv", err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="rifa_%d.csv"`, id))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportPDF handles GET /v1/raffles/:id/export.pdf.
func (h *AdminHandler) ExportPDF(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, "export pdf", err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	rf, err := h.Raffles.GetByID(ctx, id)
	if err != nil {
		return respondError(c, "export pdf", err)
	}
	tickets, err := h.Tickets.ListTickets(ctx, id, model.TicketFilter{})
	if err != nil {
		return respondError(c, "export pdf", err)
	}
	opts := export.PDFOptions{FontPath: h.PDFFontPath}
	if h.PublicBaseURL != "" {
		opts.PublicURL = export.PublicRaffleURL(h.PublicBaseURL, id)
	}
	doc, err := export.RafflePDF(*rf, tickets, opts)
	if err != nil {
		return respondError(c, "export pdf", err)
	}
	zap.L().Info("raffle exported",
		zap.Uint64("raffle_id", id),
		zap.Int("tickets", len(tickets)),
		zap.Int("bytes", len(doc)),
	)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="rifa_%d.pdf"`, id))
	return c.Blob(http.StatusOK, "application/pdf", doc)
}

// baseURL prefers the configured public URL and falls back to the
// request's own scheme and host.
func baseURL(c echo.Context, configured string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	return c.Scheme() + "://" + c.Request().Host
}
