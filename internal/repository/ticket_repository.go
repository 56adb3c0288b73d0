package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/iliyamo/raffle-manager/internal/model"
)

// GenerateChunkSize is the number of ticket rows sent per INSERT statement
// when generating tickets.
const GenerateChunkSize = 1000

const ticketColumns = `id, raffle_id, number_int, buyer_name, buyer_phone, paid, reserved, note, created_at, updated_at`

// TicketRepo provides persistence for raffle tickets.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo with the given DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

// BulkCreate makes sure tickets 1..maxNumber exist for the raffle. Rows are
// inserted in chunks of GenerateChunkSize; numbers that already exist are
// left untouched through the no-op ON DUPLICATE KEY UPDATE, so the call is
// idempotent and safe to run concurrently for overlapping ranges. Foreign
// key violations are still reported, which INSERT IGNORE would swallow.
func (r *TicketRepo) BulkCreate(ctx context.Context, raffleID uint64, maxNumber uint32) error {
	for start := uint32(1); start <= maxNumber; start += GenerateChunkSize {
		end := min(maxNumber, start+GenerateChunkSize-1)
		q, args := bulkInsertTickets(raffleID, start, end)
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
		if end == maxNumber {
			break
		}
	}
	return nil
}

func bulkInsertTickets(raffleID uint64, start, end uint32) (string, []any) {
	n := int(end - start + 1)
	var b strings.Builder
	b.Grow(64 + n*8)
	b.WriteString(`INSERT INTO tickets (raffle_id, number_int) VALUES `)
	args := make([]any, 0, n*2)
	for num := start; num <= end; num++ {
		if num > start {
			b.WriteByte(',')
		}
		b.WriteString("(?, ?)")
		args = append(args, raffleID, num)
	}
	b.WriteString(` ON DUPLICATE KEY UPDATE number_int = number_int`)
	return b.String(), args
}

// List returns the raffle's tickets matching the filter, ordered by number.
func (r *TicketRepo) List(ctx context.Context, raffleID uint64, f model.TicketFilter) ([]model.Ticket, error) {
	where, args := ticketFilterClause(raffleID, f)
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE ` + where + ` ORDER BY number_int ASC`
	return r.query(ctx, q, args...)
}

// Eligible returns the tickets that may win a draw: every ticket of the
// raffle, or only the paid ones when onlyPaid is set. Reservation state
// plays no part.
func (r *TicketRepo) Eligible(ctx context.Context, raffleID uint64, onlyPaid bool) ([]model.Ticket, error) {
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE raffle_id = ?`
	if onlyPaid {
		q += ` AND paid = 1`
	}
	q += ` ORDER BY number_int ASC`
	return r.query(ctx, q, raffleID)
}

// GetByID retrieves a ticket by its id.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ? LIMIT 1`
	t, err := scanTicket(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetByNumber retrieves a ticket by its number within a raffle.
func (r *TicketRepo) GetByNumber(ctx context.Context, raffleID uint64, number uint32) (*model.Ticket, error) {
	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE raffle_id = ? AND number_int = ? LIMIT 1`
	t, err := scanTicket(r.db.QueryRowContext(ctx, q, raffleID, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return t, nil
}

// Update applies the non-nil fields of the patch; an empty string clears
// the column to NULL. It returns
// ErrTicketNotFound when no row matches; the connection runs with
// clientFoundRows so a patch that changes nothing still counts as a match.
func (r *TicketRepo) Update(ctx context.Context, id uint64, p model.TicketPatch) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if p.BuyerName != nil {
		sets = append(sets, "buyer_name = ?")
		args = append(args, nullIfEmpty(*p.BuyerName))
	}
	if p.BuyerPhone != nil {
		sets = append(sets, "buyer_phone = ?")
		args = append(args, nullIfEmpty(*p.BuyerPhone))
	}
	if p.Paid != nil {
		sets = append(sets, "paid = ?")
		args = append(args, *p.Paid)
	}
	if p.Reserved != nil {
		sets = append(sets, "reserved = ?")
		args = append(args, *p.Reserved)
	}
	if p.Note != nil {
		sets = append(sets, "note = ?")
		args = append(args, nullIfEmpty(*p.Note))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	q := `UPDATE tickets SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// Stats returns the highest ticket number and the ticket count of a raffle.
func (r *TicketRepo) Stats(ctx context.Context, raffleID uint64) (model.RaffleStats, error) {
	const q = `SELECT COALESCE(MAX(number_int), 0), COUNT(*) FROM tickets WHERE raffle_id = ?`
	var s model.RaffleStats
	err := r.db.QueryRowContext(ctx, q, raffleID).Scan(&s.MaxNumber, &s.TotalTickets)
	return s, err
}

// StatsAll returns the stats of every raffle that has tickets, keyed by
// raffle id. Raffles without tickets are absent from the map.
func (r *TicketRepo) StatsAll(ctx context.Context) (map[uint64]model.RaffleStats, error) {
	const q = `SELECT raffle_id, MAX(number_int), COUNT(*) FROM tickets GROUP BY raffle_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uint64]model.RaffleStats)
	for rows.Next() {
		var (
			id uint64
			s  model.RaffleStats
		)
		if err := rows.Scan(&id, &s.MaxNumber, &s.TotalTickets); err != nil {
			return nil, err
		}
		out[id] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TicketRepo) query(ctx context.Context, q string, args ...any) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanTicket(s rowScanner) (*model.Ticket, error) {
	var (
		t         model.Ticket
		name      sql.NullString
		phone     sql.NullString
		note      sql.NullString
		updatedAt sql.NullTime
	)
	if err := s.Scan(&t.ID, &t.RaffleID, &t.NumberInt, &name, &phone, &t.Paid, &t.Reserved, &note, &t.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	t.BuyerName = stringPtr(name)
	t.BuyerPhone = stringPtr(phone)
	t.Note = stringPtr(note)
	if updatedAt.Valid {
		u := updatedAt.Time
		t.UpdatedAt = &u
	}
	return &t, nil
}

// ticketFilterClause builds the WHERE clause for List. The search term
// matches the ticket number (when it reads as an integral number) or a
// substring of the buyer's name or phone. Text matching follows the
// table collation, which ignores case.
func ticketFilterClause(raffleID uint64, f model.TicketFilter) (string, []any) {
	where := []string{"raffle_id = ?"}
	args := []any{raffleID}

	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + escapeLike(q) + "%"
		if n, ok := numericQuery(q); ok {
			where = append(where, "(number_int = ? OR buyer_name LIKE ? OR buyer_phone LIKE ?)")
			args = append(args, n, like, like)
		} else {
			where = append(where, "(buyer_name LIKE ? OR buyer_phone LIKE ?)")
			args = append(args, like, like)
		}
	}
	if v, ok := flagFilter(f.Paid); ok {
		where = append(where, "paid = ?")
		args = append(args, v)
	}
	if v, ok := flagFilter(f.Reserved); ok {
		where = append(where, "reserved = ?")
		args = append(args, v)
	}
	return strings.Join(where, " AND "), args
}

// numericQuery reports the integer a search term stands for. Finite
// non-integral values ("2.5") can never equal a ticket number, so they
// report false just like non-numeric text.
func numericQuery(q string) (int64, bool) {
	f, err := strconv.ParseFloat(q, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int64(f), true
}

func flagFilter(v string) (bool, bool) {
	switch v {
	case "1":
		return true, true
	case "0":
		return false, true
	}
	return false, false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
