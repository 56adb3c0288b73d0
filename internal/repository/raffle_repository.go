package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/raffle-manager/internal/model"
)

const raffleColumns = `id, title, organizer_name, responsible_name, ticket_price_cents, draw_date, status, created_at`

// RaffleRepo provides persistence for raffles. Ticket derived stats live in
// TicketRepo; the two aggregates only share raffle_id.
type RaffleRepo struct {
	db *sql.DB
}

// NewRaffleRepo constructs a RaffleRepo with the given DB handle.
func NewRaffleRepo(db *sql.DB) *RaffleRepo {
	return &RaffleRepo{db: db}
}

// Create inserts a raffle. On success ID, Status and CreatedAt are populated
// from the stored row.
func (r *RaffleRepo) Create(ctx context.Context, rf *model.Raffle) error {
	const q = `INSERT INTO raffles (title, organizer_name, responsible_name, ticket_price_cents, draw_date)
	           VALUES (?, ?, ?, ?, ?)`
	var drawDate any
	if rf.DrawDate != nil {
		drawDate = rf.DrawDate.Format("2006-01-02")
	}
	res, err := r.db.ExecContext(ctx, q, rf.Title, nullString(rf.OrganizerName), nullString(rf.ResponsibleName), rf.TicketPriceCents, drawDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*rf = *stored
	return nil
}

// GetByID retrieves a raffle by id.
func (r *RaffleRepo) GetByID(ctx context.Context, id uint64) (*model.Raffle, error) {
	q := `SELECT ` + raffleColumns + ` FROM raffles WHERE id = ? LIMIT 1`
	rf, err := scanRaffle(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRaffleNotFound
		}
		return nil, err
	}
	return rf, nil
}

// List returns all raffles, newest first.
func (r *RaffleRepo) List(ctx context.Context) ([]model.Raffle, error) {
	q := `SELECT ` + raffleColumns + ` FROM raffles ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Raffle{}
	for rows.Next() {
		rf, err := scanRaffle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rf)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanRaffle(s rowScanner) (*model.Raffle, error) {
	var (
		rf          model.Raffle
		organizer   sql.NullString
		responsible sql.NullString
		drawDate    sql.NullTime
	)
	if err := s.Scan(&rf.ID, &rf.Title, &organizer, &responsible, &rf.TicketPriceCents, &drawDate, &rf.Status, &rf.CreatedAt); err != nil {
		return nil, err
	}
	rf.OrganizerName = stringPtr(organizer)
	rf.ResponsibleName = stringPtr(responsible)
	if drawDate.Valid {
		d := drawDate.Time
		rf.DrawDate = &d
	}
	return &rf, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
