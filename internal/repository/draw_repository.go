package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/raffle-manager/internal/model"
)

// DrawRepo appends to and reads the draw log. Draw rows are never updated.
type DrawRepo struct {
	db *sql.DB
}

// NewDrawRepo constructs a DrawRepo with the given DB handle.
func NewDrawRepo(db *sql.DB) *DrawRepo {
	return &DrawRepo{db: db}
}

// Create appends a draw record and populates its ID and CreatedAt.
func (r *DrawRepo) Create(ctx context.Context, d *model.Draw) error {
	const q = `INSERT INTO draws (raffle_id, ticket_number, buyer_name, buyer_phone, only_paid)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, d.RaffleID, d.TicketNumber, nullString(d.BuyerName), nullString(d.BuyerPhone), d.OnlyPaid)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	// created_at is filled by the database default
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM draws WHERE id = ?`, d.ID).Scan(&d.CreatedAt)
}

// ListByRaffle returns the raffle's draw history, newest first.
func (r *DrawRepo) ListByRaffle(ctx context.Context, raffleID uint64) ([]model.Draw, error) {
	const q = `SELECT id, raffle_id, ticket_number, buyer_name, buyer_phone, only_paid, created_at
	           FROM draws
	           WHERE raffle_id = ?
	           ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, raffleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Draw{}
	for rows.Next() {
		var (
			d     model.Draw
			name  sql.NullString
			phone sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.RaffleID, &d.TicketNumber, &name, &phone, &d.OnlyPaid, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.BuyerName = stringPtr(name)
		d.BuyerPhone = stringPtr(phone)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
