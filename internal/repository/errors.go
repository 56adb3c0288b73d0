// Package repository defines the MySQL data access for raffles, tickets,
// draws and organizer accounts, plus the sentinel errors that let higher
// layers tell "missing row" apart from infrastructure failures.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrRaffleNotFound is returned when a raffle lookup yields no rows.
var ErrRaffleNotFound = errors.New("raffle not found")

// ErrTicketNotFound is returned when a ticket lookup or update matches no
// rows.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrEmailExists is returned when creating a user whose email is taken.
var ErrEmailExists = errors.New("email already exists")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
