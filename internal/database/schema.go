package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(190) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'ADMIN',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS raffles (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		organizer_name VARCHAR(200) NULL,
		responsible_name VARCHAR(200) NULL,
		ticket_price_cents BIGINT NOT NULL DEFAULT 0,
		draw_date DATE NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'active',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		raffle_id BIGINT UNSIGNED NOT NULL,
		number_int INT UNSIGNED NOT NULL,
		buyer_name VARCHAR(200) NULL,
		buyer_phone VARCHAR(80) NULL,
		paid TINYINT(1) NOT NULL DEFAULT 0,
		reserved TINYINT(1) NOT NULL DEFAULT 0,
		note VARCHAR(255) NULL,
		updated_at TIMESTAMP NULL DEFAULT NULL ON UPDATE CURRENT_TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_raffle_ticket (raffle_id, number_int),
		KEY idx_tickets_paid (raffle_id, paid),
		CONSTRAINT fk_tickets_raffle FOREIGN KEY (raffle_id) REFERENCES raffles(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,

	`CREATE TABLE IF NOT EXISTS draws (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		raffle_id BIGINT UNSIGNED NOT NULL,
		ticket_number INT UNSIGNED NOT NULL,
		buyer_name VARCHAR(200) NULL,
		buyer_phone VARCHAR(80) NULL,
		only_paid TINYINT(1) NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_draws_raffle (raffle_id),
		CONSTRAINT fk_draws_raffle FOREIGN KEY (raffle_id) REFERENCES raffles(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}

// EnsureSchema creates the tables when they are missing. Existing tables
// are left as they are.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
