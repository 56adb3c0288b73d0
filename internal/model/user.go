package model

import "time"

// RoleAdmin is the only role allowed on the organizer endpoints.
const RoleAdmin = "ADMIN"

// User represents an organizer account from the `users` table. Only the
// bcrypt hash of the password is stored.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}
