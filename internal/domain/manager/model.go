package manager

import (
	"time"

	"github.com/google/uuid"
)

// SystemManager maps to the system_manager table. Managers review emergency
// requests, resolve inquiries, and administer accounts.
type SystemManager struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password_hash" json:"-"`
	ActiveStatus bool      `db:"active_status" json:"active_status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
