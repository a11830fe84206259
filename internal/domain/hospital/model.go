package hospital

import (
	"time"

	"github.com/google/uuid"
)

// Hospital maps to the hospital table.
type Hospital struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Address      string    `db:"address" json:"address"`
	City         string    `db:"city" json:"city"`
	ActiveStatus bool      `db:"active_status" json:"active_status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Admin maps to the hospital_admin table. Admins belong to one hospital and
// handle evaluations, inventory, and emergency request triage for it.
type Admin struct {
	ID           uuid.UUID `db:"id" json:"id"`
	HospitalID   uuid.UUID `db:"hospital_id" json:"hospital_id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password_hash" json:"-"`
	ActiveStatus bool      `db:"active_status" json:"active_status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
