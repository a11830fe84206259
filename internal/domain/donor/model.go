package donor

import (
	"time"

	"github.com/google/uuid"
)

// Donor maps to the donor table.
//
// HealthStatus is true while the donor is temporarily ineligible (recent
// donation or failed evaluation). AppointmentStatus is true while the donor
// has an open donation appointment. Both must be false for the donor to be
// considered by emergency matching.
type Donor struct {
	ID                uuid.UUID `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Email             string    `db:"email" json:"email"`
	Phone             string    `db:"phone" json:"phone"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	BloodType         string    `db:"blood_type" json:"blood_type"`
	Address           string    `db:"address" json:"address"`
	DateOfBirth       time.Time `db:"date_of_birth" json:"date_of_birth"`
	HealthStatus      bool      `db:"health_status" json:"health_status"`
	AppointmentStatus bool      `db:"appointment_status" json:"appointment_status"`
	ActiveStatus      bool      `db:"active_status" json:"active_status"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Eligible reports whether the donor can be matched to an emergency request.
func (d *Donor) Eligible() bool {
	return d.ActiveStatus && !d.HealthStatus && !d.AppointmentStatus
}
