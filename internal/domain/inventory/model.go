package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Freshness classes for a stored blood lot.
const (
	FreshnessNotExpired = "not_expired"
	FreshnessSoon       = "soon"
	FreshnessExpired    = "expired"
)

// soonWindow is how close to the expiration date a lot is flagged "soon".
const soonWindow = 7 * 24 * time.Hour

// BloodInventory maps to the blood_inventory table. One row per hospital
// per lot.
type BloodInventory struct {
	ID              uuid.UUID `db:"id" json:"id"`
	HospitalID      uuid.UUID `db:"hospital_id" json:"hospital_id"`
	BloodType       string    `db:"blood_type" json:"blood_type"`
	AvailableStocks int       `db:"available_stocks" json:"available_stocks"`
	ExpirationDate  time.Time `db:"expiration_date" json:"expiration_date"`
	Freshness       string    `db:"freshness" json:"freshness"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ComputeFreshness classifies an expiration date relative to now.
func ComputeFreshness(expiration, now time.Time) string {
	switch {
	case !expiration.After(now):
		return FreshnessExpired
	case expiration.Sub(now) <= soonWindow:
		return FreshnessSoon
	default:
		return FreshnessNotExpired
	}
}

// Candidate is a hospital that can cover an emergency request from stock,
// produced by the matching query.
type Candidate struct {
	HospitalID    uuid.UUID `json:"hospital_id"`
	HospitalName  string    `json:"hospital_name"`
	HospitalEmail string    `json:"hospital_email"`
	HospitalPhone string    `json:"hospital_phone"`
	BloodType     string    `json:"blood_type"`
	Stock         int       `json:"stock"`
}
