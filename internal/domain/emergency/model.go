package emergency

import (
	"time"

	"github.com/google/uuid"
)

// Active statuses. A request is created inactive and activated by a manager
// after the requester's identity proof is reviewed.
const (
	ActiveStatusActive   = "active"
	ActiveStatusInactive = "inactive"
)

// Accept statuses.
const (
	AcceptStatusPending  = "pending"
	AcceptStatusAccepted = "accepted"
	AcceptStatusDeclined = "declined"
)

// Criticality levels.
const (
	CriticalityLow    = "Low"
	CriticalityMedium = "Medium"
	CriticalityHigh   = "High"
)

// Acceptor kinds for the accepted_by reference.
const (
	AcceptorHospital = "hospital"
	AcceptorDonor    = "donor"
)

// AcceptedBy records who took responsibility for a request: a hospital
// supplying from stock or an individual donor.
type AcceptedBy struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

// EmergencyRequest maps to the emergency_request table. NeededBy carries
// calendar-date semantics: the time of day is ignored everywhere.
type EmergencyRequest struct {
	ID               uuid.UUID   `db:"id" json:"id"`
	RequesterName    string      `db:"requester_name" json:"requester_name"`
	RequesterPhone   string      `db:"requester_phone" json:"requester_phone"`
	ProofIdentityRef string      `db:"proof_identity_ref" json:"proof_identity_ref"`
	ProofDocumentID  *string     `db:"proof_document_id" json:"proof_document_id,omitempty"`
	BloodType        string      `db:"blood_type" json:"blood_type"`
	Units            int         `db:"units" json:"units"`
	Criticality      string      `db:"criticality" json:"criticality"`
	NeededBy         time.Time   `db:"needed_by" json:"needed_by"`
	HospitalName     string      `db:"hospital_name" json:"hospital_name"`
	HospitalAddress  string      `db:"hospital_address" json:"hospital_address"`
	ActiveStatus     string      `db:"active_status" json:"active_status"`
	AcceptStatus     string      `db:"accept_status" json:"accept_status"`
	DeclineReason    string      `db:"decline_reason" json:"decline_reason,omitempty"`
	AcceptedBy       *AcceptedBy `db:"-" json:"accepted_by,omitempty"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

// dateOf truncates a timestamp to its calendar date in UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Expired reports whether the request's deadline has passed, comparing
// calendar dates only. A request needed today is not expired.
func (r *EmergencyRequest) Expired(now time.Time) bool {
	return dateOf(r.NeededBy).Before(dateOf(now))
}

// Matchable reports whether the request should be considered by the
// matching engine.
func (r *EmergencyRequest) Matchable(now time.Time) bool {
	return r.AcceptStatus == AcceptStatusPending &&
		r.ActiveStatus == ActiveStatusActive &&
		!r.Expired(now)
}

// ValidCriticality reports whether s is a known criticality level.
func ValidCriticality(s string) bool {
	return s == CriticalityLow || s == CriticalityMedium || s == CriticalityHigh
}
