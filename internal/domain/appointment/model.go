package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// Appointment maps to the blood_donation_appointment table.
type Appointment struct {
	ID          uuid.UUID `db:"id" json:"id"`
	DonorID     uuid.UUID `db:"donor_id" json:"donor_id"`
	HospitalID  uuid.UUID `db:"hospital_id" json:"hospital_id"`
	ScheduledAt time.Time `db:"scheduled_at" json:"scheduled_at"`
	Status      string    `db:"status" json:"status"`
	Note        string    `db:"note" json:"note"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Evaluation results.
const (
	ResultPassed = "passed"
	ResultFailed = "failed"
)

// Evaluation maps to the health_evaluation table. An evaluation is recorded
// by a hospital admin, usually against an appointment.
type Evaluation struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	DonorID       uuid.UUID  `db:"donor_id" json:"donor_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	EvaluatorID   uuid.UUID  `db:"evaluator_id" json:"evaluator_id"`
	Hemoglobin    float64    `db:"hemoglobin" json:"hemoglobin"`
	BloodPressure string     `db:"blood_pressure" json:"blood_pressure"`
	WeightKG      float64    `db:"weight_kg" json:"weight_kg"`
	Pulse         int        `db:"pulse" json:"pulse"`
	Result        string     `db:"result" json:"result"`
	Remarks       string     `db:"remarks" json:"remarks"`
	EvaluatedAt   time.Time  `db:"evaluated_at" json:"evaluated_at"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// validTransitions maps an appointment status to its allowed successors.
var validTransitions = map[string][]string{
	StatusScheduled: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// CanTransition reports whether an appointment may move from one status to
// another. Completed, cancelled, and no_show are terminal.
func CanTransition(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
