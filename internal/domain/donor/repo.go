package donor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Donor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Donor, error)
	GetByEmail(ctx context.Context, email string) (*Donor, error)
	Update(ctx context.Context, d *Donor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Donor, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Donor, int, error)

	// ListEligibleByBloodType returns active donors of the given blood type
	// with no health hold and no open appointment.
	ListEligibleByBloodType(ctx context.Context, bloodType string) ([]*Donor, error)

	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetHealthStatus(ctx context.Context, id uuid.UUID, onHold bool) error
	SetAppointmentStatus(ctx context.Context, id uuid.UUID, booked bool) error
}
