package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
	ListByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
}

type EvaluationRepository interface {
	Create(ctx context.Context, e *Evaluation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Evaluation, error)
	Update(ctx context.Context, e *Evaluation) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*Evaluation, int, error)
}
