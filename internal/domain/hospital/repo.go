package hospital

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	GetByEmail(ctx context.Context, email string) (*Hospital, error)
	Update(ctx context.Context, h *Hospital) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Hospital, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Hospital, int, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type AdminRepository interface {
	Create(ctx context.Context, a *Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	Update(ctx context.Context, a *Admin) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Admin, int, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
