package manager

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *SystemManager) error
	GetByID(ctx context.Context, id uuid.UUID) (*SystemManager, error)
	GetByEmail(ctx context.Context, email string) (*SystemManager, error)
	Update(ctx context.Context, m *SystemManager) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*SystemManager, int, error)
	Count(ctx context.Context) (int, error)
}
