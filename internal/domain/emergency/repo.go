package emergency

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *EmergencyRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*EmergencyRequest, error)
	Update(ctx context.Context, r *EmergencyRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*EmergencyRequest, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*EmergencyRequest, int, error)

	// ListMatchable returns pending, active requests whose deadline is on
	// or after today's date.
	ListMatchable(ctx context.Context, now time.Time) ([]*EmergencyRequest, error)

	// ExpireOverdue declines and deactivates every request whose deadline
	// is before today's date. It returns the number of rows touched.
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)

	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetAccepted(ctx context.Context, id uuid.UUID, by AcceptedBy) error
	SetDeclined(ctx context.Context, id uuid.UUID, reason string) error
	SetProofDocument(ctx context.Context, id uuid.UUID, blobID string) error
}
