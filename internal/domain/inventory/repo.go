package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, inv *BloodInventory) error
	GetByID(ctx context.Context, id uuid.UUID) (*BloodInventory, error)
	Update(ctx context.Context, inv *BloodInventory) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*BloodInventory, int, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*BloodInventory, int, error)

	// FindCandidates returns active hospitals holding unexpired lots of the
	// given blood type with at least units in a single lot, aggregated per
	// hospital.
	FindCandidates(ctx context.Context, bloodType string, units int, now time.Time) ([]*Candidate, error)

	// RefreshFreshness reclassifies every lot's freshness against now and
	// returns the number of rows changed.
	RefreshFreshness(ctx context.Context, now time.Time) (int, error)
}
