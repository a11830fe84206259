package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lifelink/lifelink/internal/domain/blood"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SetClock overrides the service clock for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) CreateLot(ctx context.Context, inv *BloodInventory) error {
	if inv.HospitalID == uuid.Nil {
		return fmt.Errorf("hospital_id is required")
	}
	if !blood.Valid(inv.BloodType) {
		return fmt.Errorf("invalid blood type: %s", inv.BloodType)
	}
	if inv.AvailableStocks < 0 {
		return fmt.Errorf("available_stocks must not be negative")
	}
	if inv.ExpirationDate.IsZero() {
		return fmt.Errorf("expiration_date is required")
	}
	inv.Freshness = ComputeFreshness(inv.ExpirationDate, s.now())
	return s.repo.Create(ctx, inv)
}

func (s *Service) GetLot(ctx context.Context, id uuid.UUID) (*BloodInventory, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateLot(ctx context.Context, inv *BloodInventory) error {
	current, err := s.repo.GetByID(ctx, inv.ID)
	if err != nil {
		return fmt.Errorf("inventory lot not found: %w", err)
	}
	if inv.BloodType == "" {
		inv.BloodType = current.BloodType
	}
	if !blood.Valid(inv.BloodType) {
		return fmt.Errorf("invalid blood type: %s", inv.BloodType)
	}
	if inv.AvailableStocks < 0 {
		return fmt.Errorf("available_stocks must not be negative")
	}
	if inv.ExpirationDate.IsZero() {
		inv.ExpirationDate = current.ExpirationDate
	}
	inv.HospitalID = current.HospitalID
	inv.Freshness = ComputeFreshness(inv.ExpirationDate, s.now())
	return s.repo.Update(ctx, inv)
}

func (s *Service) DeleteLot(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListLots(ctx context.Context, limit, offset int) ([]*BloodInventory, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*BloodInventory, int, error) {
	return s.repo.ListByHospital(ctx, hospitalID, limit, offset)
}

// FindCandidates returns hospitals able to supply units of the blood type.
func (s *Service) FindCandidates(ctx context.Context, bloodType string, units int) ([]*Candidate, error) {
	if !blood.Valid(bloodType) {
		return nil, fmt.Errorf("invalid blood type: %s", bloodType)
	}
	if units < 1 {
		return nil, fmt.Errorf("units must be at least 1")
	}
	return s.repo.FindCandidates(ctx, bloodType, units, s.now())
}

// RefreshFreshness reclassifies stored lots against the current clock.
func (s *Service) RefreshFreshness(ctx context.Context) (int, error) {
	return s.repo.RefreshFreshness(ctx, s.now())
}
