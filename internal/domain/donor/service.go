package donor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lifelink/lifelink/internal/domain/blood"
	"github.com/lifelink/lifelink/internal/platform/auth"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterDonor validates the registration, hashes the password, and stores
// the donor. New accounts start active with no holds.
func (s *Service) RegisterDonor(ctx context.Context, d *Donor, password string) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !blood.Valid(d.BloodType) {
		return fmt.Errorf("invalid blood type: %s", d.BloodType)
	}
	if d.DateOfBirth.IsZero() {
		return fmt.Errorf("date_of_birth is required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	d.PasswordHash = hash
	d.HealthStatus = false
	d.AppointmentStatus = false
	d.ActiveStatus = true

	return s.repo.Create(ctx, d)
}

func (s *Service) GetDonor(ctx context.Context, id uuid.UUID) (*Donor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateDonor(ctx context.Context, d *Donor) error {
	if d.BloodType != "" && !blood.Valid(d.BloodType) {
		return fmt.Errorf("invalid blood type: %s", d.BloodType)
	}
	current, err := s.repo.GetByID(ctx, d.ID)
	if err != nil {
		return fmt.Errorf("donor not found: %w", err)
	}
	if d.Name == "" {
		d.Name = current.Name
	}
	if d.Email == "" {
		d.Email = current.Email
	}
	if d.BloodType == "" {
		d.BloodType = current.BloodType
	}
	if d.DateOfBirth.IsZero() {
		d.DateOfBirth = current.DateOfBirth
	}
	d.PasswordHash = current.PasswordHash
	return s.repo.Update(ctx, d)
}

func (s *Service) DeleteDonor(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListDonors(ctx context.Context, limit, offset int) ([]*Donor, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) SearchDonors(ctx context.Context, params map[string]string, limit, offset int) ([]*Donor, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}

// SetActive toggles whether the donor account is enabled.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("donor not found: %w", err)
	}
	return s.repo.SetActive(ctx, id, active)
}

// SetHealthHold marks the donor temporarily ineligible (or clears the hold).
func (s *Service) SetHealthHold(ctx context.Context, id uuid.UUID, onHold bool) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("donor not found: %w", err)
	}
	return s.repo.SetHealthStatus(ctx, id, onHold)
}

// FindCredentials implements auth.CredentialSource for the donor role.
func (s *Service) FindCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	d, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &auth.Credentials{
		ID:           d.ID,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Active:       d.ActiveStatus,
	}, nil
}
