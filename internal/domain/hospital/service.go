package hospital

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lifelink/lifelink/internal/platform/auth"
)

type Service struct {
	repo   Repository
	admins AdminRepository
}

func NewService(repo Repository, admins AdminRepository) *Service {
	return &Service{repo: repo, admins: admins}
}

// RegisterHospital validates and stores a new hospital account.
func (s *Service) RegisterHospital(ctx context.Context, h *Hospital, password string) error {
	if h.Name == "" {
		return fmt.Errorf("name is required")
	}
	if h.Email == "" {
		return fmt.Errorf("email is required")
	}
	if h.City == "" {
		return fmt.Errorf("city is required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	h.PasswordHash = hash
	h.ActiveStatus = true

	return s.repo.Create(ctx, h)
}

func (s *Service) GetHospital(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateHospital(ctx context.Context, h *Hospital) error {
	current, err := s.repo.GetByID(ctx, h.ID)
	if err != nil {
		return fmt.Errorf("hospital not found: %w", err)
	}
	if h.Name == "" {
		h.Name = current.Name
	}
	if h.Email == "" {
		h.Email = current.Email
	}
	if h.City == "" {
		h.City = current.City
	}
	h.PasswordHash = current.PasswordHash
	return s.repo.Update(ctx, h)
}

func (s *Service) DeleteHospital(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListHospitals(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) SearchHospitals(ctx context.Context, params map[string]string, limit, offset int) ([]*Hospital, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("hospital not found: %w", err)
	}
	return s.repo.SetActive(ctx, id, active)
}

// FindCredentials implements auth.CredentialSource for the hospital role.
func (s *Service) FindCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	h, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &auth.Credentials{
		ID:           h.ID,
		Name:         h.Name,
		PasswordHash: h.PasswordHash,
		Active:       h.ActiveStatus,
	}, nil
}

// -- Hospital admins --

// RegisterAdmin validates and stores a hospital admin account. The owning
// hospital must exist.
func (s *Service) RegisterAdmin(ctx context.Context, a *Admin, password string) error {
	if a.Name == "" {
		return fmt.Errorf("name is required")
	}
	if a.Email == "" {
		return fmt.Errorf("email is required")
	}
	if a.HospitalID == uuid.Nil {
		return fmt.Errorf("hospital_id is required")
	}
	if _, err := s.repo.GetByID(ctx, a.HospitalID); err != nil {
		return fmt.Errorf("hospital not found: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	a.ActiveStatus = true

	return s.admins.Create(ctx, a)
}

func (s *Service) GetAdmin(ctx context.Context, id uuid.UUID) (*Admin, error) {
	return s.admins.GetByID(ctx, id)
}

func (s *Service) UpdateAdmin(ctx context.Context, a *Admin) error {
	current, err := s.admins.GetByID(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("admin not found: %w", err)
	}
	if a.Name == "" {
		a.Name = current.Name
	}
	if a.Email == "" {
		a.Email = current.Email
	}
	a.HospitalID = current.HospitalID
	a.PasswordHash = current.PasswordHash
	return s.admins.Update(ctx, a)
}

func (s *Service) DeleteAdmin(ctx context.Context, id uuid.UUID) error {
	return s.admins.Delete(ctx, id)
}

func (s *Service) ListAdmins(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Admin, int, error) {
	return s.admins.ListByHospital(ctx, hospitalID, limit, offset)
}

func (s *Service) SetAdminActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.admins.GetByID(ctx, id); err != nil {
		return fmt.Errorf("admin not found: %w", err)
	}
	return s.admins.SetActive(ctx, id, active)
}

// AdminCredentials adapts the admin lookup to auth.CredentialSource for the
// hospital_admin role.
type AdminCredentials struct {
	svc *Service
}

func (s *Service) AdminSource() *AdminCredentials {
	return &AdminCredentials{svc: s}
}

func (a *AdminCredentials) FindCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	adm, err := a.svc.admins.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &auth.Credentials{
		ID:           adm.ID,
		Name:         adm.Name,
		PasswordHash: adm.PasswordHash,
		Active:       adm.ActiveStatus,
	}, nil
}
