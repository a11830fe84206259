package manager

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lifelink/lifelink/internal/platform/auth"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterManager creates a manager account with a hashed password.
func (s *Service) RegisterManager(ctx context.Context, m *SystemManager, password string) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Email == "" {
		return fmt.Errorf("email is required")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	m.Email = strings.ToLower(m.Email)

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	m.PasswordHash = hash
	m.ActiveStatus = true
	return s.repo.Create(ctx, m)
}

// Bootstrap creates the initial manager account when the table is empty.
// Called at startup; a populated table makes it a no-op.
func (s *Service) Bootstrap(ctx context.Context, name, email, password string) (*SystemManager, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, nil
	}
	m := &SystemManager{Name: name, Email: email}
	if err := s.RegisterManager(ctx, m, password); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) GetManager(ctx context.Context, id uuid.UUID) (*SystemManager, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListManagers(ctx context.Context, limit, offset int) ([]*SystemManager, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) UpdateManager(ctx context.Context, m *SystemManager) error {
	current, err := s.repo.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	if m.Name == "" {
		m.Name = current.Name
	}
	if m.Email == "" {
		m.Email = current.Email
	}
	if m.Phone == "" {
		m.Phone = current.Phone
	}
	m.Email = strings.ToLower(m.Email)
	return s.repo.Update(ctx, m)
}

func (s *Service) DeleteManager(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// FindCredentials implements auth.CredentialSource for the manager role.
func (s *Service) FindCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	m, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	return &auth.Credentials{
		ID:           m.ID,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Active:       m.ActiveStatus,
	}, nil
}
