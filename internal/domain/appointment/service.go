package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lifelink/lifelink/internal/domain/donor"
	"github.com/lifelink/lifelink/internal/platform/events"
)

// DonorDirectory is the slice of the donor repository the appointment
// service needs. Booking and completion flip the donor's standing flags.
type DonorDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*donor.Donor, error)
	SetAppointmentStatus(ctx context.Context, id uuid.UUID, held bool) error
	SetHealthStatus(ctx context.Context, id uuid.UUID, held bool) error
}

type Service struct {
	repo   Repository
	evals  EvaluationRepository
	donors DonorDirectory
	bus    *events.Bus
	now    func() time.Time
}

func NewService(repo Repository, evals EvaluationRepository, donors DonorDirectory, bus *events.Bus) *Service {
	return &Service{
		repo:   repo,
		evals:  evals,
		donors: donors,
		bus:    bus,
		now:    time.Now,
	}
}

// SetClock overrides the service clock.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Book creates a scheduled appointment and places an appointment hold on the
// donor so they drop out of emergency matching until it resolves.
func (s *Service) Book(ctx context.Context, a *Appointment) error {
	if a.DonorID == uuid.Nil {
		return fmt.Errorf("donor_id is required")
	}
	if a.HospitalID == uuid.Nil {
		return fmt.Errorf("hospital_id is required")
	}
	if a.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled_at is required")
	}
	if a.ScheduledAt.Before(s.now()) {
		return fmt.Errorf("scheduled_at must be in the future")
	}

	d, err := s.donors.GetByID(ctx, a.DonorID)
	if err != nil {
		return fmt.Errorf("donor not found: %w", err)
	}
	if d.AppointmentStatus {
		return fmt.Errorf("donor already has an open appointment")
	}
	if !d.ActiveStatus {
		return fmt.Errorf("donor account is inactive")
	}

	a.Status = StatusScheduled
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	if err := s.donors.SetAppointmentStatus(ctx, a.DonorID, true); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.Event{Type: events.TypeAppointmentBooked, ResourceID: a.ID})
	return nil
}

// UpdateStatus moves an appointment to a terminal status and releases or
// converts the donor's holds accordingly. A completed donation places a
// health hold on the donor for the recovery period.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(a.Status, status) {
		return nil, fmt.Errorf("cannot move appointment from %s to %s", a.Status, status)
	}

	a.Status = status
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	if err := s.donors.SetAppointmentStatus(ctx, a.DonorID, false); err != nil {
		return nil, err
	}
	switch status {
	case StatusCompleted:
		if err := s.donors.SetHealthStatus(ctx, a.DonorID, true); err != nil {
			return nil, err
		}
	case StatusCancelled:
		s.bus.Publish(ctx, events.Event{Type: events.TypeAppointmentCancelled, ResourceID: a.ID})
	}
	return a, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByDonor(ctx, donorID, limit, offset)
}

func (s *Service) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByHospital(ctx, hospitalID, limit, offset)
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// RecordEvaluation stores a health evaluation. A failed result places a
// health hold on the donor.
func (s *Service) RecordEvaluation(ctx context.Context, e *Evaluation) error {
	if e.DonorID == uuid.Nil {
		return fmt.Errorf("donor_id is required")
	}
	if e.EvaluatorID == uuid.Nil {
		return fmt.Errorf("evaluator_id is required")
	}
	if e.Result != ResultPassed && e.Result != ResultFailed {
		return fmt.Errorf("result must be %s or %s", ResultPassed, ResultFailed)
	}
	if _, err := s.donors.GetByID(ctx, e.DonorID); err != nil {
		return fmt.Errorf("donor not found: %w", err)
	}
	if e.EvaluatedAt.IsZero() {
		e.EvaluatedAt = s.now()
	}

	if err := s.evals.Create(ctx, e); err != nil {
		return err
	}
	if e.Result == ResultFailed {
		if err := s.donors.SetHealthStatus(ctx, e.DonorID, true); err != nil {
			return err
		}
	}
	s.bus.Publish(ctx, events.Event{Type: events.TypeEvaluationCompleted, ResourceID: e.ID})
	return nil
}

func (s *Service) GetEvaluation(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	return s.evals.GetByID(ctx, id)
}

func (s *Service) ListEvaluationsByDonor(ctx context.Context, donorID uuid.UUID, limit, offset int) ([]*Evaluation, int, error) {
	return s.evals.ListByDonor(ctx, donorID, limit, offset)
}
