package feedback

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo      Repository
	inquiries InquiryRepository
}

func NewService(repo Repository, inquiries InquiryRepository) *Service {
	return &Service{repo: repo, inquiries: inquiries}
}

func (s *Service) SubmitFeedback(ctx context.Context, f *Feedback) error {
	if f.AuthorKind != AuthorDonor && f.AuthorKind != AuthorHospital {
		return fmt.Errorf("author_kind must be %s or %s", AuthorDonor, AuthorHospital)
	}
	if f.AuthorID == uuid.Nil {
		return fmt.Errorf("author_id is required")
	}
	if f.Rating < 1 || f.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	if f.Message == "" {
		return fmt.Errorf("message is required")
	}
	return s.repo.Create(ctx, f)
}

func (s *Service) GetFeedback(ctx context.Context, id uuid.UUID) (*Feedback, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListFeedback(ctx context.Context, limit, offset int) ([]*Feedback, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListFeedbackByAuthor(ctx context.Context, kind string, authorID uuid.UUID, limit, offset int) ([]*Feedback, int, error) {
	return s.repo.ListByAuthor(ctx, kind, authorID, limit, offset)
}

func (s *Service) DeleteFeedback(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) SubmitInquiry(ctx context.Context, q *Inquiry) error {
	if q.Name == "" {
		return fmt.Errorf("name is required")
	}
	if q.Email == "" {
		return fmt.Errorf("email is required")
	}
	if q.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if q.Message == "" {
		return fmt.Errorf("message is required")
	}
	q.Status = InquiryOpen
	q.Response = ""
	return s.inquiries.Create(ctx, q)
}

func (s *Service) GetInquiry(ctx context.Context, id uuid.UUID) (*Inquiry, error) {
	return s.inquiries.GetByID(ctx, id)
}

func (s *Service) ListInquiries(ctx context.Context, status string, limit, offset int) ([]*Inquiry, int, error) {
	if status != "" && status != InquiryOpen && status != InquiryResolved {
		return nil, 0, fmt.Errorf("status must be %s or %s", InquiryOpen, InquiryResolved)
	}
	return s.inquiries.List(ctx, status, limit, offset)
}

// ResolveInquiry records the manager's response and closes the inquiry.
func (s *Service) ResolveInquiry(ctx context.Context, id uuid.UUID, response string) error {
	if response == "" {
		return fmt.Errorf("response is required")
	}
	q, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if q.Status == InquiryResolved {
		return fmt.Errorf("inquiry is already resolved")
	}
	return s.inquiries.Resolve(ctx, id, response)
}

func (s *Service) DeleteInquiry(ctx context.Context, id uuid.UUID) error {
	return s.inquiries.Delete(ctx, id)
}
