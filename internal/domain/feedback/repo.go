package feedback

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, f *Feedback) error
	GetByID(ctx context.Context, id uuid.UUID) (*Feedback, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Feedback, int, error)
	ListByAuthor(ctx context.Context, kind string, authorID uuid.UUID, limit, offset int) ([]*Feedback, int, error)
}

type InquiryRepository interface {
	Create(ctx context.Context, q *Inquiry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Inquiry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status string, limit, offset int) ([]*Inquiry, int, error)
	Resolve(ctx context.Context, id uuid.UUID, response string) error
}
