package feedback

import (
	"time"

	"github.com/google/uuid"
)

// Author kinds for feedback entries.
const (
	AuthorDonor    = "donor"
	AuthorHospital = "hospital"
)

// Feedback maps to the feedback table: a rating and message left by a donor
// or hospital about the platform.
type Feedback struct {
	ID         uuid.UUID `db:"id" json:"id"`
	AuthorKind string    `db:"author_kind" json:"author_kind"`
	AuthorID   uuid.UUID `db:"author_id" json:"author_id"`
	Rating     int       `db:"rating" json:"rating"`
	Message    string    `db:"message" json:"message"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Inquiry statuses.
const (
	InquiryOpen     = "open"
	InquiryResolved = "resolved"
)

// Inquiry maps to the inquiry table: a contact-form message from anyone,
// answered by a manager.
type Inquiry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Subject   string    `db:"subject" json:"subject"`
	Message   string    `db:"message" json:"message"`
	Status    string    `db:"status" json:"status"`
	Response  string    `db:"response" json:"response,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
