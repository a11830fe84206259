package feedback

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	items map[uuid.UUID]*Feedback
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Feedback)}
}

func (m *mockRepo) Create(_ context.Context, f *Feedback) error {
	f.ID = uuid.New()
	cp := *f
	m.items[f.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Feedback, error) {
	f, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	cp := *f
	return &cp, nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Feedback, int, error) {
	var out []*Feedback
	for _, f := range m.items {
		cp := *f
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockRepo) ListByAuthor(_ context.Context, kind string, authorID uuid.UUID, limit, offset int) ([]*Feedback, int, error) {
	var out []*Feedback
	for _, f := range m.items {
		if f.AuthorKind == kind && f.AuthorID == authorID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

type mockInquiryRepo struct {
	items map[uuid.UUID]*Inquiry
}

func newMockInquiryRepo() *mockInquiryRepo {
	return &mockInquiryRepo{items: make(map[uuid.UUID]*Inquiry)}
}

func (m *mockInquiryRepo) Create(_ context.Context, q *Inquiry) error {
	q.ID = uuid.New()
	cp := *q
	m.items[q.ID] = &cp
	return nil
}

func (m *mockInquiryRepo) GetByID(_ context.Context, id uuid.UUID) (*Inquiry, error) {
	q, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	cp := *q
	return &cp, nil
}

func (m *mockInquiryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *mockInquiryRepo) List(_ context.Context, status string, limit, offset int) ([]*Inquiry, int, error) {
	var out []*Inquiry
	for _, q := range m.items {
		if status != "" && q.Status != status {
			continue
		}
		cp := *q
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockInquiryRepo) Resolve(_ context.Context, id uuid.UUID, response string) error {
	q, ok := m.items[id]
	if !ok {
		return fmt.Errorf("no rows")
	}
	q.Status = InquiryResolved
	q.Response = response
	return nil
}

func newTestService() (*Service, *mockRepo, *mockInquiryRepo) {
	repo := newMockRepo()
	inquiries := newMockInquiryRepo()
	return NewService(repo, inquiries), repo, inquiries
}

func TestSubmitFeedback(t *testing.T) {
	svc, repo, _ := newTestService()

	f := &Feedback{AuthorKind: AuthorDonor, AuthorID: uuid.New(), Rating: 4, Message: "smooth booking"}
	if err := svc.SubmitFeedback(context.Background(), f); err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	if _, ok := repo.items[f.ID]; !ok {
		t.Error("feedback not stored")
	}
}

func TestSubmitFeedbackValidation(t *testing.T) {
	svc, _, _ := newTestService()

	tests := []struct {
		name string
		f    Feedback
	}{
		{"bad author kind", Feedback{AuthorKind: "manager", AuthorID: uuid.New(), Rating: 3, Message: "x"}},
		{"missing author id", Feedback{AuthorKind: AuthorDonor, Rating: 3, Message: "x"}},
		{"rating too low", Feedback{AuthorKind: AuthorDonor, AuthorID: uuid.New(), Rating: 0, Message: "x"}},
		{"rating too high", Feedback{AuthorKind: AuthorHospital, AuthorID: uuid.New(), Rating: 6, Message: "x"}},
		{"missing message", Feedback{AuthorKind: AuthorDonor, AuthorID: uuid.New(), Rating: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.f
			if err := svc.SubmitFeedback(context.Background(), &f); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSubmitInquiryDefaultsToOpen(t *testing.T) {
	svc, _, inquiries := newTestService()

	q := &Inquiry{Name: "Tharindu", Email: "t@example.com", Subject: "donation age limit", Message: "Can I donate at 17?", Status: InquiryResolved}
	if err := svc.SubmitInquiry(context.Background(), q); err != nil {
		t.Fatalf("SubmitInquiry: %v", err)
	}
	if inquiries.items[q.ID].Status != InquiryOpen {
		t.Error("new inquiry must start open")
	}
}

func TestResolveInquiry(t *testing.T) {
	svc, _, inquiries := newTestService()

	q := &Inquiry{Name: "Tharindu", Email: "t@example.com", Subject: "age limit", Message: "Can I donate at 17?"}
	if err := svc.SubmitInquiry(context.Background(), q); err != nil {
		t.Fatal(err)
	}

	if err := svc.ResolveInquiry(context.Background(), q.ID, ""); err == nil {
		t.Error("expected error for empty response")
	}
	if err := svc.ResolveInquiry(context.Background(), q.ID, "Donors must be 18 or older."); err != nil {
		t.Fatalf("ResolveInquiry: %v", err)
	}

	stored := inquiries.items[q.ID]
	if stored.Status != InquiryResolved {
		t.Errorf("status = %q, want resolved", stored.Status)
	}
	if stored.Response == "" {
		t.Error("response not recorded")
	}

	if err := svc.ResolveInquiry(context.Background(), q.ID, "again"); err == nil {
		t.Error("expected error resolving twice")
	}
}

func TestListInquiriesByStatus(t *testing.T) {
	svc, _, _ := newTestService()

	open := &Inquiry{Name: "A", Email: "a@example.com", Subject: "s", Message: "m"}
	resolved := &Inquiry{Name: "B", Email: "b@example.com", Subject: "s", Message: "m"}
	for _, q := range []*Inquiry{open, resolved} {
		if err := svc.SubmitInquiry(context.Background(), q); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.ResolveInquiry(context.Background(), resolved.ID, "done"); err != nil {
		t.Fatal(err)
	}

	items, total, err := svc.ListInquiries(context.Background(), InquiryOpen, 20, 0)
	if err != nil {
		t.Fatalf("ListInquiries: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != open.ID {
		t.Error("expected only the open inquiry")
	}

	if _, _, err := svc.ListInquiries(context.Background(), "pending", 20, 0); err == nil {
		t.Error("expected error for unknown status")
	}
}
