package emergency

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lifelink/lifelink/internal/domain/donor"
	"github.com/lifelink/lifelink/internal/domain/inventory"
	"github.com/lifelink/lifelink/internal/platform/notification"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

type mockDonorDir struct {
	donors []*donor.Donor
}

func (m *mockDonorDir) ListEligibleByBloodType(_ context.Context, bloodType string) ([]*donor.Donor, error) {
	var out []*donor.Donor
	for _, d := range m.donors {
		if d.BloodType == bloodType && d.Eligible() {
			out = append(out, d)
		}
	}
	return out, nil
}

type mockStockFinder struct {
	lots []*inventory.BloodInventory
	meta map[uuid.UUID]*inventory.Candidate
}

func (m *mockStockFinder) FindCandidates(_ context.Context, bloodType string, units int, now time.Time) ([]*inventory.Candidate, error) {
	byHospital := make(map[uuid.UUID]*inventory.Candidate)
	for _, lot := range m.lots {
		if lot.BloodType != bloodType || lot.AvailableStocks < units {
			continue
		}
		if !lot.ExpirationDate.After(now) {
			continue
		}
		c, ok := byHospital[lot.HospitalID]
		if !ok {
			c = &inventory.Candidate{HospitalID: lot.HospitalID, BloodType: bloodType}
			if meta, ok := m.meta[lot.HospitalID]; ok {
				c.HospitalName = meta.HospitalName
				c.HospitalEmail = meta.HospitalEmail
				c.HospitalPhone = meta.HospitalPhone
			}
			byHospital[lot.HospitalID] = c
		}
		c.Stock += lot.AvailableStocks
	}
	var out []*inventory.Candidate
	for _, c := range byHospital {
		out = append(out, c)
	}
	return out, nil
}

type mockNotifier struct {
	mu      sync.Mutex
	sent    []notification.Message
	failFor map[uuid.UUID]bool
}

func (m *mockNotifier) Send(_ context.Context, msg notification.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[msg.RecipientID] {
		return fmt.Errorf("delivery refused")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockNotifier) sentTo(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.sent {
		if msg.RecipientID == id {
			n++
		}
	}
	return n
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func newTestMatcher(donors *mockDonorDir, stocks *mockStockFinder, notifier *mockNotifier) *Matcher {
	m := NewMatcher(donors, stocks, notifier, notification.NewTemplateEngine(), zerolog.Nop())
	m.SetClock(func() time.Time { return testNow })
	return m
}

func pendingRequest(bloodType string, units int) *EmergencyRequest {
	return &EmergencyRequest{
		ID:             uuid.New(),
		RequesterName:  "Ravi Kumar",
		RequesterPhone: "+9477000000",
		BloodType:      bloodType,
		Units:          units,
		Criticality:    CriticalityHigh,
		NeededBy:       testNow.AddDate(0, 0, 2),
		HospitalName:   "Central Hospital",
		ActiveStatus:   ActiveStatusActive,
		AcceptStatus:   AcceptStatusPending,
	}
}

func TestProcessRequestGuards(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EmergencyRequest)
	}{
		{"already accepted", func(r *EmergencyRequest) { r.AcceptStatus = AcceptStatusAccepted }},
		{"already declined", func(r *EmergencyRequest) { r.AcceptStatus = AcceptStatusDeclined }},
		{"inactive", func(r *EmergencyRequest) { r.ActiveStatus = ActiveStatusInactive }},
		{"needed yesterday", func(r *EmergencyRequest) { r.NeededBy = testNow.AddDate(0, 0, -1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &mockNotifier{}
			donors := &mockDonorDir{donors: []*donor.Donor{
				{ID: uuid.New(), BloodType: "O+", ActiveStatus: true},
			}}
			stocks := &mockStockFinder{lots: []*inventory.BloodInventory{
				{HospitalID: uuid.New(), BloodType: "O+", AvailableStocks: 5, ExpirationDate: testNow.AddDate(0, 1, 0)},
			}}
			m := newTestMatcher(donors, stocks, notifier)

			req := pendingRequest("O+", 1)
			tt.mutate(req)

			sent, err := m.ProcessRequest(context.Background(), req)
			if err != nil {
				t.Fatalf("ProcessRequest: %v", err)
			}
			if sent != 0 {
				t.Errorf("sent = %d, want 0", sent)
			}
			if notifier.count() != 0 {
				t.Errorf("notifications = %d, want 0", notifier.count())
			}
		})
	}
}

func TestProcessRequestNeededTodayStillMatches(t *testing.T) {
	hospitalID := uuid.New()
	notifier := &mockNotifier{}
	stocks := &mockStockFinder{lots: []*inventory.BloodInventory{
		{HospitalID: hospitalID, BloodType: "O+", AvailableStocks: 5, ExpirationDate: testNow.AddDate(0, 1, 0)},
	}}
	m := newTestMatcher(&mockDonorDir{}, stocks, notifier)

	req := pendingRequest("O+", 1)
	// Same calendar date, earlier time of day.
	req.NeededBy = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	sent, err := m.ProcessRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("ProcessRequest: %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
}

func TestProcessRequestHospitalStockFilter(t *testing.T) {
	lowStock := uuid.New()
	enough := uuid.New()
	notifier := &mockNotifier{}
	stocks := &mockStockFinder{lots: []*inventory.BloodInventory{
		{HospitalID: lowStock, BloodType: "O+", AvailableStocks: 1, ExpirationDate: testNow.AddDate(0, 1, 0)},
		{HospitalID: enough, BloodType: "O+", AvailableStocks: 3, ExpirationDate: testNow.AddDate(0, 1, 0)},
	}}
	m := newTestMatcher(&mockDonorDir{}, stocks, notifier)

	sent, err := m.ProcessRequest(context.Background(), pendingRequest("O+", 2))
	if err != nil {
		t.Fatalf("ProcessRequest: %v", err)
	}
	if sent != 1 {
		t.Fatalf("sent = %d, want 1", sent)
	}
	if notifier.sentTo(enough) != 1 {
		t.Error("the hospital with sufficient stock was not notified")
	}
	if notifier.sentTo(lowStock) != 0 {
		t.Error("the under-stocked hospital must not be notified")
	}
}

func TestProcessRequestDonorEligibilityFilter(t *testing.T) {
	eligible := &donor.Donor{ID: uuid.New(), Name: "Nadia", BloodType: "A-", ActiveStatus: true}
	healthHold := &donor.Donor{ID: uuid.New(), BloodType: "A-", ActiveStatus: true, HealthStatus: true}
	booked := &donor.Donor{ID: uuid.New(), BloodType: "A-", ActiveStatus: true, AppointmentStatus: true}

	notifier := &mockNotifier{}
	donors := &mockDonorDir{donors: []*donor.Donor{eligible, healthHold, booked}}
	m := newTestMatcher(donors, &mockStockFinder{}, notifier)

	sent, err := m.ProcessRequest(context.Background(), pendingRequest("A-", 1))
	if err != nil {
		t.Fatalf("ProcessRequest: %v", err)
	}
	if sent != 1 {
		t.Fatalf("sent = %d, want 1", sent)
	}
	if notifier.sentTo(eligible.ID) != 1 {
		t.Error("the eligible donor was not notified")
	}
	if notifier.sentTo(healthHold.ID) != 0 || notifier.sentTo(booked.ID) != 0 {
		t.Error("held donors must not be notified")
	}
}

func TestProcessRequestRepeatResendsEverything(t *testing.T) {
	hospitalID := uuid.New()
	donorID := uuid.New()
	notifier := &mockNotifier{}
	donors := &mockDonorDir{donors: []*donor.Donor{
		{ID: donorID, BloodType: "B+", ActiveStatus: true},
	}}
	stocks := &mockStockFinder{lots: []*inventory.BloodInventory{
		{HospitalID: hospitalID, BloodType: "B+", AvailableStocks: 4, ExpirationDate: testNow.AddDate(0, 1, 0)},
	}}
	m := newTestMatcher(donors, stocks, notifier)

	req := pendingRequest("B+", 1)
	for i := 0; i < 2; i++ {
		sent, err := m.ProcessRequest(context.Background(), req)
		if err != nil {
			t.Fatalf("ProcessRequest run %d: %v", i, err)
		}
		if sent != 2 {
			t.Errorf("run %d sent = %d, want 2", i, sent)
		}
	}
	if notifier.sentTo(hospitalID) != 2 {
		t.Errorf("hospital notified %d times, want 2", notifier.sentTo(hospitalID))
	}
	if notifier.sentTo(donorID) != 2 {
		t.Errorf("donor notified %d times, want 2", notifier.sentTo(donorID))
	}
}

func TestProcessRequestFailingSendDoesNotBlockOthers(t *testing.T) {
	unreachable := &donor.Donor{ID: uuid.New(), BloodType: "O-", ActiveStatus: true}
	first := &donor.Donor{ID: uuid.New(), BloodType: "O-", ActiveStatus: true}
	second := &donor.Donor{ID: uuid.New(), BloodType: "O-", ActiveStatus: true}

	notifier := &mockNotifier{failFor: map[uuid.UUID]bool{unreachable.ID: true}}
	donors := &mockDonorDir{donors: []*donor.Donor{unreachable, first, second}}
	m := newTestMatcher(donors, &mockStockFinder{}, notifier)

	sent, err := m.ProcessRequest(context.Background(), pendingRequest("O-", 1))
	if err != nil {
		t.Fatalf("ProcessRequest: %v", err)
	}
	if sent != 2 {
		t.Errorf("sent = %d, want 2", sent)
	}
	if notifier.sentTo(first.ID) != 1 || notifier.sentTo(second.ID) != 1 {
		t.Error("reachable donors must still be notified")
	}
}

func TestProcessRequestRendersRequestDetails(t *testing.T) {
	hospitalID := uuid.New()
	notifier := &mockNotifier{}
	stocks := &mockStockFinder{
		lots: []*inventory.BloodInventory{
			{HospitalID: hospitalID, BloodType: "AB+", AvailableStocks: 6, ExpirationDate: testNow.AddDate(0, 1, 0)},
		},
		meta: map[uuid.UUID]*inventory.Candidate{
			hospitalID: {HospitalEmail: "stock@city.example", HospitalPhone: "+9411222333"},
		},
	}
	m := newTestMatcher(&mockDonorDir{}, stocks, notifier)

	req := pendingRequest("AB+", 3)
	if _, err := m.ProcessRequest(context.Background(), req); err != nil {
		t.Fatalf("ProcessRequest: %v", err)
	}
	if notifier.count() != 1 {
		t.Fatalf("notifications = %d, want 1", notifier.count())
	}
	msg := notifier.sent[0]
	if msg.Email != "stock@city.example" {
		t.Errorf("email = %q, want candidate email", msg.Email)
	}
	if msg.RecipientType != "hospital" {
		t.Errorf("recipient type = %q, want hospital", msg.RecipientType)
	}
}
