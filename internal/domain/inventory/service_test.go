package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	lots map[uuid.UUID]*BloodInventory
}

func newMockRepo() *mockRepo {
	return &mockRepo{lots: make(map[uuid.UUID]*BloodInventory)}
}

func (m *mockRepo) Create(_ context.Context, inv *BloodInventory) error {
	inv.ID = uuid.New()
	cp := *inv
	m.lots[inv.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*BloodInventory, error) {
	inv, ok := m.lots[id]
	if !ok {
		return nil, fmt.Errorf("no rows")
	}
	cp := *inv
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, inv *BloodInventory) error {
	if _, ok := m.lots[inv.ID]; !ok {
		return fmt.Errorf("no rows")
	}
	cp := *inv
	m.lots[inv.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.lots, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*BloodInventory, int, error) {
	var out []*BloodInventory
	for _, inv := range m.lots {
		cp := *inv
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockRepo) ListByHospital(_ context.Context, hospitalID uuid.UUID, limit, offset int) ([]*BloodInventory, int, error) {
	var out []*BloodInventory
	for _, inv := range m.lots {
		if inv.HospitalID == hospitalID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) FindCandidates(_ context.Context, bloodType string, units int, now time.Time) ([]*Candidate, error) {
	byHospital := make(map[uuid.UUID]*Candidate)
	for _, inv := range m.lots {
		if inv.BloodType != bloodType || inv.AvailableStocks < units {
			continue
		}
		if inv.Freshness == FreshnessExpired || !inv.ExpirationDate.After(now) {
			continue
		}
		c, ok := byHospital[inv.HospitalID]
		if !ok {
			c = &Candidate{HospitalID: inv.HospitalID, BloodType: bloodType}
			byHospital[inv.HospitalID] = c
		}
		c.Stock += inv.AvailableStocks
	}
	var out []*Candidate
	for _, c := range byHospital {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockRepo) RefreshFreshness(_ context.Context, now time.Time) (int, error) {
	changed := 0
	for _, inv := range m.lots {
		f := ComputeFreshness(inv.ExpirationDate, now)
		if f != inv.Freshness {
			inv.Freshness = f
			changed++
		}
	}
	return changed, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestComputeFreshness(t *testing.T) {
	tests := []struct {
		name       string
		expiration time.Time
		want       string
	}{
		{"already expired", testNow.AddDate(0, 0, -1), FreshnessExpired},
		{"expires this instant", testNow, FreshnessExpired},
		{"expires tomorrow", testNow.AddDate(0, 0, 1), FreshnessSoon},
		{"expires in a week", testNow.Add(7 * 24 * time.Hour), FreshnessSoon},
		{"expires next month", testNow.AddDate(0, 1, 0), FreshnessNotExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeFreshness(tt.expiration, testNow); got != tt.want {
				t.Errorf("ComputeFreshness() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateLotSetsFreshness(t *testing.T) {
	svc := NewService(newMockRepo())
	svc.SetClock(fixedClock(testNow))

	inv := &BloodInventory{
		HospitalID:      uuid.New(),
		BloodType:       "O+",
		AvailableStocks: 5,
		ExpirationDate:  testNow.AddDate(0, 1, 0),
	}
	if err := svc.CreateLot(context.Background(), inv); err != nil {
		t.Fatalf("CreateLot: %v", err)
	}
	if inv.Freshness != FreshnessNotExpired {
		t.Errorf("freshness = %q, want not_expired", inv.Freshness)
	}
}

func TestCreateLotValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	svc.SetClock(fixedClock(testNow))

	tests := []struct {
		name string
		lot  BloodInventory
	}{
		{"missing hospital", BloodInventory{BloodType: "O+", AvailableStocks: 1, ExpirationDate: testNow.AddDate(0, 1, 0)}},
		{"bad blood type", BloodInventory{HospitalID: uuid.New(), BloodType: "X", AvailableStocks: 1, ExpirationDate: testNow.AddDate(0, 1, 0)}},
		{"negative stocks", BloodInventory{HospitalID: uuid.New(), BloodType: "O+", AvailableStocks: -1, ExpirationDate: testNow.AddDate(0, 1, 0)}},
		{"missing expiration", BloodInventory{HospitalID: uuid.New(), BloodType: "O+", AvailableStocks: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lot := tt.lot
			if err := svc.CreateLot(context.Background(), &lot); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestFindCandidatesFiltersByStockAndExpiry(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	svc.SetClock(fixedClock(testNow))

	lowStock := &BloodInventory{HospitalID: uuid.New(), BloodType: "O+", AvailableStocks: 1, ExpirationDate: testNow.AddDate(0, 1, 0)}
	enough := &BloodInventory{HospitalID: uuid.New(), BloodType: "O+", AvailableStocks: 3, ExpirationDate: testNow.AddDate(0, 1, 0)}
	expired := &BloodInventory{HospitalID: uuid.New(), BloodType: "O+", AvailableStocks: 9, ExpirationDate: testNow.AddDate(0, 0, -2)}
	otherType := &BloodInventory{HospitalID: uuid.New(), BloodType: "A-", AvailableStocks: 9, ExpirationDate: testNow.AddDate(0, 1, 0)}
	for _, lot := range []*BloodInventory{lowStock, enough, expired, otherType} {
		if err := svc.CreateLot(context.Background(), lot); err != nil {
			t.Fatal(err)
		}
	}

	cands, err := svc.FindCandidates(context.Background(), "O+", 2)
	if err != nil {
		t.Fatalf("FindCandidates: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("candidates = %d, want 1", len(cands))
	}
	if cands[0].HospitalID != enough.HospitalID {
		t.Errorf("wrong hospital matched")
	}
	if cands[0].Stock != 3 {
		t.Errorf("stock = %d, want 3", cands[0].Stock)
	}
}

func TestFindCandidatesValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.FindCandidates(context.Background(), "Z+", 1); err == nil {
		t.Error("expected error for bad blood type")
	}
	if _, err := svc.FindCandidates(context.Background(), "O+", 0); err == nil {
		t.Error("expected error for zero units")
	}
}

func TestRefreshFreshness(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	svc.SetClock(fixedClock(testNow))

	lot := &BloodInventory{HospitalID: uuid.New(), BloodType: "B+", AvailableStocks: 2, ExpirationDate: testNow.AddDate(0, 0, 3)}
	if err := svc.CreateLot(context.Background(), lot); err != nil {
		t.Fatal(err)
	}

	// Move the clock past the expiration date.
	svc.SetClock(fixedClock(testNow.AddDate(0, 0, 5)))
	changed, err := svc.RefreshFreshness(context.Background())
	if err != nil {
		t.Fatalf("RefreshFreshness: %v", err)
	}
	if changed != 1 {
		t.Errorf("changed = %d, want 1", changed)
	}
	got, _ := svc.GetLot(context.Background(), lot.ID)
	if got.Freshness != FreshnessExpired {
		t.Errorf("freshness = %q, want expired", got.Freshness)
	}
}
