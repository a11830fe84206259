package emergency

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lifelink/lifelink/internal/domain/donor"
	"github.com/lifelink/lifelink/internal/platform/notification"
)

func newTestRescanner(repo *mockRepo, notifier *mockNotifier, donors *mockDonorDir) *Rescanner {
	matcher := newTestMatcher(donors, &mockStockFinder{}, notifier)
	r := NewRescanner(repo, matcher, time.Minute, zerolog.Nop())
	r.SetClock(func() time.Time { return testNow })
	return r
}

func seedRequest(repo *mockRepo, mutate func(*EmergencyRequest)) *EmergencyRequest {
	req := pendingRequest("O+", 1)
	if mutate != nil {
		mutate(req)
	}
	cp := *req
	repo.reqs[req.ID] = &cp
	return req
}

func TestTickExpiresOverdueRequests(t *testing.T) {
	repo := newMockRepo()
	notifier := &mockNotifier{}
	rescanner := newTestRescanner(repo, notifier, &mockDonorDir{donors: []*donor.Donor{
		{ID: uuid.New(), BloodType: "O+", ActiveStatus: true},
	}})

	overdue := seedRequest(repo, func(r *EmergencyRequest) { r.NeededBy = testNow.AddDate(0, 0, -1) })
	current := seedRequest(repo, nil)

	processed, err := rescanner.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if processed != 1 {
		t.Errorf("processed = %d, want 1", processed)
	}

	got := repo.reqs[overdue.ID]
	if got.AcceptStatus != AcceptStatusDeclined || got.ActiveStatus != ActiveStatusInactive {
		t.Errorf("overdue request = %s/%s, want declined/inactive", got.AcceptStatus, got.ActiveStatus)
	}
	if notifier.count() != 1 {
		t.Errorf("notifications = %d, want 1 (current request only)", notifier.count())
	}
	if repo.reqs[current.ID].AcceptStatus != AcceptStatusPending {
		t.Error("current request must stay pending")
	}
}

func TestTickExpirySweepIsIdempotent(t *testing.T) {
	repo := newMockRepo()
	rescanner := newTestRescanner(repo, &mockNotifier{}, &mockDonorDir{})

	seedRequest(repo, func(r *EmergencyRequest) { r.NeededBy = testNow.AddDate(0, 0, -2) })

	if _, err := rescanner.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}
	// A second sweep finds nothing left to change and must not fail.
	if _, err := rescanner.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}
	if repo.expireCalls != 2 {
		t.Errorf("expire calls = %d, want 2", repo.expireCalls)
	}
}

func TestTickAbortsOnExpireFailure(t *testing.T) {
	repo := newMockRepo()
	repo.failExpire = fmt.Errorf("connection refused")
	notifier := &mockNotifier{}
	rescanner := newTestRescanner(repo, notifier, &mockDonorDir{})

	seedRequest(repo, nil)

	if _, err := rescanner.Tick(context.Background()); err == nil {
		t.Fatal("expected tick to abort on store failure")
	}
	if notifier.count() != 0 {
		t.Error("no notifications may be sent on an aborted tick")
	}
}

func TestTickAbortsOnListFailure(t *testing.T) {
	repo := newMockRepo()
	repo.failList = fmt.Errorf("connection refused")
	rescanner := newTestRescanner(repo, &mockNotifier{}, &mockDonorDir{})

	if _, err := rescanner.Tick(context.Background()); err == nil {
		t.Fatal("expected tick to abort on store failure")
	}
}

func TestTickSkipsNonMatchableRequests(t *testing.T) {
	repo := newMockRepo()
	notifier := &mockNotifier{}
	rescanner := newTestRescanner(repo, notifier, &mockDonorDir{donors: []*donor.Donor{
		{ID: uuid.New(), BloodType: "O+", ActiveStatus: true},
	}})

	seedRequest(repo, func(r *EmergencyRequest) { r.AcceptStatus = AcceptStatusAccepted })
	seedRequest(repo, func(r *EmergencyRequest) { r.ActiveStatus = ActiveStatusInactive })

	processed, err := rescanner.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if processed != 0 {
		t.Errorf("processed = %d, want 0", processed)
	}
	if notifier.count() != 0 {
		t.Errorf("notifications = %d, want 0", notifier.count())
	}
}

func TestStartStop(t *testing.T) {
	repo := newMockRepo()
	rescanner := newTestRescanner(repo, &mockNotifier{}, &mockDonorDir{})

	rescanner.Start()
	rescanner.Start() // second Start is a no-op
	rescanner.Stop()
	rescanner.Stop() // second Stop is a no-op
}

func TestGatewayFailureSurfacesAsSendFailure(t *testing.T) {
	// Wire a real gateway with a failing email sender: the matcher counts
	// zero successful sends but does not error.
	email := &notification.MockEmailSender{ShouldFail: true}
	gateway := notification.NewGateway(email, nil, nil, time.Second, zerolog.Nop())

	donors := &mockDonorDir{donors: []*donor.Donor{
		{ID: uuid.New(), Name: "Nadia", Email: "nadia@example.com", BloodType: "O+", ActiveStatus: true},
	}}
	m := NewMatcher(donors, &mockStockFinder{}, gateway, notification.NewTemplateEngine(), zerolog.Nop())
	m.SetClock(func() time.Time { return testNow })

	sent, err := m.ProcessRequest(context.Background(), pendingRequest("O+", 1))
	if err != nil {
		t.Fatalf("ProcessRequest: %v", err)
	}
	if sent != 0 {
		t.Errorf("sent = %d, want 0", sent)
	}
}
