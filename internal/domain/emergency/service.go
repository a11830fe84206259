package emergency

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/lifelink/lifelink/internal/domain/blood"
	"github.com/lifelink/lifelink/internal/platform/blobstore"
	"github.com/lifelink/lifelink/internal/platform/events"
)

// Service owns emergency request persistence and state changes. Matching is
// triggered through the event bus, never called directly from here.
type Service struct {
	repo  Repository
	blobs blobstore.BlobStore
	bus   *events.Bus
	now   func() time.Time
}

func NewService(repo Repository, blobs blobstore.BlobStore, bus *events.Bus) *Service {
	return &Service{
		repo: repo,
		blobs: blobs,
		bus:  bus,
		now:  time.Now,
	}
}

// SetClock overrides the service clock.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateRequest validates and stores a new request. New requests start
// pending and inactive; a manager activates them after reviewing the
// requester's identity proof.
func (s *Service) CreateRequest(ctx context.Context, req *EmergencyRequest) error {
	if req.RequesterName == "" {
		return fmt.Errorf("requester_name is required")
	}
	if req.RequesterPhone == "" {
		return fmt.Errorf("requester_phone is required")
	}
	if req.ProofIdentityRef == "" {
		return fmt.Errorf("proof_identity_ref is required")
	}
	if !blood.Valid(req.BloodType) {
		return fmt.Errorf("invalid blood type %q", req.BloodType)
	}
	if req.Units < 1 {
		return fmt.Errorf("units must be at least 1")
	}
	if !ValidCriticality(req.Criticality) {
		return fmt.Errorf("criticality must be %s, %s, or %s", CriticalityLow, CriticalityMedium, CriticalityHigh)
	}
	if req.NeededBy.IsZero() {
		return fmt.Errorf("needed_by is required")
	}
	if dateOf(req.NeededBy).Before(dateOf(s.now())) {
		return fmt.Errorf("needed_by cannot be in the past")
	}
	if req.HospitalName == "" {
		return fmt.Errorf("hospital_name is required")
	}

	req.ActiveStatus = ActiveStatusInactive
	req.AcceptStatus = AcceptStatusPending
	req.DeclineReason = ""
	req.AcceptedBy = nil

	if err := s.repo.Create(ctx, req); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.Event{Type: events.TypeEmergencyRequestCreated, ResourceID: req.ID})
	return nil
}

func (s *Service) GetRequest(ctx context.Context, id uuid.UUID) (*EmergencyRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListRequests(ctx context.Context, limit, offset int) ([]*EmergencyRequest, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) SearchRequests(ctx context.Context, params map[string]string, limit, offset int) ([]*EmergencyRequest, int, error) {
	return s.repo.Search(ctx, params, limit, offset)
}

// UpdateRequest replaces the editable fields of a request. Status fields
// move only through SetActive, Accept, and Decline.
func (s *Service) UpdateRequest(ctx context.Context, req *EmergencyRequest) error {
	current, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if req.RequesterName == "" {
		req.RequesterName = current.RequesterName
	}
	if req.RequesterPhone == "" {
		req.RequesterPhone = current.RequesterPhone
	}
	if req.ProofIdentityRef == "" {
		req.ProofIdentityRef = current.ProofIdentityRef
	}
	if req.BloodType == "" {
		req.BloodType = current.BloodType
	}
	if req.Units == 0 {
		req.Units = current.Units
	}
	if req.Criticality == "" {
		req.Criticality = current.Criticality
	}
	if req.NeededBy.IsZero() {
		req.NeededBy = current.NeededBy
	}
	if req.HospitalName == "" {
		req.HospitalName = current.HospitalName
	}
	if req.HospitalAddress == "" {
		req.HospitalAddress = current.HospitalAddress
	}

	if !blood.Valid(req.BloodType) {
		return fmt.Errorf("invalid blood type %q", req.BloodType)
	}
	if req.Units < 1 {
		return fmt.Errorf("units must be at least 1")
	}
	if !ValidCriticality(req.Criticality) {
		return fmt.Errorf("criticality must be %s, %s, or %s", CriticalityLow, CriticalityMedium, CriticalityHigh)
	}
	return s.repo.Update(ctx, req)
}

func (s *Service) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// SetActive toggles the manager review gate on a request.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, active)
}

// Accept marks the request as taken by a hospital or a donor. Concurrent
// acceptances are resolved last-write-wins.
func (s *Service) Accept(ctx context.Context, id uuid.UUID, by AcceptedBy) error {
	if by.Kind != AcceptorHospital && by.Kind != AcceptorDonor {
		return fmt.Errorf("kind must be %s or %s", AcceptorHospital, AcceptorDonor)
	}
	if by.ID == uuid.Nil {
		return fmt.Errorf("acceptor id is required")
	}
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req.AcceptStatus == AcceptStatusDeclined {
		return fmt.Errorf("request has been declined")
	}
	return s.repo.SetAccepted(ctx, id, by)
}

// Decline marks the request as declined with a reason.
func (s *Service) Decline(ctx context.Context, id uuid.UUID, reason string) error {
	if reason == "" {
		return fmt.Errorf("reason is required")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SetDeclined(ctx, id, reason)
}

// AttachProof stores an identity proof document and links it to the request.
func (s *Service) AttachProof(ctx context.Context, id uuid.UUID, fileName, contentType string, content io.Reader) (*blobstore.BlobMetadata, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	meta, err := s.blobs.Upload(ctx, blobstore.BlobMetadata{
		FileName:    fileName,
		ContentType: contentType,
		Category:    "id-document",
		CreatedBy:   req.RequesterName,
	}, content)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetProofDocument(ctx, id, meta.ID); err != nil {
		return nil, err
	}
	return meta, nil
}
