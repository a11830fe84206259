package emergency

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lifelink/lifelink/internal/domain/donor"
	"github.com/lifelink/lifelink/internal/domain/inventory"
	"github.com/lifelink/lifelink/internal/platform/notification"
)

// DonorDirectory is the slice of the donor repository the matcher needs.
type DonorDirectory interface {
	ListEligibleByBloodType(ctx context.Context, bloodType string) ([]*donor.Donor, error)
}

// StockFinder is the slice of the inventory repository the matcher needs.
type StockFinder interface {
	FindCandidates(ctx context.Context, bloodType string, units int, now time.Time) ([]*inventory.Candidate, error)
}

// Notifier delivers one message. Satisfied by notification.Gateway.
type Notifier interface {
	Send(ctx context.Context, msg notification.Message) error
}

// defaultWorkers bounds the concurrent sends per request so a large match
// set cannot overwhelm the gateway.
const defaultWorkers = 8

// Matcher finds hospitals and donors able to cover an emergency request and
// notifies each of them. It reads request, donor, and inventory state but
// never writes it, and it keeps no memory of past runs: processing the same
// request twice sends everything twice.
type Matcher struct {
	donors    DonorDirectory
	stocks    StockFinder
	notifier  Notifier
	templates *notification.TemplateEngine
	logger    zerolog.Logger
	now       func() time.Time
	workers   int
}

func NewMatcher(donors DonorDirectory, stocks StockFinder, notifier Notifier, templates *notification.TemplateEngine, logger zerolog.Logger) *Matcher {
	return &Matcher{
		donors:    donors,
		stocks:    stocks,
		notifier:  notifier,
		templates: templates,
		logger:    logger,
		now:       time.Now,
		workers:   defaultWorkers,
	}
}

// SetClock overrides the matcher clock.
func (m *Matcher) SetClock(now func() time.Time) {
	m.now = now
}

// SetWorkers overrides the fan-out concurrency bound.
func (m *Matcher) SetWorkers(n int) {
	if n > 0 {
		m.workers = n
	}
}

// ProcessRequest matches the request against hospital stock and eligible
// donors and sends one notification per match. It returns the number of
// successful sends. Per-recipient failures are logged and swallowed; only
// a failure to load candidates is returned as an error.
func (m *Matcher) ProcessRequest(ctx context.Context, req *EmergencyRequest) (int, error) {
	if !req.Matchable(m.now()) {
		return 0, nil
	}

	hospitals, err := m.stocks.FindCandidates(ctx, req.BloodType, req.Units, m.now())
	if err != nil {
		return 0, err
	}
	donors, err := m.donors.ListEligibleByBloodType(ctx, req.BloodType)
	if err != nil {
		return 0, err
	}

	msgs := make([]notification.Message, 0, len(hospitals)+len(donors))
	for _, h := range hospitals {
		msg, err := m.hospitalMessage(req, h)
		if err != nil {
			m.logger.Error().Err(err).Str("hospital_id", h.HospitalID.String()).Msg("rendering hospital alert failed")
			continue
		}
		msgs = append(msgs, msg)
	}
	for _, d := range donors {
		msg, err := m.donorMessage(req, d)
		if err != nil {
			m.logger.Error().Err(err).Str("donor_id", d.ID.String()).Msg("rendering donor appeal failed")
			continue
		}
		msgs = append(msgs, msg)
	}

	var sent int64
	var wg sync.WaitGroup
	sem := make(chan struct{}, m.workers)
	for _, msg := range msgs {
		wg.Add(1)
		sem <- struct{}{}
		go func(msg notification.Message) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := m.notifier.Send(ctx, msg); err != nil {
				m.logger.Warn().
					Err(err).
					Str("request_id", req.ID.String()).
					Str("recipient_id", msg.RecipientID.String()).
					Str("recipient_type", msg.RecipientType).
					Msg("emergency notification failed")
				return
			}
			atomic.AddInt64(&sent, 1)
		}(msg)
	}
	wg.Wait()

	m.logger.Info().
		Str("request_id", req.ID.String()).
		Str("blood_type", req.BloodType).
		Int("hospitals", len(hospitals)).
		Int("donors", len(donors)).
		Int64("sent", sent).
		Msg("emergency request processed")
	return int(sent), nil
}

func (m *Matcher) hospitalMessage(req *EmergencyRequest, h *inventory.Candidate) (notification.Message, error) {
	subject, body, err := m.templates.Render("emergency-hospital-alert", map[string]string{
		"blood_type":    req.BloodType,
		"amount":        strconv.Itoa(req.Units),
		"hospital_name": req.HospitalName,
		"needed_by":     dateOf(req.NeededBy).Format("2006-01-02"),
		"criticality":   req.Criticality,
		"stock":         strconv.Itoa(h.Stock),
	})
	if err != nil {
		return notification.Message{}, err
	}
	return notification.Message{
		RecipientID:   h.HospitalID,
		RecipientType: "hospital",
		Email:         h.HospitalEmail,
		Phone:         h.HospitalPhone,
		Subject:       subject,
		Body:          body,
		Channels:      []notification.Channel{notification.ChannelEmail, notification.ChannelSMS},
	}, nil
}

func (m *Matcher) donorMessage(req *EmergencyRequest, d *donor.Donor) (notification.Message, error) {
	subject, body, err := m.templates.Render("emergency-donor-appeal", map[string]string{
		"blood_type":    req.BloodType,
		"donor_name":    d.Name,
		"hospital_name": req.HospitalName,
		"needed_by":     dateOf(req.NeededBy).Format("2006-01-02"),
	})
	if err != nil {
		return notification.Message{}, err
	}
	return notification.Message{
		RecipientID:   d.ID,
		RecipientType: "donor",
		Email:         d.Email,
		Phone:         d.Phone,
		Subject:       subject,
		Body:          body,
		Channels:      []notification.Channel{notification.ChannelEmail, notification.ChannelSMS},
	}, nil
}
