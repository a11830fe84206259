// Package notification delivers messages to donors and hospitals over
// email, SMS, and WhatsApp, with template rendering and test doubles.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Channel identifies a delivery channel.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// Message is a single outbound notification. Delivery is attempted on every
// listed channel; the message counts as delivered when at least one succeeds.
type Message struct {
	RecipientID   uuid.UUID
	RecipientType string // "donor" or "hospital"
	Email         string
	Phone         string
	Subject       string
	Body          string
	Channels      []Channel
}

// EmailSender sends an email message.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender sends an SMS message.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// WhatsAppSender sends a WhatsApp message.
type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, to, body string) error
}

// Gateway fans a Message out to its channels. Senders left nil make their
// channel unavailable; sending on an unavailable channel is an error for
// that channel only.
type Gateway struct {
	email    EmailSender
	sms      SMSSender
	whatsapp WhatsAppSender
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewGateway(email EmailSender, sms SMSSender, whatsapp WhatsAppSender, timeout time.Duration, logger zerolog.Logger) *Gateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Gateway{
		email:    email,
		sms:      sms,
		whatsapp: whatsapp,
		timeout:  timeout,
		logger:   logger,
	}
}

// Send attempts delivery on every channel of the message. It returns nil when
// at least one channel succeeds and an error when all of them fail.
func (g *Gateway) Send(ctx context.Context, msg Message) error {
	if len(msg.Channels) == 0 {
		return fmt.Errorf("message has no channels")
	}

	var delivered int
	var lastErr error
	for _, ch := range msg.Channels {
		err := g.sendOne(ctx, ch, msg)
		if err != nil {
			lastErr = err
			g.logger.Warn().
				Err(err).
				Str("channel", string(ch)).
				Str("recipient_id", msg.RecipientID.String()).
				Str("recipient_type", msg.RecipientType).
				Msg("channel delivery failed")
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return fmt.Errorf("all channels failed for recipient %s: %w", msg.RecipientID, lastErr)
	}
	return nil
}

func (g *Gateway) sendOne(ctx context.Context, ch Channel, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	switch ch {
	case ChannelEmail:
		if g.email == nil {
			return fmt.Errorf("email sender not configured")
		}
		if msg.Email == "" {
			return fmt.Errorf("recipient has no email address")
		}
		return g.email.SendEmail(ctx, msg.Email, msg.Subject, msg.Body)
	case ChannelSMS:
		if g.sms == nil {
			return fmt.Errorf("sms sender not configured")
		}
		if msg.Phone == "" {
			return fmt.Errorf("recipient has no phone number")
		}
		return g.sms.SendSMS(ctx, msg.Phone, msg.Body)
	case ChannelWhatsApp:
		if g.whatsapp == nil {
			return fmt.Errorf("whatsapp sender not configured")
		}
		if msg.Phone == "" {
			return fmt.Errorf("recipient has no phone number")
		}
		return g.whatsapp.SendWhatsApp(ctx, msg.Phone, msg.Body)
	default:
		return fmt.Errorf("unknown channel %q", ch)
	}
}
