package notification

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// SMTPSender delivers email through a plain SMTP relay.
type SMTPSender struct {
	Addr string // host:port
	From string
}

func (s *SMTPSender) SendEmail(_ context.Context, to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.From, to, subject, body)
	if err := smtp.SendMail(s.Addr, nil, s.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them. Used in
// development when no SMS or WhatsApp provider is configured.
type LogSender struct {
	Logger zerolog.Logger
}

func (l *LogSender) SendEmail(_ context.Context, to, subject, body string) error {
	l.Logger.Info().Str("to", to).Str("subject", subject).Msg("email (log only)")
	return nil
}

func (l *LogSender) SendSMS(_ context.Context, to, body string) error {
	l.Logger.Info().Str("to", to).Str("body", body).Msg("sms (log only)")
	return nil
}

func (l *LogSender) SendWhatsApp(_ context.Context, to, body string) error {
	l.Logger.Info().Str("to", to).Str("body", body).Msg("whatsapp (log only)")
	return nil
}
