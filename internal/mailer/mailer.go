// Package mailer delivers one-time passcodes to user mailboxes.
//
// Delivery is fire-and-forget relative to the OTP record: the caller
// persists the code before sending, and a failed send does not roll the
// record back. The user simply re-requests a code.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// Sender delivers a verification code to an email address.
type Sender interface {
	SendOTP(ctx context.Context, to, code string) error
}

const otpSubject = "Verify your email - OTP"

const otpBodyFormat = `<div style="font-family: Arial, sans-serif; max-width: 480px; margin: auto; background: #ffffff; border-radius: 8px; padding: 20px;">
  <h2 style="color: #333;">Verify Your Email</h2>
  <p style="font-size: 15px;">Use the following OTP to verify your email address:</p>
  <p style="font-size: 24px; font-weight: bold; color: #4a90e2; text-align: center;">%s</p>
  <p style="font-size: 14px; color: #666;">This OTP is valid for <strong>10 minutes</strong>. Please do not share it with anyone.</p>
  <hr style="margin: 20px 0; border: none; border-top: 1px solid #eee;" />
  <p style="font-size: 12px; text-align: center; color: #999;">Thank you for using <strong>NextJob</strong>!</p>
</div>`

// SMTPSender sends OTP mail through an SMTP relay.
type SMTPSender struct {
	client *mail.Client
	from   string
}

// NewSMTPSender connects the sender to an SMTP relay with LOGIN auth over
// mandatory TLS.
func NewSMTPSender(host string, port int, username, password, from string) (*SMTPSender, error) {
	client, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(username),
		mail.WithPassword(password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("mailer: build smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: from}, nil
}

// SendOTP delivers the verification code to the given address.
func (s *SMTPSender) SendOTP(ctx context.Context, to, code string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("mailer: from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mailer: to address: %w", err)
	}
	msg.Subject(otpSubject)
	msg.SetBodyString(mail.TypeTextHTML, fmt.Sprintf(otpBodyFormat, code))

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}

// LogSender writes the OTP to the log instead of sending it. Used in
// development and in tests, where no SMTP relay is configured.
type LogSender struct {
	log *slog.Logger
}

// NewLogSender builds a LogSender on the given logger.
func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

// SendOTP logs the delivery instead of performing it.
func (s *LogSender) SendOTP(_ context.Context, to, code string) error {
	s.log.Info("otp email (not sent: mail transport unconfigured)",
		"to", to, "otp", code)
	return nil
}
