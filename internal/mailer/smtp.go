package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// SMTPMailer sends through an authenticated relay. Port 465 uses implicit TLS.
type SMTPMailer struct {
	dialer      *gomail.Dialer
	fromAddress string
	fromName    string
	logger      *logrus.Logger
}

func NewSMTPMailer(host string, port int, username, password, fromAddress, fromName string, logger *logrus.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:      gomail.NewDialer(host, port, username, password),
		fromAddress: fromAddress,
		fromName:    fromName,
		logger:      logger,
	}
}

func (m *SMTPMailer) SendOTP(ctx context.Context, to, code string, validFor time.Duration) error {
	body, err := RenderOTP(code, validFor)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.fromAddress, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", OTPSubject)
	msg.SetBody("text/html", body)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	// gomail has no context support; stop waiting once ctx is done.
	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			m.logger.WithError(err).WithField("email", to).Error("Failed to send OTP email via SMTP")
			return fmt.Errorf("failed to send email: %w", err)
		}
	case <-ctx.Done():
		return fmt.Errorf("failed to send email: %w", ctx.Err())
	}

	m.logger.WithField("email", to).Info("OTP email sent")
	return nil
}
