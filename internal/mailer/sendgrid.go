package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

type SendGridMailer struct {
	client      *sendgrid.Client
	fromAddress string
	fromName    string
	sandbox     bool
	logger      *logrus.Logger
}

// NewSendGridMailer builds a mailer on the v3 send API. In sandbox mode
// SendGrid validates the message without delivering it.
func NewSendGridMailer(apiKey, fromAddress, fromName string, sandbox bool, logger *logrus.Logger) *SendGridMailer {
	return &SendGridMailer{
		client:      sendgrid.NewSendClient(apiKey),
		fromAddress: fromAddress,
		fromName:    fromName,
		sandbox:     sandbox,
		logger:      logger,
	}
}

func (m *SendGridMailer) SendOTP(ctx context.Context, to, code string, validFor time.Duration) error {
	body, err := RenderOTP(code, validFor)
	if err != nil {
		return err
	}

	from := mail.NewEmail(m.fromName, m.fromAddress)
	recipient := mail.NewEmail("", to)
	plain := fmt.Sprintf("Kode OTP Anda: %s", code)
	message := mail.NewSingleEmail(from, OTPSubject, recipient, plain, body)

	if m.sandbox {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		m.logger.WithError(err).WithField("email", to).Error("Failed to send OTP email via SendGrid")
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		m.logger.WithFields(logrus.Fields{
			"email":       to,
			"status_code": resp.StatusCode,
			"body":        resp.Body,
		}).Error("SendGrid rejected OTP email")
		return fmt.Errorf("failed to send email: sendgrid status %d", resp.StatusCode)
	}

	m.logger.WithField("email", to).Info("OTP email sent")
	return nil
}
