package mailer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// LogMailer writes the code to the logger instead of sending it. For local
// development only.
type LogMailer struct {
	logger *logrus.Logger
}

func NewLogMailer(logger *logrus.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendOTP(_ context.Context, to, code string, validFor time.Duration) error {
	m.logger.WithFields(logrus.Fields{
		"email":     to,
		"otp":       code,
		"valid_for": validFor.String(),
	}).Info("OTP generated (logged for development)")
	return nil
}
